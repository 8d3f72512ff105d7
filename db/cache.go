package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CacheStore keeps rendered feeds in the cache_entries table so they are
// shared between processes. Expired rows are ignored and removed by Tidy.
type CacheStore struct {
	db  *DB
	now func() time.Time
}

func NewCacheStore(db *DB) *CacheStore {
	return &CacheStore{db: db, now: time.Now}
}

func (c *CacheStore) Has(ctx context.Context, key string) (bool, error) {
	sb := c.db.flavor.NewSelectBuilder()
	sb.Select("1").From("cache_entries").Where(
		sb.Equal("key", key),
		sb.GreaterThan("expires_at", c.now().Unix()),
	)
	query, args := sb.Build()

	var one int
	err := c.db.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query error: %w", err)
	}
	return true, nil
}

func (c *CacheStore) Get(ctx context.Context, key string) (string, bool, error) {
	sb := c.db.flavor.NewSelectBuilder()
	sb.Select("value").From("cache_entries").Where(
		sb.Equal("key", key),
		sb.GreaterThan("expires_at", c.now().Unix()),
	)
	query, args := sb.Build()

	var value string
	err := c.db.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query error: %w", err)
	}
	return value, true, nil
}

// Put stores value until now+ttl, replacing any previous entry. Expiry has
// second resolution and is rounded up so short TTLs do not expire immediately.
func (c *CacheStore) Put(ctx context.Context, key string, value string, ttl time.Duration) error {
	expiresAt := c.now().Add(ttl)
	if expiresAt.Truncate(time.Second) != expiresAt {
		expiresAt = expiresAt.Truncate(time.Second).Add(time.Second)
	}

	ib := c.db.flavor.NewInsertBuilder()
	ib.InsertInto("cache_entries").
		Cols("key", "value", "expires_at").
		Values(key, value, expiresAt.Unix())
	ib.SQL("ON CONFLICT (key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at")

	query, args := ib.Build()
	if _, err := c.db.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert error: %w", err)
	}
	return nil
}
