// Package cache provides an in-process store for rendered feeds
package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// Memory is a size-bounded LRU cache where every entry carries its own TTL.
// It is safe for concurrent use.
type Memory struct {
	entries *lru.Cache[string, entry]
	now     func() time.Time
}

// Option configures a Memory cache
type Option func(*Memory)

// WithClock overrides the time source used for expiry
func WithClock(now func() time.Time) Option {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory creates a cache holding at most size entries
func NewMemory(size int, opts ...Option) (*Memory, error) {
	entries, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("could not create memory cache: %w", err)
	}

	m := &Memory{entries: entries, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Memory) Has(ctx context.Context, key string) (bool, error) {
	e, ok := m.entries.Peek(key)
	return ok && m.now().Before(e.expiresAt), nil
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	e, ok := m.entries.Get(key)
	if !ok {
		return "", false, nil
	}
	if !m.now().Before(e.expiresAt) {
		m.entries.Remove(key)
		return "", false, nil
	}
	return e.value, true, nil
}

// Put stores value for ttl. A non-positive ttl removes the key.
func (m *Memory) Put(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		m.entries.Remove(key)
		return nil
	}
	m.entries.Add(key, entry{value: value, expiresAt: m.now().Add(ttl)})
	return nil
}
