package db

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Tidy removes expired cache entries and, when retention is positive, items
// stored longer ago than retention.
func (db *DB) Tidy(ctx context.Context, retention time.Duration) error {
	now := time.Now()

	deleteCache := db.flavor.NewDeleteBuilder()
	deleteCache.DeleteFrom("cache_entries").Where(deleteCache.LessEqualThan("expires_at", now.Unix()))
	sql, args := deleteCache.Build()

	res, err := db.db.ExecContext(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete error: %w", err)
	}
	expired, _ := res.RowsAffected()

	var old int64
	if retention > 0 {
		deleteItems := db.flavor.NewDeleteBuilder()
		deleteItems.DeleteFrom("items").Where(deleteItems.LessThan("created_at", now.Add(-retention).Unix()))
		sql, args = deleteItems.Build()

		res, err := db.db.ExecContext(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("delete error: %w", err)
		}
		old, _ = res.RowsAffected()
	}

	log.WithFields(log.Fields{
		"expiredCacheEntries": expired,
		"oldItems":            old,
		"retention":           retention,
	}).Info("Tidied database")

	return nil
}
