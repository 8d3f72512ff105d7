package db

import (
	"context"
	"fmt"
	"time"

	"syndicate/models"

	log "github.com/sirupsen/logrus"
)

// ItemQuery selects stored items of one feed
type ItemQuery struct {
	FeedId string
	Author string
	Since  int64
	Limit  int
}

func (q ItemQuery) builder() *ItemQueryBuilder {
	b := NewItemQueryBuilder()
	b.AddFilter(&FeedFilter{FeedId: q.FeedId})
	b.AddFilter(&AuthorFilter{Author: q.Author})
	b.AddFilter(&SinceFilter{CreatedAt: q.Since})
	return b
}

// AddItem stores an item and returns its id. CreatedAt defaults to now.
func (db *DB) AddItem(ctx context.Context, item models.Item) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().Unix()
	}

	log.WithFields(log.Fields{
		"feed":      item.FeedId,
		"title":     item.Title,
		"published": item.Published,
	}).Info("Adding item")

	ib := db.flavor.NewInsertBuilder()
	ib.InsertInto("items").
		Cols("feed_id", "title", "author", "link", "published", "description", "content", "created_at").
		Values(item.FeedId, item.Title, item.Author, item.Link, item.Published, item.Description, item.Content, item.CreatedAt)
	ib.SQL("RETURNING id")

	sql, args := ib.Build()

	var id int64
	if err := db.db.QueryRowContext(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert error: %w", err)
	}

	return id, nil
}

// ListItems returns the items matching q, newest first
func (db *DB) ListItems(ctx context.Context, q ItemQuery) ([]models.Item, error) {
	sql, args := q.builder().Build(db.flavor, q.Limit)

	log.WithFields(log.Fields{
		"sql":  sql,
		"args": args,
	}).Debug("Generated SQL query")

	rows, err := db.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(
			&item.Id,
			&item.FeedId,
			&item.Title,
			&item.Author,
			&item.Link,
			&item.Published,
			&item.Description,
			&item.Content,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	return items, nil
}
