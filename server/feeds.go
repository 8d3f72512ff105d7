package server

import (
	"context"
	"fmt"
	"time"

	"syndicate/config"
	"syndicate/db"
	"syndicate/feeds"
	"syndicate/models"
)

// ItemStore is where feed items are read from and written to
type ItemStore interface {
	AddItem(ctx context.Context, item models.Item) (int64, error)
	ListItems(ctx context.Context, q db.ItemQuery) ([]models.Item, error)
}

// LoadFeed creates a builder for a configured feed and adds its stored items,
// newest first. Stored dates are the absolute form written by
// NormalizePublished. An item with an unparseable date fails the whole feed.
func LoadFeed(ctx context.Context, cfg *config.Config, feed config.FeedConfig, store ItemStore, author string, opts ...feeds.Option) (*feeds.Builder, error) {
	b, err := feeds.FromConfig(cfg, feed, opts...)
	if err != nil {
		return nil, err
	}

	items, err := store.ListItems(ctx, db.ItemQuery{
		FeedId: feed.Id,
		Author: author,
		Limit:  feed.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("could not load items for feed %s: %w", feed.Id, err)
	}

	for _, item := range items {
		if err := b.Add(item.Title, item.Author, item.Link, feeds.FreeText(item.Published), item.Description, item.Content); err != nil {
			return nil, fmt.Errorf("feed %s, item %d: %w", feed.Id, item.Id, err)
		}
	}

	return b, nil
}

// NormalizePublished interprets a publication date the way the feed's
// date_format says and returns the ISO-8601 form items are stored with.
// Relative phrases like "now" or "yesterday" are fixed against now here,
// once, so the stored date does not move on later renders.
func NormalizePublished(feed config.FeedConfig, published string, loc *time.Location, now time.Time) (string, error) {
	dateFormat, err := feeds.ParseDateFormat(feed.DateFormat)
	if err != nil {
		return "", fmt.Errorf("feed %s: %w", feed.Id, err)
	}
	return feeds.NormalizeDate(feeds.Raw(published), dateFormat, loc, now)
}

// ParseFormat maps a path segment to a feed format. The empty string is atom.
func ParseFormat(s string) (feeds.Format, bool) {
	switch feeds.Format(s) {
	case "", feeds.FormatAtom:
		return feeds.FormatAtom, true
	case feeds.FormatRSS:
		return feeds.FormatRSS, true
	}
	return "", false
}

// cacheKey extends the configured key with the author filter so filtered
// feeds are cached separately
func cacheKey(feed config.FeedConfig, format feeds.Format, author string) string {
	key := feeds.CacheKey(feed, format)
	if author != "" {
		key += "?author=" + author
	}
	return key
}
