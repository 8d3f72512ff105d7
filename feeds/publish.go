package feeds

import (
	"fmt"

	"syndicate/config"
)

// FromConfig creates a builder for a configured feed. The application section
// of cfg provides the render-time language and link defaults.
func FromConfig(cfg *config.Config, feed config.FeedConfig, opts ...Option) (*Builder, error) {
	dateFormat, err := ParseDateFormat(feed.DateFormat)
	if err != nil {
		return nil, fmt.Errorf("feed %s: %w", feed.Id, err)
	}

	b := New(append([]Option{WithConfig(cfg)}, opts...)...)

	if feed.Title != "" {
		b.Channel.Title = feed.Title
	}
	if feed.Description != "" {
		b.Channel.Description = feed.Description
	}
	b.Channel.Link = feed.Link
	b.Channel.Logo = feed.Logo
	b.Channel.Icon = feed.Icon
	b.Channel.Language = feed.Language
	b.Channel.PubDate = feed.PubDate

	if feed.Charset != "" {
		b.Charset = feed.Charset
	}

	b.SetShortening(feed.Shortening)
	if feed.TextLimit != nil {
		b.SetTextLimit(*feed.TextLimit)
	}
	b.SetDateFormat(dateFormat)

	return b, nil
}

// CacheKey returns the cache key of a configured feed in the given format.
// Formats are kept apart so an atom document is never served as rss.
func CacheKey(feed config.FeedConfig, format Format) string {
	base := feed.CacheKey
	if base == "" {
		base = "feed:" + feed.Id
	}
	if format != FormatRSS {
		format = FormatAtom
	}
	return base + ":" + string(format)
}
