package feeds

import (
	"context"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// Render produces the feed document in the given format. Any format other than
// rss is rendered as atom. The TTL selects the cache policy:
//
//	ttl > 0  serve from the cache under key, populating it on a miss
//	ttl == 0 render fresh without touching the cache
//	ttl < 0  return the bare document for embedding, with no status or headers
//
// Stored items are never modified; RSS sanitization happens on a copy.
func (b *Builder) Render(ctx context.Context, format Format, ttl time.Duration, key string) (*Response, error) {
	channel := b.channelWithDefaults()
	items := b.Items()
	contentType := ContentTypeAtom

	if format == FormatRSS {
		contentType = ContentTypeRSS
		channel.Title = Sanitize(channel.Title)
		channel.Description = Sanitize(channel.Description)
		for i := range items {
			items[i].Title = Sanitize(items[i].Title)
			items[i].Description = Sanitize(items[i].Description)
		}
	} else {
		format = FormatAtom
	}

	data := Data{Items: items, Channel: channel}
	header := http.Header{}
	header.Set("Content-Type", contentType+"; charset="+b.Charset)

	log.WithFields(log.Fields{
		"format": format,
		"items":  len(items),
		"ttl":    ttl,
		"key":    key,
	}).Debug("Rendering feed")

	switch {
	case ttl > 0:
		body, err := b.renderCached(ctx, format, data, ttl, key)
		if err != nil {
			return nil, err
		}
		return &Response{Status: http.StatusOK, Header: header, Body: body}, nil

	case ttl < 0:
		body, err := b.render(format, data)
		if err != nil {
			return nil, err
		}
		feedRenders.WithLabelValues(string(format), cacheBypass).Inc()
		return &Response{Body: body}, nil

	default:
		body, err := b.render(format, data)
		if err != nil {
			return nil, err
		}
		feedRenders.WithLabelValues(string(format), cacheOff).Inc()
		return &Response{Status: http.StatusOK, Header: header, Body: body}, nil
	}
}

// IsCached reports whether the cache currently holds an entry under key
func (b *Builder) IsCached(ctx context.Context, key string) (bool, error) {
	if b.cache == nil {
		return false, nil
	}

	ok, err := b.cache.Has(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	return ok, nil
}

func (b *Builder) renderCached(ctx context.Context, format Format, data Data, ttl time.Duration, key string) (string, error) {
	if b.cache == nil {
		return "", fmt.Errorf("%w: no cache configured for key %q", ErrCacheUnavailable, key)
	}

	ok, err := b.cache.Has(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}

	if ok {
		body, found, err := b.cache.Get(ctx, key)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
		}
		// The entry may have expired between Has and Get
		if found {
			feedRenders.WithLabelValues(string(format), cacheHit).Inc()
			return body, nil
		}
	}

	body, err := b.render(format, data)
	if err != nil {
		return "", err
	}

	if err := b.cache.Put(ctx, key, body, ttl); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	feedRenders.WithLabelValues(string(format), cacheMiss).Inc()

	cached, found, err := b.cache.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	if !found {
		log.WithFields(log.Fields{
			"key": key,
			"ttl": ttl,
		}).Warn("Feed expired from cache right after it was stored")
		return body, nil
	}
	return cached, nil
}

func (b *Builder) render(format Format, data Data) (string, error) {
	start := time.Now()
	body, err := b.renderer.Render(format, data)
	feedRenderDuration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())
	return body, err
}

// channelWithDefaults fills empty language, link and publication date without
// touching the builder. The config source is only consulted for empty fields.
func (b *Builder) channelWithDefaults() Channel {
	channel := b.Channel

	if channel.Language == "" && b.config != nil {
		channel.Language = b.config.Get(ConfigLanguage)
	}
	if channel.Link == "" && b.config != nil {
		channel.Link = b.config.Get(ConfigURL)
	}
	if channel.PubDate == "" {
		channel.PubDate = b.now().In(b.location).Format(channelDateLayout)
	}

	return channel
}
