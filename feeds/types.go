// Package feeds assembles Atom and RSS documents from channel metadata and
// an ordered list of items, optionally serving them from a time-bounded cache.
package feeds

import (
	"context"
	"net/http"
	"time"
)

// Format selects the syndication format of a rendered document
type Format string

const (
	FormatAtom Format = "atom"
	FormatRSS  Format = "rss"
)

const (
	ContentTypeAtom = "application/atom+xml"
	ContentTypeRSS  = "application/rss+xml"
)

// Keys looked up on the ConfigSource when channel fields are left empty
const (
	ConfigLanguage = "application.language"
	ConfigURL      = "application.url"
)

// DefaultCacheKey is the key callers have historically used for a single feed
const DefaultCacheKey = "laravel-feed"

// Item is a single feed entry. PubDate is always ISO-8601.
type Item struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Link        string `json:"link"`
	PubDate     string `json:"pubdate"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// Channel holds feed-level metadata
type Channel struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
	Icon        string `json:"icon"`
	Link        string `json:"link"`
	PubDate     string `json:"pubdate"`
	Language    string `json:"lang"`
}

// Data is what a Renderer receives for a single document
type Data struct {
	Items   []Item
	Channel Channel
}

// ConfigSource provides render-time defaults for the channel
type ConfigSource interface {
	Get(key string) string
}

// Cache is a key-value store with time-to-live semantics. The TTL is forwarded
// unchanged; its interpretation belongs to the implementation.
type Cache interface {
	Has(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key string, value string, ttl time.Duration) error
}

// Renderer turns structured feed data into a complete document
type Renderer interface {
	Render(format Format, data Data) (string, error)
}

// Response is the outcome of a render. A response without a status is the
// bare document produced for embedding inside another response.
type Response struct {
	Status int
	Header http.Header
	Body   string
}

// Embedded reports whether the response is a bare document with no status or headers
func (r *Response) Embedded() bool {
	return r.Status == 0
}
