package models

// Item as stored for a feed. Published is kept exactly as supplied and
// interpreted by the feed's date format when the feed is built.
type Item struct {
	Id          int64  `json:"id"`
	FeedId      string `json:"feedId"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Link        string `json:"link"`
	Published   string `json:"published"`
	Description string `json:"description"`
	Content     string `json:"content,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

// CachedResponse reports whether a feed is currently served from the cache
type CachedResponse struct {
	Key    string `json:"key"`
	Cached bool   `json:"cached"`
}

// EmbedResponse wraps a bare feed document for inclusion in another response
type EmbedResponse struct {
	Id       string `json:"id"`
	Format   string `json:"format"`
	Document string `json:"document"`
}

// ErrorResponse is returned by the HTTP API on failure
type ErrorResponse struct {
	Error string `json:"error"`
}
