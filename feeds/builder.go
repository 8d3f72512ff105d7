package feeds

import (
	"fmt"
	"time"
	"unicode/utf8"
)

const defaultTextLimit = 150

// Builder holds channel metadata and the items of one feed. It is meant to be
// populated and rendered within a single request and is not safe for
// concurrent mutation.
type Builder struct {
	Channel Channel
	Charset string

	items      []Item
	shortening bool
	textLimit  int
	dateFormat DateFormat

	config   ConfigSource
	cache    Cache
	renderer Renderer
	location *time.Location
	now      func() time.Time
}

// Option configures a Builder
type Option func(*Builder)

// WithConfig sets where empty language and link fields are looked up at render time
func WithConfig(config ConfigSource) Option {
	return func(b *Builder) {
		b.config = config
	}
}

// WithCache sets the cache used for renders with a positive TTL
func WithCache(cache Cache) Option {
	return func(b *Builder) {
		b.cache = cache
	}
}

// WithRenderer replaces the default gorilla/feeds renderer
func WithRenderer(renderer Renderer) Option {
	return func(b *Builder) {
		b.renderer = renderer
	}
}

// WithLocation sets the time zone used when formatting dates
func WithLocation(loc *time.Location) Option {
	return func(b *Builder) {
		b.location = loc
	}
}

// WithClock overrides the current time, used for channel dates and relative item dates
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// New returns a builder with the default channel title and description,
// utf-8 charset, shortening disabled and datetime date parsing.
func New(opts ...Option) *Builder {
	b := &Builder{
		Channel: Channel{
			Title:       "My feed title",
			Description: "My feed description",
		},
		Charset:    "utf-8",
		items:      []Item{},
		textLimit:  defaultTextLimit,
		dateFormat: DateFormatDatetime,
		renderer:   NewXMLRenderer(),
		location:   time.Local,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// SetTextLimit sets the number of characters item content is shortened to.
// Zero and negative values are passed through to the truncation unchanged.
func (b *Builder) SetTextLimit(n int) {
	b.textLimit = n
}

// SetShortening toggles truncation of content for items added from now on
func (b *Builder) SetShortening(enabled bool) {
	b.shortening = enabled
}

// SetDateFormat chooses how Raw dates passed to Add are interpreted
func (b *Builder) SetDateFormat(format DateFormat) {
	b.dateFormat = format
}

// Add appends an item. Content is shortened when shortening is enabled and the
// publication date is normalized to ISO-8601. Nothing is appended on error.
func (b *Builder) Add(title, author, link string, published Date, description, content string) error {
	if b.shortening {
		content = truncate(content, b.textLimit)
	}

	pubDate, err := NormalizeDate(published, b.dateFormat, b.location, b.now())
	if err != nil {
		return fmt.Errorf("item %q: %w", title, err)
	}

	b.items = append(b.items, Item{
		Title:       title,
		Author:      author,
		Link:        link,
		PubDate:     pubDate,
		Description: description,
		Content:     content,
	})

	return nil
}

// Items returns a copy of the items in insertion order
func (b *Builder) Items() []Item {
	items := make([]Item, len(b.items))
	copy(items, b.items)
	return items
}

// truncate keeps the first limit characters of s. A negative limit drops that
// many characters from the end instead.
func truncate(s string, limit int) string {
	length := utf8.RuneCountInString(s)
	if limit < 0 {
		limit += length
		if limit < 0 {
			limit = 0
		}
	}
	if limit >= length {
		return s
	}

	runes := []rune(s)
	return string(runes[:limit])
}
