package db

import (
	sqlbuilder "github.com/huandu/go-sqlbuilder"
)

// FilterStrategy adds WHERE conditions to the item query
type FilterStrategy interface {
	// ApplyFilter adds filter conditions to the query builder
	ApplyFilter(sb *sqlbuilder.SelectBuilder)
}

// FeedFilter keeps items belonging to one feed
type FeedFilter struct {
	FeedId string
}

func (f *FeedFilter) ApplyFilter(sb *sqlbuilder.SelectBuilder) {
	sb.Where(sb.Equal("items.feed_id", f.FeedId))
}

// AuthorFilter keeps items written by one author
type AuthorFilter struct {
	Author string
}

func (f *AuthorFilter) ApplyFilter(sb *sqlbuilder.SelectBuilder) {
	if f.Author != "" {
		sb.Where(sb.Equal("items.author", f.Author))
	}
}

// SinceFilter keeps items stored at or after a unix timestamp
type SinceFilter struct {
	CreatedAt int64
}

func (f *SinceFilter) ApplyFilter(sb *sqlbuilder.SelectBuilder) {
	if f.CreatedAt > 0 {
		sb.Where(sb.GreaterEqualThan("items.created_at", f.CreatedAt))
	}
}

var _ FilterStrategy = (*FeedFilter)(nil)
var _ FilterStrategy = (*AuthorFilter)(nil)
var _ FilterStrategy = (*SinceFilter)(nil)

// ItemQueryBuilder builds item queries from a set of filters
type ItemQueryBuilder struct {
	filters []FilterStrategy
}

func NewItemQueryBuilder() *ItemQueryBuilder {
	return &ItemQueryBuilder{
		filters: make([]FilterStrategy, 0),
	}
}

func (b *ItemQueryBuilder) AddFilter(filter FilterStrategy) {
	b.filters = append(b.filters, filter)
}

// Build returns the newest items first. A limit of zero means no limit.
func (b *ItemQueryBuilder) Build(flavor sqlbuilder.Flavor, limit int) (string, []interface{}) {
	sb := flavor.NewSelectBuilder()

	sb.Select(
		"items.id",
		"items.feed_id",
		"items.title",
		"items.author",
		"items.link",
		"items.published",
		"items.description",
		"items.content",
		"items.created_at",
	)
	sb.From("items")

	// Apply all filters
	for _, filter := range b.filters {
		filter.ApplyFilter(sb)
	}

	sb.OrderBy("items.id").Desc()

	if limit > 0 {
		sb.Limit(limit)
	}

	return sb.Build()
}
