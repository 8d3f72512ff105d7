package cache_test

import (
	"context"
	"testing"
	"time"

	"syndicate/cache"
	"syndicate/feeds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ feeds.Cache = (*cache.Memory)(nil)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	c := &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m, err := cache.NewMemory(10, cache.WithClock(c.Now))
	require.NoError(t, err)

	ok, err := m.Has(ctx, "feed")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Put(ctx, "feed", "<rss/>", time.Minute))

	ok, err = m.Has(ctx, "feed")
	require.NoError(t, err)
	assert.True(t, ok)

	value, found, err := m.Get(ctx, "feed")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "<rss/>", value)

	c.now = c.now.Add(time.Minute)

	ok, err = m.Has(ctx, "feed")
	require.NoError(t, err)
	assert.False(t, ok)

	_, found, err = m.Get(ctx, "feed")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryEviction(t *testing.T) {
	ctx := context.Background()
	m, err := cache.NewMemory(2)
	require.NoError(t, err)

	require.NoError(t, m.Put(ctx, "a", "1", time.Hour))
	require.NoError(t, m.Put(ctx, "b", "2", time.Hour))
	require.NoError(t, m.Put(ctx, "c", "3", time.Hour))

	ok, _ := m.Has(ctx, "a")
	assert.False(t, ok)
	ok, _ = m.Has(ctx, "c")
	assert.True(t, ok)
}

func TestMemoryNonPositiveTTLRemoves(t *testing.T) {
	ctx := context.Background()
	m, err := cache.NewMemory(2)
	require.NoError(t, err)

	require.NoError(t, m.Put(ctx, "a", "1", time.Hour))
	require.NoError(t, m.Put(ctx, "a", "2", 0))

	ok, _ := m.Has(ctx, "a")
	assert.False(t, ok)
}

func TestMemoryInvalidSize(t *testing.T) {
	_, err := cache.NewMemory(0)
	assert.Error(t, err)
}

func TestMemoryWithBuilder(t *testing.T) {
	ctx := context.Background()
	m, err := cache.NewMemory(10)
	require.NoError(t, err)

	b := feeds.New(feeds.WithCache(m))
	require.NoError(t, b.Add("Hello", "", "https://example.com/hello", feeds.FreeText("2024-01-01T00:00:00Z"), "", ""))

	first, err := b.Render(ctx, feeds.FormatAtom, time.Hour, "memory")
	require.NoError(t, err)

	cached, err := b.IsCached(ctx, "memory")
	require.NoError(t, err)
	assert.True(t, cached)

	// New items do not show up until the entry expires
	require.NoError(t, b.Add("World", "", "https://example.com/world", feeds.FreeText("2024-01-02T00:00:00Z"), "", ""))
	second, err := b.Render(ctx, feeds.FormatAtom, time.Hour, "memory")
	require.NoError(t, err)
	assert.Equal(t, first.Body, second.Body)
}
