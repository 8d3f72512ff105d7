package feeds_test

import (
	"context"
	"fmt"
	"time"

	"syndicate/feeds"
)

// opLog records cache and renderer calls in the order they happened
type opLog struct {
	ops []string
}

func (l *opLog) add(op string) {
	l.ops = append(l.ops, op)
}

type mapCache struct {
	log     *opLog
	entries map[string]string
	ttls    map[string]time.Duration
	err     error
}

func newMapCache(log *opLog) *mapCache {
	return &mapCache{
		log:     log,
		entries: make(map[string]string),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *mapCache) Has(ctx context.Context, key string) (bool, error) {
	c.log.add("has:" + key)
	if c.err != nil {
		return false, c.err
	}
	_, ok := c.entries[key]
	return ok, nil
}

func (c *mapCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.log.add("get:" + key)
	if c.err != nil {
		return "", false, c.err
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *mapCache) Put(ctx context.Context, key string, value string, ttl time.Duration) error {
	c.log.add("put:" + key)
	if c.err != nil {
		return c.err
	}
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

// countingRenderer renders a deterministic summary of the data it receives
type countingRenderer struct {
	log   *opLog
	calls int
	last  feeds.Data
	err   error
}

func (r *countingRenderer) Render(format feeds.Format, data feeds.Data) (string, error) {
	r.log.add("render:" + string(format))
	r.calls++
	r.last = data
	if r.err != nil {
		return "", r.err
	}
	return fmt.Sprintf("%s|%s|%d", format, data.Channel.Title, len(data.Items)), nil
}

// recordingConfig remembers every key that was looked up
type recordingConfig struct {
	values  map[string]string
	lookups []string
}

func (c *recordingConfig) Get(key string) string {
	c.lookups = append(c.lookups, key)
	return c.values[key]
}
