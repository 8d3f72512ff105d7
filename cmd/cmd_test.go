package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"syndicate/cache"
	"syndicate/config"
	"syndicate/db"

	"github.com/mmcdole/gofeed"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
[application]
language = "en"
url = "https://example.com"

[[feeds]]
id = "news"
title = "News"
description = "Latest <b>news</b>"
cache_ttl = "10m"
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := RootApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"syndicate", "--log-level", "error"}, args...))
	return out.String(), err
}

func TestAddAndRender(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "feeds.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0o644))
	database := filepath.Join(dir, "feed.db")

	_, err := run(t, "migrate", "--database", database)
	require.NoError(t, err)

	for _, title := range []string{"first", "second"} {
		_, err = run(t, "add",
			"--database", database,
			"--config", configPath,
			"--title", title,
			"--link", "https://example.com/"+title,
			"--published", "2024-01-02T15:04:05Z",
			"--description", "<p>"+title+"</p>",
			"news",
		)
		require.NoError(t, err)
	}

	out, err := run(t, "render", "--database", database, "--config", configPath, "--format", "rss", "news")
	require.NoError(t, err)

	feed, err := gofeed.NewParser().ParseString(out)
	require.NoError(t, err)
	assert.Equal(t, "rss", feed.FeedType)
	assert.Equal(t, "Latest news", feed.Description)
	require.Len(t, feed.Items, 2)
	assert.Equal(t, "second", feed.Items[0].Title)
	assert.Equal(t, "first", feed.Items[1].Title)
}

func TestAddRejectsInvalidDate(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "feeds.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0o644))
	database := filepath.Join(dir, "feed.db")

	_, err := run(t, "migrate", "--database", database)
	require.NoError(t, err)

	_, err = run(t, "add",
		"--database", database,
		"--config", configPath,
		"--title", "broken",
		"--link", "https://example.com/broken",
		"--published", "banana split",
		"news",
	)
	assert.Error(t, err)

	_, err = run(t, "add", "--database", database, "--config", configPath, "--title", "x", "--link", "y", "missing")
	assert.Error(t, err)
}

func TestLink(t *testing.T) {
	tests := []struct {
		format   string
		expected string
	}{
		{"", `<link rel="alternate" type="application/atom+xml" href="https://example.com/feed" />`},
		{"atom", `<link rel="alternate" type="application/atom+xml" href="https://example.com/feed" />`},
		{"rss", `<link rel="alternate" type="application/rss+xml" href="https://example.com/feed" />`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := run(t, "link", "--format", tt.format, "https://example.com/feed")
			require.NoError(t, err)
			assert.Equal(t, tt.expected+"\n", out)
		})
	}

	_, err := run(t, "link")
	assert.Error(t, err)
}

func TestLogging(t *testing.T) {
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFormatter(&log.TextFormatter{})
	})

	_, err := run(t, "--log-format", "xml", "link", "https://example.com/feed")
	assert.Error(t, err)

	logFile := filepath.Join(t.TempDir(), "syndicate.log")
	_, err = run(t, "--log-file", logFile, "--log-format", "json", "link", "https://example.com/feed")
	require.NoError(t, err)
}

func TestCheckCache(t *testing.T) {
	cfg := &config.Config{Feeds: []config.FeedConfig{
		{Id: "news", CacheTTL: 10 * time.Minute},
		{Id: "fresh"},
		{Id: "embedded", CacheTTL: -time.Second},
		{Id: "blog", CacheTTL: time.Hour},
	}}

	err := checkCache(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "news, blog")

	memory, err := cache.NewMemory(10)
	require.NoError(t, err)
	assert.NoError(t, checkCache(cfg, memory))

	uncached := &config.Config{Feeds: []config.FeedConfig{{Id: "fresh"}, {Id: "embedded", CacheTTL: -time.Second}}}
	assert.NoError(t, checkCache(uncached, nil))

	noCache, err := newCache("none", 10, nil)
	require.NoError(t, err)
	assert.Nil(t, noCache)

	_, err = newCache("redis", 10, nil)
	assert.Error(t, err)
}

func TestAddStoresAbsoluteDate(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "feeds.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0o644))
	database := filepath.Join(dir, "feed.db")

	_, err := run(t, "migrate", "--database", database)
	require.NoError(t, err)

	// --published defaults to now
	_, err = run(t, "add", "--database", database, "--config", configPath, "--title", "now", "--link", "https://example.com/now", "news")
	require.NoError(t, err)

	conn, err := db.Open(context.Background(), db.Options{Driver: db.DriverSQLite, Path: database})
	require.NoError(t, err)
	defer conn.Close()

	items, err := conn.ListItems(context.Background(), db.ItemQuery{FeedId: "news"})
	require.NoError(t, err)
	require.Len(t, items, 1)

	published, err := time.Parse(time.RFC3339, items[0].Published)
	require.NoError(t, err, items[0].Published)
	assert.WithinDuration(t, time.Now(), published, time.Minute)
}
