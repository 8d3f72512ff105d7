package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Application holds process-wide defaults used when a feed leaves them unset
type Application struct {
	Language string `toml:"language" yaml:"language"`
	URL      string `toml:"url" yaml:"url"`
}

// FeedConfig represents a single feed definition
type FeedConfig struct {
	Id          string `toml:"id" yaml:"id"`
	Title       string `toml:"title" yaml:"title"`
	Description string `toml:"description" yaml:"description"`
	Link        string `toml:"link" yaml:"link"`
	Logo        string `toml:"logo" yaml:"logo"`
	Icon        string `toml:"icon" yaml:"icon"`
	Language    string `toml:"language" yaml:"language"`
	PubDate     string `toml:"pubdate" yaml:"pubdate"`
	Charset     string `toml:"charset" yaml:"charset"`

	Shortening bool `toml:"shortening" yaml:"shortening"`
	TextLimit  *int `toml:"text_limit" yaml:"text_limit"` // nil keeps the builder default

	// "datetime" (default) or "timestamp"
	DateFormat string `toml:"date_format" yaml:"date_format"`

	// >0 cached, 0 always fresh, <0 embedded
	CacheTTL time.Duration `toml:"cache_ttl" yaml:"cache_ttl"`
	CacheKey string        `toml:"cache_key" yaml:"cache_key"`

	// Max number of stored items loaded into the feed
	Limit int `toml:"limit" yaml:"limit"`
}

// Config represents the top-level configuration
type Config struct {
	Application Application  `toml:"application" yaml:"application"`
	Feeds       []FeedConfig `toml:"feeds" yaml:"feeds"`
}

// LoadConfig reads a TOML or YAML file, picked by extension
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = toml.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return &config, nil
}

// Get returns application settings by dotted key, or "" when unknown
func (c *Config) Get(key string) string {
	switch key {
	case "application.language":
		return c.Application.Language
	case "application.url":
		return c.Application.URL
	}
	return ""
}

// Feed looks up a feed definition by id
func (c *Config) Feed(id string) (FeedConfig, bool) {
	return lo.Find(c.Feeds, func(f FeedConfig) bool {
		return f.Id == id
	})
}

func (c *Config) validate() error {
	var errs []error
	seen := make(map[string]bool)

	for i, feed := range c.Feeds {
		if feed.Id == "" {
			errs = append(errs, fmt.Errorf("feed %d: missing id", i))
			continue
		}
		if seen[feed.Id] {
			errs = append(errs, fmt.Errorf("feed %s: duplicate id", feed.Id))
		}
		seen[feed.Id] = true

		switch strings.ToLower(feed.DateFormat) {
		case "", "datetime", "timestamp":
		default:
			errs = append(errs, fmt.Errorf("feed %s: unknown date_format %q", feed.Id, feed.DateFormat))
		}

		if feed.Limit < 0 {
			errs = append(errs, fmt.Errorf("feed %s: limit must not be negative", feed.Id))
		}
	}

	return errors.Join(errs...)
}
