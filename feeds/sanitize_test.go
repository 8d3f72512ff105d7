package feeds_test

import (
	"testing"

	"syndicate/feeds"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "empty string",
			text:     "",
			expected: "",
		},
		{
			name:     "plain text",
			text:     "Nothing to see here",
			expected: "Nothing to see here",
		},
		{
			name:     "simple tags",
			text:     "<p>Hello <b>world</b></p>",
			expected: "Hello world",
		},
		{
			name:     "named entities",
			text:     "Tom &amp; Jerry &quot;live&quot;",
			expected: `Tom & Jerry "live"`,
		},
		{
			name:     "numeric entities",
			text:     "caf&#233; &#x2764;",
			expected: "café ❤",
		},
		{
			name:     "encoded markup is decoded then stripped",
			text:     "&lt;em&gt;emphasis&lt;/em&gt;",
			expected: "emphasis",
		},
		{
			name:     "entities are decoded once",
			text:     "&amp;lt;kept&amp;gt;",
			expected: "&lt;kept&gt;",
		},
		{
			name:     "attributes",
			text:     `<a href="https://example.com" title="x > y">link</a>`,
			expected: "link",
		},
		{
			name:     "comments",
			text:     "before<!-- hidden -->after",
			expected: "beforeafter",
		},
		{
			name:     "self closing",
			text:     "line<br/>break",
			expected: "linebreak",
		},
		{
			name:     "less than sign in text",
			text:     "1 < 2 and 3 > 2",
			expected: "1 < 2 and 3 > 2",
		},
		{
			name:     "multi-byte text",
			text:     "<i>Blåbær</i> og <b>rødt</b> 🎉",
			expected: "Blåbær og rødt 🎉",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, feeds.Sanitize(tt.text))
		})
	}
}

func TestSanitizeMalformedMarkup(t *testing.T) {
	inputs := []string{
		"<b>unclosed",
		"</b>stray close",
		"<<<>>>",
		"<",
		"text <b",
		"<div><span></div></span>",
		"&#xZZZZ; &unknown; &",
		"<script>alert(1)</script>",
		"\xff\xfe invalid utf-8 <b>bold</b>",
	}

	for _, input := range inputs {
		assert.NotPanics(t, func() {
			feeds.Sanitize(input)
		}, input)
	}

	assert.Equal(t, "unclosed", feeds.Sanitize("<b>unclosed"))
	assert.Equal(t, "stray close", feeds.Sanitize("</b>stray close"))
}

func TestLink(t *testing.T) {
	tests := []struct {
		name     string
		format   feeds.Format
		expected string
	}{
		{
			name:     "rss",
			format:   feeds.FormatRSS,
			expected: `<link rel="alternate" type="application/rss+xml" href="http://x/feed" />`,
		},
		{
			name:     "atom",
			format:   feeds.FormatAtom,
			expected: `<link rel="alternate" type="application/atom+xml" href="http://x/feed" />`,
		},
		{
			name:     "default",
			format:   "",
			expected: `<link rel="alternate" type="application/atom+xml" href="http://x/feed" />`,
		},
		{
			name:     "anything else is rss",
			format:   feeds.Format("json"),
			expected: `<link rel="alternate" type="application/rss+xml" href="http://x/feed" />`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, feeds.Link("http://x/feed", tt.format))
		})
	}
}

func TestLinkDoesNotEscape(t *testing.T) {
	assert.Equal(t,
		`<link rel="alternate" type="application/atom+xml" href="http://x/feed?a=1&b=2" />`,
		feeds.Link("http://x/feed?a=1&b=2", feeds.FormatAtom),
	)
}
