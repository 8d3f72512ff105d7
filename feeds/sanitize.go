package feeds

import (
	"strings"

	"golang.org/x/net/html"
)

// Sanitize decodes HTML entities and then strips all markup, leaving plain
// text suitable for RSS titles and descriptions. Malformed markup is kept as
// literal text.
func Sanitize(s string) string {
	return stripTags(html.UnescapeString(s))
}

func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer error, either way we are done
			return sb.String()
		case html.TextToken:
			// Raw keeps the text exactly as written so entities are not decoded twice
			sb.Write(z.Raw())
		}
	}
}
