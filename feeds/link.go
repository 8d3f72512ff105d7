package feeds

// Link returns an HTML alternate link tag for a feed URL. The empty format is
// treated as atom and any other value as rss. The URL is not escaped.
func Link(url string, format Format) string {
	t := ContentTypeAtom

	if format != "" && format != FormatAtom {
		t = ContentTypeRSS
	}

	return `<link rel="alternate" type="` + t + `" href="` + url + `" />`
}
