package feeds

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
	gfeeds "github.com/gorilla/feeds"
	"github.com/samber/lo"
)

// XMLRenderer renders Atom and RSS documents with gorilla/feeds. All text is
// XML-escaped by the encoder.
type XMLRenderer struct{}

func NewXMLRenderer() *XMLRenderer {
	return &XMLRenderer{}
}

func (r *XMLRenderer) Render(format Format, data Data) (string, error) {
	updated := parseChannelDate(data.Channel.PubDate)

	feed := &gfeeds.Feed{
		Title:       data.Channel.Title,
		Link:        &gfeeds.Link{Href: data.Channel.Link},
		Description: data.Channel.Description,
		Id:          channelId(data.Channel),
		Created:     updated,
		Updated:     updated,
		Items: lo.Map(data.Items, func(item Item, _ int) *gfeeds.Item {
			return feedItem(item)
		}),
	}

	if data.Channel.Logo != "" {
		feed.Image = &gfeeds.Image{
			Url:   data.Channel.Logo,
			Title: data.Channel.Title,
			Link:  data.Channel.Link,
		}
	}

	switch format {
	case FormatRSS:
		rss := (&gfeeds.Rss{Feed: feed}).RssFeed()
		rss.Language = data.Channel.Language
		return toXML(rss)
	case FormatAtom:
		atom := (&gfeeds.Atom{Feed: feed}).AtomFeed()
		atom.Icon = data.Channel.Icon
		atom.Logo = data.Channel.Logo
		return toXML(atom)
	}

	return "", fmt.Errorf("unsupported feed format %q", format)
}

func toXML(feed gfeeds.XmlFeed) (string, error) {
	doc, err := gfeeds.ToXML(feed)
	if err != nil {
		return "", fmt.Errorf("error encoding feed: %w", err)
	}
	return doc, nil
}

func feedItem(item Item) *gfeeds.Item {
	published, _ := time.Parse(time.RFC3339, item.PubDate)

	out := &gfeeds.Item{
		Title:       item.Title,
		Link:        &gfeeds.Link{Href: item.Link},
		Description: item.Description,
		Content:     item.Content,
		Id:          itemId(item),
		Created:     published,
		Updated:     published,
	}

	if item.Author != "" {
		out.Author = &gfeeds.Author{Name: item.Author}
	}

	return out
}

// Ids are derived from the content so repeated renders produce identical documents
func itemId(item Item) string {
	if item.Link != "" {
		return item.Link
	}
	return "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(item.Title+"\x00"+item.PubDate)).String()
}

func channelId(channel Channel) string {
	if channel.Link != "" {
		return channel.Link
	}
	return "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(channel.Title)).String()
}

func parseChannelDate(s string) time.Time {
	if t, err := time.Parse(channelDateLayout, s); err == nil {
		return t
	}
	if t, err := dateparse.ParseAny(s); err == nil {
		return t
	}
	return time.Time{}
}
