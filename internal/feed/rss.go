// Package feed renders the RSS 2.0 feed, the XML sitemap and robots.txt.
//
// Everything here is a pure function of its inputs; callers decide which
// posts are visible.
package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/listenupapp/pressroom/internal/domain"
)

// DefaultSize is how many posts the feed carries.
const DefaultSize = 20

// dateLayout is RFC 1123 with a literal GMT zone, as RSS readers expect.
const dateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// Site describes the blog the feed belongs to.
type Site struct {
	Name        string
	Description string
	URL         string // no trailing slash
}

// Item is one RSS entry.
type Item struct {
	Title       string
	Description string
	Link        string
	PubDate     time.Time
}

// xmlEscaper replaces the five XML specials in a single pass.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeXML escapes text for use in XML element content and attributes.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// FormatDate renders t in the RSS date format, always in GMT.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// ItemsFromPosts builds feed items. The pub date falls back to the creation
// time for posts that carry no published_at.
func ItemsFromPosts(site Site, posts []*domain.Post) []Item {
	items := make([]Item, 0, len(posts))
	for _, p := range posts {
		pub := p.CreatedAt
		if p.PublishedAt != nil {
			pub = *p.PublishedAt
		}
		items = append(items, Item{
			Title:       p.Title,
			Description: p.Excerpt,
			Link:        site.URL + p.PublicPath(),
			PubDate:     pub,
		})
	}
	return items
}

// RSS renders an RSS 2.0 document with an atom self link.
func RSS(site Site, items []Item, buildDate time.Time) []byte {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">` + "\n")
	b.WriteString("  <channel>\n")
	fmt.Fprintf(&b, "    <title>%s</title>\n", EscapeXML(site.Name))
	fmt.Fprintf(&b, "    <description>%s</description>\n", EscapeXML(site.Description))
	fmt.Fprintf(&b, "    <link>%s</link>\n", EscapeXML(site.URL))
	fmt.Fprintf(&b, "    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\"/>\n", EscapeXML(site.URL+"/feed.xml"))
	b.WriteString("    <language>en-us</language>\n")
	fmt.Fprintf(&b, "    <lastBuildDate>%s</lastBuildDate>\n", FormatDate(buildDate))

	for _, it := range items {
		link := EscapeXML(it.Link)
		b.WriteString("    <item>\n")
		fmt.Fprintf(&b, "      <title>%s</title>\n", EscapeXML(it.Title))
		fmt.Fprintf(&b, "      <description>%s</description>\n", EscapeXML(it.Description))
		fmt.Fprintf(&b, "      <link>%s</link>\n", link)
		fmt.Fprintf(&b, "      <guid isPermaLink=\"true\">%s</guid>\n", link)
		fmt.Fprintf(&b, "      <pubDate>%s</pubDate>\n", FormatDate(it.PubDate))
		b.WriteString("    </item>\n")
	}

	b.WriteString("  </channel>\n")
	b.WriteString("</rss>\n")
	return []byte(b.String())
}
