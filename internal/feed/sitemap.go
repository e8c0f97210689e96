package feed

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/listenupapp/pressroom/internal/domain"
)

// Change frequencies used in the sitemap.
const (
	ChangeDaily   = "daily"
	ChangeWeekly  = "weekly"
	ChangeMonthly = "monthly"
)

// URL is one sitemap entry.
type URL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// SiteURLs lists the static pages, every visible post passed in, and every
// category (categories are listed regardless of their post count).
func SiteURLs(site Site, posts []*domain.Post, categories []*domain.Category, now time.Time) []URL {
	lastMod := func(t time.Time) string { return t.UTC().Format(time.RFC3339) }
	today := lastMod(now)

	urls := []URL{
		{Loc: site.URL, LastMod: today, ChangeFreq: ChangeDaily, Priority: 1.0},
		{Loc: site.URL + "/blog", LastMod: today, ChangeFreq: ChangeDaily, Priority: 0.9},
		{Loc: site.URL + "/about", LastMod: today, ChangeFreq: ChangeMonthly, Priority: 0.7},
		{Loc: site.URL + "/contact", LastMod: today, ChangeFreq: ChangeMonthly, Priority: 0.7},
	}
	for _, p := range posts {
		urls = append(urls, URL{
			Loc:        site.URL + p.PublicPath(),
			LastMod:    lastMod(p.UpdatedAt),
			ChangeFreq: ChangeWeekly,
			Priority:   0.8,
		})
	}
	for _, c := range categories {
		urls = append(urls, URL{
			Loc:        site.URL + domain.CategoryPath(c.Slug),
			LastMod:    today,
			ChangeFreq: ChangeWeekly,
			Priority:   0.6,
		})
	}
	return urls
}

// Sitemap renders a sitemaps.org urlset document.
func Sitemap(urls []URL) ([]byte, error) {
	out, err := xml.MarshalIndent(urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// Robots renders a robots.txt that allows everything and points at the sitemap.
func Robots(site Site) string {
	return fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", site.URL)
}
