package crawl

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/trendin/entitycrawler/fetcher"
)

// GoqueryFeedFetcher extracts entry links from an RSS/Atom feed body
// using goquery's DOM walk, the same library the Soup-style scraper
// uses, rather than a dedicated feed-parsing library (none is present
// anywhere in the retrieved pack).
type GoqueryFeedFetcher struct {
	fetch fetcher.Fetcher
}

// NewGoqueryFeedFetcher creates a feedFetcher backed by f.
func NewGoqueryFeedFetcher(f fetcher.Fetcher) *GoqueryFeedFetcher {
	return &GoqueryFeedFetcher{fetch: f}
}

// FetchEntries downloads feedURL and returns every entry link found,
// in document order, trying RSS's <item><link> shape first and
// falling back to Atom's <entry><link href="..."> shape.
func (g *GoqueryFeedFetcher) FetchEntries(feedURL string) ([]string, error) {
	_, body, _, err := g.fetch.Get(feedURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("item").Each(func(_ int, s *goquery.Selection) {
		if link := strings.TrimSpace(s.Find("link").First().Text()); link != "" {
			links = append(links, link)
		}
	})
	if len(links) == 0 {
		doc.Find("entry").Each(func(_ int, s *goquery.Selection) {
			if href, ok := s.Find("link").First().Attr("href"); ok && strings.TrimSpace(href) != "" {
				links = append(links, strings.TrimSpace(href))
			}
		})
	}
	return links, nil
}
