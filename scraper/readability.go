package scraper

import (
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/trendin/entitycrawler/fetcher"
)

// readabilityScraper is the default scraper: it strips the page down
// to the densest block of plain text (a readability-style heuristic)
// with no highlights. Chosen as default because it degrades the most
// gracefully across unknown page layouts.
type readabilityScraper struct {
	base
}

func newReadabilityScraper(f fetcher.Fetcher, now func() time.Time) *readabilityScraper {
	s := &readabilityScraper{base: newBase(Readability, f, now)}
	s.base.textFn = s.extractText
	return s
}

func (s *readabilityScraper) Scrape(url string) (*PageRecord, error) { return s.scrape(url) }

func (s *readabilityScraper) ScrapeRSS(url string) (*PageRecord, error) { return s.scrapeRSS(url) }

func (s *readabilityScraper) extractText(doc *goquery.Document, rawHTML, domTitle string) ([]string, []string, string) {
	if doc == nil {
		return nil, nil, domTitle
	}
	doc.Find("script, style, nav, footer, header, aside").Remove()
	body := articleBody(doc)
	if body == "" {
		body = normalizeText(doc.Find("body").Text())
	}
	if body == "" {
		return nil, nil, domTitle
	}
	return []string{body}, nil, domTitle
}
