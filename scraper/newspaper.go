package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/trendin/entitycrawler/fetcher"
)

// newspaperScraper delegates article extraction to a heuristic
// article-body detector (no Go article-extractor library exists in
// the ecosystem the rest of this module draws from) and concatenates
// title and body into a single text piece, with no highlights.
type newspaperScraper struct {
	base
}

func newNewspaperScraper(f fetcher.Fetcher, now func() time.Time) *newspaperScraper {
	s := &newspaperScraper{base: newBase(Newspaper, f, now)}
	s.base.textFn = s.extractText
	return s
}

func (s *newspaperScraper) Scrape(url string) (*PageRecord, error) { return s.scrape(url) }

func (s *newspaperScraper) ScrapeRSS(url string) (*PageRecord, error) { return s.scrapeRSS(url) }

func (s *newspaperScraper) extractText(doc *goquery.Document, rawHTML, domTitle string) ([]string, []string, string) {
	if doc == nil {
		return nil, nil, domTitle
	}
	body := articleBody(doc)
	if body == "" {
		return nil, nil, domTitle
	}
	piece := domTitle + ". " + body
	return []string{piece}, nil, domTitle
}

// articleBody picks the element among <article>, <main>, and the
// largest-by-text-length candidate among common body containers, and
// returns its collapsed text. This is the standard-library/goquery
// stand-in for a dedicated article-extraction library.
func articleBody(doc *goquery.Document) string {
	if sel := doc.Find("article").First(); sel.Length() > 0 {
		return normalizeText(sel.Text())
	}
	if sel := doc.Find("main").First(); sel.Length() > 0 {
		return normalizeText(sel.Text())
	}

	best := ""
	doc.Find("div, section").Each(func(_ int, sel *goquery.Selection) {
		t := normalizeText(sel.Text())
		if len(t) > len(best) {
			best = t
		}
	})
	return best
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
