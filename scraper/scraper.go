// Package scraper implements the content scraping pipeline: fetching
// a remote page, normalizing its body, and producing a PageRecord
// that the extractor pipeline consumes. Three concrete variants share
// a common base behavior (fetch, date heuristics, link extraction)
// and diverge only in how they pull text out of the markup.
package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/trendin/entitycrawler/crawlerrors"
	"github.com/trendin/entitycrawler/fetcher"
	"github.com/trendin/entitycrawler/htmlutil"
)

// Kind names a scraper variant, mirroring the `parser` field stored on
// a PageRecord.
type Kind string

const (
	Soup        Kind = "SoupScrapper3"
	Newspaper   Kind = "NewspScrapper1"
	Readability Kind = "ReadabilityScrapper1"
)

// PageRecord is the literal key set every Scraper populates. Every
// field is always present; callers do not check the fields, and a
// record with empty Text is rejected later by the extractor.
type PageRecord struct {
	URL                string
	Parser             string
	HTML               string
	Date               time.Time
	HasDate            bool
	Metadata           map[string][]string
	Links              []string
	Text               []string
	Title              string
	HighlightedStrings []string
}

// Scraper fetches and parses a single page into a PageRecord.
type Scraper interface {
	Scrape(url string) (*PageRecord, error)
	ScrapeRSS(url string) (*PageRecord, error)
}

// base holds the fetch + date + link machinery shared by every
// variant; each variant embeds it and supplies its own text
// extraction.
type base struct {
	fetcher Kind
	fetch   fetcher.Fetcher
	now     func() time.Time
	textFn  func(doc *goquery.Document, html, title string) (text, highlights []string, resolvedTitle string)
}

func newBase(kind Kind, f fetcher.Fetcher, now func() time.Time) base {
	return base{fetcher: kind, fetch: f, now: now}
}

func (b *base) fetchAndParse(url string) (html string, doc *goquery.Document, err error) {
	_, body, _, err := b.fetch.Get(url)
	if err != nil {
		return "", nil, err
	}
	normalized := strings.Join(strings.Fields(string(body)), " ")
	doc, parseErr := goquery.NewDocumentFromReader(strings.NewReader(normalized))
	if parseErr != nil {
		return normalized, nil, &crawlerrors.FetchError{URL: url, Err: parseErr}
	}
	return normalized, doc, nil
}

func (b *base) record(url string, html string, doc *goquery.Document, links []string) *PageRecord {
	date, hasDate := htmlutil.BestEffortDate(doc, html, b.now())
	meta := htmlutil.ExtractMeta(doc)
	domTitle := ""
	if doc != nil {
		domTitle = strings.TrimSpace(doc.Find("title").First().Text())
	}
	text, highlights, title := b.textFn(doc, html, domTitle)

	return &PageRecord{
		URL:                url,
		Parser:             string(b.fetcher),
		HTML:               html,
		Date:               date,
		HasDate:            hasDate,
		Metadata:           meta,
		Links:              links,
		Text:               text,
		Title:              title,
		HighlightedStrings: highlights,
	}
}

func (b *base) scrape(url string) (*PageRecord, error) {
	html, doc, err := b.fetchAndParse(url)
	if err != nil {
		return nil, err
	}
	links := htmlutil.ExtractLinks(doc, html, url)
	return b.record(url, html, doc, links), nil
}

func (b *base) scrapeRSS(url string) (*PageRecord, error) {
	html, doc, err := b.fetchAndParse(url)
	if err != nil {
		return nil, err
	}
	rec := b.record(url, html, doc, nil)
	rec.Links = nil
	return rec, nil
}

// New builds the Scraper named by kind, or a *crawlerrors.NoSuchScraperError
// if kind names nothing known.
func New(kind Kind, f fetcher.Fetcher, now func() time.Time) (Scraper, error) {
	switch kind {
	case Soup:
		return newSoupScraper(f, now), nil
	case Newspaper:
		return newNewspaperScraper(f, now), nil
	case Readability, "":
		return newReadabilityScraper(f, now), nil
	default:
		return nil, &crawlerrors.NoSuchScraperError{Kind: string(kind)}
	}
}
