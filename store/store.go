// Package store defines the abstract persistent-store contract (§6):
// raw and extracted pages, site-level entity/candidate aggregates,
// and the entity catalog. URL patterns, crawlers and sites have no
// collection here. No document-store driver (MongoDB or otherwise)
// appears anywhere in the retrieved pack, so this package ships
// in-memory reference implementations grounded on the teacher's
// mutex-guarded-map idiom; a real backing client can implement
// PagesRaw, PagesExtracted, aggregate.Store and entity.Catalog
// without touching any caller.
package store

import "time"

// RawPage is a cached scrape, keyed by URL, evicted once past ExpiresAt.
type RawPage struct {
	URL                string
	ParserID           string
	HTML               string
	Links              []string
	FetchedAt          time.Time
	PublicationDate    time.Time
	HasPublicationDate bool
	Metadata           map[string][]string
	Text               []string
	Title              string
	HighlightedStrings []string
	ExpiresAt          time.Time
}

// ExtractedPage is a durable, upserted-by-URL extraction result.
type ExtractedPage struct {
	URL               string
	SiteHostname      string
	ParserID          string
	ExtractorID       string
	ExtractedAt       time.Time
	Title             string
	Text              string
	Keywords          []string
	Entities          []ExtractedEntity
	Candidates        []ExtractedEntity
	SuggestedEntities []string
	URLPatternID      string
	Categories        []string
	ExcludeWords      []string
}

// ExtractedEntity is the on-wire entity/candidate shape nested inside
// an ExtractedPage.
type ExtractedEntity struct {
	Name     string
	Category string
	Score    float64
	Count    int
	Class    string
}

// PagesRaw is the TTL-indexed cache of scraped pages.
type PagesRaw interface {
	Get(url string, now time.Time) (RawPage, bool)
	Upsert(p RawPage)
}

// PagesExtracted is the durable extracted-page store.
type PagesExtracted interface {
	Get(url string) (ExtractedPage, bool)
	Upsert(p ExtractedPage)
	BySite(siteHostname string) []ExtractedPage
}
