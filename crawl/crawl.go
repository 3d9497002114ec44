// Package crawl composes a per-site Crawler out of a Frontier,
// Scraper and URL Pattern Set (§4.G): the three crawler kinds (links,
// sitemap, rss), the start-URL pause/resume cadence, and the
// crawl-page per-tick state machine.
package crawl

import (
	"log"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dustin/go-humanize"

	"github.com/trendin/entitycrawler/frontier"
	"github.com/trendin/entitycrawler/pattern"
	"github.com/trendin/entitycrawler/scraper"
	"github.com/trendin/entitycrawler/site"
)

// Crawler drives one site.Crawler's frontier/scrape/ingest cycle.
// It holds no persistence itself; crawl-page returns a *scraper.PageRecord
// for the caller (the fleet scheduler) to extract and persist.
type Crawler struct {
	ID        string
	Kind      site.CrawlerKind
	Frequency time.Duration

	frontier *frontier.Frontier
	scraper  scraper.Scraper
	patterns *pattern.Set
	feed     feedFetcher
	clock    clock.Clock
	logger   *log.Logger

	paused bool
}

// feedFetcher isolates the RSS-specific feed-entry extraction so New
// can be unit tested with a stub instead of a live HTTP round trip.
type feedFetcher interface {
	FetchEntries(feedURL string) ([]string, error)
}

// New creates a Crawler. feed is nil for links/sitemap kinds and required
// for rss.
func New(id string, kind site.CrawlerKind, frequency time.Duration,
	fr *frontier.Frontier, scr scraper.Scraper, patterns *pattern.Set,
	feed feedFetcher, clk clock.Clock) *Crawler {
	if clk == nil {
		clk = clock.New()
	}
	return &Crawler{
		ID:        id,
		Kind:      kind,
		Frequency: frequency,
		frontier:  fr,
		scraper:   scr,
		patterns:  patterns,
		feed:      feed,
		clock:     clk,
		logger:    log.New(os.Stderr, "crawl["+id+"]: ", log.LstdFlags),
	}
}

// Paused reports whether the crawler is currently waiting out its
// start-URL cadence.
func (c *Crawler) Paused() bool { return c.paused }

// checkCadence implements the shared pause/resume rule: it reports
// whether the start URL (or an RSS regeneration) may proceed now,
// pausing the crawler and returning false if not enough time has
// elapsed since the last time the start URL was crawled.
func (c *Crawler) checkCadence() bool {
	now := c.clock.Now()
	if !c.frontier.StartURLLastCrawled.IsZero() &&
		now.Before(c.frontier.StartURLLastCrawled.Add(c.Frequency)) {
		c.paused = true
		return false
	}
	c.paused = false
	c.frontier.StartURLLastCrawled = now
	return true
}

// Resume clears the paused flag if the cadence now allows the start
// URL to run again, without forcing a generate() call. Used by the
// fleet's reconciliation pulse to test whether a paused instance may
// move back to active.
func (c *Crawler) Resume() bool {
	now := c.clock.Now()
	if c.frontier.StartURLLastCrawled.IsZero() ||
		!now.Before(c.frontier.StartURLLastCrawled.Add(c.Frequency)) {
		c.paused = false
		return true
	}
	return false
}

// generate implements the kind-specific §4.G generate() used when the
// frontier's set runs dry.
func (c *Crawler) generate() []string {
	switch c.Kind {
	case site.RSS:
		if !c.checkCadence() {
			return nil
		}
		entries, err := c.feed.FetchEntries(c.frontier.StartURL)
		if err != nil {
			c.logger.Println("feed fetch failed:", err)
			return nil
		}
		if len(entries) == 0 {
			return nil
		}
		// Reserve the first entry as the immediate next URL; push the
		// remainder for later cycles.
		if len(entries) > 1 {
			c.frontier.Push(entries[1:]...)
		}
		return entries[:1]
	default: // Links, Sitemap: re-seed from the configured start page.
		if !c.checkCadence() {
			return nil
		}
		return []string{c.frontier.StartURL}
	}
}

// getNext pulls the next URL to visit, logging frontier size for
// operational visibility in the teacher's humanized-log idiom.
//
// RSS bypasses frontier.GetNext's generic push-then-pop loop: its
// generate() reserves one feed entry as the authoritative immediate
// next URL and pushes the remaining entries into the frontier as a
// side effect, so handing that reserved entry back through the set
// (where Go's randomized map iteration could return a different
// entry first) would silently break the "immediate next" guarantee.
func (c *Crawler) getNext() (string, bool) {
	var u string
	var ok bool
	if c.Kind == site.RSS {
		u, ok = c.frontier.PopFresh()
		if !ok {
			generated := c.generate()
			if len(generated) > 0 {
				u, ok = generated[0], true
			}
		}
	} else {
		u, ok = c.frontier.GetNext(c.generate)
	}
	if ok {
		c.logger.Printf("next: %s (%s pending)", u, humanize.Comma(int64(c.frontier.Len())))
	}
	return u, ok
}

// CrawlPage runs one §4.G crawl-page() tick: pull a URL, honor
// pause/cadence, require HTML, scrape, ingest links for non-RSS
// kinds, and return the resulting PageRecord. A nil record means
// "nothing to do this tick" (drained, paused, not HTML, or a logged
// scrape failure) — not itself an error condition.
func (c *Crawler) CrawlPage(isHTML func(url string) bool) *scraper.PageRecord {
	url, ok := c.getNext()
	if !ok {
		return nil
	}
	if c.paused {
		return nil
	}
	if !isHTML(url) {
		return nil
	}

	page, err := c.scraper.Scrape(url)
	if err != nil {
		c.logger.Println("scrape failed:", err)
		return nil
	}

	if c.Kind != site.RSS {
		c.ingestLinks(page.Links)
	}
	return page
}

// ingestLinks pushes every link validated by the crawler's URL
// Pattern Set into the frontier (§4.A + §4.G process-links).
func (c *Crawler) ingestLinks(links []string) {
	var valid []string
	for _, l := range links {
		if c.patterns.Validate(l) {
			valid = append(valid, l)
		}
	}
	c.frontier.Push(valid...)
}
