// Package fleet implements the scheduler (§4.H): two registries
// (active, paused) of running crawler instances, a shared ready ring
// giving round-robin service, and the per-tick pipeline that drives
// each crawler through scrape, extract and persist.
package fleet

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dustin/go-humanize"

	"github.com/trendin/entitycrawler/aggregate"
	"github.com/trendin/entitycrawler/crawl"
	"github.com/trendin/entitycrawler/extractor"
	"github.com/trendin/entitycrawler/fetcher"
	"github.com/trendin/entitycrawler/frontier"
	"github.com/trendin/entitycrawler/messaging"
	"github.com/trendin/entitycrawler/scraper"
	"github.com/trendin/entitycrawler/site"
	"github.com/trendin/entitycrawler/store"
)

const (
	defaultConcurrencyLimit = 2
	defaultRingPopTimeout   = 3 * time.Second
)

// instance is one enrolled crawler: its runtime object plus a pointer
// back into the authoritative Site/Crawler table so Pulse and Tick
// can observe and mutate status/crawled-count in place.
type instance struct {
	crawler *crawl.Crawler
	record  *site.Crawler
	isHTML  func(url string) bool
}

// Fleet is the scheduler. One Fleet serves every enrolled crawler
// across every site.
type Fleet struct {
	mu     sync.Mutex
	active map[string]*instance
	paused map[string]*instance
	ring   *Ring

	registry *site.Registry
	fetch    fetcher.Fetcher
	extr     *extractor.Extractor
	queue    messaging.Producer

	rawPages       *store.MemPagesRaw
	extractedPages store.PagesExtracted
	entityAgg      *aggregate.Aggregator
	candidateAgg   *aggregate.Aggregator

	clock  clock.Clock
	logger *log.Logger

	concurrencyLimit int32
	inFlight         int32

	// DailyLimit gates transactions-per-day; 0 means unlimited. The
	// spec names the mechanism but, unlike concurrent_requests_limit's
	// explicit default of 2, never states a default cap, so this
	// ships disabled until an operator sets one.
	DailyLimit  int
	txToday     int
	txResetDate string
}

// Options configures a new Fleet; zero-valued fields fall back to the
// package defaults.
type Options struct {
	ConcurrencyLimit int
	Clock            clock.Clock
}

// New creates a Fleet wired to its collaborators.
func New(registry *site.Registry, fetch fetcher.Fetcher, extr *extractor.Extractor,
	queue messaging.Producer, rawPages *store.MemPagesRaw, extractedPages store.PagesExtracted,
	entityAgg, candidateAgg *aggregate.Aggregator, opts Options) *Fleet {
	limit := opts.ConcurrencyLimit
	if limit <= 0 {
		limit = defaultConcurrencyLimit
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Fleet{
		active:           make(map[string]*instance),
		paused:           make(map[string]*instance),
		ring:             NewRing(),
		registry:         registry,
		fetch:            fetch,
		extr:             extr,
		queue:            queue,
		rawPages:         rawPages,
		extractedPages:   extractedPages,
		entityAgg:        entityAgg,
		candidateAgg:     candidateAgg,
		clock:            clk,
		logger:           log.New(os.Stderr, "fleet: ", log.LstdFlags),
		concurrencyLimit: int32(limit),
	}
}

// buildCrawler constructs a *crawl.Crawler runtime from a site.Crawler
// record: a Frontier backed by the raw-page TTL index, the scraper
// variant it names, and (for RSS) a feed fetcher.
func (f *Fleet) buildCrawler(sc *site.Crawler) (*crawl.Crawler, error) {
	scr, err := scraper.New(sc.ScraperKind, f.fetch, f.clock.Now)
	if err != nil {
		return nil, err
	}
	fr := frontier.New(sc.StartURL, f.rawPages, f.clock)

	var feed interface {
		FetchEntries(string) ([]string, error)
	}
	if sc.Kind == site.RSS {
		feed = crawl.NewGoqueryFeedFetcher(f.fetch)
	}

	return crawl.New(sc.ID, sc.Kind, sc.Frequency, fr, scr, sc.Patterns, feed, f.clock), nil
}

// Enroll implements the Enroll operation: if the crawler is enabled,
// create (or revive) its runtime instance, mark it running, and push
// its id onto the ready ring.
func (f *Fleet) Enroll(sc *site.Crawler) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if sc.Status != site.Enabled {
		return nil
	}
	if _, ok := f.active[sc.ID]; ok {
		return nil
	}

	inst, wasPaused := f.paused[sc.ID]
	if wasPaused {
		delete(f.paused, sc.ID)
	} else {
		crawler, err := f.buildCrawler(sc)
		if err != nil {
			return err
		}
		inst = &instance{crawler: crawler, record: sc, isHTML: func(u string) bool { return scraper.IsHTML(f.fetch, u) }}
	}

	sc.RuntimeStatus = site.Running
	f.active[sc.ID] = inst
	f.ring.PushRight(sc.ID)
	return nil
}

// Disable implements the Disable/delete operation: mark
// runtime-status stopped, drop from every registry and the ring.
func (f *Fleet) Disable(crawlerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if inst, ok := f.active[crawlerID]; ok {
		inst.record.RuntimeStatus = site.Stopped
		delete(f.active, crawlerID)
	}
	if inst, ok := f.paused[crawlerID]; ok {
		inst.record.RuntimeStatus = site.Stopped
		delete(f.paused, crawlerID)
	}
	f.ring.RemoveValue(crawlerID)
}

// Tick implements one scheduler tick: pop the next ready crawler-id
// with a bounded wait, honor the concurrency cap and the per-day
// transaction counter, then drive it through crawl-page, extract and
// persist.
func (f *Fleet) Tick() {
	if atomic.LoadInt32(&f.inFlight) >= atomic.LoadInt32(&f.concurrencyLimit) {
		return
	}

	id, ok := f.ring.PopLeft(defaultRingPopTimeout)
	if !ok {
		return
	}

	if f.dailyLimitExceeded() {
		f.ring.PushLeft(id) // returned to the head of the queue, per spec.md §4.H
		return
	}

	f.mu.Lock()
	inst, ok := f.active[id]
	f.mu.Unlock()
	if !ok {
		return
	}

	atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)

	if inst.crawler.Paused() {
		f.mu.Lock()
		delete(f.active, id)
		f.paused[id] = inst
		f.mu.Unlock()
		return
	}

	f.runOnce(inst)
	f.incrementDailyCounter()

	f.mu.Lock()
	if _, stillActive := f.active[id]; stillActive {
		f.ring.PushRight(id)
	}
	f.mu.Unlock()
}

// runOnce executes crawl-page → extract → persist for one instance,
// logging and returning early at the first failure (a nil PageRecord
// or a nil Page means "nothing to do this tick", not an error).
func (f *Fleet) runOnce(inst *instance) {
	page := inst.crawler.CrawlPage(inst.isHTML)
	if page == nil {
		return
	}

	f.persistRawPage(inst.record, page)

	extracted, err := f.extr.Extract(page)
	if err != nil {
		f.logger.Println("extract failed:", err)
		return
	}

	f.persistExtractedPage(inst.record, extracted)
	f.persistAggregates(inst.record, extracted)
	f.enqueueResult(extracted)

	inst.record.CrawledCount++
	f.logger.Printf("crawled %s (%s total)", page.URL, humanize.Comma(inst.record.CrawledCount))
}

// enqueueResult forwards the extraction onto the message queue so
// decoupled downstream components (presentation, alerting) can react
// without the fleet depending on them directly, mirroring the
// teacher's enqueueResults framing around messaging.Producer.
func (f *Fleet) enqueueResult(page *extractor.Page) {
	if f.queue == nil {
		return
	}
	payload, err := json.Marshal(page)
	if err != nil {
		f.logger.Println("marshal extracted page failed:", err)
		return
	}
	if err := f.queue.Produce(payload); err != nil {
		f.logger.Println("unable to communicate with message queue:", err)
	}
}

func (f *Fleet) persistRawPage(sc *site.Crawler, page *scraper.PageRecord) {
	expires := f.clock.Now().Add(sc.MaxAge)
	f.rawPages.Upsert(store.RawPage{
		URL:                page.URL,
		ParserID:           page.Parser,
		HTML:               page.HTML,
		Links:              page.Links,
		FetchedAt:          f.clock.Now(),
		PublicationDate:    page.Date,
		HasPublicationDate: page.HasDate,
		Metadata:           page.Metadata,
		Text:               page.Text,
		Title:              page.Title,
		HighlightedStrings: page.HighlightedStrings,
		ExpiresAt:          expires,
	})
}

func (f *Fleet) persistExtractedPage(sc *site.Crawler, page *extractor.Page) {
	entities := make([]store.ExtractedEntity, 0, len(page.Entities))
	for _, e := range page.Entities {
		entities = append(entities, store.ExtractedEntity{
			Name: e.Name, Category: e.Category,
			Score: e.Sentiment.Score, Count: e.Sentiment.Count, Class: string(e.Sentiment.Class),
		})
	}
	candidates := make([]store.ExtractedEntity, 0, len(page.Candidates))
	for _, c := range page.Candidates {
		candidates = append(candidates, store.ExtractedEntity{
			Name: c.Name, Score: c.Sentiment.Score, Count: c.Sentiment.Count, Class: string(c.Sentiment.Class),
		})
	}

	f.extractedPages.Upsert(store.ExtractedPage{
		URL:               page.URL,
		SiteHostname:      page.Site,
		ParserID:          page.Parser,
		ExtractorID:       page.Extractor,
		ExtractedAt:       page.ExtractedAt,
		Title:             page.Title,
		Text:              page.Text,
		Keywords:          page.Keywords,
		Entities:          entities,
		Candidates:        candidates,
		SuggestedEntities: page.SuggestedEntities,
		URLPatternID:      sc.DefaultPatternID,
	})
}

func (f *Fleet) persistAggregates(sc *site.Crawler, page *extractor.Page) {
	var entityIncs, candidateIncs []aggregate.Increment
	for _, e := range page.Entities {
		entityIncs = append(entityIncs, aggregate.Increment{
			Site: page.Site, Name: e.Name, Kind: aggregate.EntityKind,
			Count: e.Sentiment.Count, Score: e.Sentiment.Score,
		})
	}
	for _, c := range page.Candidates {
		candidateIncs = append(candidateIncs, aggregate.Increment{
			Site: page.Site, Name: c.Name, Kind: aggregate.CandidateKind,
			Count: c.Sentiment.Count, Score: c.Sentiment.Score,
		})
	}
	f.entityAgg.MergeAll(entityIncs)
	f.candidateAgg.MergeAll(candidateIncs)
}

// dailyLimitExceeded reports whether today's transaction counter has
// hit DailyLimit, resetting the counter first if the UTC date has
// rolled over since the last reset — the hourly-tick midnight reset
// from §4.H, collapsed here into a check performed on access since
// this package has no separate hourly timer of its own.
func (f *Fleet) dailyLimitExceeded() bool {
	if f.DailyLimit <= 0 {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	today := f.clock.Now().UTC().Format("2006-01-02")
	if f.txResetDate != today {
		f.txResetDate = today
		f.txToday = 0
	}
	return f.txToday >= f.DailyLimit
}

func (f *Fleet) incrementDailyCounter() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txToday++
}

// Pulse implements the once-per-minute reconciliation: enroll newly
// enabled crawlers, stop crawlers whose site or crawler is now
// disabled, and resume any paused instance whose cadence allows it.
func (f *Fleet) Pulse() {
	for _, s := range f.registry.All() {
		for _, sc := range s.Crawlers {
			enabled := s.Enabled() && sc.Status == site.Enabled
			f.mu.Lock()
			_, isActive := f.active[sc.ID]
			_, isPaused := f.paused[sc.ID]
			f.mu.Unlock()

			switch {
			case enabled && !isActive && !isPaused:
				if err := f.Enroll(sc); err != nil {
					f.logger.Println("enroll failed:", err)
				}
			case !enabled && (isActive || isPaused):
				f.Disable(sc.ID)
			}
		}
	}

	f.mu.Lock()
	var toResume []string
	for id, inst := range f.paused {
		if inst.crawler.Resume() {
			toResume = append(toResume, id)
		}
	}
	for _, id := range toResume {
		inst := f.paused[id]
		delete(f.paused, id)
		f.active[id] = inst
	}
	f.mu.Unlock()
	for _, id := range toResume {
		f.ring.PushRight(id)
	}
}
