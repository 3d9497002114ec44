// Package frontier implements the per-crawler URL frontier (§4.B): a
// unique-membership set of URLs to visit, drained by get-next with an
// age filter against the raw-page TTL index, and refilled by a
// kind-specific generate callback when it runs dry.
package frontier

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/trendin/entitycrawler/store"
)

// RawPageIndex is the subset of store.PagesRaw the age filter needs.
type RawPageIndex interface {
	Get(url string, now time.Time) (store.RawPage, bool)
}

// Frontier is a per-crawler set of pending URLs plus the start URL's
// last-crawled bookkeeping used for cadence checks by the crawl
// package.
type Frontier struct {
	mu    sync.Mutex
	urls  map[string]struct{}
	raw   RawPageIndex
	clock clock.Clock

	StartURL            string
	StartURLLastCrawled time.Time
}

// New creates an empty frontier seeded with startURL's bookkeeping.
// raw is consulted by the age filter; clk is the injectable time
// source (use clock.New() in production, clock.NewMock() in tests).
func New(startURL string, raw RawPageIndex, clk clock.Clock) *Frontier {
	if clk == nil {
		clk = clock.New()
	}
	return &Frontier{
		urls:     make(map[string]struct{}),
		raw:      raw,
		clock:    clk,
		StartURL: startURL,
	}
}

// Push adds urls to the frontier's set; duplicates of a URL already
// pending are coalesced for free by set membership. A URL that was
// popped is no longer in the set, so pushing it again re-adds it.
func (f *Frontier) Push(urls ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range urls {
		if u == "" {
			continue
		}
		f.urls[u] = struct{}{}
	}
}

// Len reports the number of pending URLs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.urls)
}

// pop removes and returns an arbitrary URL from the set; Go map
// iteration order is the source of the "any order" semantics §4.B
// calls for.
func (f *Frontier) pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for u := range f.urls {
		delete(f.urls, u)
		return u, true
	}
	return "", false
}

// fresh reports whether url has a non-expired Crawled Page record,
// meaning it should be skipped rather than re-visited.
func (f *Frontier) fresh(url string) bool {
	if f.raw == nil {
		return false
	}
	_, ok := f.raw.Get(url, f.clock.Now())
	return ok
}

// PopFresh pops URLs off the set, discarding any that fail the age
// filter, until it finds one to return or the set is exhausted. It
// never calls generate — callers needing the full get-next() sequence
// either use GetNext or, for kinds that need to reserve one generated
// URL ahead of the rest (RSS), drive PopFresh and Push directly.
func (f *Frontier) PopFresh() (string, bool) {
	for {
		u, ok := f.pop()
		if !ok {
			return "", false
		}
		if f.fresh(u) {
			continue
		}
		return u, true
	}
}

// GetNext implements get-next() for kinds whose generate() always
// refills the whole set uniformly (links, sitemap): pop a fresh URL,
// refilling via generate when the set is empty, until a usable URL is
// found or generate yields nothing.
func (f *Frontier) GetNext(generate func() []string) (string, bool) {
	for {
		if u, ok := f.PopFresh(); ok {
			return u, true
		}
		generated := generate()
		if len(generated) == 0 {
			return "", false
		}
		f.Push(generated...)
	}
}
