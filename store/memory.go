package store

import (
	"sync"
	"time"
)

// MemPagesRaw is an in-memory reference PagesRaw, grounded on the
// teacher's mutex-guarded map idiom (cache.go).
type MemPagesRaw struct {
	mu    sync.Mutex
	pages map[string]RawPage
}

// NewMemPagesRaw creates an empty in-memory raw-page cache.
func NewMemPagesRaw() *MemPagesRaw {
	return &MemPagesRaw{pages: make(map[string]RawPage)}
}

// Get implements PagesRaw. A page past its ExpiresAt is treated as
// absent, matching the TTL-index contract.
func (m *MemPagesRaw) Get(url string, now time.Time) (RawPage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pages[url]
	if !ok {
		return RawPage{}, false
	}
	if !p.ExpiresAt.IsZero() && !p.ExpiresAt.After(now) {
		return RawPage{}, false
	}
	return p, true
}

// Upsert implements PagesRaw.
func (m *MemPagesRaw) Upsert(p RawPage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[p.URL] = p
}

// MemPagesExtracted is an in-memory reference PagesExtracted.
type MemPagesExtracted struct {
	mu    sync.Mutex
	pages map[string]ExtractedPage
}

// NewMemPagesExtracted creates an empty in-memory extracted-page store.
func NewMemPagesExtracted() *MemPagesExtracted {
	return &MemPagesExtracted{pages: make(map[string]ExtractedPage)}
}

// Get implements PagesExtracted.
func (m *MemPagesExtracted) Get(url string) (ExtractedPage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pages[url]
	return p, ok
}

// Upsert implements PagesExtracted.
func (m *MemPagesExtracted) Upsert(p ExtractedPage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[p.URL] = p
}

// BySite implements PagesExtracted's secondary site index.
func (m *MemPagesExtracted) BySite(siteHostname string) []ExtractedPage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []ExtractedPage
	for _, p := range m.pages {
		if p.SiteHostname == siteHostname {
			result = append(result, p)
		}
	}
	return result
}
