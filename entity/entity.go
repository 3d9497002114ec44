// Package entity implements the Entity Dictionary: a catalog lookup
// by case-folded, stemmed name, backed by two bounded, flush-on-full
// process-local caches so that repeated lookups of the same name
// across a crawl don't round-trip to the catalog's backing store.
package entity

import (
	"strings"
	"sync"

	"github.com/kljensen/snowball"
)

// localCacheSize is the capacity of each of the hit/miss caches; on
// overflow the whole cache is cleared rather than evicting the
// least-recently-used entry, trading a little redundant lookup work
// for a trivially simple, lock-cheap implementation.
const localCacheSize = 120

// Entry is a catalog entry as handed back by a successful Check.
type Entry struct {
	Name       string
	NormName   string
	Category   string
	Source     string
	OccurCount int64
	Disabled   bool
}

// Catalog is the backing store a Dictionary consults on a cache miss.
// Implementations increment the occurrence counter as a side effect
// of a live lookup; the counter is observational and callers never
// depend on its exact value.
type Catalog interface {
	LookupAndIncrement(normName string) (*Entry, bool)
}

// Dictionary wraps a Catalog with the hit/miss cache policy from the
// spec: fold and stem the name, consult the hit cache, then the miss
// cache, then the backing catalog.
type Dictionary struct {
	catalog Catalog

	mu   sync.Mutex
	hit  map[string]*Entry
	miss map[string]bool
}

// New creates a Dictionary backed by catalog.
func New(catalog Catalog) *Dictionary {
	return &Dictionary{
		catalog: catalog,
		hit:     make(map[string]*Entry),
		miss:    make(map[string]bool),
	}
}

// Fold normalizes a raw entity-candidate name into the lookup key
// used by the catalog and both caches: lowercased and stemmed so that
// trivial morphological variants ("running" / "runs" / "run") collapse
// onto the same catalog entry.
func Fold(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	words := strings.Fields(lower)
	for i, w := range words {
		if stemmed, err := snowball.Stem(w, "english", true); err == nil {
			words[i] = stemmed
		}
	}
	return strings.Join(words, " ")
}

// Check looks up name, returning the live catalog Entry on a hit, or
// nil if the name is unknown or disabled. It is the single entry
// point implementing the spec's cache policy: hit cache, then miss
// cache, then a live catalog lookup that populates exactly one of the
// two caches, clearing it first if it is already at capacity.
func (d *Dictionary) Check(name string) *Entry {
	key := Fold(name)

	d.mu.Lock()
	if e, ok := d.hit[key]; ok {
		d.mu.Unlock()
		return e
	}
	if d.miss[key] {
		d.mu.Unlock()
		return nil
	}
	d.mu.Unlock()

	entry, ok := d.catalog.LookupAndIncrement(key)

	d.mu.Lock()
	defer d.mu.Unlock()
	if !ok || entry == nil || entry.Disabled {
		if len(d.miss) >= localCacheSize {
			d.miss = make(map[string]bool)
		}
		d.miss[key] = true
		return nil
	}
	if len(d.hit) >= localCacheSize {
		d.hit = make(map[string]*Entry)
	}
	d.hit[key] = entry
	return entry
}
