// Package aggregate implements the per-site entity/candidate
// aggregator: a running-mean sentiment keyed by (site, normalized
// name), accumulated across every page extracted for that site.
package aggregate

import "sync"

// Record is one (site, name) aggregate.
type Record struct {
	Site  string
	Name  string
	Count int
	Mean  float64
}

// Store is the persistence contract the aggregator reads/writes
// through; store.SiteAggregates (package store) is the reference
// implementation.
type Store interface {
	Get(site, name string) (Record, bool)
	Upsert(r Record)
}

// Aggregator merges newly scored entities/candidates from one page
// into the per-site running mean.
type Aggregator struct {
	mu    sync.Mutex
	store Store
}

// New creates an Aggregator backed by store.
func New(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// Kind distinguishes an entity aggregate (subject to the zero-score
// guard below) from a candidate aggregate (always weighted-averaged).
type Kind int

const (
	EntityKind Kind = iota
	CandidateKind
)

// Increment contains one page's contribution for a single (site,
// name): the count of mentions and their mean sentiment over the
// page.
type Increment struct {
	Site  string
	Name  string
	Kind  Kind
	Count int
	Score float64
}

// Merge folds a single Increment into its prior aggregate: new count
// = prior.count + inc.count; new mean is the count-weighted average
// of the two means. For an EntityKind increment whose Score is
// exactly 0, the prior mean is kept unchanged instead (a zero-score
// contribution, e.g. a keyword attribution, never drags the aggregate
// toward zero); CandidateKind increments always use the weighted mean.
func (a *Aggregator) Merge(inc Increment) Record {
	a.mu.Lock()
	defer a.mu.Unlock()

	prior, ok := a.store.Get(inc.Site, inc.Name)
	if !ok {
		rec := Record{Site: inc.Site, Name: inc.Name, Count: inc.Count, Mean: inc.Score}
		a.store.Upsert(rec)
		return rec
	}

	newCount := prior.Count + inc.Count
	newMean := prior.Mean
	if inc.Kind == CandidateKind || inc.Score != 0 {
		sum := prior.Mean*float64(prior.Count) + inc.Score*float64(inc.Count)
		newMean = sum / float64(newCount)
	}
	rec := Record{Site: inc.Site, Name: inc.Name, Count: newCount, Mean: newMean}
	a.store.Upsert(rec)
	return rec
}

// MergeAll folds every increment, returning the resulting records in
// the same order. Within one call, repeated increments for the same
// (site, name) are applied in sequence, collapsing to one effective
// write per name the way an unordered bulk upsert would.
func (a *Aggregator) MergeAll(incs []Increment) []Record {
	results := make([]Record, 0, len(incs))
	for _, inc := range incs {
		results = append(results, a.Merge(inc))
	}
	return results
}
