package store

import (
	"sync"

	"github.com/trendin/entitycrawler/aggregate"
)

// SiteAggregates backs the site_entities/site_candidates collections
// (unique by (site, name)) and implements aggregate.Store. Entities
// and candidates are kept in separate underlying maps even though
// they share this same type, mirroring the spec's "structurally
// identical but kept in a separate set" requirement — callers
// construct one SiteAggregates per collection.
type SiteAggregates struct {
	mu      sync.Mutex
	records map[string]aggregate.Record
}

// NewSiteAggregates creates an empty aggregate collection.
func NewSiteAggregates() *SiteAggregates {
	return &SiteAggregates{records: make(map[string]aggregate.Record)}
}

func aggregateKey(site, name string) string { return site + "\x00" + name }

// Get implements aggregate.Store.
func (s *SiteAggregates) Get(site, name string) (aggregate.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[aggregateKey(site, name)]
	return r, ok
}

// Upsert implements aggregate.Store.
func (s *SiteAggregates) Upsert(r aggregate.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[aggregateKey(r.Site, r.Name)] = r
}

// TopN returns the N records for site with the highest Count,
// descending. Used by the admin Stats read-model.
func (s *SiteAggregates) TopN(site string, n int) []aggregate.Record {
	return topBy(s.bySite(site), n, func(r aggregate.Record) float64 { return float64(r.Count) })
}

// MostPositive returns the N records for site with the highest Mean.
func (s *SiteAggregates) MostPositive(site string, n int) []aggregate.Record {
	return topBy(s.bySite(site), n, func(r aggregate.Record) float64 { return r.Mean })
}

// MostNegative returns the N records for site with the lowest Mean.
func (s *SiteAggregates) MostNegative(site string, n int) []aggregate.Record {
	return topBy(s.bySite(site), n, func(r aggregate.Record) float64 { return -r.Mean })
}

func (s *SiteAggregates) bySite(site string) []aggregate.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []aggregate.Record
	for _, r := range s.records {
		if r.Site == site {
			result = append(result, r)
		}
	}
	return result
}

func topBy(records []aggregate.Record, n int, key func(aggregate.Record) float64) []aggregate.Record {
	sorted := append([]aggregate.Record(nil), records...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && key(sorted[j]) > key(sorted[j-1]); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
