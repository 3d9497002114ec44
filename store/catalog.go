package store

import (
	"sync"

	"github.com/trendin/entitycrawler/entity"
)

// EntityCatalog is the persistent entity_catalog collection (by
// normalized-name) and an in-memory reference implementation of
// entity.Catalog, so entity.Dictionary can be backed directly by it.
type EntityCatalog struct {
	mu      sync.Mutex
	entries map[string]*entity.Entry
}

// NewEntityCatalog creates an empty in-memory entity catalog.
func NewEntityCatalog() *EntityCatalog {
	return &EntityCatalog{entries: make(map[string]*entity.Entry)}
}

// Put inserts or replaces a catalog entry keyed by its normalized name.
func (c *EntityCatalog) Put(e *entity.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[e.NormName] = e
}

// LookupAndIncrement implements entity.Catalog.
func (c *EntityCatalog) LookupAndIncrement(normName string) (*entity.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[normName]
	if !ok {
		return nil, false
	}
	e.OccurCount++
	return e, true
}
