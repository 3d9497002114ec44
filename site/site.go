// Package site owns the Site/Crawler/URL Pattern data model and the
// admin-surface operations a management layer calls: create-site,
// add-crawler, save-pattern, extract-url, plus the supplemented
// read-model (Stats) and cascading enable/disable behavior carried
// over from the original implementation.
package site

import (
	"fmt"
	"net/url"
	"time"

	"github.com/trendin/entitycrawler/aggregate"
	"github.com/trendin/entitycrawler/crawlerrors"
	"github.com/trendin/entitycrawler/pattern"
	"github.com/trendin/entitycrawler/scraper"
)

// CrawlerKind names the per-crawler generation strategy (§4.G).
type CrawlerKind string

const (
	Links   CrawlerKind = "links"
	Sitemap CrawlerKind = "sitemap"
	RSS     CrawlerKind = "rss"
)

// Status is a Crawler's or Site's administrative enable/disable state.
type Status string

const (
	Enabled  Status = "enabled"
	Disabled Status = "disabled"
)

// RuntimeStatus is a Crawler's runtime state within the fleet.
type RuntimeStatus string

const (
	Stopped RuntimeStatus = "stopped"
	Running RuntimeStatus = "running"
	Paused  RuntimeStatus = "paused"
)

// Crawler is one crawling unit owned by a Site.
type Crawler struct {
	ID               string
	SiteID           string
	StartURL         string
	ScraperKind      scraper.Kind
	ExtractorKind    string
	Kind             CrawlerKind
	MaxAge           time.Duration
	Frequency        time.Duration
	Status           Status
	RuntimeStatus    RuntimeStatus
	CrawledCount     int64
	DefaultPatternID string

	Patterns *pattern.Set
}

// Site is the top-level owner of a set of Crawlers.
type Site struct {
	ID        string
	Publisher string
	Name      string
	Hostname  string
	Category  string
	Status    Status
	Crawlers  []*Crawler
}

// Enabled reports whether the site is administratively enabled.
func (s *Site) Enabled() bool { return s.Status == Enabled }

// SetEnabled toggles the site's status and cascades the same status
// to every owned crawler, matching the original's Website.start/stop
// bulk-toggle behavior.
func (s *Site) SetEnabled(enabled bool) {
	if enabled {
		s.Status = Enabled
	} else {
		s.Status = Disabled
	}
	for _, c := range s.Crawlers {
		if enabled {
			c.Status = Enabled
		} else {
			c.Status = Disabled
			c.RuntimeStatus = Stopped
		}
	}
}

// Registry is the in-process directory of sites this build's admin
// operations act on. It is held in memory only; package store has no
// site, crawler or URL-pattern collection behind it.
type Registry struct {
	sites map[string]*Site
}

// NewRegistry creates an empty site registry.
func NewRegistry() *Registry {
	return &Registry{sites: make(map[string]*Site)}
}

// CreateSite implements the create-site admin operation (§6).
func (r *Registry) CreateSite(id, publisher, name, seedURL, category string) (*Site, error) {
	u, err := url.Parse(seedURL)
	if err != nil || u.Hostname() == "" {
		return nil, fmt.Errorf("create-site: invalid seed url %q: %w", seedURL, err)
	}
	s := &Site{
		ID:        id,
		Publisher: publisher,
		Name:      name,
		Hostname:  u.Hostname(),
		Category:  category,
		Status:    Enabled,
	}
	r.sites[id] = s
	return s, nil
}

// Get returns the site by id.
func (r *Registry) Get(id string) (*Site, bool) {
	s, ok := r.sites[id]
	return s, ok
}

// All returns every registered site, used by the fleet scheduler's
// Pulse reconciliation to walk the authoritative Site/Crawler table.
func (r *Registry) All() []*Site {
	sites := make([]*Site, 0, len(r.sites))
	for _, s := range r.sites {
		sites = append(sites, s)
	}
	return sites
}

// AddCrawler implements the add-crawler admin operation (§6). The
// initial pattern's regex is compiled and validated before the
// crawler is linked into the site, so a malformed pattern never
// half-creates a crawler — the original's creation-guard behavior.
func (r *Registry) AddCrawler(siteID, crawlerID string, kind CrawlerKind, startURL string, scraperKind scraper.Kind, maxAge, frequency time.Duration, initialPattern *pattern.Pattern) (*Crawler, error) {
	s, ok := r.sites[siteID]
	if !ok {
		return nil, fmt.Errorf("add-crawler: unknown site %q", siteID)
	}

	patterns := pattern.NewSet(crawlerID)
	if initialPattern != nil {
		initialPattern.CrawlerID = crawlerID
		if initialPattern.Hostname == "" {
			initialPattern.Hostname = s.Hostname
		}
		if err := patterns.Save(initialPattern, true); err != nil {
			return nil, err
		}
	}

	c := &Crawler{
		ID:            crawlerID,
		SiteID:        siteID,
		StartURL:      startURL,
		ScraperKind:   scraperKind,
		Kind:          kind,
		MaxAge:        maxAge,
		Frequency:     frequency,
		Status:        Enabled,
		RuntimeStatus: Stopped,
		Patterns:      patterns,
	}
	if initialPattern != nil {
		c.DefaultPatternID = initialPattern.ID
	}
	s.Crawlers = append(s.Crawlers, c)
	return c, nil
}

// SavePattern implements the save-pattern admin operation (§6).
func (c *Crawler) SavePattern(p *pattern.Pattern, isDefault bool) (string, error) {
	p.CrawlerID = c.ID
	if err := c.Patterns.Save(p, isDefault); err != nil {
		return "", err
	}
	if p.IsDefault {
		c.DefaultPatternID = p.ID
	}
	return p.ID, nil
}

// ExtractURLOptions configures the extract-url admin operation.
type ExtractURLOptions struct {
	MustMatchPattern bool
}

// ExtractURL implements the extract-url admin operation (§6): resolve
// url against every crawler's pattern set across the registry, and
// report crawlerrors.NoMatchedPatternError if MustMatchPattern is set
// and nothing matched.
func (r *Registry) ExtractURL(url string, opts ExtractURLOptions) (*pattern.Profile, error) {
	var sets []*pattern.Set
	for _, s := range r.sites {
		for _, c := range s.Crawlers {
			sets = append(sets, c.Patterns)
		}
	}
	profile, ok := pattern.ArbitraryMatch(sets, url)
	if !ok {
		if opts.MustMatchPattern {
			return nil, &crawlerrors.NoMatchedPatternError{URL: url}
		}
		return nil, nil
	}
	return profile, nil
}

// Stats is the admin read-model over a site's accumulated aggregates:
// top entities/candidates by mention count, plus the most positive
// and most negative entities by running-mean sentiment, restricted to
// entities with at least min(count of the last of the up-to-40 top
// entities, 10) mentions — the original's `entities_min_count` floor
// that keeps low-sample sentiment extremes out of the report.
type Stats struct {
	TopEntities   []aggregate.Record
	TopCandidates []aggregate.Record
	MostPositive  []aggregate.Record
	MostNegative  []aggregate.Record
}

const statsLimit = 40
const minCountFloor = 10

// BuildStats computes Stats for hostname from the backing aggregate
// stores, grounded on the original's Website.get_stats.
func BuildStats(hostname string, entities, candidates entityAggregateSource) Stats {
	topEntities := entities.TopN(hostname, statsLimit)
	if len(topEntities) == 0 {
		return Stats{}
	}
	minCount := topEntities[len(topEntities)-1].Count
	if minCount > minCountFloor {
		minCount = minCountFloor
	}

	var positive, negative []aggregate.Record
	for _, r := range entities.MostPositive(hostname, statsLimit) {
		if r.Count >= minCount {
			positive = append(positive, r)
		}
	}
	for _, r := range entities.MostNegative(hostname, statsLimit) {
		if r.Count >= minCount {
			negative = append(negative, r)
		}
	}

	return Stats{
		TopEntities:   topEntities,
		TopCandidates: candidates.TopN(hostname, statsLimit),
		MostPositive:  positive,
		MostNegative:  negative,
	}
}

// entityAggregateSource is the subset of *store.SiteAggregates
// BuildStats needs, kept as an unexported interface so this package
// does not import store directly (store already imports aggregate,
// and importing store from here would be a cycle-prone layering
// inversion for a read-only projection).
type entityAggregateSource interface {
	TopN(site string, n int) []aggregate.Record
	MostPositive(site string, n int) []aggregate.Record
	MostNegative(site string, n int) []aggregate.Record
}
