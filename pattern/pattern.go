// Package pattern implements the URL Pattern Set owned by a single
// crawler: a list of regex-backed matching rules, exactly one of
// which may be the crawler's default, used to decide whether a
// discovered URL is worth scraping and which harvesting profile
// applies to it.
package pattern

import (
	"regexp"
	"strings"

	"github.com/trendin/entitycrawler/crawlerrors"
	"github.com/trendin/entitycrawler/htmlutil"
)

// disallowedExtensions are raw asset suffixes that never validate,
// regardless of pattern match.
var disallowedExtensions = []string{".jpg", ".png"}

// Pattern is a single URL matching rule belonging to one crawler.
type Pattern struct {
	ID                  string
	CrawlerID           string
	Hostname            string
	RegexSource         string
	HarvesterCategories []string
	ExcludeWords        []string
	AdScript            string
	IsDefault           bool

	regex *regexp.Regexp
}

// Profile is the read-only harvesting profile handed back by a
// successful match: everything a scraper/extractor needs to know
// about the pattern that matched, without exposing the regex itself.
type Profile struct {
	PatternID           string
	HarvesterCategories []string
	ExcludeWords        []string
	AdScript            string
	IsDefault           bool
}

func (p *Pattern) profile() *Profile {
	return &Profile{
		PatternID:           p.ID,
		HarvesterCategories: p.HarvesterCategories,
		ExcludeWords:        p.ExcludeWords,
		AdScript:            p.AdScript,
		IsDefault:           p.IsDefault,
	}
}

// compile compiles and caches the case-insensitive regex for this
// pattern. It is invoked once at insert time so that Validate/Match
// never pay compilation cost on the hot path.
func (p *Pattern) compile() error {
	re, err := regexp.Compile("(?i)" + p.RegexSource)
	if err != nil {
		return &crawlerrors.InvalidPatternRegex{Pattern: p.RegexSource, Err: err}
	}
	p.regex = re
	return nil
}

// Set is the ordered collection of Patterns owned by a single
// crawler. Insertion order is preserved: it is the tie-break used
// when more than one non-default pattern matches.
type Set struct {
	crawlerID string
	patterns  []*Pattern
}

// NewSet creates an empty pattern set for the given crawler.
func NewSet(crawlerID string) *Set {
	return &Set{crawlerID: crawlerID}
}

// Save upserts a pattern into the set. The regex is compiled before
// the pattern is linked in, so a malformed regex never corrupts the
// set. If makeDefault requests default status, or the crawler currently has
// no default pattern, the saved pattern is promoted to default and
// any previous default is demoted.
func (s *Set) Save(p *Pattern, makeDefault bool) error {
	if err := p.compile(); err != nil {
		return err
	}

	idx := -1
	for i, existing := range s.patterns {
		if existing.ID == p.ID {
			idx = i
			break
		}
	}

	hasDefault := false
	for _, existing := range s.patterns {
		if existing.IsDefault && existing.ID != p.ID {
			hasDefault = true
			break
		}
	}

	if makeDefault || !hasDefault {
		for _, existing := range s.patterns {
			existing.IsDefault = false
		}
		p.IsDefault = true
	}

	if idx >= 0 {
		s.patterns[idx] = p
	} else {
		s.patterns = append(s.patterns, p)
	}
	return nil
}

// Validate reports whether url is eligible for scraping: it must not
// be a bare image asset, and after fragment-stripping it must match
// at least one pattern's regex.
func (s *Set) Validate(url string) bool {
	for _, ext := range disallowedExtensions {
		if strings.HasSuffix(strings.ToLower(url), ext) {
			return false
		}
	}
	stripped := htmlutil.StripFragment(url)
	for _, p := range s.patterns {
		if p.regex != nil && p.regex.MatchString(stripped) {
			return true
		}
	}
	return false
}

// Match strips the fragment and evaluates every pattern's regex
// against url. If any non-default pattern matches, the first such
// match in insertion order wins; otherwise the default pattern's
// profile is returned if it matched; otherwise none.
func (s *Set) Match(url string) (*Profile, bool) {
	stripped := htmlutil.StripFragment(url)
	var defaultMatch *Pattern
	for _, p := range s.patterns {
		if p.regex == nil || !p.regex.MatchString(stripped) {
			continue
		}
		if p.IsDefault {
			if defaultMatch == nil {
				defaultMatch = p
			}
			continue
		}
		return p.profile(), true
	}
	if defaultMatch != nil {
		return defaultMatch.profile(), true
	}
	return nil, false
}

// ArbitraryMatch is a host-agnostic lookup: it tries url as given,
// then with a "www." prefix toggled, applying the same precedence
// policy as Match but across all patterns whose hostname matches
// the host under test, regardless of which crawler url actually
// belongs to. It is used by admin tooling to preview how a URL would
// be categorized before it is ever crawled.
func ArbitraryMatch(sets []*Set, rawURL string) (*Profile, bool) {
	hosts := candidateHosts(rawURL)
	stripped := htmlutil.StripFragment(rawURL)

	for _, host := range hosts {
		var defaultMatch *Pattern
		for _, s := range sets {
			for _, p := range s.patterns {
				if !hostnameMatches(p.Hostname, host) || p.regex == nil {
					continue
				}
				if !p.regex.MatchString(stripped) {
					continue
				}
				if p.IsDefault {
					if defaultMatch == nil {
						defaultMatch = p
					}
					continue
				}
				return p.profile(), true
			}
		}
		if defaultMatch != nil {
			return defaultMatch.profile(), true
		}
	}
	return nil, false
}

func candidateHosts(rawURL string) []string {
	domain := htmlutil.BaseDomain(rawURL)
	host := strings.TrimPrefix(strings.TrimPrefix(domain, "http://"), "https://")
	if host == "" {
		return nil
	}
	if strings.HasPrefix(host, "www.") {
		return []string{host, strings.TrimPrefix(host, "www.")}
	}
	return []string{host, "www." + host}
}

func hostnameMatches(patternHost, host string) bool {
	trim := func(h string) string { return strings.TrimPrefix(h, "www.") }
	return trim(patternHost) == trim(host)
}
