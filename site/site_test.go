package site

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendin/entitycrawler/aggregate"
	"github.com/trendin/entitycrawler/pattern"
	"github.com/trendin/entitycrawler/scraper"
)

func TestCreateSiteDerivesHostname(t *testing.T) {
	r := NewRegistry()
	s, err := r.CreateSite("s1", "acme", "Acme News", "https://www.acme-news.test/", "news")
	require.NoError(t, err)
	assert.Equal(t, "www.acme-news.test", s.Hostname)
	assert.True(t, s.Enabled())
}

func TestCreateSiteRejectsBadURL(t *testing.T) {
	r := NewRegistry()
	_, err := r.CreateSite("s1", "acme", "Acme News", "not-a-url", "news")
	assert.Error(t, err)
}

func TestAddCrawlerRejectsInvalidPatternBeforePersisting(t *testing.T) {
	r := NewRegistry()
	_, err := r.CreateSite("s1", "acme", "Acme News", "https://acme-news.test/", "news")
	require.NoError(t, err)

	bad := &pattern.Pattern{ID: "p1", RegexSource: "("}
	_, err = r.AddCrawler("s1", "c1", Links, "https://acme-news.test/", scraper.Readability, 0, time.Hour, bad)
	assert.Error(t, err)

	s, _ := r.Get("s1")
	assert.Empty(t, s.Crawlers, "a crawler must not be linked when its initial pattern fails to compile")
}

func TestAddCrawlerSetsDefaultPattern(t *testing.T) {
	r := NewRegistry()
	_, err := r.CreateSite("s1", "acme", "Acme News", "https://acme-news.test/", "news")
	require.NoError(t, err)

	p := &pattern.Pattern{ID: "p1", RegexSource: `/article/\d+`}
	c, err := r.AddCrawler("s1", "c1", Links, "https://acme-news.test/", scraper.Readability, 0, time.Hour, p)
	require.NoError(t, err)
	assert.Equal(t, "p1", c.DefaultPatternID)

	profile, ok := c.Patterns.Match("https://acme-news.test/article/42")
	require.True(t, ok)
	assert.Equal(t, "p1", profile.PatternID)
}

func TestSiteSetEnabledCascadesToCrawlers(t *testing.T) {
	r := NewRegistry()
	_, _ = r.CreateSite("s1", "acme", "Acme News", "https://acme-news.test/", "news")
	p := &pattern.Pattern{ID: "p1", RegexSource: `/article/\d+`}
	c, err := r.AddCrawler("s1", "c1", Links, "https://acme-news.test/", scraper.Readability, 0, time.Hour, p)
	require.NoError(t, err)
	c.RuntimeStatus = Running

	s, _ := r.Get("s1")
	s.SetEnabled(false)

	assert.False(t, s.Enabled())
	assert.Equal(t, Disabled, c.Status)
	assert.Equal(t, Stopped, c.RuntimeStatus)
}

func TestExtractURLReturnsErrorWhenRequiredAndUnmatched(t *testing.T) {
	r := NewRegistry()
	_, err := r.ExtractURL("https://nowhere.test/x", ExtractURLOptions{MustMatchPattern: true})
	assert.Error(t, err)
}

func TestExtractURLMatchesAcrossCrawlers(t *testing.T) {
	r := NewRegistry()
	_, _ = r.CreateSite("s1", "acme", "Acme News", "https://acme-news.test/", "news")
	p := &pattern.Pattern{ID: "p1", RegexSource: `/article/\d+`}
	_, err := r.AddCrawler("s1", "c1", Links, "https://acme-news.test/", scraper.Readability, 0, time.Hour, p)
	require.NoError(t, err)

	profile, err := r.ExtractURL("https://www.acme-news.test/article/7", ExtractURLOptions{MustMatchPattern: true})
	require.NoError(t, err)
	assert.Equal(t, "p1", profile.PatternID)
}

type fakeAggSource struct {
	records []aggregate.Record
}

func (f *fakeAggSource) TopN(site string, n int) []aggregate.Record         { return f.records }
func (f *fakeAggSource) MostPositive(site string, n int) []aggregate.Record { return f.records }
func (f *fakeAggSource) MostNegative(site string, n int) []aggregate.Record { return f.records }

func TestBuildStatsEmptyWhenNoTopEntities(t *testing.T) {
	stats := BuildStats("a.test", &fakeAggSource{}, &fakeAggSource{})
	assert.Nil(t, stats.TopEntities)
}

func TestBuildStatsAppliesMinCountFloor(t *testing.T) {
	entities := &fakeAggSource{records: []aggregate.Record{
		{Site: "a.test", Name: "Golang", Count: 20, Mean: 0.9},
		{Site: "a.test", Name: "Rust", Count: 3, Mean: -0.8},
	}}
	stats := BuildStats("a.test", entities, &fakeAggSource{})
	assert.Len(t, stats.TopEntities, 2)
	// min(floor=10, last top-entity count=3) == 3, so both records clear it.
	assert.Len(t, stats.MostPositive, 2)
	assert.Len(t, stats.MostNegative, 2)
}
