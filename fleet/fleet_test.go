package fleet

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendin/entitycrawler/aggregate"
	"github.com/trendin/entitycrawler/entity"
	"github.com/trendin/entitycrawler/extractor"
	"github.com/trendin/entitycrawler/fetcher"
	"github.com/trendin/entitycrawler/messaging"
	"github.com/trendin/entitycrawler/pattern"
	"github.com/trendin/entitycrawler/scraper"
	"github.com/trendin/entitycrawler/site"
	"github.com/trendin/entitycrawler/store"
)

const articlePage = `<html><head><title>Acme Corp expands</title></head><body>
<article><p>Acme Corp announced a great new product line today, delighting customers across the board.</p></article>
</body></html>`

func testServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/article.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articlePage))
	})
	return httptest.NewServer(mux)
}

func newTestFleetWithQueue(t *testing.T, serverURL string, queue messaging.Producer) (*Fleet, *site.Crawler) {
	t.Helper()

	registry := site.NewRegistry()
	_, err := registry.CreateSite("s1", "acme", "Acme News", serverURL+"/", "news")
	require.NoError(t, err)

	p := &pattern.Pattern{ID: "p1", RegexSource: `.*`}
	sc, err := registry.AddCrawler("s1", "c1", site.Links, serverURL+"/article.html",
		scraper.Readability, 24*time.Hour, time.Hour, p)
	require.NoError(t, err)

	fetch := fetcher.New("test-agent", 5*time.Second)

	catalog := entity.NewMemCatalog()
	catalog.Put(&entity.Entry{Name: "Acme Corp", NormName: entity.Fold("Acme Corp"), Category: "organization"})
	dict := entity.New(catalog)
	mock := clock.NewMock()
	extr := extractor.New(dict, mock.Now)

	rawPages := store.NewMemPagesRaw()
	extractedPages := store.NewMemPagesExtracted()
	entityAgg := aggregate.New(store.NewSiteAggregates())
	candidateAgg := aggregate.New(store.NewSiteAggregates())

	f := New(registry, fetch, extr, queue, rawPages, extractedPages, entityAgg, candidateAgg,
		Options{ConcurrencyLimit: 2, Clock: mock})
	return f, sc
}

func newTestFleet(t *testing.T, serverURL string) (*Fleet, *site.Crawler) {
	t.Helper()
	return newTestFleetWithQueue(t, serverURL, nil)
}

func TestEnrollAndTickPersistsExtraction(t *testing.T) {
	server := testServer()
	defer server.Close()

	f, sc := newTestFleet(t, server.URL)
	require.NoError(t, f.Enroll(sc))
	assert.Equal(t, site.Running, sc.RuntimeStatus)

	f.Tick()

	assert.EqualValues(t, 1, sc.CrawledCount)

	extracted, ok := f.extractedPages.Get(sc.StartURL)
	require.True(t, ok)
	assert.Contains(t, extracted.Title, "Acme")
}

func TestEnrollAndTickPublishesToChannelQueue(t *testing.T) {
	server := testServer()
	defer server.Close()

	queue := messaging.NewChannelQueue()
	defer queue.Close()

	events := make(chan []byte)
	go func() { _ = queue.Consume(events) }()

	f, sc := newTestFleetWithQueue(t, server.URL, queue)
	require.NoError(t, f.Enroll(sc))

	go f.Tick()

	select {
	case payload := <-events:
		assert.Contains(t, string(payload), "Acme")
	case <-time.After(time.Second):
		t.Fatal("enqueueResult never delivered a payload through the ChannelQueue")
	}
}

func TestTickShortCircuitsAtConcurrencyCap(t *testing.T) {
	server := testServer()
	defer server.Close()

	f, sc := newTestFleet(t, server.URL)
	require.NoError(t, f.Enroll(sc))

	f.inFlight = f.concurrencyLimit
	f.Tick()

	assert.EqualValues(t, 0, sc.CrawledCount, "a tick at the concurrency cap must short-circuit before popping the ring")
}

func TestDisableRemovesFromRingAndRegistries(t *testing.T) {
	server := testServer()
	defer server.Close()

	f, sc := newTestFleet(t, server.URL)
	require.NoError(t, f.Enroll(sc))
	f.Disable(sc.ID)

	assert.Equal(t, site.Stopped, sc.RuntimeStatus)
	_, ok := f.ring.PopLeft(20 * time.Millisecond)
	assert.False(t, ok)
}

func TestPulseEnrollsNewlyEnabledCrawler(t *testing.T) {
	server := testServer()
	defer server.Close()

	f, sc := newTestFleet(t, server.URL)
	sc.Status = site.Disabled

	f.Pulse()
	assert.NotEqual(t, site.Running, sc.RuntimeStatus, "a disabled crawler must not be enrolled")

	sc.Status = site.Enabled
	f.Pulse()
	assert.Equal(t, site.Running, sc.RuntimeStatus)
}
