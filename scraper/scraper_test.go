package scraper

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/trendin/entitycrawler/fetcher"
)

const samplePage = `<html><head><title>Sample Article</title>
<meta name="keywords" content="go, crawling, entities">
</head><body>
<article><p>This is the main article body and it is reasonably long so it survives the junk cutoff comparison against shorter fragments on the page.</p></article>
<nav><p>short</p></nav>
</body></html>`

func testServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(samplePage))
	})
	return httptest.NewServer(mux)
}

func fixedNow() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

func TestSoupScraperScrape(t *testing.T) {
	server := testServer()
	defer server.Close()

	f := fetcher.New("test-agent", 5*time.Second)
	s, err := New(Soup, f, fixedNow)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	rec, err := s.Scrape(server.URL + "/article")
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}
	if rec.Title != "Sample Article" {
		t.Errorf("expected title %q, got %q", "Sample Article", rec.Title)
	}
	if len(rec.Text) == 0 {
		t.Errorf("expected non-empty text")
	}
	if len(rec.Metadata["keywords"]) != 3 {
		t.Errorf("expected 3 keywords, got %v", rec.Metadata["keywords"])
	}
}

func TestNewspaperScraperScrape(t *testing.T) {
	server := testServer()
	defer server.Close()

	f := fetcher.New("test-agent", 5*time.Second)
	s, err := New(Newspaper, f, fixedNow)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	rec, err := s.Scrape(server.URL + "/article")
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}
	if len(rec.Text) != 1 {
		t.Fatalf("expected exactly one concatenated text piece, got %d", len(rec.Text))
	}
	if len(rec.HighlightedStrings) != 0 {
		t.Errorf("expected no highlights from the newspaper-style variant")
	}
}

func TestReadabilityIsDefault(t *testing.T) {
	f := fetcher.New("test-agent", 5*time.Second)
	s, err := New("", f, fixedNow)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := s.(*readabilityScraper); !ok {
		t.Errorf("expected the readability scraper to be the default")
	}
}

func TestNewUnknownKind(t *testing.T) {
	f := fetcher.New("test-agent", 5*time.Second)
	_, err := New("bogus", f, fixedNow)
	if err == nil {
		t.Fatalf("expected NoSuchScraperError for an unknown kind")
	}
}

func TestIsHTMLByExtension(t *testing.T) {
	f := fetcher.New("test-agent", 5*time.Second)
	if !IsHTML(f, "http://a.test/page.html") {
		t.Errorf("expected .html path to be accepted without a network call")
	}
}
