package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestExtractLinksDedupesFragments(t *testing.T) {
	html := `<html><body>
		<a href="/articles/1#x">one</a>
		<a href="/articles/1#y">one again</a>
		<a href="/about">about</a>
	</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	links := ExtractLinks(doc, html, "http://a.test/")
	seen := map[string]int{}
	for _, l := range links {
		seen[l]++
	}
	if seen["http://a.test/articles/1"] != 1 {
		t.Errorf("expected exactly one coalesced entry for /articles/1, got %d", seen["http://a.test/articles/1"])
	}
	if seen["http://a.test/about"] != 1 {
		t.Errorf("expected /about to be present once, got %d", seen["http://a.test/about"])
	}
}

func TestStripFragment(t *testing.T) {
	if got := StripFragment("http://a.test/x#frag"); got != "http://a.test/x" {
		t.Errorf("StripFragment failed: got %s", got)
	}
	if got := StripFragment("http://a.test/x"); got != "http://a.test/x" {
		t.Errorf("StripFragment failed: got %s", got)
	}
}

func TestExtractMetaKeywords(t *testing.T) {
	html := `<html><head>
		<meta name="keywords" content="foo, bar,  baz">
	</head><body></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	meta := ExtractMeta(doc)
	if len(meta["keywords"]) != 3 {
		t.Errorf("expected 3 keywords, got %v", meta["keywords"])
	}
}
