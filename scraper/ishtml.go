package scraper

import (
	"strings"

	"github.com/trendin/entitycrawler/fetcher"
)

// IsHTML reports whether url is worth scraping as an HTML document: a
// `.html`/`.htm` path is accepted outright; otherwise a HEAD request
// decides based on the Content-Type header.
func IsHTML(f fetcher.Fetcher, url string) bool {
	lower := strings.ToLower(url)
	if strings.Contains(lower, ".html") || strings.Contains(lower, ".htm") {
		return true
	}
	contentType, err := f.ContentType(url)
	if err != nil {
		return false
	}
	return strings.HasPrefix(contentType, "text/html")
}

// IsFeed reports whether url's Content-Type identifies it as an
// RSS/Atom feed, per the FEED_CONTENT_TYPES acceptance set.
func IsFeed(f fetcher.Fetcher, url string) bool {
	contentType, err := f.ContentType(url)
	if err != nil {
		return false
	}
	base := contentType
	if i := strings.IndexByte(base, ';'); i >= 0 {
		base = base[:i]
	}
	return fetcher.FeedContentTypes[strings.TrimSpace(strings.ToLower(base))]
}
