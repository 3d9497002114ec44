// Package htmlutil provides goquery-based helpers shared by the scraper
// variants: link extraction, metadata grouping, and best-effort
// publication date parsing.
package htmlutil

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// absoluteURLPattern finds bare absolute URLs embedded in raw HTML (not
// necessarily inside an href attribute), mirroring the teacher's
// parser.go regex-scan half of link discovery.
var absoluteURLPattern = regexp.MustCompile(`https?://[^\s"'<>]+`)

// ExtractLinks returns the union of (a) absolute URLs found by a raw
// regex scan of the HTML and (b) <a href> values resolved against
// baseURL, deduplicated after fragment-stripping.
func ExtractLinks(doc *goquery.Document, rawHTML, baseURL string) []string {
	seen := make(map[string]bool)
	var links []string

	add := func(raw string) {
		resolved, ok := ResolveURL(baseURL, raw)
		if !ok {
			return
		}
		stripped := StripFragment(resolved)
		if !seen[stripped] {
			seen[stripped] = true
			links = append(links, stripped)
		}
	}

	for _, m := range absoluteURLPattern.FindAllString(rawHTML, -1) {
		add(m)
	}

	if doc != nil {
		doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
			if href, ok := sel.Attr("href"); ok {
				add(href)
			}
		})
	}

	return links
}

// ResolveURL joins a relative reference against a base URL, returning
// the absolute string form and whether resolution succeeded.
func ResolveURL(baseURL, ref string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", false
	}
	if u.IsAbs() {
		return u.String(), true
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", false
	}
	return base.ResolveReference(u).String(), true
}

// StripFragment removes the "#..." fragment portion of a URL, used
// everywhere the spec requires fragment-insensitive comparison.
func StripFragment(rawURL string) string {
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

// BaseDomain extracts the "<scheme>://<host>" portion of a URL.
func BaseDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
