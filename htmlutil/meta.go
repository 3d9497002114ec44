package htmlutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractMeta groups <meta> tags by their name/http-equiv/property
// attribute into a map of tag-name -> content values, splitting the
// "keywords" entry on commas the way the source scraper does.
func ExtractMeta(doc *goquery.Document) map[string][]string {
	result := make(map[string][]string)
	if doc == nil {
		return result
	}

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		key, ok := metaKey(sel)
		if !ok {
			return
		}
		content, ok := sel.Attr("content")
		if !ok || content == "" {
			return
		}
		key = strings.ToLower(strings.ReplaceAll(key, ".", "_"))
		if key == "keywords" {
			for _, k := range strings.Split(content, ",") {
				k = strings.TrimSpace(k)
				if k != "" {
					result[key] = append(result[key], k)
				}
			}
			return
		}
		result[key] = append(result[key], content)
	})

	return result
}

func metaKey(sel *goquery.Selection) (string, bool) {
	for _, attr := range []string{"name", "http-equiv", "property", "itemprop"} {
		if v, ok := sel.Attr(attr); ok && v != "" {
			return v, true
		}
	}
	return "", false
}
