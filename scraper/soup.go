package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/trendin/entitycrawler/fetcher"
)

// junkCutoff is the fraction of the longest text piece on a page
// below which a piece is discarded as probable boilerplate/ads.
const junkCutoff = 0.3

// semanticTextMaxWords bounds how long a highlighted inline string
// may be; longer runs are ordinary body text, not a highlight.
const semanticTextMaxWords = 5

// visibleTags is the whitelist of tags whose direct text is
// considered page content rather than markup noise (script, style,
// head, etc. are implicitly excluded by omission).
var visibleTags = map[string]bool{
	"body": true, "div": true, "span": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "p": true,
	"blockquote": true, "pre": true, "a": true, "abbr": true,
	"address": true, "big": true, "cite": true, "code": true,
	"del": true, "dfn": true, "em": true, "ins": true, "kbd": true,
	"q": true, "s": true, "samp": true, "small": true, "strike": true,
	"strong": true, "sub": true, "sup": true, "tt": true, "var": true,
	"b": true, "u": true, "i": true, "center": true, "dl": true,
	"dt": true, "dd": true, "ol": true, "ul": true, "li": true,
	"fieldset": true, "form": true, "label": true, "legend": true,
	"table": true, "caption": true, "tbody": true, "tfoot": true,
	"thead": true, "tr": true, "th": true, "td": true, "article": true,
	"aside": true, "canvas": true, "details": true, "figcaption": true,
	"footer": true, "header": true, "hgroup": true, "menu": true,
	"nav": true, "output": true, "ruby": true, "section": true,
	"summary": true, "time": true, "mark": true,
}

// semanticTags is the subset of visibleTags whose short text runs
// qualify as inline highlights (candidate entity mentions).
var semanticTags = map[string]bool{
	"span": true, "em": true, "strong": true, "dfn": true, "a": true,
	"big": true, "b": true, "u": true, "i": true, "mark": true,
	"figcaption": true, "q": true,
}

// groupingTags are the ancestor tags used to merge adjacent text
// pieces that belong to the same logical block.
var groupingTags = map[string]bool{
	"p": true, "div": true, "article": true, "aside": true,
	"figcaption": true, "main": true, "nav": true, "section": true,
}

type soupScraper struct {
	base
}

func newSoupScraper(f fetcher.Fetcher, now func() time.Time) *soupScraper {
	s := &soupScraper{base: newBase(Soup, f, now)}
	s.base.textFn = s.extractText
	return s
}

func (s *soupScraper) Scrape(url string) (*PageRecord, error) { return s.scrape(url) }

func (s *soupScraper) ScrapeRSS(url string) (*PageRecord, error) { return s.scrapeRSS(url) }

type textPiece struct {
	text   string
	parent *goquery.Selection
}

func (s *soupScraper) extractText(doc *goquery.Document, rawHTML, domTitle string) ([]string, []string, string) {
	if doc == nil {
		return nil, nil, domTitle
	}

	pieces, highlights := extractTextPieces(doc.Selection)
	if len(pieces) == 0 {
		return nil, nil, domTitle
	}
	grouped := groupAdjacent(pieces)
	lines := make([]string, 0, len(grouped))
	for _, p := range grouped {
		if t := strings.TrimSpace(p.text); t != "" {
			lines = append(lines, t)
		}
	}
	lines, highlights = cutJunk(lines, highlights)
	title := domTitle
	result := make([]string, 0, len(lines)+1)
	result = append(result, title)
	result = append(result, lines...)
	return result, highlights, title
}

// extractTextPieces walks the tree depth-first collecting the direct
// text of every node whose parent is in the visible-tag whitelist,
// plus the subset that qualify as short "semantic" inline highlights.
func extractTextPieces(root *goquery.Selection) ([]textPiece, []string) {
	var pieces []textPiece
	var highlights []string

	root.Contents().Each(func(_ int, node *goquery.Selection) {
		if goquery.NodeName(node) == "#text" {
			parent := node.Parent()
			if !visibleTags[goquery.NodeName(parent)] {
				return
			}
			text := strings.TrimSpace(node.Text())
			if text == "" {
				return
			}
			if semanticTags[goquery.NodeName(parent)] && len(strings.Fields(text)) <= semanticTextMaxWords {
				highlights = append(highlights, text)
			}
			if len(text) > 2 {
				pieces = append(pieces, textPiece{text: text, parent: parent})
			}
			return
		}
		childPieces, childHighlights := extractTextPieces(node)
		pieces = append(pieces, childPieces...)
		highlights = append(highlights, childHighlights...)
	})

	return pieces, highlights
}

// groupingParent walks up from e until it finds an ancestor in
// groupingTags, or returns the topmost ancestor if none is found.
func groupingParent(e *goquery.Selection) *goquery.Selection {
	cur := e
	for cur.Length() > 0 && !groupingTags[goquery.NodeName(cur)] {
		parent := cur.Parent()
		if parent.Length() == 0 {
			return cur
		}
		cur = parent
	}
	return cur
}

// groupAdjacent merges consecutive pieces that share the same
// grouping-tag ancestor into a single run.
func groupAdjacent(pieces []textPiece) []textPiece {
	if len(pieces) == 0 {
		return nil
	}
	result := []textPiece{pieces[0]}
	for _, p := range pieces[1:] {
		last := &result[len(result)-1]
		if sameNode(groupingParent(p.parent), groupingParent(last.parent)) {
			last.text = last.text + " " + p.text
		} else {
			result = append(result, p)
		}
	}
	return result
}

func sameNode(a, b *goquery.Selection) bool {
	if a.Length() == 0 || b.Length() == 0 {
		return a.Length() == b.Length()
	}
	return a.Get(0) == b.Get(0)
}

// cutJunk drops any text piece shorter than junkCutoff of the
// longest piece on the page, and drops any highlight that no longer
// appears in the surviving text.
func cutJunk(lines []string, highlights []string) ([]string, []string) {
	if len(lines) == 0 {
		return lines, nil
	}
	longest := 0
	for _, l := range lines {
		if len(l) > longest {
			longest = len(l)
		}
	}
	if longest == 0 {
		return lines, highlights
	}
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		if float64(len(l)) >= junkCutoff*float64(longest) {
			kept = append(kept, l)
		}
	}
	joined := strings.Join(kept, " ")
	var keptHighlights []string
	for _, h := range highlights {
		if strings.Contains(joined, h) {
			keptHighlights = append(keptHighlights, h)
		}
	}
	return kept, keptHighlights
}
