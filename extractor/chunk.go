package extractor

import (
	"regexp"
	"strings"

	"github.com/trendin/entitycrawler/entity"
)

// capitalizedRun matches a run of one or more consecutive
// capitalized words, the named-entity-candidate heuristic this build
// uses in place of a part-of-speech tagger/chunker: no such NLP
// library exists anywhere in the retrieved pack, so candidate phrases
// are detected the way a lightweight rule-based chunker would -
// proper-noun-looking word runs.
var capitalizedRun = regexp.MustCompile(`\b[A-Z][\w'-]*(?:\s+[A-Z][\w'-]*)*\b`)

// chunkResult is the outcome of running the candidate chunker plus
// Entity Dictionary lookup over one piece of text.
type chunkResult struct {
	entities   []*entity.Entry
	candidates []string
	residue    string // text without entity/candidate mentions, for sentiment scoring
}

// chunkAndCheck finds capitalized-run candidates in text, looks each
// up in dict, and splits them into entities (dictionary hits) and
// candidates (misses), returning the residual text with every
// matched span removed.
func chunkAndCheck(text string, dict *entity.Dictionary) chunkResult {
	var result chunkResult
	if strings.TrimSpace(text) == "" {
		return result
	}

	matches := capitalizedRun.FindAllStringIndex(text, -1)
	residue := make([]byte, 0, len(text))
	last := 0
	for _, m := range matches {
		candidate := text[m[0]:m[1]]
		if len(candidate) < 2 {
			continue
		}
		residue = append(residue, text[last:m[0]]...)
		last = m[1]

		if e := dict.Check(candidate); e != nil {
			result.entities = append(result.entities, e)
		} else {
			result.candidates = append(result.candidates, candidate)
		}
	}
	residue = append(residue, text[last:]...)
	result.residue = string(residue)
	return result
}

// includeHighlight folds an inline highlight into entities or
// candidates if it appears in sentence, is at least 2 characters, and
// is not already accounted for by the chunker's own pass.
func includeHighlight(highlight, sentence string, dict *entity.Dictionary, r *chunkResult) {
	if len(highlight) < 2 || !strings.Contains(sentence, highlight) {
		return
	}
	for _, c := range r.candidates {
		if c == highlight {
			return
		}
	}
	for _, e := range r.entities {
		if e.Name == highlight {
			return
		}
	}
	if e := dict.Check(highlight); e != nil {
		r.entities = append(r.entities, e)
	} else {
		r.candidates = append(r.candidates, highlight)
	}
}
