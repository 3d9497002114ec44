package extractor

import (
	"regexp"
	"strings"
)

// abbreviations is the set of dotted abbreviations that never end a
// sentence, mirroring the Punkt tokenizer's abbrev_types configured
// by the source extractor.
var abbreviations = map[string]bool{
	"dr": true, "vs": true, "mr": true, "mrs": true,
	"prof": true, "inc": true,
}

// sentenceBoundary finds a run of sentence-final punctuation followed
// by whitespace; the next character is not inspected.
var sentenceBoundary = regexp.MustCompile(`([.!?]+)(\s+)`)

// SplitSentences breaks text into sentences, treating a period as a
// boundary unless the word immediately preceding it is a known
// abbreviation (case-insensitive, dot stripped).
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	last := 0
	matches := sentenceBoundary.FindAllStringSubmatchIndex(text, -1)
	for _, m := range matches {
		punctStart, punctEnd := m[2], m[3]
		word := lastWord(text[last:punctStart])
		if abbreviations[strings.ToLower(word)] {
			continue
		}
		sentences = append(sentences, strings.TrimSpace(text[last:punctEnd]))
		last = m[1]
	}
	if last < len(text) {
		if tail := strings.TrimSpace(text[last:]); tail != "" {
			sentences = append(sentences, tail)
		}
	}
	return sentences
}

func lastWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[len(fields)-1], ".!?")
}
