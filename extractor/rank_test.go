package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestedEntitiesPrioritizesTitleMentions(t *testing.T) {
	ranked := suggestedEntities(
		[]string{"Golang"},
		[]string{"Golang", "Rust"},
		nil,
		nil,
	)
	assert.Equal(t, "Golang", ranked[0])
}

func TestSuggestedEntitiesRepeatedCandidateOutranksSingleEntity(t *testing.T) {
	ranked := suggestedEntities(
		nil,
		[]string{"Golang"},
		nil,
		[]string{"Acme Corp", "Acme Corp", "Acme Corp"},
	)
	// body entity weight = 1*2 = 2; candidate weight = 3 (unscaled), so the
	// repeated candidate still outranks the single entity mention.
	assert.Equal(t, "Acme Corp", ranked[0])
	assert.Equal(t, "Golang", ranked[1])
}

func TestSuggestedEntitiesEmpty(t *testing.T) {
	assert.Empty(t, suggestedEntities(nil, nil, nil, nil))
}
