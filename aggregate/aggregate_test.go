package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeCreatesNewRecord(t *testing.T) {
	a := New(NewMemStore())
	rec := a.Merge(Increment{Site: "a.test", Name: "Golang", Kind: EntityKind, Count: 2, Score: 0.5})
	assert.Equal(t, 2, rec.Count)
	assert.Equal(t, 0.5, rec.Mean)
}

func TestMergeWeightsSubsequentIncrements(t *testing.T) {
	a := New(NewMemStore())
	a.Merge(Increment{Site: "a.test", Name: "Golang", Kind: EntityKind, Count: 1, Score: 1.0})
	rec := a.Merge(Increment{Site: "a.test", Name: "Golang", Kind: EntityKind, Count: 1, Score: -1.0})
	assert.Equal(t, 2, rec.Count)
	assert.Equal(t, 0.0, rec.Mean)
}

func TestMergeEntityZeroScoreKeepsPriorMean(t *testing.T) {
	a := New(NewMemStore())
	a.Merge(Increment{Site: "a.test", Name: "Golang", Kind: EntityKind, Count: 1, Score: 0.8})
	rec := a.Merge(Increment{Site: "a.test", Name: "Golang", Kind: EntityKind, Count: 1, Score: 0})
	assert.Equal(t, 2, rec.Count)
	assert.Equal(t, 0.8, rec.Mean, "a zero-score entity increment must not move the running mean")
}

func TestMergeCandidateZeroScoreStillAverages(t *testing.T) {
	a := New(NewMemStore())
	a.Merge(Increment{Site: "a.test", Name: "Acme Corp", Kind: CandidateKind, Count: 1, Score: 0.8})
	rec := a.Merge(Increment{Site: "a.test", Name: "Acme Corp", Kind: CandidateKind, Count: 1, Score: 0})
	assert.Equal(t, 2, rec.Count)
	assert.Equal(t, 0.4, rec.Mean, "candidate aggregates use the plain weighted mean unconditionally")
}

func TestMergeAllCollapsesRepeatsInSequence(t *testing.T) {
	a := New(NewMemStore())
	recs := a.MergeAll([]Increment{
		{Site: "a.test", Name: "Golang", Kind: EntityKind, Count: 1, Score: 1.0},
		{Site: "a.test", Name: "Golang", Kind: EntityKind, Count: 1, Score: 0.0},
	})
	assert.Len(t, recs, 2)
	assert.Equal(t, 2, recs[len(recs)-1].Count)
}
