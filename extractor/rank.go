package extractor

import "sort"

// orderedBag is a weighted multiset that remembers first-seen order
// so that sorted() can break weight ties deterministically, matching
// the stable ordering of Python's Counter.most_common over an
// insertion-ordered dict.
type orderedBag struct {
	order  []string
	weight map[string]float64
}

func newOrderedBag() *orderedBag {
	return &orderedBag{weight: make(map[string]float64)}
}

func (b *orderedBag) add(name string, w float64) {
	if _, ok := b.weight[name]; !ok {
		b.order = append(b.order, name)
	}
	b.weight[name] += w
}

func (b *orderedBag) addAll(names []string, w float64) {
	for _, n := range names {
		b.add(n, w)
	}
}

func (b *orderedBag) multiply(factor float64) {
	for name := range b.weight {
		b.weight[name] *= factor
	}
}

// merge folds other into b, summing weights and appending any
// not-yet-seen names in other's first-seen order.
func (b *orderedBag) merge(other *orderedBag) {
	for _, name := range other.order {
		b.add(name, other.weight[name])
	}
}

func (b *orderedBag) sorted() []string {
	names := append([]string(nil), b.order...)
	sort.SliceStable(names, func(i, j int) bool {
		return b.weight[names[i]] > b.weight[names[j]]
	})
	return names
}

// suggestedEntities builds the title-biased weighted ranking from
// §4.E step 5: title entities weighted by titleWeight, combined with
// body entities at weight 1, the whole entity bag then scaled by
// entitiesOverCandidatesWeight; title/body candidates are weighted
// the same way and merged in unscaled.
func suggestedEntities(titleEntities, bodyEntities, titleCandidates, bodyCandidates []string) []string {
	entities := newOrderedBag()
	entities.addAll(titleEntities, 1)
	entities.multiply(titleWeight)
	entities.addAll(bodyEntities, 1)
	entities.multiply(entitiesOverCandidatesWeight)

	if len(titleCandidates) > 0 || len(bodyCandidates) > 0 {
		candidates := newOrderedBag()
		candidates.addAll(titleCandidates, 1)
		candidates.multiply(titleWeight)
		candidates.addAll(bodyCandidates, 1)
		entities.merge(candidates)
	}

	return entities.sorted()
}
