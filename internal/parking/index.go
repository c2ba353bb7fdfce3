package parking

import (
	"cmp"
	"slices"
)

// ageIndex maps a driver age to a set of values. A key is removed as soon as
// its set becomes empty, so an absent key and an empty set read the same.
type ageIndex[V cmp.Ordered] struct {
	sets map[int]map[V]struct{}
}

func newAgeIndex[V cmp.Ordered]() *ageIndex[V] {
	return &ageIndex[V]{sets: make(map[int]map[V]struct{})}
}

func (ix *ageIndex[V]) add(age int, v V) {
	set, ok := ix.sets[age]
	if !ok {
		set = make(map[V]struct{})
		ix.sets[age] = set
	}
	set[v] = struct{}{}
}

func (ix *ageIndex[V]) remove(age int, v V) {
	set, ok := ix.sets[age]
	if !ok {
		return
	}
	delete(set, v)
	if len(set) == 0 {
		delete(ix.sets, age)
	}
}

func (ix *ageIndex[V]) contains(age int, v V) bool {
	_, ok := ix.sets[age][v]
	return ok
}

// values returns the members for age in ascending order. It never returns
// nil so callers can range or JSON-encode the result directly.
func (ix *ageIndex[V]) values(age int) []V {
	set := ix.sets[age]
	out := make([]V, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

func (ix *ageIndex[V]) size() int {
	n := 0
	for _, set := range ix.sets {
		n += len(set)
	}
	return n
}
