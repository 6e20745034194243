package mapping

import (
	"iter"
	"slices"
)

// Aggregator collects the mapping counts of one batched response.
//
// Records are kept in insertion order. Duplicates are allowed and are not
// merged; Lookup sums them instead.
type Aggregator struct {
	counts []Count
}

// New returns an empty aggregator, optionally seeded with counts.
func New(counts ...Count) *Aggregator {
	a := &Aggregator{}
	for _, c := range counts {
		a.Add(c)
	}
	return a
}

// Add appends a record.
func (a *Aggregator) Add(c Count) {
	a.counts = append(a.counts, c)
}

// Lookup returns the total number of mappings between id1 and id2,
// regardless of direction. It returns 0 if no record joins them.
// Lookup(a, b) always equals Lookup(b, a).
func (a *Aggregator) Lookup(id1, id2 string) int {
	total := 0
	for _, c := range a.counts {
		if c.Connects(id1, id2) {
			total += c.count
		}
	}
	return total
}

// Size returns the number of records, duplicates included.
func (a *Aggregator) Size() int {
	return len(a.counts)
}

// All iterates the records in insertion order. The sequence can be ranged
// over any number of times.
func (a *Aggregator) All() iter.Seq[Count] {
	return func(yield func(Count) bool) {
		for _, c := range a.counts {
			if !yield(c) {
				return
			}
		}
	}
}

// Records returns a copy of the records in insertion order.
func (a *Aggregator) Records() []Count {
	return slices.Clone(a.counts)
}
