// Package mapping holds directed, weighted mapping counts between ontologies
// as returned by a batched mapping-count query.
package mapping

import (
	"errors"
	"fmt"
)

// ErrNegativeCount is returned when a mapping count below zero is constructed.
var ErrNegativeCount = errors.New("mapping count must not be negative")

// Count records how many concepts of one ontology map onto another.
// It is a value type; the zero value is an empty record.
type Count struct {
	sourceID string
	targetID string
	count    int
}

// NewCount creates a directed mapping count from source to target.
func NewCount(sourceID, targetID string, count int) (Count, error) {
	if count < 0 {
		return Count{}, fmt.Errorf("%s -> %s: %w (%d)", sourceID, targetID, ErrNegativeCount, count)
	}
	return Count{sourceID: sourceID, targetID: targetID, count: count}, nil
}

// MustCount is like NewCount but panics on a negative count.
func MustCount(sourceID, targetID string, count int) Count {
	c, err := NewCount(sourceID, targetID, count)
	if err != nil {
		panic(err)
	}
	return c
}

// SourceID returns the ontology the mappings originate from.
func (c Count) SourceID() string { return c.sourceID }

// TargetID returns the ontology the mappings point at.
func (c Count) TargetID() string { return c.targetID }

// Count returns the number of mapped concepts.
func (c Count) Count() int { return c.count }

// Connects reports whether the record joins id1 and id2 in either direction.
func (c Count) Connects(id1, id2 string) bool {
	return (c.sourceID == id1 && c.targetID == id2) ||
		(c.sourceID == id2 && c.targetID == id1)
}

func (c Count) String() string {
	return fmt.Sprintf("%s -> %s (%d)", c.sourceID, c.targetID, c.count)
}
