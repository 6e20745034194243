package expand

import (
	"log/slog"

	"github.com/msalah0e/ontomap/internal/resource"
)

// Pruner decides what happens to mapping entries that refer to an
// ontology that has left the graph.
type Pruner interface {
	Prune(removedID string, remaining []*resource.Resource)
}

// PrunerFunc adapts a function to Pruner.
type PrunerFunc func(removedID string, remaining []*resource.Resource)

func (f PrunerFunc) Prune(removedID string, remaining []*resource.Resource) { f(removedID, remaining) }

// KeepStale leaves mapping lists untouched. Entries for removed ontologies
// stay in the lists of the remaining ones.
var KeepStale Pruner = PrunerFunc(func(string, []*resource.Resource) {})

// PruneMappings returns a Pruner that rewrites both mapping lists of every
// remaining resource without the removed ontology.
func PruneMappings(logger *slog.Logger) Pruner {
	return PrunerFunc(func(removedID string, remaining []*resource.Resource) {
		pruned := 0
		for _, r := range remaining {
			for _, key := range []resource.Key[resource.MappingList]{resource.OutgoingMappings, resource.IncomingMappings} {
				l, err := resource.Mappings(r, key)
				if err != nil {
					logger.Error("cannot prune mappings", "ontology", OntologyInfo(r), "error", err)
					continue
				}
				kept := l.Without(removedID)
				if len(kept) != len(l) {
					pruned += len(l) - len(kept)
					resource.Put(r, key, kept)
				}
			}
		}
		logger.Debug("pruned mappings", "removed", removedID, "entries", pruned)
	})
}
