package resource

// Index maps ontology ids to the resources of a set of visual items.
type Index struct {
	byID map[string]*Resource
}

// NewIndex builds an index over items, each of which must wrap exactly
// one ontology resource. A later item with the same id replaces an earlier one.
func NewIndex(items []*VisualItem) *Index {
	idx := &Index{byID: make(map[string]*Resource, len(items))}
	for _, item := range items {
		r := item.Single()
		idx.byID[OntologyID(r)] = r
	}
	return idx
}

// Lookup returns the resource for id.
func (i *Index) Lookup(id string) (*Resource, bool) {
	r, ok := i.byID[id]
	return r, ok
}

// Len returns the number of indexed resources.
func (i *Index) Len() int {
	return len(i.byID)
}
