package resource

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const mappingScheme = "ontology:"

// Mapping is one entry of a mapping list: the ontology on the other side
// and how many concepts map across.
type Mapping struct {
	OntologyID string `json:"ontology_id" yaml:"ontology_id"`
	Count      int    `json:"count" yaml:"count"`
}

// String encodes the entry as an ontology URI carrying its count,
// e.g. "ontology:1032?count=5".
func (m Mapping) String() string {
	return mappingScheme + url.PathEscape(m.OntologyID) + "?count=" + strconv.Itoa(m.Count)
}

// ParseMapping decodes the form produced by Mapping.String.
func ParseMapping(s string) (Mapping, error) {
	rest, ok := strings.CutPrefix(s, mappingScheme)
	if !ok {
		return Mapping{}, fmt.Errorf("mapping %q: missing %q prefix", s, mappingScheme)
	}
	id, query, ok := strings.Cut(rest, "?")
	if !ok {
		return Mapping{}, fmt.Errorf("mapping %q: missing count", s)
	}
	id, err := url.PathUnescape(id)
	if err != nil {
		return Mapping{}, fmt.Errorf("mapping %q: %w", s, err)
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return Mapping{}, fmt.Errorf("mapping %q: %w", s, err)
	}
	n, err := strconv.Atoi(values.Get("count"))
	if err != nil {
		return Mapping{}, fmt.Errorf("mapping %q: bad count: %w", s, err)
	}
	return Mapping{OntologyID: id, Count: n}, nil
}

// MappingList is an ordered list of mapping entries. Entries are only ever
// appended.
type MappingList []Mapping

// Find returns the most recently appended entry for ontologyID.
func (l MappingList) Find(ontologyID string) (Mapping, bool) {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i].OntologyID == ontologyID {
			return l[i], true
		}
	}
	return Mapping{}, false
}

// Without returns a copy of the list with every entry for ontologyID removed.
func (l MappingList) Without(ontologyID string) MappingList {
	out := make(MappingList, 0, len(l))
	for _, m := range l {
		if m.OntologyID != ontologyID {
			out = append(out, m)
		}
	}
	return out
}
