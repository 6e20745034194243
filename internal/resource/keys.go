package resource

import "fmt"

// Key names a resource attribute and fixes the type of its value.
// Keys can only be declared in this package, so the attribute schema of a
// Resource is closed.
type Key[T any] struct {
	name string
}

// Name returns the attribute name.
func (k Key[T]) Name() string { return k.name }

type schema struct {
	want    string
	accepts func(v any) bool
}

// known holds every declared attribute name.
var known = map[string]schema{}

func newKey[T any](name string) Key[T] {
	if _, dup := known[name]; dup {
		panic("resource: duplicate attribute key " + name)
	}
	var zero T
	known[name] = schema{
		want:    fmt.Sprintf("%T", zero),
		accepts: func(v any) bool { _, ok := v.(T); return ok },
	}
	return Key[T]{name: name}
}

// Ontology attributes.
var (
	VirtualOntologyID = newKey[string]("virtualOntologyId")
	OntologyName      = newKey[string]("ontologyName")
	OntologyAcronym   = newKey[string]("ontologyAcronym")
	Description       = newKey[string]("description")
	NumberOfConcepts  = newKey[int]("numberOfConcepts")
	OutgoingMappings  = newKey[MappingList]("outgoingMappings")
	IncomingMappings  = newKey[MappingList]("incomingMappings")
)

// IsKnown reports whether name is a declared attribute.
func IsKnown(name string) bool {
	_, ok := known[name]
	return ok
}
