// Package resource models the ontologies shown in the graph as records with
// a closed, typed set of attributes, plus the visual items that wrap them.
package resource

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownKey is returned when an attribute name is not declared.
	ErrUnknownKey = errors.New("unknown attribute key")

	// ErrTypeMismatch is matched by every *TypeMismatchError.
	ErrTypeMismatch = errors.New("attribute type mismatch")
)

// TypeMismatchError reports a stored value whose type differs from the
// type declared by its key.
type TypeMismatchError struct {
	Key  string
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("attribute %s: want %s, got %s", e.Key, e.Want, e.Got)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// Resource is the mutable attribute record of one ontology.
type Resource struct {
	uri    string
	values map[string]any
}

// New creates an empty resource identified by uri.
func New(uri string) *Resource {
	return &Resource{uri: uri, values: make(map[string]any)}
}

// NewOntology creates an ontology resource with empty mapping lists.
func NewOntology(id, name, acronym string) *Resource {
	r := New(mappingScheme + id)
	Put(r, VirtualOntologyID, id)
	if name != "" {
		Put(r, OntologyName, name)
	}
	if acronym != "" {
		Put(r, OntologyAcronym, acronym)
	}
	Put(r, OutgoingMappings, MappingList{})
	Put(r, IncomingMappings, MappingList{})
	return r
}

// URI returns the resource identity.
func (r *Resource) URI() string { return r.uri }

// Has reports whether a value is stored under name.
func (r *Resource) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// SetRaw stores an untyped value, such as one decoded from a file, under a
// declared attribute name. The value must have the type its key declares.
func (r *Resource) SetRaw(name string, v any) error {
	s, ok := known[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownKey)
	}
	if !s.accepts(v) {
		return &TypeMismatchError{Key: name, Want: s.want, Got: fmt.Sprintf("%T", v)}
	}
	r.values[name] = v
	return nil
}

// Put stores a value under key.
func Put[T any](r *Resource, key Key[T], v T) {
	r.values[key.name] = v
}

// Get returns the value stored under key. The boolean is false when the
// attribute is unset; the error is a *TypeMismatchError when the stored
// value has the wrong type.
func Get[T any](r *Resource, key Key[T]) (T, bool, error) {
	var zero T
	raw, ok := r.values[key.name]
	if !ok {
		return zero, false, nil
	}
	v, ok := raw.(T)
	if !ok {
		return zero, true, &TypeMismatchError{
			Key:  key.name,
			Want: fmt.Sprintf("%T", zero),
			Got:  fmt.Sprintf("%T", raw),
		}
	}
	return v, true, nil
}

// Value returns the value under key, or the zero value when unset.
// It panics on a type mismatch.
func Value[T any](r *Resource, key Key[T]) T {
	v, _, err := Get(r, key)
	if err != nil {
		panic(err)
	}
	return v
}

// Mappings returns a copy of the mapping list stored under key.
func Mappings(r *Resource, key Key[MappingList]) (MappingList, error) {
	l, _, err := Get(r, key)
	if err != nil {
		return nil, err
	}
	return slices.Clone(l), nil
}

// AppendMapping appends m to the list under key and stores the result.
func AppendMapping(r *Resource, key Key[MappingList], m Mapping) error {
	l, err := Mappings(r, key)
	if err != nil {
		return err
	}
	Put(r, key, append(l, m))
	return nil
}

// OntologyID returns the virtual ontology id of r.
func OntologyID(r *Resource) string {
	return Value(r, VirtualOntologyID)
}
