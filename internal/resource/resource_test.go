package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOntology(t *testing.T) {
	r := NewOntology("1032", "NCI Thesaurus", "NCIT")

	assert.Equal(t, "ontology:1032", r.URI())
	assert.Equal(t, "1032", OntologyID(r))
	assert.Equal(t, "NCIT", Value(r, OntologyAcronym))

	out, err := Mappings(r, OutgoingMappings)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGet_Unset(t *testing.T) {
	r := New("ontology:1")
	v, ok, err := Get(r, NumberOfConcepts)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, v)
}

func TestGet_TypeMismatch(t *testing.T) {
	r := New("ontology:1")
	r.values[NumberOfConcepts.Name()] = "lots"

	_, ok, err := Get(r, NumberOfConcepts)
	assert.True(t, ok)
	require.ErrorIs(t, err, ErrTypeMismatch)

	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "numberOfConcepts", mismatch.Key)
	assert.Equal(t, "int", mismatch.Want)
	assert.Equal(t, "string", mismatch.Got)

	assert.Panics(t, func() { Value(r, NumberOfConcepts) })
}

func TestSetRaw_UnknownKey(t *testing.T) {
	r := New("ontology:1")
	err := r.SetRaw("favouriteColour", "blue")
	require.ErrorIs(t, err, ErrUnknownKey)
	assert.False(t, r.Has("favouriteColour"))
}

func TestSetRaw_ChecksDeclaredType(t *testing.T) {
	r := New("ontology:1")
	require.NoError(t, r.SetRaw(NumberOfConcepts.Name(), 42))
	assert.Equal(t, 42, Value(r, NumberOfConcepts))

	err := r.SetRaw(OntologyName.Name(), 7)
	require.ErrorIs(t, err, ErrTypeMismatch)
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "string", mismatch.Want)
	assert.Equal(t, "int", mismatch.Got)
	assert.False(t, r.Has(OntologyName.Name()))
}

func TestAppendMapping_PreservesOrder(t *testing.T) {
	r := NewOntology("1", "", "")
	require.NoError(t, AppendMapping(r, OutgoingMappings, Mapping{OntologyID: "2", Count: 5}))
	require.NoError(t, AppendMapping(r, OutgoingMappings, Mapping{OntologyID: "3", Count: 1}))
	require.NoError(t, AppendMapping(r, OutgoingMappings, Mapping{OntologyID: "2", Count: 7}))

	out, err := Mappings(r, OutgoingMappings)
	require.NoError(t, err)
	assert.Equal(t, MappingList{{"2", 5}, {"3", 1}, {"2", 7}}, out)

	latest, ok := out.Find("2")
	require.True(t, ok)
	assert.Equal(t, 7, latest.Count)
}

func TestMappings_ReturnsCopy(t *testing.T) {
	r := NewOntology("1", "", "")
	require.NoError(t, AppendMapping(r, IncomingMappings, Mapping{OntologyID: "2", Count: 5}))

	l, err := Mappings(r, IncomingMappings)
	require.NoError(t, err)
	l[0].Count = 99

	again, err := Mappings(r, IncomingMappings)
	require.NoError(t, err)
	assert.Equal(t, 5, again[0].Count)
}

func TestMappingString_RoundTrip(t *testing.T) {
	m := Mapping{OntologyID: "a b/c", Count: 12}
	parsed, err := ParseMapping(m.String())
	require.NoError(t, err)
	assert.Equal(t, m, parsed)

	for _, bad := range []string{"1032?count=1", "ontology:1032", "ontology:1032?count=x"} {
		_, err := ParseMapping(bad)
		assert.Error(t, err, bad)
	}
}

func TestMappingList_Without(t *testing.T) {
	l := MappingList{{"2", 1}, {"3", 2}, {"2", 3}}
	assert.Equal(t, MappingList{{"3", 2}}, l.Without("2"))
	assert.Len(t, l, 3)
}

func TestVisualItem_Single(t *testing.T) {
	r := NewOntology("1", "", "")
	assert.Same(t, r, NewVisualItem("v1", r).Single())

	assert.Panics(t, func() { NewVisualItem("empty").Single() })
	assert.Panics(t, func() { NewVisualItem("two", r, NewOntology("2", "", "")).Single() })
}

func TestIndex(t *testing.T) {
	a, b := NewOntology("a", "", ""), NewOntology("b", "", "")
	idx := NewIndex([]*VisualItem{NewVisualItem("va", a), NewVisualItem("vb", b)})

	assert.Equal(t, 2, idx.Len())
	got, ok := idx.Lookup("b")
	require.True(t, ok)
	assert.Same(t, b, got)

	_, ok = idx.Lookup("c")
	assert.False(t, ok)
}
