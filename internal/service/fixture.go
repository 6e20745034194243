package service

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/msalah0e/ontomap/internal/mapping"
	"github.com/msalah0e/ontomap/internal/resource"
)

// Ontology describes one fixture ontology.
type Ontology struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Acronym     string `yaml:"acronym"`
	Description string `yaml:"description,omitempty"`
	Concepts    int    `yaml:"concepts,omitempty"`

	// Attributes are extra resource attributes keyed by attribute name,
	// e.g. {numberOfConcepts: 42}. Named fields take precedence.
	Attributes map[string]any `yaml:"attributes,omitempty"`
}

// Resource builds the ontology's attribute record. It fails when an extra
// attribute is undeclared, has the wrong type, or would change the id.
func (o Ontology) Resource() (*resource.Resource, error) {
	r := resource.NewOntology(o.ID, o.Name, o.Acronym)
	for _, name := range slices.Sorted(maps.Keys(o.Attributes)) {
		if name == resource.VirtualOntologyID.Name() {
			return nil, fmt.Errorf("ontology %s: attribute %s is set from id", o.ID, name)
		}
		if err := r.SetRaw(name, o.Attributes[name]); err != nil {
			return nil, fmt.Errorf("ontology %s: %w", o.ID, err)
		}
	}
	if o.Name != "" {
		resource.Put(r, resource.OntologyName, o.Name)
	}
	if o.Acronym != "" {
		resource.Put(r, resource.OntologyAcronym, o.Acronym)
	}
	if o.Description != "" {
		resource.Put(r, resource.Description, o.Description)
	}
	if o.Concepts > 0 {
		resource.Put(r, resource.NumberOfConcepts, o.Concepts)
	}
	return r, nil
}

// Fixture is a mapping service answered from a local file, loaded from YAML:
//
//	ontologies:
//	  - {id: "1032", name: NCI Thesaurus, acronym: NCIT}
//	mappings:
//	  - {source: "1032", target: "1353", count: 1204}
type Fixture struct {
	Ontologies []Ontology    `yaml:"ontologies"`
	Mappings   []CountRecord `yaml:"mappings"`
	Latency    time.Duration `yaml:"latency,omitempty"`
}

// LoadFixture reads a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFixture(data)
}

// ParseFixture decodes fixture YAML and checks that ontology ids are unique,
// their attributes are valid, and counts are not negative.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	seen := make(map[string]bool, len(f.Ontologies))
	for _, o := range f.Ontologies {
		if o.ID == "" {
			return nil, fmt.Errorf("fixture: ontology %q has no id", o.Name)
		}
		if seen[o.ID] {
			return nil, fmt.Errorf("fixture: duplicate ontology id %q", o.ID)
		}
		seen[o.ID] = true
		if _, err := o.Resource(); err != nil {
			return nil, fmt.Errorf("fixture: %w", err)
		}
	}
	for _, m := range f.Mappings {
		if m.Count < 0 {
			return nil, fmt.Errorf("fixture: %s -> %s: %w", m.Source, m.Target, mapping.ErrNegativeCount)
		}
	}
	return &f, nil
}

// Ontology returns the fixture ontology with id.
func (f *Fixture) Ontology(id string) (Ontology, bool) {
	i := slices.IndexFunc(f.Ontologies, func(o Ontology) bool { return o.ID == id })
	if i < 0 {
		return Ontology{}, false
	}
	return f.Ontologies[i], true
}

// MappingCounts returns every fixture mapping with at least one endpoint in
// ontologyIDs, in file order. Records reaching outside the requested set
// are included, as a real service would return them.
func (f *Fixture) MappingCounts(ctx context.Context, ontologyIDs []string) (*mapping.Aggregator, error) {
	if f.Latency > 0 {
		select {
		case <-time.After(f.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(ontologyIDs))
	for _, id := range ontologyIDs {
		wanted[id] = true
	}
	var records []CountRecord
	for _, m := range f.Mappings {
		if wanted[m.Source] || wanted[m.Target] {
			records = append(records, m)
		}
	}
	return aggregate(records)
}
