// Package style decides how ontology nodes look.
package style

import (
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/msalah0e/ontomap/internal/config"
	"github.com/msalah0e/ontomap/internal/resource"
	"github.com/msalah0e/ontomap/internal/scene"
)

// DefaultBackground is used when the palette is empty.
const DefaultBackground = "#dddddd"

// Resolver maps an ontology to its node colors, label and weight.
type Resolver struct {
	palette   []string
	border    string
	font      string
	highlight map[string]bool
	weight    string
}

// NewResolver builds a resolver from style settings.
func NewResolver(cfg config.StyleConfig) *Resolver {
	r := &Resolver{
		palette:   slices.Clone(cfg.Palette),
		border:    cfg.BorderColor,
		font:      cfg.FontColor,
		highlight: make(map[string]bool, len(cfg.Highlight)),
		weight:    scene.FontWeightBold,
	}
	for _, id := range cfg.Highlight {
		r.highlight[id] = true
	}
	if cfg.HighlightWeight == "normal" {
		r.weight = scene.FontWeightNormal
	}
	return r
}

// Background returns the palette color for an ontology id. The choice is
// stable across runs and processes.
func (r *Resolver) Background(ontologyID string) string {
	if len(r.palette) == 0 {
		return DefaultBackground
	}
	return r.palette[xxhash.Sum64String(ontologyID)%uint64(len(r.palette))]
}

// Border returns the node border color.
func (r *Resolver) Border(string) string { return r.border }

// FontColor returns the label color.
func (r *Resolver) FontColor(string) string { return r.font }

// FontWeight returns the symbolic weight for a node.
func (r *Resolver) FontWeight(ontologyID string) string {
	if r.highlight[ontologyID] {
		return r.weight
	}
	return scene.FontWeightNormal
}

// Highlight marks an ontology as highlighted.
func (r *Resolver) Highlight(ontologyID string) {
	r.highlight[ontologyID] = true
}

// Label returns the node label: the acronym when set, then the name, then
// the id.
func Label(res *resource.Resource) string {
	for _, key := range []resource.Key[string]{resource.OntologyAcronym, resource.OntologyName} {
		if v, ok, err := resource.Get(res, key); err == nil && ok && v != "" {
			return v
		}
	}
	return resource.OntologyID(res)
}

// Apply styles node n for the given ontology id.
func (r *Resolver) Apply(n *scene.NodeElement, ontologyID string) {
	n.SetBackgroundColor(r.Background(ontologyID))
	n.SetBorderColor(r.Border(ontologyID))
	n.SetFontColor(r.FontColor(ontologyID))
	n.SetFontWeight(r.FontWeight(ontologyID))
}
