// Package session holds the ontology graph a user is looking at: the
// ontology resources, their scene nodes and the arcs drawn from their
// mapping lists.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/msalah0e/ontomap/internal/config"
	"github.com/msalah0e/ontomap/internal/expand"
	"github.com/msalah0e/ontomap/internal/layout"
	"github.com/msalah0e/ontomap/internal/resource"
	"github.com/msalah0e/ontomap/internal/scene"
	"github.com/msalah0e/ontomap/internal/style"
	"github.com/msalah0e/ontomap/internal/telemetry"
)

// ErrEmpty is returned when an operation needs at least one ontology.
var ErrEmpty = errors.New("no ontologies in session")

// Session owns a scene and the resources behind its nodes. Like the scene
// it is not safe for concurrent use.
type Session struct {
	view        config.ViewConfig
	canvas      *scene.SVGCanvas
	graph       *scene.Graph
	items       map[string]*resource.VisualItem
	resolver    *style.Resolver
	pruner      expand.Pruner
	logger      *slog.Logger
	metrics     *telemetry.Metrics
	initialized bool
}

var _ expand.Callback = (*Session)(nil)

// Option configures a Session.
type Option func(*Session)

// WithResolver sets the node style resolver.
func WithResolver(r *style.Resolver) Option {
	return func(s *Session) { s.resolver = r }
}

// WithPruner sets what happens to mapping lists when an ontology is
// removed. Defaults to expand.KeepStale.
func WithPruner(p expand.Pruner) Option {
	return func(s *Session) { s.pruner = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// New creates an empty, initialized session sized by view.
func New(view config.ViewConfig, opts ...Option) *Session {
	s := &Session{
		view:        view,
		items:       make(map[string]*resource.VisualItem),
		resolver:    style.NewResolver(config.Default().Style),
		pruner:      expand.KeepStale,
		logger:      slog.Default(),
		initialized: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.canvas = scene.NewSVGCanvas(view.Width, view.Height)
	s.graph = scene.New(s.canvas,
		scene.WithNodeSize(scene.Size{Width: view.NodeWidth, Height: view.NodeHeight}),
		scene.WithRemoveHook(s.ontologyRemoved),
		scene.WithLogger(s.logger))
	return s
}

// Graph returns the scene.
func (s *Session) Graph() *scene.Graph { return s.graph }

// AddOntology puts r in the graph as a new node.
func (s *Session) AddOntology(r *resource.Resource) (*scene.NodeElement, error) {
	id := resource.OntologyID(r)
	if id == "" {
		return nil, fmt.Errorf("add ontology %s: no virtual ontology id", r.URI())
	}
	n, err := s.graph.AddNode(id, style.Label(r))
	if err != nil {
		return nil, err
	}
	s.items[id] = resource.NewVisualItem(id, r)
	s.resolver.Apply(n, id)
	s.observeSize()
	return n, nil
}

// RemoveOntology removes the node of ontology id with its arcs.
func (s *Session) RemoveOntology(id string) error {
	if err := s.graph.RemoveNode(id); err != nil {
		return err
	}
	s.observeSize()
	return nil
}

func (s *Session) ontologyRemoved(id string) {
	delete(s.items, id)
	remaining := make([]*resource.Resource, 0, len(s.items))
	for _, item := range s.VisibleItems() {
		remaining = append(remaining, item.Single())
	}
	s.pruner.Prune(id, remaining)
}

// Resource returns the resource of ontology id.
func (s *Session) Resource(id string) (*resource.Resource, bool) {
	item, ok := s.items[id]
	if !ok {
		return nil, false
	}
	return item.Single(), true
}

// VisibleItems returns one visual item per node, in scene order.
func (s *Session) VisibleItems() []*resource.VisualItem {
	out := make([]*resource.VisualItem, 0, len(s.items))
	for _, n := range s.graph.Nodes() {
		if item, ok := s.items[n.ID()]; ok {
			out = append(out, item)
		}
	}
	return out
}

// IsInitialized reports whether the session still shows its graph.
func (s *Session) IsInitialized() bool { return s.initialized }

// Close marks the session as gone; expansion responses arriving later are
// dropped.
func (s *Session) Close() { s.initialized = false }

// Expand runs one bulk expansion over every visible ontology.
func (s *Session) Expand(ctx context.Context, e expand.BulkExpander) (*expand.Request, error) {
	items := s.VisibleItems()
	if len(items) == 0 {
		return nil, ErrEmpty
	}
	return e.Expand(ctx, items, s), nil
}

// UpdateArcsForVisualItems draws an arc for every mapping entry of items
// whose other ontology is in the graph. An existing arc takes the count of
// the latest entry.
func (s *Session) UpdateArcsForVisualItems(items []*resource.VisualItem) {
	for _, item := range items {
		r := item.Single()
		id := resource.OntologyID(r)
		if _, ok := s.graph.Node(id); !ok {
			continue
		}
		s.drawArcs(r, resource.OutgoingMappings, func(other string) (string, string) { return id, other })
		s.drawArcs(r, resource.IncomingMappings, func(other string) (string, string) { return other, id })
	}
	s.observeSize()
}

func (s *Session) drawArcs(r *resource.Resource, key resource.Key[resource.MappingList], ends func(other string) (string, string)) {
	list, err := resource.Mappings(r, key)
	if err != nil {
		s.logger.Error("cannot read mappings", "ontology", expand.OntologyInfo(r), "key", key.Name(), "error", err)
		return
	}
	for _, m := range list {
		if _, ok := s.graph.Node(m.OntologyID); !ok {
			continue
		}
		source, target := ends(m.OntologyID)
		if _, err := s.graph.AddArc(source, target, m.Count); err != nil {
			s.logger.Warn("cannot draw arc", "source", source, "target", target, "error", err)
		}
	}
}

// MoveNode moves the node of ontology id to p.
func (s *Session) MoveNode(id string, p scene.Point) error {
	n, ok := s.graph.Node(id)
	if !ok {
		return fmt.Errorf("%s: %w", id, scene.ErrNodeNotFound)
	}
	n.SetLocation(p)
	return nil
}

// Highlight draws ontology id with the highlight weight.
func (s *Session) Highlight(id string) error {
	n, ok := s.graph.Node(id)
	if !ok {
		return fmt.Errorf("%s: %w", id, scene.ErrNodeNotFound)
	}
	s.resolver.Highlight(id)
	s.resolver.Apply(n, id)
	return nil
}

// ApplyLayout positions every node with l inside the view bounds.
func (s *Session) ApplyLayout(l layout.Layout) {
	l.Apply(s.graph, layout.Bounds{Width: s.view.Width, Height: s.view.Height})
	s.logger.Debug("layout applied", "layout", l.Name(), "nodes", s.graph.NodeCount())
}

// Snapshot copies the scene state.
func (s *Session) Snapshot() scene.Snapshot { return s.graph.Snapshot() }

// WriteSVG renders the scene.
func (s *Session) WriteSVG(w io.Writer) error {
	_, err := s.canvas.Document().WriteTo(w)
	return err
}

// OntologyIDs returns the ids of the visible ontologies, in scene order.
func (s *Session) OntologyIDs() []string {
	ids := make([]string, 0, len(s.items))
	for _, n := range s.graph.Nodes() {
		ids = append(ids, n.ID())
	}
	return ids
}

func (s *Session) observeSize() {
	s.metrics.SetSceneSize(s.graph.NodeCount(), s.graph.ArcCount())
}
