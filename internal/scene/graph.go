// Package scene keeps the rendered node-link graph consistent with the
// ontologies and mappings shown. Nodes and arcs live in one arena owned by
// Graph and refer to each other by id.
//
// A Graph is not safe for concurrent use; run every mutation on one
// goroutine, for instance through a Loop.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

var (
	ErrNodeExists   = errors.New("node already in scene")
	ErrNodeNotFound = errors.New("node not in scene")
	ErrArcNotFound  = errors.New("arc not in scene")
)

// DefaultNodeSize is used when no size option is given.
var DefaultNodeSize = Size{Width: 120, Height: 32}

// RemoveHook runs after a node has left the scene.
type RemoveHook func(nodeID string)

// Option configures a Graph.
type Option func(*Graph)

// WithNodeSize sets the size of newly added nodes.
func WithNodeSize(s Size) Option {
	return func(g *Graph) { g.nodeSize = s }
}

// WithRemoveHook registers a hook run on every node removal.
func WithRemoveHook(h RemoveHook) Option {
	return func(g *Graph) { g.removeHooks = append(g.removeHooks, h) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) { g.logger = l }
}

// Graph is the arena of node and arc elements.
type Graph struct {
	canvas      Canvas
	nodeSize    Size
	nodes       map[string]*NodeElement
	nodeOrder   []string
	arcs        map[ArcID]*ArcElement
	arcOrder    []ArcID
	removeHooks []RemoveHook
	logger      *slog.Logger
}

// New creates an empty scene drawing onto canvas.
func New(canvas Canvas, opts ...Option) *Graph {
	g := &Graph{
		canvas:   canvas,
		nodeSize: DefaultNodeSize,
		nodes:    make(map[string]*NodeElement),
		arcs:     make(map[ArcID]*ArcElement),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddNode creates the node element for id.
func (g *Graph) AddNode(id, label string) (*NodeElement, error) {
	if _, ok := g.nodes[id]; ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNodeExists)
	}
	container, shape, text := g.canvas.NewNode(id, label)
	n := &NodeElement{
		id:        id,
		label:     label,
		graph:     g,
		container: container,
		shape:     shape,
		text:      text,
	}
	n.SetSize(g.nodeSize)
	n.SetFontWeight(FontWeightNormal)
	g.nodes[id] = n
	g.nodeOrder = append(g.nodeOrder, id)
	g.logger.Debug("node added", "node", id)
	return n, nil
}

// RemoveNode removes the node and every arc touching it, then runs the
// remove hooks.
func (g *Graph) RemoveNode(id string) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrNodeNotFound)
	}
	for _, arcID := range n.ConnectedArcs() {
		if err := g.RemoveArc(arcID); err != nil && !errors.Is(err, ErrArcNotFound) {
			return err
		}
	}
	g.canvas.Remove(n.container)
	delete(g.nodes, id)
	g.nodeOrder = slices.DeleteFunc(g.nodeOrder, func(s string) bool { return s == id })
	g.logger.Debug("node removed", "node", id)

	for _, h := range g.removeHooks {
		h(id)
	}
	return nil
}

// Node returns the element for id.
func (g *Graph) Node(id string) (*NodeElement, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns the node elements in insertion order.
func (g *Graph) Nodes() []*NodeElement {
	out := make([]*NodeElement, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// AddArc connects source to target with the given weight. If the arc
// already exists only its weight is updated. Both nodes must be in the scene.
func (g *Graph) AddArc(source, target string, count int) (*ArcElement, error) {
	id := ArcID{Source: source, Target: target}
	if arc, ok := g.arcs[id]; ok {
		arc.SetCount(count)
		return arc, nil
	}
	src, ok := g.nodes[source]
	if !ok {
		return nil, fmt.Errorf("arc source %s: %w", source, ErrNodeNotFound)
	}
	dst, ok := g.nodes[target]
	if !ok {
		return nil, fmt.Errorf("arc target %s: %w", target, ErrNodeNotFound)
	}

	arc := &ArcElement{id: id, graph: g, line: g.canvas.NewArc(id.String())}
	arc.SetCount(count)
	g.arcs[id] = arc
	g.arcOrder = append(g.arcOrder, id)

	src.AddConnectedArc(id)
	if dst != src {
		dst.AddConnectedArc(id)
	}
	arc.UpdateSourcePoint()
	arc.UpdateTargetPoint()
	g.logger.Debug("arc added", "arc", id.String(), "count", count)
	return arc, nil
}

// RemoveArc removes the arc and deregisters it from both endpoint nodes.
func (g *Graph) RemoveArc(id ArcID) error {
	arc, ok := g.arcs[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrArcNotFound)
	}
	if n, ok := g.nodes[id.Source]; ok {
		n.RemoveConnectedArc(id)
	}
	if id.Target != id.Source {
		if n, ok := g.nodes[id.Target]; ok {
			n.RemoveConnectedArc(id)
		}
	}
	g.canvas.Remove(arc.line)
	delete(g.arcs, id)
	g.arcOrder = slices.DeleteFunc(g.arcOrder, func(a ArcID) bool { return a == id })
	return nil
}

// Arc returns the element for id.
func (g *Graph) Arc(id ArcID) (*ArcElement, bool) {
	a, ok := g.arcs[id]
	return a, ok
}

// Arcs returns the arc elements in insertion order.
func (g *Graph) Arcs() []*ArcElement {
	out := make([]*ArcElement, 0, len(g.arcOrder))
	for _, id := range g.arcOrder {
		out = append(out, g.arcs[id])
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// ArcCount returns the number of arcs.
func (g *Graph) ArcCount() int { return len(g.arcs) }
