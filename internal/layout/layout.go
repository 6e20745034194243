// Package layout positions the nodes of a scene.
//
// Layouts only compute node locations; they move nodes through
// NodeElement.SetLocation so arc endpoints follow.
package layout

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/msalah0e/ontomap/internal/scene"
)

// ErrUnknownLayout is returned by Get for an unregistered name.
var ErrUnknownLayout = errors.New("unknown layout")

// Bounds is the area nodes are placed in.
type Bounds struct {
	Width  float64
	Height float64
}

// Center returns the middle of the area.
func (b Bounds) Center() scene.Point {
	return scene.Point{X: b.Width / 2, Y: b.Height / 2}
}

// Layout places every node of a scene inside bounds.
type Layout interface {
	Name() string
	Apply(g *scene.Graph, b Bounds)
}

var registry = map[string]Layout{}

func register(l Layout) {
	registry[l.Name()] = l
}

func init() {
	register(Circle{})
	register(Centered{})
	register(Grid{})
	register(Tree{Orientation: Horizontal})
	register(Tree{Orientation: Vertical})
	register(Radial{})
}

// Names returns the registered layout names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the layout registered under name.
func Get(name string) (Layout, error) {
	l, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w (available: %v)", name, ErrUnknownLayout, Names())
	}
	return l, nil
}

// placeCentered moves n so that its midpoint lands on p.
func placeCentered(n *scene.NodeElement, p scene.Point) {
	s := n.Size()
	n.SetLocation(scene.Point{X: p.X - s.Width/2, Y: p.Y - s.Height/2})
}

// maxNodeExtent returns the largest node width and height in nodes.
func maxNodeExtent(nodes []*scene.NodeElement) scene.Size {
	var out scene.Size
	for _, n := range nodes {
		s := n.Size()
		out.Width = math.Max(out.Width, s.Width)
		out.Height = math.Max(out.Height, s.Height)
	}
	return out
}

// ring places nodes evenly on a circle around c, starting at twelve o'clock.
func ring(nodes []*scene.NodeElement, c scene.Point, radius, phase float64) {
	step := 2 * math.Pi / float64(len(nodes))
	for i, n := range nodes {
		angle := phase + float64(i)*step - math.Pi/2
		placeCentered(n, scene.Point{
			X: c.X + radius*math.Cos(angle),
			Y: c.Y + radius*math.Sin(angle),
		})
	}
}

// ringRadius is the largest radius that keeps nodes inside b.
func ringRadius(b Bounds, extent scene.Size) float64 {
	r := math.Min(b.Width-extent.Width, b.Height-extent.Height) / 2
	return math.Max(r, 0)
}

// Circle places all nodes on one ring.
type Circle struct{}

func (Circle) Name() string { return "circle" }

func (Circle) Apply(g *scene.Graph, b Bounds) {
	nodes := g.Nodes()
	switch len(nodes) {
	case 0:
		return
	case 1:
		placeCentered(nodes[0], b.Center())
		return
	}
	ring(nodes, b.Center(), ringRadius(b, maxNodeExtent(nodes)), 0)
}

// Centered puts the focus node in the middle and the rest on a ring around
// it. The first node is the focus when Focus is empty or not in the scene.
type Centered struct {
	Focus string
}

func (Centered) Name() string { return "center" }

func (c Centered) Apply(g *scene.Graph, b Bounds) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return
	}
	i := slices.IndexFunc(nodes, func(n *scene.NodeElement) bool { return n.ID() == c.Focus })
	if i < 0 {
		i = 0
	}
	focus := nodes[i]
	rest := slices.Delete(slices.Clone(nodes), i, i+1)

	placeCentered(focus, b.Center())
	if len(rest) > 0 {
		ring(rest, b.Center(), ringRadius(b, maxNodeExtent(nodes)), 0)
	}
}

// Grid places nodes row by row in a near-square grid.
type Grid struct{}

func (Grid) Name() string { return "grid" }

func (Grid) Apply(g *scene.Graph, b Bounds) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return
	}
	cols := int(math.Ceil(math.Sqrt(float64(len(nodes)))))
	rows := (len(nodes) + cols - 1) / cols
	cellW := b.Width / float64(cols)
	cellH := b.Height / float64(rows)
	for i, n := range nodes {
		col, row := i%cols, i/cols
		placeCentered(n, scene.Point{
			X: cellW*float64(col) + cellW/2,
			Y: cellH*float64(row) + cellH/2,
		})
	}
}
