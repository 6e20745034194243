package layout

import (
	"github.com/msalah0e/ontomap/internal/scene"
)

// Orientation is the direction a tree grows in.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// levels groups nodes by depth along mapping arcs. Roots are nodes with no
// incoming arc from another node; when a component is a pure cycle its
// first node in scene order becomes the root.
func levels(g *scene.Graph) [][]*scene.NodeElement {
	nodes := g.Nodes()
	children := make(map[string][]string, len(nodes))
	hasParent := make(map[string]bool, len(nodes))
	for _, a := range g.Arcs() {
		if a.SourceID() == a.TargetID() {
			continue
		}
		children[a.SourceID()] = append(children[a.SourceID()], a.TargetID())
		hasParent[a.TargetID()] = true
	}

	depth := make(map[string]int, len(nodes))
	var out [][]*scene.NodeElement
	visit := func(roots []string) {
		queue := roots
		for _, r := range roots {
			depth[r] = 0
		}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			for _, c := range children[id] {
				if _, seen := depth[c]; !seen {
					depth[c] = depth[id] + 1
					queue = append(queue, c)
				}
			}
		}
	}

	var roots []string
	for _, n := range nodes {
		if !hasParent[n.ID()] {
			roots = append(roots, n.ID())
		}
	}
	visit(roots)
	for _, n := range nodes {
		if _, seen := depth[n.ID()]; !seen {
			visit([]string{n.ID()})
		}
	}

	for _, n := range nodes {
		d := depth[n.ID()]
		for len(out) <= d {
			out = append(out, nil)
		}
		out[d] = append(out[d], n)
	}
	return out
}

// Tree lays nodes out in levels by their depth along mapping arcs.
type Tree struct {
	Orientation Orientation
}

func (t Tree) Name() string {
	if t.Orientation == Vertical {
		return "vertical-tree"
	}
	return "horizontal-tree"
}

func (t Tree) Apply(g *scene.Graph, b Bounds) {
	lv := levels(g)
	if len(lv) == 0 {
		return
	}
	along, across := b.Width, b.Height
	if t.Orientation == Vertical {
		along, across = b.Height, b.Width
	}
	levelStep := along / float64(len(lv))
	for d, nodes := range lv {
		siblingStep := across / float64(len(nodes))
		for i, n := range nodes {
			a := levelStep*float64(d) + levelStep/2
			c := siblingStep*float64(i) + siblingStep/2
			if t.Orientation == Vertical {
				placeCentered(n, scene.Point{X: c, Y: a})
			} else {
				placeCentered(n, scene.Point{X: a, Y: c})
			}
		}
	}
}

// Radial places roots in the middle and each deeper level on a wider ring.
type Radial struct{}

func (Radial) Name() string { return "radial" }

func (Radial) Apply(g *scene.Graph, b Bounds) {
	lv := levels(g)
	if len(lv) == 0 {
		return
	}
	if len(lv) == 1 {
		Circle{}.Apply(g, b)
		return
	}
	maxR := ringRadius(b, maxNodeExtent(g.Nodes()))
	step := maxR / float64(len(lv)-1)
	for d, nodes := range lv {
		radius := step * float64(d)
		if d == 0 && len(nodes) > 1 {
			radius = step / 2
		}
		if radius == 0 {
			placeCentered(nodes[0], b.Center())
			continue
		}
		ring(nodes, b.Center(), radius, float64(d)*0.3)
	}
}
