package scene

import (
	"math"
	"slices"

	"github.com/msalah0e/ontomap/internal/svg"
)

// Symbolic font weights accepted by NodeElement.SetFontWeight.
const (
	FontWeightNormal = "nodeFontWeightNormal"
	FontWeightBold   = "nodeFontWeightBold"
)

// NodeElement holds the primitives of one node and the ids of the arcs
// attached to it. Arcs are resolved through the owning Graph; the node
// does not own them.
type NodeElement struct {
	id        string
	label     string
	graph     *Graph
	container Primitive
	shape     Primitive
	text      Primitive
	arcs      []ArcID
}

// ID returns the node id.
func (n *NodeElement) ID() string { return n.id }

// Label returns the displayed label.
func (n *NodeElement) Label() string { return n.label }

// Container returns the primitive positioned on the canvas.
func (n *NodeElement) Container() Primitive { return n.container }

// Shape returns the background shape primitive.
func (n *NodeElement) Shape() Primitive { return n.shape }

// Text returns the label primitive.
func (n *NodeElement) Text() Primitive { return n.text }

// AddConnectedArc registers an arc touching this node.
func (n *NodeElement) AddConnectedArc(id ArcID) {
	n.arcs = append(n.arcs, id)
}

// RemoveConnectedArc drops the first registration of id.
func (n *NodeElement) RemoveConnectedArc(id ArcID) {
	if i := slices.Index(n.arcs, id); i >= 0 {
		n.arcs = slices.Delete(n.arcs, i, i+1)
	}
}

// ConnectedArcs returns the ids of the arcs touching this node.
func (n *NodeElement) ConnectedArcs() []ArcID {
	return slices.Clone(n.arcs)
}

// Location returns the top-left corner of the node, truncated to whole units.
func (n *NodeElement) Location() Point {
	return Point{
		X: math.Trunc(floatAttr(n.container, svg.X)),
		Y: math.Trunc(floatAttr(n.container, svg.Y)),
	}
}

// Size returns the size of the node shape.
func (n *NodeElement) Size() Size {
	return Size{
		Width:  floatAttr(n.shape, svg.Width),
		Height: floatAttr(n.shape, svg.Height),
	}
}

// MidPoint returns the centre of the node shape.
func (n *NodeElement) MidPoint() Point {
	return Point{
		X: floatAttr(n.container, svg.X) + floatAttr(n.shape, svg.Width)/2,
		Y: floatAttr(n.container, svg.Y) + floatAttr(n.shape, svg.Height)/2,
	}
}

// SetLocation moves the node and updates the near endpoint of every
// connected arc. The far endpoint of each arc is left alone.
func (n *NodeElement) SetLocation(p Point) {
	n.container.SetAttribute(svg.X, p.X)
	n.container.SetAttribute(svg.Y, p.Y)
	n.updateConnectedArcs()
}

func (n *NodeElement) updateConnectedArcs() {
	for _, id := range n.arcs {
		arc, ok := n.graph.arcs[id]
		if !ok {
			continue
		}
		if arc.SourceID() == n.id {
			arc.UpdateSourcePoint()
		} else {
			arc.UpdateTargetPoint()
		}
	}
}

// SetSize resizes the node shape and re-centres the label.
func (n *NodeElement) SetSize(s Size) {
	n.shape.SetAttribute(svg.Width, s.Width)
	n.shape.SetAttribute(svg.Height, s.Height)
	n.text.SetAttribute(svg.X, s.Width/2)
	n.text.SetAttribute(svg.Y, s.Height/2+4)
	n.updateAllArcEndpoints()
}

func (n *NodeElement) updateAllArcEndpoints() {
	for _, id := range n.arcs {
		if arc, ok := n.graph.arcs[id]; ok {
			arc.UpdateSourcePoint()
			arc.UpdateTargetPoint()
		}
	}
}

func (n *NodeElement) SetBackgroundColor(color string) {
	n.shape.SetAttribute(svg.Fill, color)
}

func (n *NodeElement) SetBorderColor(color string) {
	n.shape.SetAttribute(svg.Stroke, color)
}

func (n *NodeElement) SetFontColor(color string) {
	n.text.SetAttribute(svg.Fill, color)
}

// SetFontWeight accepts FontWeightNormal or FontWeightBold. Any other value
// is ignored.
func (n *NodeElement) SetFontWeight(weight string) {
	switch weight {
	case FontWeightNormal:
		n.text.SetAttribute(svg.FontWeight, "normal")
	case FontWeightBold:
		n.text.SetAttribute(svg.FontWeight, "bold")
	}
}
