package scene

import (
	"fmt"
	"math"

	"github.com/msalah0e/ontomap/internal/svg"
)

// ArcID identifies a directed arc by its endpoint node ids.
type ArcID struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

func (id ArcID) String() string {
	return fmt.Sprintf("%s->%s", id.Source, id.Target)
}

// ArcElement is a rendered line between two nodes, weighted by a mapping
// count. Its endpoint geometry follows whichever node last moved.
type ArcElement struct {
	id    ArcID
	count int
	graph *Graph
	line  Primitive
}

// ID returns the arc identity.
func (a *ArcElement) ID() ArcID { return a.id }

// SourceID returns the recorded source node id.
func (a *ArcElement) SourceID() string { return a.id.Source }

// TargetID returns the recorded target node id.
func (a *ArcElement) TargetID() string { return a.id.Target }

// Count returns the arc weight.
func (a *ArcElement) Count() int { return a.count }

// Line returns the line primitive.
func (a *ArcElement) Line() Primitive { return a.line }

// SetCount changes the weight and the stroke width derived from it.
func (a *ArcElement) SetCount(count int) {
	a.count = count
	a.line.SetAttribute(svg.StrokeWidth, strokeWidth(count))
}

// SourcePoint returns the stored source endpoint.
func (a *ArcElement) SourcePoint() Point {
	return Point{X: floatAttr(a.line, svg.X1), Y: floatAttr(a.line, svg.Y1)}
}

// TargetPoint returns the stored target endpoint.
func (a *ArcElement) TargetPoint() Point {
	return Point{X: floatAttr(a.line, svg.X2), Y: floatAttr(a.line, svg.Y2)}
}

// UpdateSourcePoint moves the source endpoint to the source node's centre.
func (a *ArcElement) UpdateSourcePoint() {
	n, ok := a.graph.nodes[a.id.Source]
	if !ok {
		return
	}
	p := n.MidPoint()
	a.line.SetAttribute(svg.X1, p.X)
	a.line.SetAttribute(svg.Y1, p.Y)
}

// UpdateTargetPoint moves the target endpoint to the target node's centre.
func (a *ArcElement) UpdateTargetPoint() {
	n, ok := a.graph.nodes[a.id.Target]
	if !ok {
		return
	}
	p := n.MidPoint()
	a.line.SetAttribute(svg.X2, p.X)
	a.line.SetAttribute(svg.Y2, p.Y)
}

// strokeWidth grows logarithmically with the count, from 1 to 8.
func strokeWidth(count int) float64 {
	if count <= 1 {
		return 1
	}
	w := 1 + math.Log10(float64(count))*2
	return math.Min(math.Round(w*10)/10, 8)
}
