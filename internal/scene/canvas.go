package scene

import (
	"github.com/msalah0e/ontomap/internal/svg"
)

// Primitive is a rendered element addressed through named attributes.
type Primitive interface {
	Attribute(name svg.Attr) string
	SetAttribute(name svg.Attr, value any)
}

// Canvas creates and destroys the primitives backing scene elements.
type Canvas interface {
	NewNode(id, label string) (container, shape, text Primitive)
	NewArc(id string) Primitive
	Remove(p Primitive)
}

// SVGCanvas draws the scene into an svg.Document.
type SVGCanvas struct {
	doc *svg.Document
}

// NewSVGCanvas creates a canvas backed by a fresh document.
func NewSVGCanvas(width, height float64) *SVGCanvas {
	return &SVGCanvas{doc: svg.NewDocument(width, height)}
}

// Document returns the backing document.
func (c *SVGCanvas) Document() *svg.Document { return c.doc }

func (c *SVGCanvas) NewNode(id, label string) (Primitive, Primitive, Primitive) {
	container, shape, text := c.doc.AddNode(id, label)
	return container, shape, text
}

func (c *SVGCanvas) NewArc(id string) Primitive {
	return c.doc.AddArc(id)
}

func (c *SVGCanvas) Remove(p Primitive) {
	if e, ok := p.(*svg.Element); ok {
		e.Detach()
	}
}
