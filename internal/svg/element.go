// Package svg is a small in-memory SVG tree. Elements are attribute bags
// that can be serialised as an SVG document.
package svg

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
)

// Attr is an SVG attribute name.
type Attr string

// Attributes used by the graph scene.
const (
	ID          Attr = "id"
	Class       Attr = "class"
	X           Attr = "x"
	Y           Attr = "y"
	X1          Attr = "x1"
	Y1          Attr = "y1"
	X2          Attr = "x2"
	Y2          Attr = "y2"
	Width       Attr = "width"
	Height      Attr = "height"
	Rx          Attr = "rx"
	Fill        Attr = "fill"
	Stroke      Attr = "stroke"
	StrokeWidth Attr = "stroke-width"
	FontWeight  Attr = "font-weight"
	FontSize    Attr = "font-size"
	TextAnchor  Attr = "text-anchor"
	Overflow    Attr = "overflow"
)

// Element is one SVG node.
type Element struct {
	tag      string
	order    []Attr
	attrs    map[Attr]string
	text     string
	parent   *Element
	children []*Element
}

// NewElement creates a detached element.
func NewElement(tag string) *Element {
	return &Element{tag: tag, attrs: make(map[Attr]string)}
}

// Tag returns the element name.
func (e *Element) Tag() string { return e.tag }

// SetAttribute stores value under name. Numbers are formatted without
// trailing zeros; anything else must be a string or fmt.Stringer.
func (e *Element) SetAttribute(name Attr, value any) {
	if _, ok := e.attrs[name]; !ok {
		e.order = append(e.order, name)
	}
	e.attrs[name] = format(value)
}

// Attribute returns the value of name, or "" when unset.
func (e *Element) Attribute(name Attr) string {
	return e.attrs[name]
}

// RemoveAttribute deletes name.
func (e *Element) RemoveAttribute(name Attr) {
	if _, ok := e.attrs[name]; !ok {
		return
	}
	delete(e.attrs, name)
	e.order = slices.DeleteFunc(e.order, func(a Attr) bool { return a == name })
}

// SetText sets the character data of the element.
func (e *Element) SetText(text string) { e.text = text }

// Text returns the character data of the element.
func (e *Element) Text() string { return e.text }

// Append adds child as the last child of e, detaching it from any
// previous parent.
func (e *Element) Append(child *Element) *Element {
	child.Detach()
	child.parent = e
	e.children = append(e.children, child)
	return child
}

// Detach removes e from its parent.
func (e *Element) Detach() {
	if e.parent == nil {
		return
	}
	p := e.parent
	p.children = slices.DeleteFunc(p.children, func(c *Element) bool { return c == e })
	e.parent = nil
}

// Parent returns the enclosing element, or nil.
func (e *Element) Parent() *Element { return e.parent }

// Children returns the child elements in document order.
func (e *Element) Children() []*Element {
	return slices.Clone(e.children)
}

func format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(x).Int(), 10)
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return strconv.FormatUint(reflect.ValueOf(x).Uint(), 10)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
