package svg

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
)

const namespace = "http://www.w3.org/2000/svg"

// Document is an SVG canvas with separate layers for arcs and nodes so that
// arcs are always drawn underneath nodes.
type Document struct {
	root  *Element
	arcs  *Element
	nodes *Element
}

// NewDocument creates an empty canvas of the given size.
func NewDocument(width, height float64) *Document {
	root := NewElement("svg")
	root.SetAttribute("xmlns", namespace)
	root.SetAttribute(Width, width)
	root.SetAttribute(Height, height)

	d := &Document{root: root}
	d.arcs = root.Append(NewElement("g"))
	d.arcs.SetAttribute(Class, "arcs")
	d.nodes = root.Append(NewElement("g"))
	d.nodes.SetAttribute(Class, "nodes")
	return d
}

// Root returns the <svg> element.
func (d *Document) Root() *Element { return d.root }

// Resize changes the canvas size.
func (d *Document) Resize(width, height float64) {
	d.root.SetAttribute(Width, width)
	d.root.SetAttribute(Height, height)
}

// AddNode creates the nested <svg> container, background <rect> and label
// <text> of a node and attaches them to the node layer.
func (d *Document) AddNode(id, label string) (container, shape, text *Element) {
	container = d.nodes.Append(NewElement("svg"))
	container.SetAttribute(ID, id)
	container.SetAttribute(X, 0)
	container.SetAttribute(Y, 0)
	container.SetAttribute(Overflow, "visible")

	shape = container.Append(NewElement("rect"))
	shape.SetAttribute(Rx, 5)

	text = container.Append(NewElement("text"))
	text.SetAttribute(TextAnchor, "middle")
	text.SetText(label)
	return container, shape, text
}

// AddArc creates a <line> on the arc layer.
func (d *Document) AddArc(id string) *Element {
	line := d.arcs.Append(NewElement("line"))
	line.SetAttribute(ID, id)
	return line
}

// WriteTo serialises the document.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: bufio.NewWriter(w)}
	writeElement(cw, d.root, 0)
	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, cw.w.Flush()
}

func writeElement(w *countingWriter, e *Element, depth int) {
	indent := func() {
		for range depth {
			w.writeString("  ")
		}
	}
	indent()
	w.writeString("<" + e.tag)
	for _, name := range e.order {
		w.writeString(" " + string(name) + `="`)
		xml.EscapeText(w, []byte(e.attrs[name]))
		w.writeString(`"`)
	}
	if len(e.children) == 0 && e.text == "" {
		w.writeString("/>\n")
		return
	}
	w.writeString(">")
	if e.text != "" {
		xml.EscapeText(w, []byte(e.text))
	}
	if len(e.children) > 0 {
		w.writeString("\n")
		for _, c := range e.children {
			writeElement(w, c, depth+1)
		}
		indent()
	}
	fmt.Fprintf(w, "</%s>\n", e.tag)
}

type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

func (c *countingWriter) writeString(s string) {
	_, _ = c.Write([]byte(s))
}
