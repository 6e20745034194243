package resource

import (
	"fmt"
	"slices"
)

// VisualItem is a renderable wrapper around one or more resources.
type VisualItem struct {
	id        string
	resources []*Resource
}

// NewVisualItem wraps resources under a view item id.
func NewVisualItem(id string, resources ...*Resource) *VisualItem {
	return &VisualItem{id: id, resources: resources}
}

// ID returns the item id.
func (v *VisualItem) ID() string { return v.id }

// Resources returns the wrapped resources.
func (v *VisualItem) Resources() []*Resource {
	return slices.Clone(v.resources)
}

// Single returns the only resource of the item. It panics if the item does
// not wrap exactly one resource.
func (v *VisualItem) Single() *Resource {
	if len(v.resources) != 1 {
		panic(fmt.Sprintf("resource: visual item %q wraps %d resources, want 1", v.id, len(v.resources)))
	}
	return v.resources[0]
}
