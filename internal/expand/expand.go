// Package expand loads mapping counts for the ontologies currently shown in
// the graph with a single batched request, merges them into the ontology
// resources and tells the scene to draw the resulting arcs.
package expand

import (
	"context"
	"errors"
	"fmt"

	"github.com/msalah0e/ontomap/internal/mapping"
	"github.com/msalah0e/ontomap/internal/resource"
)

// ErrUnsupported is returned by ExpandNode: mappings are only loaded for a
// set of nodes at once.
var ErrUnsupported = fmt.Errorf("single node mapping expansion: %w", errors.ErrUnsupported)

// MappingService answers a batched mapping-count query.
type MappingService interface {
	MappingCounts(ctx context.Context, ontologyIDs []string) (*mapping.Aggregator, error)
}

// ErrorSink receives user-facing failure messages.
type ErrorSink interface {
	Report(message string)
}

// Callback is implemented by the view that owns the scene.
type Callback interface {
	// IsInitialized reports whether the view is still showing the graph the
	// expansion was issued for.
	IsInitialized() bool

	// UpdateArcsForVisualItems redraws the arcs of items after their
	// mapping attributes changed.
	UpdateArcsForVisualItems(items []*resource.VisualItem)
}

// Dispatcher runs response handlers on the goroutine that owns the scene.
type Dispatcher interface {
	Dispatch(fn func())
}

// Stoppable is implemented by dispatchers that can stop accepting work.
// Once Stopped is closed, handlers that have not run yet never will, and
// the expander finishes their requests as Stale.
type Stoppable interface {
	Stopped() <-chan struct{}
}

// DispatchFunc adapts a function to Dispatcher.
type DispatchFunc func(fn func())

func (f DispatchFunc) Dispatch(fn func()) { f(fn) }

// Inline runs handlers on the goroutine that received the response. Use it
// when the caller waits on the Request and does not touch the scene
// meanwhile.
var Inline Dispatcher = DispatchFunc(func(fn func()) { fn() })

// BulkExpander expands a set of visual items with one request.
type BulkExpander interface {
	Expand(ctx context.Context, items []*resource.VisualItem, cb Callback) *Request
}

// NodeExpander expands a single visual item.
type NodeExpander interface {
	ExpandNode(ctx context.Context, item *resource.VisualItem, cb Callback) error
}
