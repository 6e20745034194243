package expand

import (
	"context"
	"slices"
)

// Outcome describes what happened to a response.
type Outcome int

const (
	// Pending means no response has been handled yet.
	Pending Outcome = iota
	// Applied means the response was merged and the arcs redrawn.
	Applied
	// Stale means the response arrived after its view went away, or after
	// the dispatcher stopped, and was dropped without side effects.
	Stale
	// Failed means the query failed and the error sink was notified.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Stale:
		return "stale"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Stats counts what happened to the records of an applied response.
type Stats struct {
	Records int `json:"records"`
	Merged  int `json:"merged"`
	Skipped int `json:"skipped"`
}

// Request tracks one in-flight expansion.
type Request struct {
	id          string
	ontologyIDs []string
	done        chan struct{}

	// written by the response handler before done is closed
	outcome Outcome
	stats   Stats
	err     error
}

// ID returns the request id used in logs.
func (r *Request) ID() string { return r.id }

// OntologyIDs returns the ids sent to the service, in item order.
func (r *Request) OntologyIDs() []string { return slices.Clone(r.ontologyIDs) }

// Done is closed once the response has been handled.
func (r *Request) Done() <-chan struct{} { return r.done }

// Wait blocks until the response has been handled or ctx ends. The error
// is the service error for Failed requests, or ctx's error.
func (r *Request) Wait(ctx context.Context) (Outcome, Stats, error) {
	select {
	case <-r.done:
		return r.outcome, r.stats, r.err
	case <-ctx.Done():
		return Pending, Stats{}, ctx.Err()
	}
}
