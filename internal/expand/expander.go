package expand

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/msalah0e/ontomap/internal/mapping"
	"github.com/msalah0e/ontomap/internal/resource"
	"github.com/msalah0e/ontomap/internal/telemetry"
)

const (
	failurePrefix  = "Could not expand all mappings for ontology nodes"
	failureContext = "Error finding ontology mappings"
)

// FailureMessage builds the text sent to the error sink when a query fails.
func FailureMessage(detail string) string {
	return fmt.Sprintf("%s %q", failurePrefix, detail)
}

// MappingExpander loads ontology mapping counts for whole sets of nodes.
type MappingExpander struct {
	service  MappingService
	errors   ErrorSink
	dispatch Dispatcher
	logger   *slog.Logger
	metrics  *telemetry.Metrics
}

var (
	_ BulkExpander = (*MappingExpander)(nil)
	_ NodeExpander = (*MappingExpander)(nil)
)

// Option configures a MappingExpander.
type Option func(*MappingExpander)

// WithDispatcher sets where response handlers run. Defaults to Inline.
func WithDispatcher(d Dispatcher) Option {
	return func(e *MappingExpander) { e.dispatch = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *MappingExpander) { e.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *MappingExpander) { e.metrics = m }
}

// NewMappingExpander creates an expander querying service and reporting
// failures to sink.
func NewMappingExpander(service MappingService, sink ErrorSink, opts ...Option) *MappingExpander {
	e := &MappingExpander{
		service:  service,
		errors:   sink,
		dispatch: Inline,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand issues one mapping-count query for all items and returns at once.
// Each item must wrap exactly one ontology resource. The response is
// handled through the dispatcher. A failed query is always reported to the
// error sink. A successful one is dropped if ctx has ended or cb is no longer
// initialized, otherwise merged into the item resources, after which
// cb.UpdateArcsForVisualItems is called once with items.
//
// Expand panics if items is empty or cb is nil.
func (e *MappingExpander) Expand(ctx context.Context, items []*resource.VisualItem, cb Callback) *Request {
	if len(items) == 0 {
		panic("expand: no visual items to expand")
	}
	if cb == nil {
		panic("expand: nil expansion callback")
	}

	items = slices.Clone(items)
	req := &Request{
		id:          uuid.NewString(),
		ontologyIDs: ontologyIDs(items),
		done:        make(chan struct{}),
	}
	tok := newToken(ctx, cb)
	started := time.Now()
	logger := e.logger.With("request", req.id)
	logger.Debug("expanding ontology mappings", "ontologies", len(req.ontologyIDs))

	go func() {
		spanCtx, span := telemetry.Tracer().Start(ctx, "expand.MappingCounts")
		span.SetAttributes(attribute.Int("ontology.count", len(req.ontologyIDs)))
		result, err := e.service.MappingCounts(spanCtx, req.ontologyIDs)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		var once sync.Once
		finish := func(apply func()) {
			once.Do(func() {
				apply()
				e.metrics.ObserveExpansion(req.outcome.String(), started, req.stats.Merged, req.stats.Skipped)
				close(req.done)
			})
		}
		e.dispatch.Dispatch(func() {
			finish(func() { e.handle(req, tok, items, result, err, logger) })
		})

		s, ok := e.dispatch.(Stoppable)
		if !ok {
			return
		}
		select {
		case <-req.done:
		case <-s.Stopped():
			finish(func() {
				if err != nil {
					e.fail(req, tok, err, logger)
					return
				}
				req.outcome = Stale
				logger.Debug("dispatcher stopped before the mapping response was handled")
			})
		}
	}()
	return req
}

func (e *MappingExpander) handle(req *Request, tok token, items []*resource.VisualItem,
	result *mapping.Aggregator, err error, logger *slog.Logger) {

	if err != nil {
		e.fail(req, tok, err, logger)
		return
	}
	if !tok.live() {
		req.outcome = Stale
		logger.Debug("dropping stale mapping response")
		return
	}

	req.stats = merge(resource.NewIndex(items), result, logger)
	req.outcome = Applied
	logger.Debug("merged mapping counts",
		"records", req.stats.Records,
		"merged", req.stats.Merged,
		"skipped", req.stats.Skipped)
	tok.cb.UpdateArcsForVisualItems(items)
}

// fail records err on req and reports it, whether or not the callback is
// still live.
func (e *MappingExpander) fail(req *Request, tok token, err error, logger *slog.Logger) {
	req.outcome = Failed
	req.err = err
	logger.Warn("mapping query failed",
		"error", err,
		"timeout", errors.Is(err, context.DeadlineExceeded),
		"live", tok.live())
	e.errors.Report(FailureMessage(failureContext))
}

// merge appends every record whose endpoints are both in index to the
// source's outgoing and the target's incoming mapping lists.
func merge(index *resource.Index, result *mapping.Aggregator, logger *slog.Logger) Stats {
	var s Stats
	for c := range result.All() {
		s.Records++
		source, okSource := index.Lookup(c.SourceID())
		target, okTarget := index.Lookup(c.TargetID())
		if !okSource || !okTarget {
			s.Skipped++
			continue
		}

		out := resource.Mapping{OntologyID: resource.OntologyID(target), Count: c.Count()}
		if err := resource.AppendMapping(source, resource.OutgoingMappings, out); err != nil {
			// Only reachable if something stored a malformed list.
			logger.Error("outgoing mappings unusable", "ontology", OntologyInfo(source), "error", err)
			s.Skipped++
			continue
		}
		in := resource.Mapping{OntologyID: resource.OntologyID(source), Count: c.Count()}
		if err := resource.AppendMapping(target, resource.IncomingMappings, in); err != nil {
			logger.Error("incoming mappings unusable", "ontology", OntologyInfo(target), "error", err)
			s.Skipped++
			continue
		}
		s.Merged++
	}
	return s
}

// ExpandNode always returns ErrUnsupported.
func (e *MappingExpander) ExpandNode(ctx context.Context, item *resource.VisualItem, cb Callback) error {
	return ErrUnsupported
}

func ontologyIDs(items []*resource.VisualItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, resource.OntologyID(item.Single()))
	}
	return ids
}

// OntologyInfo describes r for diagnostics: its name when known, its
// virtual ontology id otherwise.
func OntologyInfo(r *resource.Resource) string {
	if name := resource.Value(r, resource.OntologyName); name != "" {
		return "(" + name + ")"
	}
	return "(virtual ontology id: " + resource.OntologyID(r) + ")"
}
