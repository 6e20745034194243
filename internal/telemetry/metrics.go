// Package telemetry holds the prometheus metrics and otel tracer used by
// the expansion pipeline.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const namespace = "ontomap"

// Expansion outcomes used as label values.
const (
	OutcomeApplied = "applied"
	OutcomeStale   = "stale"
	OutcomeFailed  = "failed"
)

// Metrics groups the counters of one process. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Expansions       *prometheus.CounterVec
	RecordsMerged    prometheus.Counter
	RecordsSkipped   prometheus.Counter
	ExpansionLatency prometheus.Histogram
	ServiceRequests  *prometheus.CounterVec
	SceneNodes       prometheus.Gauge
	SceneArcs        prometheus.Gauge
}

// NewMetrics registers the metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Expansions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expansions_total",
			Help:      "Bulk mapping expansions by outcome.",
		}, []string{"outcome"}),
		RecordsMerged: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mapping_records_merged_total",
			Help:      "Mapping count records merged into ontology resources.",
		}),
		RecordsSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mapping_records_skipped_total",
			Help:      "Mapping count records skipped because an endpoint was not visible.",
		}),
		ExpansionLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "expansion_duration_seconds",
			Help:      "Time from request issue to response handling.",
			Buckets:   prometheus.DefBuckets,
		}),
		ServiceRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "service_requests_total",
			Help:      "Mapping service requests by status.",
		}, []string{"status"}),
		SceneNodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scene_nodes",
			Help:      "Nodes currently in the scene.",
		}),
		SceneArcs: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scene_arcs",
			Help:      "Arcs currently in the scene.",
		}),
	}
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the metrics in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveExpansion records one finished expansion.
func (m *Metrics) ObserveExpansion(outcome string, started time.Time, merged, skipped int) {
	if m == nil {
		return
	}
	m.Expansions.WithLabelValues(outcome).Inc()
	m.ExpansionLatency.Observe(time.Since(started).Seconds())
	m.RecordsMerged.Add(float64(merged))
	m.RecordsSkipped.Add(float64(skipped))
}

// ObserveServiceRequest records one mapping service call.
func (m *Metrics) ObserveServiceRequest(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ServiceRequests.WithLabelValues(status).Inc()
}

// SetSceneSize records the current scene size.
func (m *Metrics) SetSceneSize(nodes, arcs int) {
	if m == nil {
		return
	}
	m.SceneNodes.Set(float64(nodes))
	m.SceneArcs.Set(float64(arcs))
}

// Tracer returns the tracer for ontomap spans. It is a no-op until a
// tracer provider is installed with otel.SetTracerProvider.
func Tracer() trace.Tracer {
	return otel.Tracer("github.com/msalah0e/ontomap")
}
