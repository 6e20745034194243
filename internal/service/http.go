// Package service implements mapping-count queries against a remote
// ontology service or a local fixture file.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/msalah0e/ontomap/internal/mapping"
	"github.com/msalah0e/ontomap/internal/telemetry"
)

// ErrNoBaseURL is returned when no service URL is configured.
var ErrNoBaseURL = errors.New("mapping service base URL not configured")

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("mapping service returned %d", e.Code)
	}
	return fmt.Sprintf("mapping service returned %d: %s", e.Code, e.Body)
}

// CountsRequest is the body of a mapping-count query.
type CountsRequest struct {
	Ontologies []string `json:"ontologies"`
}

// CountRecord is one entry of a mapping-count response.
type CountRecord struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Count  int    `json:"count" yaml:"count"`
}

// HTTPClient queries POST {base}/mappings/counts.
type HTTPClient struct {
	baseURL   string
	apiKey    string
	userAgent string
	http      *http.Client
	logger    *slog.Logger
	metrics   *telemetry.Metrics
	tracer    trace.Tracer
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(h *HTTPClient) { h.http = c }
}

// WithAPIKey sends key in the Authorization header.
func WithAPIKey(key string) ClientOption {
	return func(h *HTTPClient) { h.apiKey = key }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(h *HTTPClient) { h.userAgent = ua }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(h *HTTPClient) { h.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *telemetry.Metrics) ClientOption {
	return func(h *HTTPClient) { h.metrics = m }
}

// NewHTTPClient creates a client for baseURL with a per-request timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...ClientOption) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	c := &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "ontomap",
		http:      &http.Client{Timeout: timeout},
		logger:    slog.Default(),
		tracer:    telemetry.Tracer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MappingCounts fetches the mapping counts among ontologyIDs.
func (c *HTTPClient) MappingCounts(ctx context.Context, ontologyIDs []string) (*mapping.Aggregator, error) {
	ctx, span := c.tracer.Start(ctx, "service.MappingCounts",
		trace.WithAttributes(attribute.Int("ontology.count", len(ontologyIDs))))
	defer span.End()

	agg, err := c.fetch(ctx, ontologyIDs)
	c.metrics.ObserveServiceRequest(err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("mapping.records", agg.Size()))
	return agg, nil
}

func (c *HTTPClient) fetch(ctx context.Context, ontologyIDs []string) (*mapping.Aggregator, error) {
	body, err := json.Marshal(CountsRequest{Ontologies: ontologyIDs})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mappings/counts", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "apikey token="+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mapping counts: %w", err)
	}
	defer resp.Body.Close()
	c.logger.Debug("mapping service responded",
		"status", resp.StatusCode,
		"ontologies", len(ontologyIDs),
		"elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var records []CountRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("mapping counts: decode response: %w", err)
	}
	return aggregate(records)
}

func aggregate(records []CountRecord) (*mapping.Aggregator, error) {
	agg := mapping.New()
	for _, r := range records {
		c, err := mapping.NewCount(r.Source, r.Target, r.Count)
		if err != nil {
			return nil, err
		}
		agg.Add(c)
	}
	return agg, nil
}
