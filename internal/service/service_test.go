package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msalah0e/ontomap/internal/logging"
	"github.com/msalah0e/ontomap/internal/mapping"
	"github.com/msalah0e/ontomap/internal/resource"
	"github.com/msalah0e/ontomap/internal/telemetry"
)

func records(agg *mapping.Aggregator) []CountRecord {
	var out []CountRecord
	for c := range agg.All() {
		out = append(out, CountRecord{Source: c.SourceID(), Target: c.TargetID(), Count: c.Count()})
	}
	return out
}

func TestHTTPClient_MappingCounts(t *testing.T) {
	var got CountsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/mappings/counts", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "ontomap/test", r.Header.Get("User-Agent"))
		assert.Equal(t, "apikey token=secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"source":"1032","target":"1353","count":12},{"source":"1353","target":"1032","count":3}]`))
	}))
	defer srv.Close()

	m := telemetry.NewMetrics()
	c, err := NewHTTPClient(srv.URL+"/api/", time.Second,
		WithAPIKey("secret"),
		WithUserAgent("ontomap/test"),
		WithLogger(logging.Nop()),
		WithMetrics(m))
	require.NoError(t, err)

	agg, err := c.MappingCounts(context.Background(), []string{"1032", "1353"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1032", "1353"}, got.Ontologies)
	assert.Equal(t, 2, agg.Size())
	assert.Equal(t, 15, agg.Lookup("1032", "1353"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ServiceRequests.WithLabelValues("ok")))
}

func TestHTTPClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL, time.Second, WithLogger(logging.Nop()))
	require.NoError(t, err)

	_, err = c.MappingCounts(context.Background(), []string{"1032"})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
	assert.Equal(t, "backend down", se.Body)
}

func TestHTTPClient_BadPayload(t *testing.T) {
	for name, body := range map[string]string{
		"malformed": `{"not":"a list"`,
		"negative":  `[{"source":"a","target":"b","count":-1}]`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			c, err := NewHTTPClient(srv.URL, time.Second, WithLogger(logging.Nop()))
			require.NoError(t, err)
			_, err = c.MappingCounts(context.Background(), []string{"a"})
			assert.Error(t, err)
		})
	}
}

func TestHTTPClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewHTTPClient(srv.URL, 50*time.Millisecond, WithLogger(logging.Nop()))
	require.NoError(t, err)
	_, err = c.MappingCounts(context.Background(), []string{"a"})
	assert.Error(t, err)
}

func TestNewHTTPClient_NoBaseURL(t *testing.T) {
	_, err := NewHTTPClient("", time.Second)
	assert.ErrorIs(t, err, ErrNoBaseURL)
}

const fixtureYAML = `
ontologies:
  - {id: "1032", name: NCI Thesaurus, acronym: NCIT, concepts: 118941}
  - {id: "1353", name: SNOMED Clinical Terms, acronym: SNOMEDCT, description: Clinical terms}
  - {id: "1070", name: Gene Ontology, acronym: GO, attributes: {numberOfConcepts: 44000, description: Gene functions}}
mappings:
  - {source: "1032", target: "1353", count: 1204}
  - {source: "1353", target: "1070", count: 15}
  - {source: "1070", target: "9999", count: 3}
latency: 1ms
`

func TestParseFixture(t *testing.T) {
	f, err := ParseFixture([]byte(fixtureYAML))
	require.NoError(t, err)
	assert.Len(t, f.Ontologies, 3)
	assert.Equal(t, time.Millisecond, f.Latency)

	o, ok := f.Ontology("1032")
	require.True(t, ok)
	r, err := o.Resource()
	require.NoError(t, err)
	assert.Equal(t, "1032", resource.OntologyID(r))
	assert.Equal(t, 118941, resource.Value(r, resource.NumberOfConcepts))
	assert.False(t, r.Has(resource.Description.Name()))

	o, ok = f.Ontology("1070")
	require.True(t, ok)
	r, err = o.Resource()
	require.NoError(t, err)
	assert.Equal(t, 44000, resource.Value(r, resource.NumberOfConcepts))
	assert.Equal(t, "Gene functions", resource.Value(r, resource.Description))
	assert.Equal(t, "Gene Ontology", resource.Value(r, resource.OntologyName))

	_, ok = f.Ontology("nope")
	assert.False(t, ok)
}

func TestParseFixture_Invalid(t *testing.T) {
	for name, doc := range map[string]string{
		"syntax":            "ontologies: [",
		"no id":             "ontologies: [{name: x}]",
		"duplicate":         `ontologies: [{id: "1"}, {id: "1"}]`,
		"negative":          `mappings: [{source: a, target: b, count: -2}]`,
		"unknown attribute": `ontologies: [{id: "1", attributes: {colour: blue}}]`,
		"attribute type":    `ontologies: [{id: "1", attributes: {numberOfConcepts: many}}]`,
		"attribute id":      `ontologies: [{id: "1", attributes: {virtualOntologyId: "2"}}]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFixture([]byte(doc))
			assert.Error(t, err)
		})
	}
	_, err := ParseFixture([]byte(`mappings: [{source: a, target: b, count: -2}]`))
	assert.ErrorIs(t, err, mapping.ErrNegativeCount)
	_, err = ParseFixture([]byte(`ontologies: [{id: "1", attributes: {colour: blue}}]`))
	assert.ErrorIs(t, err, resource.ErrUnknownKey)
}

func TestFixture_MappingCounts(t *testing.T) {
	f, err := ParseFixture([]byte(fixtureYAML))
	require.NoError(t, err)

	agg, err := f.MappingCounts(context.Background(), []string{"1070"})
	require.NoError(t, err)
	assert.Equal(t, []CountRecord{
		{Source: "1353", Target: "1070", Count: 15},
		{Source: "1070", Target: "9999", Count: 3},
	}, records(agg))

	agg, err = f.MappingCounts(context.Background(), []string{"4242"})
	require.NoError(t, err)
	assert.Zero(t, agg.Size())
}

func TestFixture_RespectsContext(t *testing.T) {
	f, err := ParseFixture([]byte(fixtureYAML))
	require.NoError(t, err)
	f.Latency = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = f.MappingCounts(ctx, []string{"1032"})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestLoadFixture_RepositorySample(t *testing.T) {
	f, err := LoadFixture("../../testdata/ontologies.yaml")
	require.NoError(t, err)
	assert.True(t, slices.ContainsFunc(f.Ontologies, func(o Ontology) bool { return o.Acronym == "GO" }))
}
