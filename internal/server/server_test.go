package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msalah0e/ontomap/internal/config"
	"github.com/msalah0e/ontomap/internal/errsink"
	"github.com/msalah0e/ontomap/internal/expand"
	"github.com/msalah0e/ontomap/internal/logging"
	"github.com/msalah0e/ontomap/internal/scene"
	"github.com/msalah0e/ontomap/internal/service"
	"github.com/msalah0e/ontomap/internal/session"
	"github.com/msalah0e/ontomap/internal/telemetry"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const fixtureYAML = `
ontologies:
  - {id: "1032", name: NCI Thesaurus, acronym: NCIT}
  - {id: "1353", name: SNOMED Clinical Terms, acronym: SNOMEDCT}
  - {id: "1070", name: Gene Ontology, acronym: GO}
mappings:
  - {source: "1032", target: "1353", count: 1204}
  - {source: "1353", target: "1070", count: 15}
  - {source: "1070", target: "9999", count: 3}
`

type harness struct {
	server *Server
	stop   context.CancelFunc
}

func newHarness(t *testing.T, withOntologies bool) *harness {
	t.Helper()
	f, err := service.ParseFixture([]byte(fixtureYAML))
	require.NoError(t, err)

	metrics := telemetry.NewMetrics()
	sess := session.New(config.Default().View, session.WithLogger(logging.Nop()), session.WithMetrics(metrics))
	if withOntologies {
		for _, o := range f.Ontologies {
			r, err := o.Resource()
			require.NoError(t, err)
			_, err = sess.AddOntology(r)
			require.NoError(t, err)
		}
	}

	loop := scene.NewLoop(16)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	t.Cleanup(cancel)

	exp := expand.NewMappingExpander(f, &errsink.Recorder{},
		expand.WithDispatcher(loop),
		expand.WithLogger(logging.Nop()),
		expand.WithMetrics(metrics))
	cfg := config.Default().Serve
	srv := New(cfg, sess, loop, exp, WithLogger(logging.Nop()), WithMetrics(metrics))
	return &harness{server: srv, stop: cancel}
}

func (h *harness) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealthz_AssignsRequestID(t *testing.T) {
	h := newHarness(t, true)
	w := h.do(t, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestRequestID_Propagated(t *testing.T) {
	h := newHarness(t, true)
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	w := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(w, req)

	assert.Equal(t, id, w.Header().Get(RequestIDHeader))
}

func TestExpand_AppliesAndDrawsArcs(t *testing.T) {
	h := newHarness(t, true)

	w := h.do(t, http.MethodPost, "/expand", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[ExpandResponse](t, w)
	assert.Equal(t, "applied", resp.Outcome)
	assert.Equal(t, []string{"1032", "1353", "1070"}, resp.Ontologies)
	assert.Equal(t, expand.Stats{Records: 3, Merged: 2, Skipped: 1}, resp.Stats)

	w = h.do(t, http.MethodGet, "/graph.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[scene.Snapshot](t, w)
	assert.Len(t, snap.Nodes, 3)
	assert.Len(t, snap.Arcs, 2)
}

func TestExpand_NoWait(t *testing.T) {
	h := newHarness(t, true)
	w := h.do(t, http.MethodPost, "/expand?wait=false", "")

	assert.Equal(t, http.StatusAccepted, w.Code)
	resp := decode[ExpandResponse](t, w)
	assert.Equal(t, "pending", resp.Outcome)
	assert.NotEmpty(t, resp.RequestID)
}

func TestExpand_EmptySession(t *testing.T) {
	h := newHarness(t, false)
	w := h.do(t, http.MethodPost, "/expand", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGraphSVG(t *testing.T) {
	h := newHarness(t, true)
	w := h.do(t, http.MethodGet, "/graph.svg", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "<svg"))
	assert.Contains(t, w.Body.String(), "NCIT")
}

func TestMoveNode(t *testing.T) {
	h := newHarness(t, true)

	w := h.do(t, http.MethodPost, "/nodes/1032/location", `{"x": 0, "y": 40}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decode[scene.NodeView](t, w)
	assert.Equal(t, scene.Point{X: 0, Y: 40}, view.Location)

	w = h.do(t, http.MethodPost, "/nodes/1032/location", `{"x": 10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, http.MethodPost, "/nodes/nope/location", `{"x": 1, "y": 2}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveNode(t *testing.T) {
	h := newHarness(t, true)
	h.do(t, http.MethodPost, "/expand", "")

	w := h.do(t, http.MethodDelete, "/nodes/1353", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	snap := decode[scene.Snapshot](t, h.do(t, http.MethodGet, "/graph.json", ""))
	assert.Len(t, snap.Nodes, 2)
	assert.Empty(t, snap.Arcs)

	w = h.do(t, http.MethodDelete, "/nodes/1353", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHighlight(t *testing.T) {
	h := newHarness(t, true)
	assert.Equal(t, http.StatusNoContent, h.do(t, http.MethodPost, "/nodes/1070/highlight", "").Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodPost, "/nodes/nope/highlight", "").Code)
}

func TestLayout(t *testing.T) {
	h := newHarness(t, true)

	assert.Equal(t, http.StatusNoContent, h.do(t, http.MethodPost, "/layout", `{"name": "center", "focus": "1353"}`).Code)
	snap := decode[scene.Snapshot](t, h.do(t, http.MethodGet, "/graph.json", ""))
	view := config.Default().View
	for _, n := range snap.Nodes {
		if n.ID == "1353" {
			assert.Equal(t, scene.Point{X: view.Width/2 - view.NodeWidth/2, Y: view.Height/2 - view.NodeHeight/2}, n.Location)
		}
	}

	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodPost, "/layout", `{"name": "spiral"}`).Code)
	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodPost, "/layout", `{}`).Code)
}

func TestMetrics(t *testing.T) {
	h := newHarness(t, true)
	h.do(t, http.MethodPost, "/expand", "")

	w := h.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ontomap_scene_arcs 2")
	assert.Contains(t, w.Body.String(), `ontomap_expansions_total{outcome="applied"} 1`)
}

func TestLoopStopped(t *testing.T) {
	h := newHarness(t, true)
	h.stop()

	assert.Eventually(t, func() bool {
		return h.do(t, http.MethodGet, "/graph.json", "").Code == http.StatusServiceUnavailable
	}, 2*time.Second, 10*time.Millisecond)
}
