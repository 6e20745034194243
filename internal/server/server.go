// Package server exposes a live ontology graph over HTTP.
//
// Every handler that reads or changes the graph runs on the scene loop, the
// same goroutine expansion responses are dispatched to.
package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	"github.com/msalah0e/ontomap/internal/config"
	"github.com/msalah0e/ontomap/internal/expand"
	"github.com/msalah0e/ontomap/internal/layout"
	"github.com/msalah0e/ontomap/internal/scene"
	"github.com/msalah0e/ontomap/internal/session"
	"github.com/msalah0e/ontomap/internal/telemetry"
)

// RequestIDHeader carries the per-request id.
const RequestIDHeader = "X-Request-ID"

const shutdownTimeout = 5 * time.Second

// Server serves one session.
type Server struct {
	cfg      config.ServeConfig
	session  *session.Session
	loop     *scene.Loop
	expander expand.BulkExpander
	metrics  *telemetry.Metrics
	logger   *slog.Logger
	engine   *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics exposes m on /metrics when the config enables it.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// New builds the server. The expander must dispatch its response handlers
// onto loop.
func New(cfg config.ServeConfig, sess *session.Session, loop *scene.Loop, expander expand.BulkExpander, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		session:  sess,
		loop:     loop,
		expander: expander,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(s.logger), otelgin.Middleware("ontomap"))

	r.GET("/healthz", s.healthz)
	r.GET("/graph.svg", s.graphSVG)
	r.GET("/graph.json", s.graphJSON)
	r.POST("/expand", s.expand)
	r.POST("/layout", s.applyLayout)
	nodes := r.Group("/nodes/:id")
	{
		nodes.POST("/location", s.moveNode)
		nodes.POST("/highlight", s.highlight)
		nodes.DELETE("", s.removeNode)
	}
	if s.cfg.Metrics && s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	return r
}

// Run serves on the configured address and runs the scene loop until ctx
// ends, then shuts the listener down.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.loop.Run(ctx)
		return nil
	})
	g.Go(func() error {
		s.logger.Info("serving ontology graph", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			"request", c.GetString("request_id"),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}

// onLoop runs fn on the scene loop, answering 503 when the loop is gone.
func (s *Server) onLoop(c *gin.Context, fn func()) bool {
	if err := s.loop.Do(c.Request.Context(), fn); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) graphSVG(c *gin.Context) {
	var (
		buf bytes.Buffer
		err error
	)
	if !s.onLoop(c, func() { err = s.session.WriteSVG(&buf) }) {
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func (s *Server) graphJSON(c *gin.Context) {
	var snap scene.Snapshot
	if !s.onLoop(c, func() { snap = s.session.Snapshot() }) {
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ExpandResponse reports the outcome of POST /expand.
type ExpandResponse struct {
	RequestID  string       `json:"request_id"`
	Ontologies []string     `json:"ontologies"`
	Outcome    string       `json:"outcome"`
	Stats      expand.Stats `json:"stats"`
	Error      string       `json:"error,omitempty"`
}

// expand issues a bulk expansion. With ?wait=false it answers 202 at once;
// otherwise it waits for the response to be handled on the loop.
func (s *Server) expand(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())
	var (
		req *expand.Request
		err error
	)
	if !s.onLoop(c, func() { req, err = s.session.Expand(ctx, s.expander) }) {
		return
	}
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrEmpty) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	resp := ExpandResponse{RequestID: req.ID(), Ontologies: req.OntologyIDs(), Outcome: expand.Pending.String()}
	if c.Query("wait") == "false" {
		c.JSON(http.StatusAccepted, resp)
		return
	}

	outcome, stats, err := req.Wait(c.Request.Context())
	resp.Outcome, resp.Stats = outcome.String(), stats
	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		status = http.StatusBadGateway
		if outcome == expand.Pending {
			status = http.StatusGatewayTimeout
		}
	}
	c.JSON(status, resp)
}

// LocationRequest is the body of POST /nodes/:id/location.
type LocationRequest struct {
	X *float64 `json:"x" binding:"required"`
	Y *float64 `json:"y" binding:"required"`
}

func (s *Server) moveNode(c *gin.Context) {
	var body LocationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	var (
		view scene.NodeView
		err  error
	)
	id := c.Param("id")
	if !s.onLoop(c, func() {
		if err = s.session.MoveNode(id, scene.Point{X: *body.X, Y: *body.Y}); err == nil {
			n, _ := s.session.Graph().Node(id)
			view = scene.NodeView{ID: n.ID(), Label: n.Label(), Location: n.Location(), Size: n.Size(), Arcs: n.ConnectedArcs()}
		}
	}) {
		return
	}
	if s.notFound(c, err) {
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) highlight(c *gin.Context) {
	id := c.Param("id")
	var err error
	if !s.onLoop(c, func() { err = s.session.Highlight(id) }) {
		return
	}
	if s.notFound(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) removeNode(c *gin.Context) {
	id := c.Param("id")
	var err error
	if !s.onLoop(c, func() { err = s.session.RemoveOntology(id) }) {
		return
	}
	if s.notFound(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// LayoutRequest is the body of POST /layout.
type LayoutRequest struct {
	Name  string `json:"name" binding:"required"`
	Focus string `json:"focus"`
}

func (s *Server) applyLayout(c *gin.Context) {
	var body LayoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	l, err := layout.Get(body.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, ok := l.(layout.Centered); ok {
		l = layout.Centered{Focus: body.Focus}
	}
	if !s.onLoop(c, func() { s.session.ApplyLayout(l) }) {
		return
	}
	c.Status(http.StatusNoContent)
}

// notFound writes the error response for err and reports whether it did.
func (s *Server) notFound(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, scene.ErrNodeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
	return true
}
