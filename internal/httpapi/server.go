// Package httpapi serves the project store, metrics and imports over JSON.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/theirongolddev/cxdash/internal/remote"
	"github.com/theirongolddev/cxdash/internal/store"
)

const (
	defaultAddr     = "127.0.0.1:8787"
	defaultPageSize = 5
	maxImportSize   = 10 << 20 // 10 MB
)

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	Store  store.Store
	Remote *remote.Client
	Logger *slog.Logger

	Addr         string
	PageSize     int
	EventsBuffer int
	// Forward posts accepted JSON imports to the remote import endpoint.
	Forward bool
}

// Server is the headless HTTP API.
type Server struct {
	store   store.Store
	remote  *remote.Client
	log     *slog.Logger
	addr    string
	size    int
	forward bool
	events  *eventLog
	engine  *gin.Engine
}

// New returns a server with its routes registered.
func New(opts Options) *Server {
	s := &Server{
		store:   opts.Store,
		remote:  opts.Remote,
		log:     opts.Logger,
		addr:    opts.Addr,
		size:    opts.PageSize,
		forward: opts.Forward,
		events:  newEventLog(opts.EventsBuffer),
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.addr == "" {
		s.addr = defaultAddr
	}
	if s.size < 1 {
		s.size = defaultPageSize
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.handleHealth)

	v1 := r.Group("/v1")
	v1.GET("/summary", s.handleSummary)
	v1.GET("/projects", s.handleProjects)
	v1.GET("/projects/at-risk", s.handleAtRisk)
	v1.GET("/charts/categories", s.handleCategoryChart)
	v1.GET("/charts/resources", s.handleResourcesChart)
	v1.GET("/charts/hours", s.handleHoursChart)
	v1.GET("/filters", s.handleFilters)
	v1.POST("/import/csv", s.handleImportCSV)
	v1.POST("/import/json", s.handleImportJSON)
	v1.POST("/chat", s.handleChat)
	v1.GET("/events", s.handleEvents)
	v1.GET("/stream", s.handleStream)
	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("http api listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http api server: %w", err)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
