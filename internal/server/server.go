// Package server implements the flowgraph HTTP API.
//
// The API exposes the pipeline stages to the console. Every endpoint takes a
// compiled workflow closure as the request body, JSON by default or YAML when
// the Content-Type says so:
//
//	GET  /healthz
//	POST /v1/dag                           nested graph as tree JSON
//	POST /v1/flatten?depth=                render elements
//	POST /v1/layout?depth=&direction=      positioned elements with extent
//	POST /v1/render?depth=&direction=      SVG, or ?format=png|pdf|dot
//
// Errors are returned as {"code": ..., "message": ...} with a status derived
// from the error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flowgraph/pkg/pipeline"
)

const (
	// MaxBodySize bounds the size of a closure document.
	MaxBodySize = 10 << 20

	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server serves the pipeline over HTTP. It is safe for concurrent use.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
}

// New creates a server running requests through runner. Query parameters
// override defaults per request.
func New(runner *pipeline.Runner, defaults pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, defaults: defaults, logger: logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/dag", s.handleDAG)
		r.Post("/flatten", s.handleFlatten)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
