// Package server exposes the editing commands over HTTP.
//
// Routes:
//
//	GET  /health                 liveness probe
//	GET  /api/graph              current graph in the preview JSON shape
//	GET  /api/validation         current validation report
//	POST /api/nodes              {"label"} adds a node
//	POST /api/edges              {"source","target"} connects two nodes
//	POST /api/selection/delete   {"nodes","edges"} deletes a selection
//	POST /api/layout             runs the layout and returns the graph
//	GET  /api/export.dot         Graphviz DOT
//	GET  /api/export.svg         SVG rendered by Graphviz
//
// Rejected commands answer 422 with {"code","error"}; malformed bodies
// answer 400 and unknown routes 404 with code NOT_FOUND.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stagegraph/pkg/editor"
)

const shutdownTimeout = 5 * time.Second

// Server serves one editor controller.
type Server struct {
	ctrl   *editor.Controller
	logger *log.Logger
}

// New creates a server for ctrl.
func New(ctrl *editor.Controller, logger *log.Logger) *Server {
	return &Server{ctrl: ctrl, logger: logger}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.NotFound(s.notFound)
	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.getGraph)
		r.Get("/validation", s.getValidation)
		r.Post("/nodes", s.addNode)
		r.Post("/edges", s.connect)
		r.Post("/selection/delete", s.deleteSelection)
		r.Post("/layout", s.runLayout)
		r.Get("/export.dot", s.exportDOT)
		r.Get("/export.svg", s.exportSVG)
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
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
