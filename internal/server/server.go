// Package server exposes the layout pipeline, payload normalizers, and
// chart store over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mosaicviz/mosaic/pkg/pipeline"
	"github.com/mosaicviz/mosaic/pkg/store"
)

const shutdownTimeout = 10 * time.Second

// Server wires the pipeline runner and chart store into an HTTP API.
type Server struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	addr string
}

// New creates a server listening on addr.
// A nil logger falls back to the default logger.
func New(addr string, runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		Runner: runner,
		Store:  st,
		Logger: logger,
		addr:   addr,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Post("/normalize/{view}", s.handleNormalize)

		r.Route("/charts", func(r chi.Router) {
			r.Post("/", s.handleChartCreate)
			r.Get("/", s.handleChartList)
			r.Get("/{id}", s.handleChartGet)
			r.Put("/{id}", s.handleChartUpdate)
			r.Delete("/{id}", s.handleChartDelete)
			r.Get("/{id}/render", s.handleChartRender)
		})
	})

	return r
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.Logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
