// Package server exposes the analysis engine over HTTP: submitting runs,
// fetching reports, browsing history, and trend data.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/observability"
	"github.com/Sumatoshi-tech/codescope/internal/session"
)

// Server timeouts.
const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// corsMaxAgeSec caches CORS preflight responses.
const corsMaxAgeSec = 300

// Server serves the analysis HTTP API.
type Server struct {
	engine      *session.Engine
	defaults    analysis.Config
	log         *slog.Logger
	tracer      trace.Tracer
	addr        string
	corsOrigins []string
}

// Options configure a Server.
type Options struct {
	// Addr is the listen address.
	Addr string

	// CORSOrigins lists allowed origins. Empty allows none.
	CORSOrigins []string

	// Defaults is the run configuration applied when a request omits one.
	Defaults analysis.Config

	// Log receives request telemetry. Nil discards it.
	Log *slog.Logger

	// Tracer creates per-request spans. Nil disables tracing.
	Tracer trace.Tracer
}

// New creates a Server around the engine.
func New(engine *session.Engine, opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("codescope")
	}

	return &Server{
		engine:      engine,
		defaults:    opts.Defaults,
		log:         log,
		tracer:      tracer,
		addr:        opts.Addr,
		corsOrigins: opts.CORSOrigins,
	}
}

// Handler builds the routed handler.
func (s *Server) Handler() http.Handler {
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         corsMaxAgeSec,
	}))

	mux.Get("/health", s.handleHealth)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/analyses", s.wrap(s.handleSubmit))
		rt.Get("/reports/{id}", s.wrap(s.handleReport))
		rt.Get("/runs/{id}", s.wrap(s.handleRun))
		rt.Post("/runs/{id}/cancel", s.wrap(s.handleCancel))
		rt.Get("/history", s.wrap(s.handleHistory))
		rt.Get("/history/stats", s.wrap(s.handleHistoryStats))
		rt.Delete("/history/{id}", s.wrap(s.handleDeleteHistory))
		rt.Post("/history/delete", s.wrap(s.handleDeleteHistoryBatch))
		rt.Delete("/history", s.wrap(s.handleClearHistory))
		rt.Get("/trend", s.wrap(s.handleTrend))
	})

	return observability.HTTPMiddleware(s.tracer, mux)
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		s.log.InfoContext(ctx, "http server listening", slog.String("addr", s.addr))

		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
