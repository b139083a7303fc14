package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/engram-oss/engram/internal/memory"
	"github.com/engram-oss/engram/internal/telemetry"
)

// Server exposes one user's memory over a JSON HTTP API.
type Server struct {
	mem     *memory.Memory
	logger  *telemetry.Logger
	metrics *telemetry.Metrics
}

// New creates a new server instance.
func New(mem *memory.Memory, logger *telemetry.Logger, metrics *telemetry.Metrics) *Server {
	return &Server{mem: mem, logger: logger, metrics: metrics}
}

// Start starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting engram API", "addr", addr, "user", s.mem.User())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/status", s.handleStatus)

	mux.HandleFunc("POST /api/facts", s.handleAddFact)
	mux.HandleFunc("GET /api/facts/{concept}", s.handleGetFact)

	mux.HandleFunc("POST /api/procedures", s.handleAddProcedure)
	mux.HandleFunc("PUT /api/procedures/{name}", s.handleUpdateProcedure)
	mux.HandleFunc("GET /api/procedures/{name}", s.handleGetProcedure)

	mux.HandleFunc("POST /api/interactions", s.handleAddInteraction)
	mux.HandleFunc("GET /api/interactions/{id}", s.handleGetInteraction)
	mux.HandleFunc("GET /api/recent", s.handleRecent)

	mux.HandleFunc("GET /api/recall", s.handleRecall)
	mux.HandleFunc("GET /api/context", s.handleContext)

	return mux
}
