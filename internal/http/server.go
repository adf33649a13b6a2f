// Package http exposes the game ledger over a JSON API. Handlers are thin:
// they parse, call the service and shape the response.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gamebank/internal/middleware/trace"
	"gamebank/internal/services"
)

// Server wraps the HTTP server and its routes.
type Server struct {
	service *services.GameService
	server  *http.Server
	trace   *trace.Middleware
}

// NewServer creates a server listening on the given port.
func NewServer(service *services.GameService, port string) *Server {
	s := &Server{
		service: service,
		trace:   trace.NewMiddleware(),
	}

	s.server = &http.Server{
		Addr:              ":" + port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler builds the route table with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/game", s.handleGame)
	mux.HandleFunc("/api/game/end", s.handleEndGame)
	mux.HandleFunc("/api/game/standings", s.handleStandings)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/transactions/undo", s.handleUndo)
	mux.HandleFunc("/api/reset", s.handleReset)

	return s.trace.Middleware(securityHeaders(mux))
}

// Start begins listening. It blocks until the server stops.
func (s *Server) Start() error {
	slog.Info("HTTP server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
