package inspect

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerOptions configures the inspector server.
type ServerOptions struct {
	// Addr is the listen address (default ":7676").
	Addr string

	// Registry supplies probes and attached clients. A fresh empty
	// registry is used when nil.
	Registry *Registry

	// Logger receives connection and I/O logs.
	Logger *slog.Logger

	// Gatherer backs the /metrics endpoint (default
	// prometheus.DefaultGatherer).
	Gatherer prometheus.Gatherer
}

// Server is the inspector debug server.
type Server struct {
	registry *Registry
	hub      *Hub
	logger   *slog.Logger
	router   chi.Router

	unsubscribe func()
	httpServer  *http.Server
	mu          sync.Mutex
	running     bool
}

// NewServer creates an inspector server. The returned server re-publishes
// the registry's events over the WebSocket hub; use Handler to mount it in
// an existing router instead of Start.
func NewServer(options ServerOptions) *Server {
	if options.Addr == "" {
		options.Addr = ":7676"
	}
	if options.Registry == nil {
		options.Registry = NewRegistry()
	}
	if options.Logger == nil {
		options.Logger = slog.Default().With("component", "inspect")
	}
	if options.Gatherer == nil {
		options.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		registry: options.Registry,
		logger:   options.Logger,
	}
	s.hub = NewHub(options.Logger, s.registry.snapshot)
	s.unsubscribe = s.registry.Subscribe(s.hub.Broadcast)

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/state", s.handleState)
	r.Get("/api/queries", s.handleQueries)
	r.Get("/ws", s.hub.HandleWebSocket)
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(options.Gatherer, promhttp.HandlerOpts{}))
	s.router = r

	s.httpServer = &http.Server{
		Addr:    options.Addr,
		Handler: r,
	}
	return s
}

// Handler returns the inspector's routes for mounting in another server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the WebSocket hub, mainly for connection counting.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start runs the server until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("inspector listening", "addr", s.httpServer.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		return err
	}
}

// Stop detaches from the registry, closes the hub, and shuts the HTTP
// server down if it is running. Idempotent.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.unsubscribe()
	s.hub.Close()

	if !s.running {
		return
	}
	s.running = false

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.registry.StateSnapshot())
}

func (s *Server) handleQueries(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.registry.QuerySnapshot())
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("response encode failed", "error", err)
	}
}
