package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yourusername/reversi/pkg/engine"
)

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Host           string        // Host to bind to (default "localhost")
	Port           int           // Port to listen on (default 8080)
	ReadTimeout    time.Duration // Read timeout (default 30s)
	WriteTimeout   time.Duration // Write timeout (default 30s)
	IdleTimeout    time.Duration // Idle timeout (default 60s)
	MaxFastWorkers int           // Max concurrent fast operations (default 100)
	MaxSlowWorkers int           // Max concurrent searches (default 4)
	MaxDepth       int           // Largest search depth a request may ask for (default MaxDepth)
}

// DefaultConfig returns a ServerConfig with sensible defaults.
func DefaultConfig() ServerConfig {
	return ServerConfig{
		Host:           "localhost",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxFastWorkers: 100,
		MaxSlowWorkers: 4,
		MaxDepth:       MaxDepth,
	}
}

// Server is the HTTP API server.
type Server struct {
	config   ServerConfig
	engine   *engine.Engine
	handlers *Handlers
	server   *http.Server
	pool     *WorkerPool
	version  string
}

// NewServer creates a new API server.
func NewServer(e *engine.Engine, config ServerConfig, version string) *Server {
	poolConfig := PoolConfig{
		MaxFastWorkers: config.MaxFastWorkers,
		MaxSlowWorkers: config.MaxSlowWorkers,
	}
	if poolConfig.MaxFastWorkers <= 0 {
		poolConfig.MaxFastWorkers = 100
	}
	if poolConfig.MaxSlowWorkers <= 0 {
		poolConfig.MaxSlowWorkers = 4
	}

	pool := NewWorkerPool(poolConfig)
	handlers := NewHandlersWithPool(e, version, pool)
	handlers.SetMaxDepth(config.MaxDepth)

	return &Server{
		config:   config,
		engine:   e,
		handlers: handlers,
		pool:     pool,
		version:  version,
	}
}

// Pool returns the worker pool for monitoring.
func (s *Server) Pool() *WorkerPool {
	return s.pool
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handlers.Health)
		r.Get("/new", s.handlers.NewGame)
		r.Post("/evaluate", s.handlers.Evaluate)
		r.Post("/moves", s.handlers.Moves)
		r.Post("/play", s.handlers.Play)
		r.Post("/best", s.handlers.Best)
		r.Post("/analyze", s.handlers.Analyze)
		r.Get("/analyze/stream", s.handlers.AnalyzeSSE)
		r.Get("/ws", s.handlers.WebSocket)
	})

	return r
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	log.Printf("Starting reversi API server v%s on %s", s.version, addr)
	log.Printf("Endpoints:")
	log.Printf("  GET  /api/health          - Health check")
	log.Printf("  GET  /api/new             - Initial position")
	log.Printf("  POST /api/evaluate        - Evaluate position")
	log.Printf("  POST /api/moves           - List legal moves")
	log.Printf("  POST /api/play            - Apply a move")
	log.Printf("  POST /api/best            - Find the best move")
	log.Printf("  POST /api/analyze         - Rank all moves")
	log.Printf("  GET  /api/analyze/stream  - Analysis progress (SSE)")
	log.Printf("  WS   /api/ws              - WebSocket for real-time analysis")
	log.Printf("Default depth %d, max depth %d", s.engine.Depth(), s.handlers.maxDepth)

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ListenAndServeWithGracefulShutdown starts the server and handles shutdown signals.
func (s *Server) ListenAndServeWithGracefulShutdown() error {
	// Channel to listen for errors from server
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until signal or error
	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.Printf("Received signal %v, shutting down...", sig)
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped gracefully")
	return nil
}
