package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/writerkit/internal/batch"
	"github.com/dgallion1/writerkit/internal/config"
	"github.com/dgallion1/writerkit/internal/stats"
	"github.com/dgallion1/writerkit/internal/toolkit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for writerkit.
type Server struct {
	router   chi.Router
	batches  *batch.Client
	state    *toolkit.State
	requests *stats.Latency
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. batches and state may be
// nil; their endpoints then answer 503. state should already be initialized.
func NewServer(batches *batch.Client, state *toolkit.State, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		batches:  batches,
		state:    state,
		requests: stats.NewLatency(cfg.StatsWindow),
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log, s.requests))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/chapters", s.handleChapters)
		r.Post("/api/plaintext", s.handlePlaintext)
		r.Get("/api/batches/{batchID}", s.handleBatch)
		r.Get("/api/tools", s.handleListTools)
		r.Get("/api/tools/{name}", s.handleGetTool)
		r.Get("/api/session", s.handleGetSession)
		r.Delete("/api/session", s.handleResetSession)
		r.Put("/api/session/tool", s.handleSelectTool)
		r.Put("/api/session/project", s.handleSetProject)
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
