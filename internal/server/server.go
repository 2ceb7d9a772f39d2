// Package server exposes the fusion engine over an HTTP API.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/molfuse/molfuse/internal/fusion"
	"github.com/molfuse/molfuse/internal/llm"
	"github.com/molfuse/molfuse/internal/store"
)

// Server is the molfuse HTTP API server.
type Server struct {
	db         *store.DB
	integrator *fusion.Integrator
	reviewer   *llm.Reviewer
	router     chi.Router
	version    string
	started    time.Time
}

// New creates a new Server. The reviewer is optional; without one the
// review flag on fuse requests is rejected.
func New(db *store.DB, integrator *fusion.Integrator, reviewer *llm.Reviewer, version string) *Server {
	s := &Server{
		db:         db,
		integrator: integrator,
		reviewer:   reviewer,
		version:    version,
		started:    time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/fuse", s.handleFuse)
		r.Get("/batches", s.handleListBatches)
		r.Get("/batches/{batchID}", s.handleGetBatch)
		r.Get("/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
		"review":  s.reviewer != nil,
	})
}
