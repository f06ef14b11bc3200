// Package server provides the HTTP surface over the forecasting engine. It is
// a thin presentation-layer caller: it constructs entities, invokes the
// monthly transition, and reads back history; all simulation semantics live in
// the simulation package.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/avelar/fincast/internal/simulation"
)

// Config holds server configuration.
type Config struct {
	Port    int
	DevMode bool
	Log     zerolog.Logger
}

// session pairs an engine with the mutex that serializes access to it. The
// engine itself is single-threaded; the HTTP layer is the caller responsible
// for serialization.
type session struct {
	mu     sync.Mutex
	engine *simulation.Engine
}

// Server exposes engine sessions over HTTP.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	base   zerolog.Logger // unscoped logger handed to engines

	mu       sync.RWMutex
	sessions map[string]*session
}

// New creates the server and mounts all routes.
func New(cfg Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		log:      cfg.Log.With().Str("component", "server").Logger(),
		base:     cfg.Log,
		sessions: make(map[string]*session),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.router.Route("/api/engines", func(r chi.Router) {
		r.Post("/", s.handleCreateEngine)
		r.Route("/{id}", func(r chi.Router) {
			r.Post("/incomes", s.handleAddIncome)
			r.Post("/expenses", s.handleAddExpense)
			r.Post("/investments", s.handleAddInvestment)
			r.Post("/events", s.handleAddEvent)
			r.Post("/targets", s.handleAddTarget)
			r.Get("/objects/{type}/{name}", s.handleGetObject)
			r.Delete("/objects/{type}/{name}", s.handleDeleteObject)
			r.Post("/step", s.handleStep)
			r.Post("/run", s.handleRun)
			r.Get("/history", s.handleHistory)
			r.Get("/history/summary", s.handleSummary)
			r.Get("/targets/{name}/series", s.handleTargetSeries)
			r.Get("/totals", s.handleTotals)
		})
	})

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// Router returns the chi router, for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins listening. Blocks until the server stops.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// createSession registers a new engine and returns its id.
func (s *Server) createSession(engine *simulation.Engine) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &session{engine: engine}
	s.mu.Unlock()
	return id
}

// getSession looks up an engine session by id.
func (s *Server) getSession(id string) (*session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}
