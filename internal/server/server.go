package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/freightwiz/loadscout/internal/broker"
	"github.com/freightwiz/loadscout/internal/dispatch"
	"github.com/freightwiz/loadscout/internal/store"
	"github.com/freightwiz/loadscout/internal/watch"
)

// Server is the dashboard HTTP API: template and sender-account management,
// stats, the RPM calculator, broker checks and scan controls.
type Server struct {
	router     chi.Router
	store      *store.Store
	dispatcher *dispatch.Dispatcher
	watcher    *watch.Watcher
	checker    *broker.Checker
	reset      func() int
	logger     *slog.Logger
}

// Deps dependencies for creating a server
type Deps struct {
	Store      *store.Store
	Dispatcher *dispatch.Dispatcher
	Watcher    *watch.Watcher
	Checker    *broker.Checker
	// Reset clears all injection markers in the live snapshot and returns
	// how many control containers were removed. Nil when no live snapshot
	// exists (the HTTP fetcher builds a fresh document per pass).
	Reset  func() int
	Logger *slog.Logger
}

// New creates a new dashboard server
func New(deps Deps) *Server {
	s := &Server{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		watcher:    deps.Watcher,
		checker:    deps.Checker,
		reset:      deps.Reset,
		logger:     deps.Logger.With("component", "server"),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", s.listTemplates)
			r.Post("/", s.saveTemplate)
			r.Put("/{id}", s.updateTemplate)
			r.Delete("/{id}", s.deleteTemplate)
			r.Post("/{id}/default", s.setDefaultTemplate)
		})
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", s.listAccounts)
			r.Post("/", s.saveAccount)
			r.Put("/{id}", s.updateAccount)
			r.Delete("/{id}", s.deleteAccount)
			r.Post("/{id}/select", s.selectAccount)
		})
		r.Route("/loads", func(r chi.Router) {
			r.Post("/send", s.sendOneClick)
			r.Post("/compose", s.openCompose)
		})
		r.Get("/stats", s.getStats)
		r.Post("/broker-check", s.brokerCheck)
		r.Post("/rpm", s.calculateRPM)
		r.Post("/scan", s.triggerScan)
		r.Post("/reset", s.resetInjections)
	})

	s.router = r
	return s
}

// Handler returns the root http handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
