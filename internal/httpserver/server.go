// internal/httpserver/server.go
//
// HTTP server wiring for the trivia backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Board game endpoints (optional auth): mounted under /game.
//   - Level quiz endpoints (optional auth): mounted under /levels.
//   - Question admin CRUD (require auth): mounted under /questions.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token
//     is present; routes still run for guests.
//   - The per-question countdown is owned by the client. The server only
//     exposes the answer/timeout calls it resolves turns with.

package httpserver

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/anahumita/trivia-go-arena-play/internal/leaderboard"
	"github.com/anahumita/trivia-go-arena-play/internal/levels"
	"github.com/anahumita/trivia-go-arena-play/internal/questions"
	"github.com/anahumita/trivia-go-arena-play/internal/store"
)

// Server bundles router, session store, DB-backed collaborators, and the
// question source consumed by game engines.
type Server struct {
	r       *chi.Mux
	store   store.Store
	db      *sql.DB
	src     questions.Source
	qdb     *questions.SQLSource
	results *leaderboard.Store
	lvStore *levels.Store
	pool    []questions.Question
}

// New constructs a Server, installs middleware, and registers routes.
// src feeds the board game engines; pool feeds the fixed-order level quizzes.
func New(st store.Store, db *sql.DB, src questions.Source, pool []questions.Question) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		store:   st,
		db:      db,
		src:     src,
		qdb:     questions.NewSQLSource(db),
		results: leaderboard.NewStore(db),
		lvStore: levels.NewStore(db),
		pool:    pool,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"trivia-go","endpoints":["/health","POST /game/new","/game/{id}/*","/levels/*","/leaderboard","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Game + levels — OPTIONAL AUTH (guests can play)
	s.mountGame(s.r.With(s.withOptionalAuth()))
	s.mountLevels(s.r.With(s.withOptionalAuth()))

	// Question bank admin (require auth)
	s.mountQuestions()

	// Auth + profile/stats
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
