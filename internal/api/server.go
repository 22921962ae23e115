package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/learnstreak/coach/internal/convo"
	"github.com/learnstreak/coach/internal/events"
	"github.com/learnstreak/coach/internal/extract"
	"github.com/learnstreak/coach/internal/session"
	"github.com/learnstreak/coach/internal/store"
	"github.com/learnstreak/coach/internal/syllabus"
)

// Deps are the collaborators the HTTP surface drives. Store and Events are
// optional: without them the conversational flows still work, extraction
// results are just returned to the caller without being persisted.
type Deps struct {
	Convo     *convo.Coordinator
	Extractor *extract.Extractor
	Syllabus  *syllabus.Generator
	Store     *store.Store
	Events    *events.Publisher
	GoalDays  int
	Logger    *slog.Logger
}

type Server struct {
	router   *chi.Mux
	port     int
	registry *session.Registry
	deps     Deps
}

func NewServer(port int, apiToken string, deps Deps) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		registry: session.NewRegistry(),
		deps:     deps,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/coach/status", s.status)
	router.Get("/public/entries/{id}", s.publicEntry)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Post("/sessions", s.createSession)
		r.Post("/sessions/{id}/messages", s.postMessage)
		r.Post("/sessions/{id}/extract", s.extractSession)
		r.Post("/syllabus", s.generateSyllabus)
		r.Get("/entries", s.listEntries)
		r.Get("/entries/{id}", s.getEntry)
		r.Get("/progress", s.progressReport)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// BearerAuthMiddleware rejects requests without the expected bearer token.
// An empty token disables auth, for local development only.
func BearerAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" {
				got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
				if got != token {
					writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"agent":   "coach",
		"status":  "ready",
		"storage": s.deps.Store != nil,
		"events":  s.deps.Events != nil,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
