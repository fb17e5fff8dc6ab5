// Package api exposes the analysis service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"codescope/internal/store"
)

// Analyses is the run lifecycle surface the handlers need. Satisfied by
// *service.Service.
type Analyses interface {
	Start(ctx context.Context, projectName, projectPath string) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*store.Run, error)
	List(ctx context.Context, limit int) ([]store.Run, error)
}

type Server struct {
	router *chi.Mux
	port   int
	svc    Analyses
	logger *slog.Logger
}

func NewServer(port int, svc Analyses, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		port:   port,
		svc:    svc,
		logger: logger,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/codescope/status", s.status)
	router.Route("/api/v1/analyses", func(r chi.Router) {
		r.Post("/", s.startAnalysis)
		r.Get("/", s.listAnalyses)
		r.Get("/{id}", s.getAnalysis)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "codescope",
		"status":  "ready",
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
