// Package web provides the HTTP surface: one uploaded document in, one
// processed document out.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"picklist/internal/config"
	"picklist/internal/logging"
	"picklist/internal/pipeline"
	"picklist/internal/storage"
)

type Server struct {
	cfg       config.Config
	intake    *pipeline.IntakeService
	processor *pipeline.ProcessingService
	router    *chi.Mux
	server    *http.Server
}

func NewServer(db *storage.DB, cfg config.Config) *Server {
	s := &Server{
		cfg:       cfg,
		intake:    pipeline.NewIntakeService(db, cfg.RawDocDir),
		processor: pipeline.NewProcessingService(db, cfg),
		router:    chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(time.Duration(s.cfg.RequestTimeoutS) * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/process", s.handleProcess)
		r.Get("/documents/{documentID}/result.xlsx", s.handleDownload)
	})
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(s.cfg.RequestTimeoutS) * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router exposes the chi mux for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	logging.FromContext(r.Context()).Warn("request failed", "status", status, "error", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`, message)
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode", "error", err)
	}
}
