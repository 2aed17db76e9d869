// Package api serves run progress and results over HTTP while a scrape is
// in flight.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bala-nullpointer/amznbsscraper/internal/models"
	"github.com/bala-nullpointer/amznbsscraper/internal/progress"
)

type Server struct {
	server  *http.Server
	tracker *progress.Tracker
	logger  *slog.Logger

	mu     sync.RWMutex
	report *models.Report
}

func NewServer(port string, tracker *progress.Tracker, logger *slog.Logger) *Server {
	s := &Server{
		tracker: tracker,
		logger:  logger.With("component", "api"),
		report:  models.NewReport(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "https://localhost:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/progress", s.handleProgress)
		r.Get("/report", s.handleReport)
		r.Get("/report/{category}", s.handleCategory)
	})

	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Update publishes one finished category to the in-memory report.
func (s *Server) Update(category string, result models.CategoryResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.Bestsellers[category] = result
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info("api listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.respondJSON(w, http.StatusOK, s.report)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	s.mu.RLock()
	result, ok := s.report.Bestsellers[category]
	s.mu.RUnlock()

	if !ok {
		s.respondJSON(w, http.StatusNotFound, map[string]string{"error": "category not found"})
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
