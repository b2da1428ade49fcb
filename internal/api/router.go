package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// healthTimeout bounds the plant count performed by /health.
const healthTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.handler())
	r.Get("/audit", s.handleListAuditLogs)

	r.Route("/plants", func(r chi.Router) {
		r.Get("/", s.handleListPlants)
		r.Post("/", s.handleCreatePlant)
		r.Get("/search", s.handleSearchPlants)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetPlant)
			r.Put("/", s.handleUpdatePlant)
			r.Delete("/", s.handleDeletePlant)
		})
	})

	return r
}

// handleHealth reports liveness and the number of stored plants.
// A failing store answers 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	count, err := s.plants.Count(ctx)
	if err != nil {
		s.logger.Warn("health check: counting plants failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":  "unavailable",
			"version": s.version,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"version":        s.version,
		"plants":         count,
		"uptime_seconds": int64(time.Since(s.startTime).Seconds()),
	})
}
