// Package api provides HTTP router setup.
package api

import (
	"net/http"

	"github.com/factchecker/newsvet/internal/config"
	"github.com/factchecker/newsvet/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(cfg *config.Config, runner Runner, store database.Store) http.Handler {
	r := chi.NewRouter()

	handler := NewHandler(runner, store)

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(RateLimitMiddleware(cfg.Server.RequestsPerMinute))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)

		r.Post("/runs", handler.StartRun)
		r.Get("/runs", handler.ListRuns)
		r.Get("/runs/{id}", handler.GetRun)
	})

	return r
}
