// Package api provides HTTP API handlers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/factchecker/newsvet/internal/database"
	"github.com/factchecker/newsvet/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Runner triggers a pipeline run.
type Runner interface {
	Run(ctx context.Context) (*models.RunSummary, error)
}

// Handler contains all HTTP handlers.
type Handler struct {
	runner Runner
	store  database.Store
}

// NewHandler creates a new handler.
func NewHandler(runner Runner, store database.Store) *Handler {
	return &Handler{
		runner: runner,
		store:  store,
	}
}

// HealthCheck returns the service health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

// StartRun executes a pipeline run against the configured claims file.
func (h *Handler) StartRun(w http.ResponseWriter, r *http.Request) {
	summary, err := h.runner.Run(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Pipeline run failed")
		writeError(w, http.StatusInternalServerError, "Run failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, summary)
}

// GetRun returns a run summary by ID.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	run, err := h.store.GetRun(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get run")
		writeError(w, http.StatusInternalServerError, "Failed to get run")
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "Run not found")
		return
	}

	writeJSON(w, http.StatusOK, run)
}

// ListRuns returns paginated run summaries.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	runs, err := h.store.ListRuns(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list runs")
		writeError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}
	if runs == nil {
		runs = []*models.RunSummary{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs":   runs,
		"limit":  limit,
		"offset": offset,
	})
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
