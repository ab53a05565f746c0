package handler

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/iconidentify/vidgate/internal/repository"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	history  repository.HistoryRepository
	tempRoot string
}

// NewHealthHandler creates a new health handler. tempRoot is the download
// staging root; empty means the system temp directory.
func NewHealthHandler(history repository.HistoryRepository, tempRoot string) *HealthHandler {
	return &HealthHandler{
		history:  history,
		tempRoot: tempRoot,
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Live handles GET /health - liveness probe.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready - readiness probe. Not ready when the history
// store is unreachable or the staging root is not writable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.history.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "error",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	if err := h.probeTempRoot(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "error",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// probeTempRoot verifies downloads can be staged by writing and removing a
// marker file.
func (h *HealthHandler) probeTempRoot() error {
	root := h.tempRoot
	if root == "" {
		root = os.TempDir()
	}
	probe := filepath.Join(root, ".ready_"+uuid.New().String()[:8])
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}
