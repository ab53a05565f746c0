package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iconidentify/vidgate/internal/domain"
	"github.com/iconidentify/vidgate/internal/repository"
)

// HistoryHandler serves the request-history endpoints.
type HistoryHandler struct {
	history repository.HistoryRepository
	logger  *slog.Logger
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(history repository.HistoryRepository, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  logger,
	}
}

// RecordResponse represents one history record in responses.
type RecordResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	URL       string    `json:"url"`
	FormatID  string    `json:"format_id,omitempty"`
	Title     string    `json:"title,omitempty"`
	Outcome   string    `json:"outcome"`
	Error     string    `json:"error,omitempty"`
	Bytes     int64     `json:"bytes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ListResponse contains the most recent history records, newest first.
type ListResponse struct {
	Records []RecordResponse `json:"records"`
	Count   int              `json:"count"`
}

// List handles GET /history
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	records, err := h.history.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("history list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}

	resp := ListResponse{
		Records: make([]RecordResponse, 0, len(records)),
		Count:   len(records),
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, toRecordResponse(rec))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /history/{recordID}
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordID")

	rec, err := h.history.Get(r.Context(), domain.RecordID(recordID))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "history record not found")
			return
		}
		h.logger.Error("history get failed", "record_id", recordID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get history record")
		return
	}

	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

func toRecordResponse(rec *domain.RequestRecord) RecordResponse {
	return RecordResponse{
		ID:        rec.ID.String(),
		Kind:      string(rec.Kind),
		URL:       rec.URL,
		FormatID:  rec.FormatID,
		Title:     rec.Title,
		Outcome:   string(rec.Outcome),
		Error:     rec.Error,
		Bytes:     rec.Bytes,
		CreatedAt: rec.CreatedAt,
	}
}
