package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/iconidentify/vidgate/internal/domain"
	"github.com/iconidentify/vidgate/internal/service"
)

// streamChunkSize bounds peak memory per download response regardless of
// file size.
const streamChunkSize = 8 * 1024

// VideoHandler handles the info and download endpoints.
type VideoHandler struct {
	videoSvc *service.VideoService
	logger   *slog.Logger
}

// NewVideoHandler creates a new video handler.
func NewVideoHandler(videoSvc *service.VideoService, logger *slog.Logger) *VideoHandler {
	return &VideoHandler{
		videoSvc: videoSvc,
		logger:   logger,
	}
}

// InfoRequest is the JSON request body for metadata queries. URL is a
// pointer so a missing key can be told apart from an empty value.
type InfoRequest struct {
	URL *string `json:"url"`
}

// InfoResponse is the JSON summary of a video and its renditions.
type InfoResponse struct {
	Title       string                 `json:"title"`
	Uploader    *string                `json:"uploader"`
	Duration    *float64               `json:"duration"`
	Thumbnail   *string                `json:"thumbnail"`
	Description *string                `json:"description"`
	Formats     []domain.FormatSummary `json:"formats"`
}

// Info handles POST /info
func (h *VideoHandler) Info(w http.ResponseWriter, r *http.Request) {
	var req InfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == nil || *req.URL == "" {
		writeError(w, http.StatusBadRequest, domain.ErrMissingURL.Error())
		return
	}

	info, err := h.videoSvc.Info(r.Context(), *req.URL)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyURL) || errors.Is(err, domain.ErrMalformedURL) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Extraction failures surface the engine's own message.
		h.logger.Error("info failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, InfoResponse{
		Title:       info.Title,
		Uploader:    info.Uploader,
		Duration:    info.Duration,
		Thumbnail:   info.Thumbnail,
		Description: info.Description,
		Formats:     info.Formats,
	})
}

// Download handles GET /download?url=&format_id=
func (h *VideoHandler) Download(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	formatID := r.URL.Query().Get("format_id")

	dl, err := h.videoSvc.PrepareDownload(r.Context(), url, formatID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingParams):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNoOutputFile):
			h.logger.Error("download produced no file", "url", url, "format_id", formatID)
			writeError(w, http.StatusInternalServerError, "failed to download video")
		default:
			h.logger.Error("download failed", "url", url, "format_id", formatID, "error", err)
			writeError(w, http.StatusInternalServerError, "download error: "+err.Error())
		}
		return
	}
	defer dl.Cleanup()

	f, err := os.Open(dl.FilePath)
	if err != nil {
		h.logger.Error("open staged file", "path", dl.FilePath, "error", err)
		writeError(w, http.StatusInternalServerError, "download error: "+err.Error())
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Filename))
	w.Header().Set("Content-Length", strconv.FormatInt(dl.Size, 10))
	w.WriteHeader(http.StatusOK)

	h.stream(w, f)
}

// stream copies the staged file to the client in fixed-size chunks,
// flushing each one. Errors past this point cannot be reported; the
// response is already in flight.
func (h *VideoHandler) stream(w http.ResponseWriter, f *os.File) {
	flusher, _ := w.(http.Flusher)
	buf := make([]byte, streamChunkSize)

	for {
		n, readErr := f.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				h.logger.Debug("client closed connection mid-stream", "error", err)
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if readErr == io.EOF {
			return
		}
		if readErr != nil {
			h.logger.Error("read staged file", "error", readErr)
			return
		}
	}
}
