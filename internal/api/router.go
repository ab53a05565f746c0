package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iconidentify/vidgate/internal/api/handler"
	mw "github.com/iconidentify/vidgate/internal/api/middleware"
)

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(
	videoHandler *handler.VideoHandler,
	historyHandler *handler.HistoryHandler,
	healthHandler *handler.HealthHandler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware. No overall request timeout: download responses
	// stream for as long as the rendition takes to relay.
	r.Use(middleware.CleanPath)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(mw.CORS)

	// Health endpoints
	r.Get("/health", healthHandler.Live)
	r.Get("/ready", healthHandler.Ready)

	// Video endpoints
	r.Post("/info", videoHandler.Info)
	r.Get("/download", videoHandler.Download)

	// Request history
	r.Get("/history", historyHandler.List)
	r.Get("/history/{recordID}", historyHandler.Get)

	return r
}
