package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iconidentify/vidgate/internal/api"
	"github.com/iconidentify/vidgate/internal/api/handler"
	"github.com/iconidentify/vidgate/internal/config"
	"github.com/iconidentify/vidgate/internal/extractor"
	"github.com/iconidentify/vidgate/internal/repository"
	"github.com/iconidentify/vidgate/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("vidgate %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting vidgate",
		"version", Version,
		"build_time", BuildTime,
	)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Ensure download staging root exists
	if cfg.Storage.TempPath != "" {
		if err := os.MkdirAll(cfg.Storage.TempPath, 0o755); err != nil {
			logger.Error("failed to create temp directory", "error", err)
			os.Exit(1)
		}
	}

	// Request history store
	var history repository.HistoryRepository
	if cfg.History.Enabled {
		sqliteRepo, err := repository.NewSQLiteHistoryRepository(cfg.History.DBPath)
		if err != nil {
			logger.Error("failed to open history database", "error", err)
			os.Exit(1)
		}
		history = sqliteRepo
		logger.Info("request history enabled", "path", cfg.History.DBPath)
	} else {
		history = repository.NewInMemoryHistoryRepository()
	}
	defer history.Close()

	// Extraction engine
	var ext extractor.Client
	switch cfg.Extractor.Engine {
	case "youtube":
		ext = extractor.NewYouTube(logger)
	default:
		ext = extractor.NewYtDlp(cfg.Extractor, logger)
	}
	logger.Info("extraction engine selected", "engine", cfg.Extractor.Engine)

	// Services and handlers
	videoSvc := service.NewVideoService(ext, history, cfg.Storage, logger)
	videoHandler := handler.NewVideoHandler(videoSvc, logger)
	historyHandler := handler.NewHistoryHandler(history, logger)
	healthHandler := handler.NewHealthHandler(history, cfg.Storage.TempPath)

	// Setup router
	router := api.NewRouter(videoHandler, historyHandler, healthHandler)

	// Setup HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Graceful shutdown: let in-flight streams finish
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
