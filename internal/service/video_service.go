package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/iconidentify/vidgate/internal/artifact"
	"github.com/iconidentify/vidgate/internal/config"
	"github.com/iconidentify/vidgate/internal/domain"
	"github.com/iconidentify/vidgate/internal/extractor"
	"github.com/iconidentify/vidgate/internal/repository"
)

// VideoService orchestrates the two request flows: describing a video and
// staging one rendition of it for relay to the caller.
type VideoService struct {
	extractor extractor.Client
	history   repository.HistoryRepository
	storage   config.StorageConfig
	logger    *slog.Logger
}

// NewVideoService creates a new video service.
func NewVideoService(
	ext extractor.Client,
	history repository.HistoryRepository,
	storageCfg config.StorageConfig,
	logger *slog.Logger,
) *VideoService {
	return &VideoService{
		extractor: ext,
		history:   history,
		storage:   storageCfg,
		logger:    logger,
	}
}

// VideoInfo is the metadata summary returned for an info request.
type VideoInfo struct {
	Title       string
	Uploader    *string
	Duration    *float64
	Thumbnail   *string
	Description *string
	Formats     []domain.FormatSummary
}

// Info validates the submitted URL, queries the extraction engine and
// normalizes the format list. Validation failures never reach the engine.
func (s *VideoService) Info(ctx context.Context, rawURL string) (*VideoInfo, error) {
	target, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	meta, err := s.extractor.Metadata(ctx, target)
	if err != nil {
		s.record(ctx, domain.RequestRecord{
			Kind:    domain.KindInfo,
			URL:     target,
			Outcome: domain.OutcomeError,
			Error:   err.Error(),
		})
		return nil, err
	}

	info := &VideoInfo{
		Title:       meta.DisplayTitle(),
		Uploader:    meta.Uploader,
		Duration:    meta.Duration,
		Thumbnail:   meta.Thumbnail,
		Description: meta.Description,
		Formats:     domain.FilterFormats(meta.Formats),
	}

	s.record(ctx, domain.RequestRecord{
		Kind:    domain.KindInfo,
		URL:     target,
		Title:   info.Title,
		Outcome: domain.OutcomeOK,
	})

	s.logger.Info("video described",
		"url", target,
		"title", info.Title,
		"formats", len(info.Formats),
	)
	return info, nil
}

// Download is a staged rendition ready to stream. The caller must invoke
// Cleanup once the response is finished, however it finished.
type Download struct {
	artifact *artifact.Artifact

	FilePath    string
	Size        int64
	Filename    string // header-safe display name, extension included
	ContentType string
}

// Cleanup removes the staged file and its directory. Best-effort.
func (d *Download) Cleanup() {
	d.artifact.Cleanup()
}

// PrepareDownload fetches the requested rendition into a fresh staging
// directory and resolves everything the response headers need. On error the
// staging directory is already cleaned up.
func (s *VideoService) PrepareDownload(ctx context.Context, rawURL, formatID string) (*Download, error) {
	if rawURL == "" || formatID == "" {
		return nil, domain.ErrMissingParams
	}

	art, err := artifact.New(s.storage.TempPath)
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}

	// Metadata first: the output filename is built from the video's title.
	meta, err := s.extractor.Metadata(ctx, rawURL)
	if err != nil {
		art.Cleanup()
		s.recordDownload(ctx, rawURL, formatID, "", 0, err)
		return nil, err
	}

	if err := s.extractor.FetchToDisk(ctx, rawURL, formatID, art.OutputTemplate()); err != nil {
		art.Cleanup()
		s.recordDownload(ctx, rawURL, formatID, meta.Title, 0, err)
		return nil, err
	}

	path, size, err := art.File()
	if err != nil {
		art.Cleanup()
		s.recordDownload(ctx, rawURL, formatID, meta.Title, 0, err)
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	dl := &Download{
		artifact:    art,
		FilePath:    path,
		Size:        size,
		Filename:    artifact.SafeFilename(meta.Title) + ext,
		ContentType: artifact.ContentTypeForExt(ext),
	}

	s.recordDownload(ctx, rawURL, formatID, meta.Title, size, nil)
	s.logger.Info("download staged",
		"url", rawURL,
		"format_id", formatID,
		"file", dl.Filename,
		"bytes", size,
	)
	return dl, nil
}

// validateURL applies the info-request validation chain: trim, reject
// blank, require scheme and host.
func validateURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", domain.ErrEmptyURL
	}
	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", domain.ErrMalformedURL
	}
	return trimmed, nil
}

// record writes a history entry. History must never fail a request, and a
// client disconnect must not cancel it.
func (s *VideoService) record(ctx context.Context, rec domain.RequestRecord) {
	if err := s.history.Record(context.WithoutCancel(ctx), &rec); err != nil {
		s.logger.Warn("history record failed", "error", err)
	}
}

func (s *VideoService) recordDownload(ctx context.Context, url, formatID, title string, bytes int64, opErr error) {
	rec := domain.RequestRecord{
		Kind:     domain.KindDownload,
		URL:      url,
		FormatID: formatID,
		Title:    title,
		Outcome:  domain.OutcomeOK,
		Bytes:    bytes,
	}
	if opErr != nil {
		rec.Outcome = domain.OutcomeError
		rec.Error = opErr.Error()
	}
	s.record(ctx, rec)
}
