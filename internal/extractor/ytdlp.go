package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/iconidentify/vidgate/internal/config"
	"github.com/iconidentify/vidgate/internal/domain"
)

// YtDlp is the primary extraction engine: it shells out to the yt-dlp
// binary and decodes its JSON output.
type YtDlp struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
}

// NewYtDlp creates a yt-dlp backed extraction client.
func NewYtDlp(cfg config.ExtractorConfig, logger *slog.Logger) *YtDlp {
	return &YtDlp{
		binary:  cfg.BinaryPath,
		timeout: cfg.CallTimeout,
		logger:  logger,
	}
}

// ytdlpVideo matches the yt-dlp -J output. Optional keys decode to nil,
// never to a zero value.
type ytdlpVideo struct {
	Title       string        `json:"title"`
	Uploader    *string       `json:"uploader"`
	Duration    *float64      `json:"duration"`
	Thumbnail   *string       `json:"thumbnail"`
	Description *string       `json:"description"`
	Formats     []ytdlpFormat `json:"formats"`
}

type ytdlpFormat struct {
	FormatID   string   `json:"format_id"`
	Ext        string   `json:"ext"`
	Resolution *string  `json:"resolution"`
	Height     *int     `json:"height"`
	Width      *int     `json:"width"`
	FPS        *float64 `json:"fps"`
	Filesize   *int64   `json:"filesize"`
	URL        *string  `json:"url"`
	VCodec     *string  `json:"vcodec"`
	ACodec     *string  `json:"acodec"`
}

// Metadata runs yt-dlp in describe-only mode and maps its JSON output onto
// the domain types.
func (y *YtDlp) Metadata(ctx context.Context, url string) (*domain.VideoMetadata, error) {
	ctx, cancel := y.withDeadline(ctx)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, y.binary, "-J", "--no-playlist", "--no-warnings", url)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		y.logger.Warn("yt-dlp metadata failed", "url", url, "error", err)
		return nil, &ExtractionError{Op: "metadata", Message: engineMessage(&stderr, err)}
	}

	meta, err := decodeMetadata(stdout.Bytes())
	if err != nil {
		y.logger.Warn("yt-dlp output decode failed", "url", url, "error", err)
		return nil, &ExtractionError{Op: "metadata", Message: "unreadable extractor output: " + err.Error()}
	}
	return meta, nil
}

// FetchToDisk runs yt-dlp constrained to formatID with the given output
// template. yt-dlp writes exactly one file under the template's directory.
func (y *YtDlp) FetchToDisk(ctx context.Context, url, formatID, outputTemplate string) error {
	ctx, cancel := y.withDeadline(ctx)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, y.binary,
		"-f", formatID,
		"-o", outputTemplate,
		"--no-playlist", "--no-warnings",
		url,
	)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		y.logger.Warn("yt-dlp fetch failed", "url", url, "format_id", formatID, "error", err)
		return &ExtractionError{Op: "fetch", Message: engineMessage(&stderr, err)}
	}
	return nil
}

func (y *YtDlp) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if y.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, y.timeout)
}

func decodeMetadata(data []byte) (*domain.VideoMetadata, error) {
	var v ytdlpVideo
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	meta := &domain.VideoMetadata{
		Title:       v.Title,
		Uploader:    v.Uploader,
		Duration:    v.Duration,
		Thumbnail:   v.Thumbnail,
		Description: v.Description,
	}
	for _, f := range v.Formats {
		meta.Formats = append(meta.Formats, domain.FormatDescriptor{
			FormatID:   f.FormatID,
			Ext:        f.Ext,
			Resolution: f.Resolution,
			Height:     f.Height,
			Width:      f.Width,
			FPS:        f.FPS,
			Filesize:   f.Filesize,
			URL:        f.URL,
			VCodec:     f.VCodec,
			ACodec:     f.ACodec,
		})
	}
	return meta, nil
}

// engineMessage prefers yt-dlp's own stderr text over the bare exec error.
func engineMessage(stderr *bytes.Buffer, err error) string {
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		return err.Error()
	}
	// yt-dlp prints one "ERROR: ..." line per failure; keep the first.
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}
