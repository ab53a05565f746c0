// Package extractor wraps the external video-extraction engines behind a
// single interface. The service core never talks to an origin site itself.
package extractor

import (
	"context"

	"github.com/iconidentify/vidgate/internal/domain"
)

// Client is the extraction engine consumed by the service core. It is
// invoked once per info request, and twice per download request (metadata
// first, then the fetch).
type Client interface {
	// Metadata describes the video behind url, including every rendition
	// the engine can see.
	Metadata(ctx context.Context, url string) (*domain.VideoMetadata, error)

	// FetchToDisk downloads the rendition identified by formatID into the
	// directory of outputTemplate. On success exactly one file exists under
	// that directory. The template uses yt-dlp placeholder syntax
	// (e.g. "/tmp/dl_x/%(title)s.%(ext)s").
	FetchToDisk(ctx context.Context, url, formatID, outputTemplate string) error
}

// ExtractionError carries the engine's own failure text. Root causes
// (unreachable site, unsupported URL, private video) are not distinguished;
// the message is surfaced to the caller as-is.
type ExtractionError struct {
	Op      string // "metadata" or "fetch", for logging only
	Message string
}

func (e *ExtractionError) Error() string {
	return e.Message
}
