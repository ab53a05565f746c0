package extractor

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/iconidentify/vidgate/internal/domain"
)

// YouTube is a built-in extraction engine for deployments without the
// yt-dlp binary. YouTube URLs only; format identifiers are itag numbers.
type YouTube struct {
	client youtube.Client
	logger *slog.Logger
}

// NewYouTube creates the native YouTube extraction client.
func NewYouTube(logger *slog.Logger) *YouTube {
	return &YouTube{
		client: youtube.Client{},
		logger: logger,
	}
}

// Metadata describes the video and maps the itag format list onto the
// domain types.
func (c *YouTube) Metadata(ctx context.Context, url string) (*domain.VideoMetadata, error) {
	video, err := c.client.GetVideoContext(ctx, url)
	if err != nil {
		c.logger.Warn("youtube metadata failed", "url", url, "error", err)
		return nil, &ExtractionError{Op: "metadata", Message: err.Error()}
	}

	meta := &domain.VideoMetadata{Title: video.Title}
	if video.Author != "" {
		author := video.Author
		meta.Uploader = &author
	}
	if video.Duration > 0 {
		seconds := video.Duration.Seconds()
		meta.Duration = &seconds
	}
	if len(video.Thumbnails) > 0 {
		thumb := video.Thumbnails[0].URL
		meta.Thumbnail = &thumb
	}
	if video.Description != "" {
		desc := video.Description
		meta.Description = &desc
	}

	for i := range video.Formats {
		meta.Formats = append(meta.Formats, describeFormat(&video.Formats[i]))
	}
	return meta, nil
}

// FetchToDisk streams the chosen itag into the directory of outputTemplate.
// The file is named after the video title, with path separators stripped.
func (c *YouTube) FetchToDisk(ctx context.Context, url, formatID, outputTemplate string) error {
	itag, err := strconv.Atoi(formatID)
	if err != nil {
		return &ExtractionError{Op: "fetch", Message: "unknown format id " + strconv.Quote(formatID)}
	}

	video, err := c.client.GetVideoContext(ctx, url)
	if err != nil {
		return &ExtractionError{Op: "fetch", Message: err.Error()}
	}

	format := formatByItag(video.Formats, itag)
	if format == nil {
		return &ExtractionError{Op: "fetch", Message: "no format with itag " + formatID}
	}

	stream, _, err := c.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return &ExtractionError{Op: "fetch", Message: err.Error()}
	}
	defer stream.Close()

	dir := filepath.Dir(outputTemplate)
	name := flattenTitle(video.Title) + "." + extFromMime(format.MimeType)

	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return &ExtractionError{Op: "fetch", Message: err.Error()}
	}
	defer out.Close()

	if _, err := io.Copy(out, stream); err != nil {
		return &ExtractionError{Op: "fetch", Message: err.Error()}
	}
	return nil
}

// formatByItag picks the rendition matching itag, or nil when the video has
// none.
func formatByItag(list youtube.FormatList, itag int) *youtube.Format {
	matches := list.Itag(itag)
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}

func describeFormat(f *youtube.Format) domain.FormatDescriptor {
	d := domain.FormatDescriptor{
		FormatID: strconv.Itoa(f.ItagNo),
		Ext:      extFromMime(f.MimeType),
	}
	if f.QualityLabel != "" {
		label := f.QualityLabel
		d.Resolution = &label
	}
	if f.Height > 0 {
		h := f.Height
		d.Height = &h
	}
	if f.Width > 0 {
		w := f.Width
		d.Width = &w
	}
	if f.FPS > 0 {
		fps := float64(f.FPS)
		d.FPS = &fps
	}
	if f.ContentLength > 0 {
		size := f.ContentLength
		d.Filesize = &size
	}
	if f.URL != "" {
		u := f.URL
		d.URL = &u
	}

	// MimeType carries the stream kind; the missing side gets the "none"
	// sentinel, same as yt-dlp reports it.
	none := "none"
	if strings.HasPrefix(f.MimeType, "audio/") {
		d.VCodec = &none
	} else if f.AudioChannels == 0 {
		d.ACodec = &none
	}
	return d
}

// extFromMime maps "video/mp4; codecs=..." to "mp4".
func extFromMime(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if i := strings.IndexByte(mime, '/'); i >= 0 {
		mime = mime[i+1:]
	}
	return strings.TrimSpace(mime)
}

// flattenTitle removes path separators so the title cannot escape the
// staging directory.
func flattenTitle(title string) string {
	title = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '-'
		}
		return r
	}, title)
	if title == "" {
		return "video"
	}
	return title
}
