package domain

import (
	"sort"
)

// DefaultTitle is the placeholder used when the extraction engine does not
// report a title for a video.
const DefaultTitle = "Untitled video"

// VideoMetadata describes a video as reported by the extraction engine.
// Optional attributes are pointers so an absent value can be told apart
// from a zero value.
type VideoMetadata struct {
	Title       string
	Uploader    *string
	Duration    *float64
	Thumbnail   *string
	Description *string
	Formats     []FormatDescriptor
}

// DisplayTitle returns the video title, or DefaultTitle when the engine
// reported none.
func (m *VideoMetadata) DisplayTitle() string {
	if m.Title == "" {
		return DefaultTitle
	}
	return m.Title
}

// FormatDescriptor is one rendition of a video exactly as supplied by the
// extraction engine. A codec value of "none" means the stream is missing
// (audio-only or video-only renditions).
type FormatDescriptor struct {
	FormatID   string
	Ext        string
	Resolution *string
	Height     *int
	Width      *int
	FPS        *float64
	Filesize   *int64
	URL        *string
	VCodec     *string
	ACodec     *string
}

// FormatSummary is the client-facing projection of a FormatDescriptor.
// Absent attributes serialize as null, never as a zero value.
type FormatSummary struct {
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

// FilterFormats drops metadata-only renditions (mhtml/html containers) and
// orders the rest by height, best first. Entries without a height sort as
// height 0. The sort is stable: renditions with equal height keep the order
// the engine reported them in. A nil input yields an empty slice.
func FilterFormats(raw []FormatDescriptor) []FormatSummary {
	out := make([]FormatSummary, 0, len(raw))

	for _, f := range raw {
		if f.Ext == "mhtml" || f.Ext == "html" {
			continue
		}
		out = append(out, FormatSummary{
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

	sort.SliceStable(out, func(i, j int) bool {
		return heightOrZero(out[i].Height) > heightOrZero(out[j].Height)
	})

	return out
}

func heightOrZero(h *int) int {
	if h == nil {
		return 0
	}
	return *h
}
