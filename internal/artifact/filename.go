package artifact

import (
	"strings"
	"unicode"
)

// SafeFilename filters a video title down to characters safe for a
// Content-Disposition header and common filesystems: letters, digits,
// spaces, hyphens and underscores. Trailing whitespace is trimmed; an empty
// result falls back to "video". The caller appends the extension verbatim.
func SafeFilename(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	name := strings.TrimRight(b.String(), " \t\n")
	if name == "" {
		return "video"
	}
	return name
}

// ContentTypeForExt classifies a downloaded file by extension. This is a
// conservative default, not a codec probe: anything unrecognized is served
// as mp4.
func ContentTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".webm":
		return "video/webm"
	case ".mkv":
		return "video/x-matroska"
	default:
		return "video/mp4"
	}
}
