// Package artifact manages the per-request staging directory a download is
// fetched into before being streamed back to the caller.
package artifact

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/iconidentify/vidgate/internal/domain"
)

// Artifact is a single-use staging directory holding the one file produced
// by the extraction engine for a download request. It is never shared
// across requests and never reused.
type Artifact struct {
	dir string
}

// New creates a uniquely named staging directory under tempRoot. An empty
// tempRoot means the system temp directory.
func New(tempRoot string) (*Artifact, error) {
	if tempRoot == "" {
		tempRoot = os.TempDir()
	}
	dir := filepath.Join(tempRoot, "dl_"+uuid.New().String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Artifact{dir: dir}, nil
}

// Dir returns the staging directory path.
func (a *Artifact) Dir() string {
	return a.dir
}

// OutputTemplate returns the yt-dlp output template that places the
// downloaded file inside the staging directory, named by the video's own
// title and native extension.
func (a *Artifact) OutputTemplate() string {
	return filepath.Join(a.dir, "%(title)s.%(ext)s")
}

// File locates the downloaded file. Zero files is a fetch failure
// (domain.ErrNoOutputFile), not an empty response.
func (a *Artifact) File() (path string, size int64, err error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return "", 0, err
	}
	if len(entries) == 0 {
		return "", 0, domain.ErrNoOutputFile
	}

	path = filepath.Join(a.dir, entries[0].Name())
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, err
	}
	return path, info.Size(), nil
}

// Cleanup removes the downloaded file(s) and then the directory itself.
// It is best-effort: failures are discarded so cleanup can never disturb a
// response already in flight. Safe to call more than once.
func (a *Artifact) Cleanup() {
	entries, err := os.ReadDir(a.dir)
	if err == nil {
		for _, e := range entries {
			os.Remove(filepath.Join(a.dir, e.Name()))
		}
	}
	os.Remove(a.dir)
}
