package handler

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/iconidentify/vidgate/internal/config"
	"github.com/iconidentify/vidgate/internal/domain"
	"github.com/iconidentify/vidgate/internal/repository"
	"github.com/iconidentify/vidgate/internal/service"
)

// testLogger returns a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

// stubExtractor is a scriptable extraction client for handler tests.
type stubExtractor struct {
	meta       *domain.VideoMetadata
	metaErr    error
	fetchErr   error
	fetchFiles map[string][]byte
}

func (s *stubExtractor) Metadata(ctx context.Context, url string) (*domain.VideoMetadata, error) {
	if s.metaErr != nil {
		return nil, s.metaErr
	}
	return s.meta, nil
}

func (s *stubExtractor) FetchToDisk(ctx context.Context, url, formatID, outputTemplate string) error {
	if s.fetchErr != nil {
		return s.fetchErr
	}
	dir := filepath.Dir(outputTemplate)
	for name, content := range s.fetchFiles {
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// testEnv bundles a video handler with the temp root its service stages
// downloads under, so tests can assert on cleanup.
type testEnv struct {
	handler  *VideoHandler
	tempRoot string
	history  repository.HistoryRepository
}

func newTestEnv(t *testing.T, ext *stubExtractor) *testEnv {
	t.Helper()
	tempRoot := t.TempDir()
	history := repository.NewInMemoryHistoryRepository()
	svc := service.NewVideoService(ext, history, config.StorageConfig{TempPath: tempRoot}, testLogger())
	return &testEnv{
		handler:  NewVideoHandler(svc, testLogger()),
		tempRoot: tempRoot,
		history:  history,
	}
}

func (e *testEnv) assertTempRootEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(e.tempRoot)
	if err != nil {
		t.Fatalf("read temp root: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("staging dir left behind after response finished (%d entries)", len(entries))
	}
}

// failingHistory implements repository.HistoryRepository with scripted
// failures, for health and history handler tests.
type failingHistory struct {
	repository.HistoryRepository
	pingErr error
	listErr error
}

func (f *failingHistory) Ping(ctx context.Context) error {
	if f.pingErr != nil {
		return f.pingErr
	}
	return f.HistoryRepository.Ping(ctx)
}

func (f *failingHistory) List(ctx context.Context, limit int) ([]*domain.RequestRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.HistoryRepository.List(ctx, limit)
}
