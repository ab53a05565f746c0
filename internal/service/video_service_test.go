package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/iconidentify/vidgate/internal/config"
	"github.com/iconidentify/vidgate/internal/domain"
	"github.com/iconidentify/vidgate/internal/extractor"
	"github.com/iconidentify/vidgate/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

// mockExtractor is a scriptable extractor.Client for tests.
type mockExtractor struct {
	meta     *domain.VideoMetadata
	metaErr  error
	fetchErr error

	// fetchFiles are written into the output template's directory to
	// simulate the engine producing output.
	fetchFiles map[string][]byte

	metadataCalls int
	fetchCalls    int
	lastFormatID  string
}

func (m *mockExtractor) Metadata(ctx context.Context, url string) (*domain.VideoMetadata, error) {
	m.metadataCalls++
	if m.metaErr != nil {
		return nil, m.metaErr
	}
	return m.meta, nil
}

func (m *mockExtractor) FetchToDisk(ctx context.Context, url, formatID, outputTemplate string) error {
	m.fetchCalls++
	m.lastFormatID = formatID
	if m.fetchErr != nil {
		return m.fetchErr
	}
	dir := filepath.Dir(outputTemplate)
	for name, content := range m.fetchFiles {
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func newTestService(t *testing.T, ext extractor.Client) *VideoService {
	t.Helper()
	return NewVideoService(
		ext,
		repository.NewInMemoryHistoryRepository(),
		config.StorageConfig{TempPath: t.TempDir()},
		testLogger(),
	)
}

func TestInfo_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{"blank", "", domain.ErrEmptyURL},
		{"whitespace only", "   \t ", domain.ErrEmptyURL},
		{"no scheme", "example.com/video", domain.ErrMalformedURL},
		{"no host", "https://", domain.ErrMalformedURL},
		{"not a url", "not a url", domain.ErrMalformedURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := &mockExtractor{}
			svc := newTestService(t, ext)

			_, err := svc.Info(context.Background(), tt.url)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Info(%q) err = %v, want %v", tt.url, err, tt.wantErr)
			}
			if ext.metadataCalls != 0 {
				t.Error("validation failure must not reach the extractor")
			}
		})
	}
}

func TestInfo_TrimsURLBeforeExtraction(t *testing.T) {
	ext := &mockExtractor{meta: &domain.VideoMetadata{Title: "ok"}}
	svc := newTestService(t, ext)

	if _, err := svc.Info(context.Background(), "  https://example.com/v  "); err != nil {
		t.Fatalf("Info: %v", err)
	}
	if ext.metadataCalls != 1 {
		t.Errorf("metadata calls = %d, want 1", ext.metadataCalls)
	}
}

func TestInfo_FiltersAndTitlesResult(t *testing.T) {
	ext := &mockExtractor{meta: &domain.VideoMetadata{
		Formats: []domain.FormatDescriptor{
			{FormatID: "low", Ext: "mp4", Height: intPtr(480)},
			{FormatID: "storyboard", Ext: "mhtml"},
			{FormatID: "high", Ext: "mp4", Height: intPtr(1080)},
		},
	}}
	svc := newTestService(t, ext)

	info, err := svc.Info(context.Background(), "https://example.com/video")
	if err != nil {
		t.Fatalf("Info: %v", err)
	}

	if info.Title != domain.DefaultTitle {
		t.Errorf("Title = %q, want placeholder %q", info.Title, domain.DefaultTitle)
	}
	if len(info.Formats) != 2 {
		t.Fatalf("got %d formats, want 2", len(info.Formats))
	}
	if info.Formats[0].FormatID != "high" || info.Formats[1].FormatID != "low" {
		t.Errorf("formats not sorted by height descending: %q, %q",
			info.Formats[0].FormatID, info.Formats[1].FormatID)
	}
}

func TestInfo_ExtractionErrorPassesThrough(t *testing.T) {
	extErr := &extractor.ExtractionError{Op: "metadata", Message: "ERROR: unsupported URL"}
	svc := newTestService(t, &mockExtractor{metaErr: extErr})

	_, err := svc.Info(context.Background(), "https://example.com/video")
	if err == nil || err.Error() != "ERROR: unsupported URL" {
		t.Errorf("err = %v, want the engine message verbatim", err)
	}
}

func TestPrepareDownload_MissingParams(t *testing.T) {
	ext := &mockExtractor{}
	svc := newTestService(t, ext)

	for _, tc := range [][2]string{{"", "22"}, {"https://example.com/v", ""}, {"", ""}} {
		if _, err := svc.PrepareDownload(context.Background(), tc[0], tc[1]); !errors.Is(err, domain.ErrMissingParams) {
			t.Errorf("PrepareDownload(%q, %q) err = %v, want ErrMissingParams", tc[0], tc[1], err)
		}
	}
	if ext.metadataCalls != 0 || ext.fetchCalls != 0 {
		t.Error("missing params must not reach the extractor")
	}
}

func TestPrepareDownload_Success(t *testing.T) {
	ext := &mockExtractor{
		meta:       &domain.VideoMetadata{Title: "My <Great> Clip?!"},
		fetchFiles: map[string][]byte{"My Great Clip.webm": []byte("webm bytes")},
	}
	svc := newTestService(t, ext)

	dl, err := svc.PrepareDownload(context.Background(), "https://example.com/v", "251")
	if err != nil {
		t.Fatalf("PrepareDownload: %v", err)
	}
	defer dl.Cleanup()

	if ext.lastFormatID != "251" {
		t.Errorf("fetch format id = %q, want 251", ext.lastFormatID)
	}
	if dl.Filename != "My Great Clip.webm" {
		t.Errorf("Filename = %q, want sanitized title plus original extension", dl.Filename)
	}
	if dl.ContentType != "video/webm" {
		t.Errorf("ContentType = %q, want video/webm", dl.ContentType)
	}
	if dl.Size != int64(len("webm bytes")) {
		t.Errorf("Size = %d", dl.Size)
	}
	if _, err := os.Stat(dl.FilePath); err != nil {
		t.Errorf("staged file missing: %v", err)
	}
}

func TestPrepareDownload_ZeroFilesIsFailure(t *testing.T) {
	ext := &mockExtractor{meta: &domain.VideoMetadata{Title: "t"}}
	svc := newTestService(t, ext)

	_, err := svc.PrepareDownload(context.Background(), "https://example.com/v", "22")
	if !errors.Is(err, domain.ErrNoOutputFile) {
		t.Errorf("err = %v, want ErrNoOutputFile", err)
	}
	assertNoStagingDirs(t, svc)
}

func TestPrepareDownload_MetadataFailureCleansUp(t *testing.T) {
	ext := &mockExtractor{metaErr: &extractor.ExtractionError{Op: "metadata", Message: "boom"}}
	svc := newTestService(t, ext)

	if _, err := svc.PrepareDownload(context.Background(), "https://example.com/v", "22"); err == nil {
		t.Fatal("expected error")
	}
	if ext.fetchCalls != 0 {
		t.Error("fetch must not run after metadata failure")
	}
	assertNoStagingDirs(t, svc)
}

func TestPrepareDownload_FetchFailureCleansUp(t *testing.T) {
	ext := &mockExtractor{
		meta:     &domain.VideoMetadata{Title: "t"},
		fetchErr: &extractor.ExtractionError{Op: "fetch", Message: "boom"},
	}
	svc := newTestService(t, ext)

	if _, err := svc.PrepareDownload(context.Background(), "https://example.com/v", "22"); err == nil {
		t.Fatal("expected error")
	}
	assertNoStagingDirs(t, svc)
}

func TestDownloadCleanup_RemovesStagingDir(t *testing.T) {
	ext := &mockExtractor{
		meta:       &domain.VideoMetadata{Title: "t"},
		fetchFiles: map[string][]byte{"t.mp4": []byte("x")},
	}
	svc := newTestService(t, ext)

	dl, err := svc.PrepareDownload(context.Background(), "https://example.com/v", "22")
	if err != nil {
		t.Fatalf("PrepareDownload: %v", err)
	}

	dl.Cleanup()
	assertNoStagingDirs(t, svc)
}

// assertNoStagingDirs verifies no per-request directory is left behind
// under the service temp root.
func assertNoStagingDirs(t *testing.T, svc *VideoService) {
	t.Helper()
	entries, err := os.ReadDir(svc.storage.TempPath)
	if err != nil {
		t.Fatalf("read temp root: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("temp root not empty: %d entries left", len(entries))
	}
}
