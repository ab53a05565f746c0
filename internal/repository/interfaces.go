package repository

import (
	"context"

	"github.com/iconidentify/vidgate/internal/domain"
)

// HistoryRepository stores request-history records. Only request metadata
// is persisted; downloaded files never touch a repository.
type HistoryRepository interface {
	// Record appends one history record. Missing ID and CreatedAt are
	// filled in by the implementation.
	Record(ctx context.Context, rec *domain.RequestRecord) error

	// List returns the most recent records, newest first.
	List(ctx context.Context, limit int) ([]*domain.RequestRecord, error)

	// Get returns a single record by ID, or domain.ErrRecordNotFound.
	Get(ctx context.Context, id domain.RecordID) (*domain.RequestRecord, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error

	// Close releases any open resources.
	Close() error
}
