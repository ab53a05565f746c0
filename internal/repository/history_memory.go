package repository

import (
	"context"
	"sync"

	"github.com/iconidentify/vidgate/internal/domain"
)

// InMemoryHistoryRepository implements HistoryRepository without
// persistence. Used when history is disabled in config, and in tests.
type InMemoryHistoryRepository struct {
	mu      sync.RWMutex
	records []*domain.RequestRecord // newest last
	byID    map[domain.RecordID]*domain.RequestRecord
}

// NewInMemoryHistoryRepository creates an empty in-memory history store.
func NewInMemoryHistoryRepository() *InMemoryHistoryRepository {
	return &InMemoryHistoryRepository{
		byID: make(map[domain.RecordID]*domain.RequestRecord),
	}
}

// Record appends one history record.
func (r *InMemoryHistoryRepository) Record(ctx context.Context, rec *domain.RequestRecord) error {
	fillDefaults(rec)

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *rec
	r.records = append(r.records, &stored)
	r.byID[stored.ID] = &stored
	return nil
}

// List returns the most recent records, newest first.
func (r *InMemoryHistoryRepository) List(ctx context.Context, limit int) ([]*domain.RequestRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.RequestRecord, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		rec := *r.records[i]
		out = append(out, &rec)
	}
	return out, nil
}

// Get returns a single record by ID.
func (r *InMemoryHistoryRepository) Get(ctx context.Context, id domain.RecordID) (*domain.RequestRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	rec := *stored
	return &rec, nil
}

// Ping always succeeds for the in-memory store.
func (r *InMemoryHistoryRepository) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (r *InMemoryHistoryRepository) Close() error {
	return nil
}
