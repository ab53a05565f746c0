package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/iconidentify/vidgate/internal/domain"
)

// timeLayout keeps fractional seconds fixed-width so the created_at TEXT
// column sorts chronologically. RFC3339Nano trims trailing zeros, which
// breaks lexicographic ordering within a second.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteHistoryRepository implements HistoryRepository on a SQLite file.
type SQLiteHistoryRepository struct {
	db *sql.DB
}

// NewSQLiteHistoryRepository opens (creating if needed) the history
// database at path.
func NewSQLiteHistoryRepository(path string) (*SQLiteHistoryRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS requests (
			id         TEXT PRIMARY KEY,
			kind       TEXT NOT NULL,
			url        TEXT NOT NULL,
			format_id  TEXT NOT NULL DEFAULT '',
			title      TEXT NOT NULL DEFAULT '',
			outcome    TEXT NOT NULL,
			error      TEXT NOT NULL DEFAULT '',
			bytes      INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_requests_created_at ON requests(created_at);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteHistoryRepository{db: db}, nil
}

// Record appends one history record.
func (r *SQLiteHistoryRepository) Record(ctx context.Context, rec *domain.RequestRecord) error {
	fillDefaults(rec)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO requests (id, kind, url, format_id, title, outcome, error, bytes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), string(rec.Kind), rec.URL, rec.FormatID, rec.Title,
		string(rec.Outcome), rec.Error, rec.Bytes, rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// List returns the most recent records, newest first.
func (r *SQLiteHistoryRepository) List(ctx context.Context, limit int) ([]*domain.RequestRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, url, format_id, title, outcome, error, bytes, created_at
		 FROM requests ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.RequestRecord, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get returns a single record by ID.
func (r *SQLiteHistoryRepository) Get(ctx context.Context, id domain.RecordID) (*domain.RequestRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, kind, url, format_id, title, outcome, error, bytes, created_at
		 FROM requests WHERE id = ?`, id.String())

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	return rec, err
}

// Ping reports whether the database is reachable.
func (r *SQLiteHistoryRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database.
func (r *SQLiteHistoryRepository) Close() error {
	return r.db.Close()
}

func scanRecord(scan func(...any) error) (*domain.RequestRecord, error) {
	var (
		rec       domain.RequestRecord
		id        string
		kind      string
		outcome   string
		createdAt string
	)
	if err := scan(&id, &kind, &rec.URL, &rec.FormatID, &rec.Title, &outcome, &rec.Error, &rec.Bytes, &createdAt); err != nil {
		return nil, err
	}
	rec.ID = domain.RecordID(id)
	rec.Kind = domain.RequestKind(kind)
	rec.Outcome = domain.Outcome(outcome)

	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	rec.CreatedAt = ts
	return &rec, nil
}

func fillDefaults(rec *domain.RequestRecord) {
	if rec.ID == "" {
		rec.ID = domain.RecordID("req_" + uuid.New().String()[:8])
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
}
