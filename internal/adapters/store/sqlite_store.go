package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/icp-outreach/internal/core"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the DeliveryStore interface.
// The primary key on the idempotency key makes Claim atomic across
// processes sharing the database file.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore creates a new SQLite delivery record store.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS delivery_records (
			key TEXT PRIMARY KEY,
			draft_id TEXT NOT NULL,
			recipient TEXT NOT NULL,
			status TEXT NOT NULL,
			attempts INTEGER NOT NULL DEFAULT 0,
			last_error TEXT NOT NULL DEFAULT '',
			first_attempt_at TIMESTAMP,
			completed_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Claim returns the record for key, creating rec when none exists.
func (s *SQLiteStore) Claim(ctx context.Context, key string, rec *core.DeliveryRecord) (*core.DeliveryRecord, bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO delivery_records (key, draft_id, recipient, status, attempts, last_error, first_attempt_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO NOTHING
	`, key, rec.DraftID, rec.Recipient, string(rec.Status), rec.Attempts, rec.LastError,
		timeOrNil(rec.FirstAttemptAt), timeOrNil(rec.CompletedAt))
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert delivery record: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	got, err := s.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if got == nil {
		return nil, false, fmt.Errorf("delivery record vanished after claim: %s", key)
	}
	return got, inserted == 1, nil
}

// Update persists the current state of a record.
func (s *SQLiteStore) Update(ctx context.Context, rec *core.DeliveryRecord) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE delivery_records
		SET status = ?, attempts = ?, last_error = ?, first_attempt_at = ?, completed_at = ?
		WHERE key = ?
	`, string(rec.Status), rec.Attempts, rec.LastError,
		timeOrNil(rec.FirstAttemptAt), timeOrNil(rec.CompletedAt), rec.Key)
	if err != nil {
		return fmt.Errorf("failed to update delivery record: %w", err)
	}
	return nil
}

// Get returns the record for key, or nil when absent.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*core.DeliveryRecord, error) {
	rec := &core.DeliveryRecord{Key: key}
	var status string
	var firstAttempt, completed sql.NullTime

	err := s.db.QueryRowContext(ctx, `
		SELECT draft_id, recipient, status, attempts, last_error, first_attempt_at, completed_at
		FROM delivery_records
		WHERE key = ?
	`, key).Scan(&rec.DraftID, &rec.Recipient, &status, &rec.Attempts, &rec.LastError, &firstAttempt, &completed)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query delivery record: %w", err)
	}

	rec.Status = core.DeliveryStatus(status)
	if firstAttempt.Valid {
		rec.FirstAttemptAt = firstAttempt.Time
	}
	if completed.Valid {
		rec.CompletedAt = completed.Time
	}
	return rec, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// timeOrNil maps a zero time to NULL so zero values round-trip cleanly.
func timeOrNil(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
