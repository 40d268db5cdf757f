package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/icp-outreach/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the DeliveryStore interface for
// deployments that share delivery state across instances.
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore creates a new MySQL delivery record store. The DSN must
// include parseTime=true so DATETIME columns scan into time.Time.
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS delivery_records (
			` + "`key`" + ` VARCHAR(64) PRIMARY KEY,
			draft_id VARCHAR(64) NOT NULL,
			recipient VARCHAR(255) NOT NULL,
			status VARCHAR(16) NOT NULL,
			attempts INT NOT NULL DEFAULT 0,
			last_error TEXT,
			first_attempt_at DATETIME NULL,
			completed_at DATETIME NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{db: db, logger: logger}, nil
}

// Claim returns the record for key, creating rec when none exists.
func (s *MySQLStore) Claim(ctx context.Context, key string, rec *core.DeliveryRecord) (*core.DeliveryRecord, bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT IGNORE INTO delivery_records
			(`+"`key`"+`, draft_id, recipient, status, attempts, last_error, first_attempt_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
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
func (s *MySQLStore) Update(ctx context.Context, rec *core.DeliveryRecord) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE delivery_records
		SET status = ?, attempts = ?, last_error = ?, first_attempt_at = ?, completed_at = ?
		WHERE `+"`key`"+` = ?
	`, string(rec.Status), rec.Attempts, rec.LastError,
		timeOrNil(rec.FirstAttemptAt), timeOrNil(rec.CompletedAt), rec.Key)
	if err != nil {
		return fmt.Errorf("failed to update delivery record: %w", err)
	}
	return nil
}

// Get returns the record for key, or nil when absent.
func (s *MySQLStore) Get(ctx context.Context, key string) (*core.DeliveryRecord, error) {
	rec := &core.DeliveryRecord{Key: key}
	var status string
	var lastError sql.NullString
	var firstAttempt, completed sql.NullTime

	err := s.db.QueryRowContext(ctx, `
		SELECT draft_id, recipient, status, attempts, last_error, first_attempt_at, completed_at
		FROM delivery_records
		WHERE `+"`key`"+` = ?
	`, key).Scan(&rec.DraftID, &rec.Recipient, &status, &rec.Attempts, &lastError, &firstAttempt, &completed)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query delivery record: %w", err)
	}

	rec.Status = core.DeliveryStatus(status)
	rec.LastError = lastError.String
	if firstAttempt.Valid {
		rec.FirstAttemptAt = firstAttempt.Time
	}
	if completed.Valid {
		rec.CompletedAt = completed.Time
	}
	return rec, nil
}

// Close closes the underlying database.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
