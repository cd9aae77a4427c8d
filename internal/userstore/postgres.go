package userstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const pgQueryTimeout = 5 * time.Second

// PostgresBackend keeps one row per user with the record as JSONB. It
// honours the same whole-store contract as the file backend; records are
// never deleted, so Save only upserts.
type PostgresBackend struct {
	db *sqlx.DB
}

// NewPostgresBackend wraps an open connection pool.
func NewPostgresBackend(db *sqlx.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

type userRow struct {
	UserID int64  `db:"user_id"`
	Record []byte `db:"record"`
}

// Load reads all user records.
func (b *PostgresBackend) Load() (map[int64]*Record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), pgQueryTimeout)
	defer cancel()

	var rows []userRow
	if err := b.db.SelectContext(ctx, &rows, `SELECT user_id, record FROM user_records`); err != nil {
		return nil, fmt.Errorf("userstore: select records: %w", err)
	}

	records := make(map[int64]*Record, len(rows))
	for _, row := range rows {
		var rec Record
		if err := json.Unmarshal(row.Record, &rec); err != nil {
			return nil, fmt.Errorf("userstore: decode record for user %d: %w", row.UserID, err)
		}
		records[row.UserID] = &rec
	}
	return records, nil
}

// Save upserts every record in one transaction.
func (b *PostgresBackend) Save(records map[int64]*Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), pgQueryTimeout)
	defer cancel()

	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("userstore: begin tx: %w", err)
	}

	const upsert = `
		INSERT INTO user_records (user_id, record, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET record = EXCLUDED.record, updated_at = NOW()`

	for id, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("userstore: encode record for user %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, upsert, id, data); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("userstore: upsert record for user %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("userstore: commit: %w", err)
	}
	return nil
}
