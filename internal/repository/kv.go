// Package repository provides a PostgreSQL implementation of the credential
// key/value contract.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresKV stores extension keys as rows of the extension_storage table.
type PostgresKV struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresKV creates a PostgresKV over db.
// db must be a valid connection whose schema was created by db.InitPostgres.
func NewPostgresKV(db *sql.DB) *PostgresKV {
	return &PostgresKV{DB: db}
}

// Get returns the rows whose key is in keys.
func (s *PostgresKV) Get(ctx context.Context, keys ...string) (map[string]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT key, value FROM extension_storage WHERE key = ANY($1)`,
		pq.Array(keys),
	)
	if err != nil {
		return nil, fmt.Errorf("get keys: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string, len(keys))
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// Set upserts every item inside one transaction.
func (s *PostgresKV) Set(ctx context.Context, items map[string]string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for k, v := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO extension_storage (key, value)
			VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET
				value = EXCLUDED.value,
				updated_at = NOW()
		`, k, v)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Remove deletes the rows for keys.
func (s *PostgresKV) Remove(ctx context.Context, keys ...string) error {
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM extension_storage WHERE key = ANY($1)`,
		pq.Array(keys),
	)
	if err != nil {
		return fmt.Errorf("remove keys: %w", err)
	}
	return nil
}
