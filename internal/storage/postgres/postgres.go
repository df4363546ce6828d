// Package postgres provides a PostgreSQL-backed implementation of the storage.Store interface.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmynk/divider/internal/ledger"
	"github.com/mmynk/divider/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS ledgers (
    name TEXT PRIMARY KEY,
    snapshot JSONB NOT NULL,
    total_spend DOUBLE PRECISION NOT NULL DEFAULT 0,
    transactions INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Ensure PostgresStore implements storage.Store
var _ storage.Store = (*PostgresStore)(nil)

// PostgresStore implements storage.Store using a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// New connects to the database at connString and creates the schema.
func New(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// SaveLedger inserts or replaces the snapshot stored under name.
func (s *PostgresStore) SaveLedger(ctx context.Context, name string, l *ledger.Ledger) error {
	snapshot, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO ledgers (name, snapshot, total_spend, transactions)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name) DO UPDATE SET
		     snapshot = EXCLUDED.snapshot,
		     total_spend = EXCLUDED.total_spend,
		     transactions = EXCLUDED.transactions,
		     updated_at = now()`,
		name, string(snapshot), l.TotalSpend(), len(l.Transactions()),
	)
	if err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

// ReadLedger retrieves the ledger stored under name.
func (s *PostgresStore) ReadLedger(ctx context.Context, name string) (*ledger.Ledger, error) {
	var snapshot []byte
	err := s.pool.QueryRow(ctx, "SELECT snapshot FROM ledgers WHERE name = $1", name).Scan(&snapshot)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}

	l := &ledger.Ledger{}
	if err := json.Unmarshal(snapshot, l); err != nil {
		return nil, fmt.Errorf("failed to decode ledger %s: %w", name, err)
	}
	return l, nil
}

// ListLedgers returns the names of all stored ledgers.
func (s *PostgresStore) ListLedgers(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, "SELECT name FROM ledgers ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger names: %w", err)
	}
	return names, nil
}
