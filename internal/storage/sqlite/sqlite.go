// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/divider/internal/ledger"
	"github.com/mmynk/divider/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Snapshots are written whole; WAL keeps readers unblocked while one is saved.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveLedger inserts or replaces the snapshot stored under name.
func (s *SQLiteStore) SaveLedger(ctx context.Context, name string, l *ledger.Ledger) error {
	snapshot, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	now := time.Now().Unix()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO ledgers (name, snapshot, total_spend, transactions, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		     snapshot = excluded.snapshot,
		     total_spend = excluded.total_spend,
		     transactions = excluded.transactions,
		     updated_at = excluded.updated_at`,
		name, string(snapshot), l.TotalSpend(), len(l.Transactions()), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}

	return nil
}

// ReadLedger retrieves the ledger stored under name.
func (s *SQLiteStore) ReadLedger(ctx context.Context, name string) (*ledger.Ledger, error) {
	var snapshot string
	err := s.db.QueryRowContext(ctx,
		"SELECT snapshot FROM ledgers WHERE name = ?",
		name,
	).Scan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}

	l := &ledger.Ledger{}
	if err := json.Unmarshal([]byte(snapshot), l); err != nil {
		return nil, fmt.Errorf("failed to decode ledger %s: %w", name, err)
	}

	return l, nil
}

// ListLedgers returns the names of all stored ledgers.
func (s *SQLiteStore) ListLedgers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM ledgers ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan ledger name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledgers: %w", err)
	}

	return names, nil
}
