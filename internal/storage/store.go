// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/divider/internal/ledger"
)

var (
	// ErrNotFound is returned when no ledger is stored under the requested name.
	ErrNotFound = errors.New("ledger not found")

	// ErrInvalidName is returned for ledger names a store cannot hold.
	ErrInvalidName = errors.New("invalid ledger name")
)

// Store defines the interface for ledger storage operations.
//
// Ledgers are always read and saved whole: a store never sees partial
// updates. Serializing concurrent read-modify-save cycles on the same ledger
// is the caller's responsibility.
type Store interface {
	// ReadLedger loads the ledger stored under name.
	// Returns an error wrapping ErrNotFound if there is none.
	ReadLedger(ctx context.Context, name string) (*ledger.Ledger, error)

	// SaveLedger stores l under name, replacing any previous snapshot.
	SaveLedger(ctx context.Context, name string, l *ledger.Ledger) error

	// ListLedgers returns the names of all stored ledgers, sorted.
	ListLedgers(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}
