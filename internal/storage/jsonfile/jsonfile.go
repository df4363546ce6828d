// Package jsonfile provides a storage.Store keeping each ledger in its own
// JSON file.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mmynk/divider/internal/ledger"
	"github.com/mmynk/divider/internal/storage"
)

const extension = ".json"

// Ensure FileStore implements storage.Store
var _ storage.Store = (*FileStore)(nil)

// FileStore implements storage.Store on the file system.
//
// Ledgers listed in the registry live at their registered path; any other
// ledger lives at <dir>/<name>.json.
type FileStore struct {
	dir      string
	registry map[string]string
}

// New creates a FileStore rooted at dir, creating it if needed.
// registry maps ledger names to file paths and may be nil.
func New(dir string, registry map[string]string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir, registry: registry}, nil
}

// Close is a no-op: files are opened and closed on every call.
func (s *FileStore) Close() error {
	return nil
}

// Path returns the file backing the ledger called name.
func (s *FileStore) Path(name string) (string, error) {
	if p, ok := s.registry[name]; ok {
		return p, nil
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", storage.ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name+extension), nil
}

func (s *FileStore) ReadLedger(ctx context.Context, name string) (*ledger.Ledger, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	l, err := ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, name)
	}
	return l, err
}

func (s *FileStore) SaveLedger(ctx context.Context, name string, l *ledger.Ledger) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	return WriteFile(path, l)
}

// ListLedgers returns the registered ledgers and every ledger file of the
// data directory.
func (s *FileStore) ListLedgers(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(s.registry))
	for name := range s.registry {
		names = append(names, name)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list data directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != extension {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), extension))
	}

	slices.Sort(names)
	return slices.Compact(names), nil
}

// ReadFile decodes the ledger stored in the file at path.
func ReadFile(path string) (*ledger.Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}
	l := &ledger.Ledger{}
	if err := json.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("failed to parse ledger file %s: %w", path, err)
	}
	return l, nil
}

// WriteFile replaces the file at path with the snapshot of l. The snapshot
// is written to a temporary file first and renamed over path, so a failed
// write leaves the previous file intact.
func WriteFile(path string, l *ledger.Ledger) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}
	return nil
}
