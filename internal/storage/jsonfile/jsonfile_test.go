package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/mmynk/divider/internal/ledger"
	"github.com/mmynk/divider/internal/storage"
)

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	registered := filepath.Join(t.TempDir(), "elsewhere", "mordor.json")

	store, err := New(dir, map[string]string{"mordor": registered})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("SaveLedger then ReadLedger returns the same ledger", func(t *testing.T) {
		original := ledger.New("Bilbo", "Frodo")
		if _, err := original.AddTransfer("Bilbo", "Frodo", 32, "Rent", time.Time{}); err != nil {
			t.Fatalf("AddTransfer failed: %v", err)
		}

		if err := store.SaveLedger(ctx, "shire", original); err != nil {
			t.Fatalf("SaveLedger failed: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "shire.json")); err != nil {
			t.Errorf("expected shire.json in data dir: %v", err)
		}

		retrieved, err := store.ReadLedger(ctx, "shire")
		if err != nil {
			t.Fatalf("ReadLedger failed: %v", err)
		}
		if !reflect.DeepEqual(retrieved.Balances(), original.Balances()) {
			t.Errorf("Balances mismatch: got %v, want %v", retrieved.Balances(), original.Balances())
		}
		if !reflect.DeepEqual(retrieved.Transactions(), original.Transactions()) {
			t.Errorf("Transactions mismatch")
		}
	})

	t.Run("registered ledgers use their registered path", func(t *testing.T) {
		if err := store.SaveLedger(ctx, "mordor", ledger.New("Sauron")); err != nil {
			t.Fatalf("SaveLedger failed: %v", err)
		}
		if _, err := os.Stat(registered); err != nil {
			t.Errorf("expected registered file to exist: %v", err)
		}
	})

	t.Run("ReadLedger returns ErrNotFound for nonexistent ledger", func(t *testing.T) {
		_, err := store.ReadLedger(ctx, "rivendell")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("invalid names are rejected", func(t *testing.T) {
		for _, name := range []string{"", "..", "../etc", `a\b`} {
			if _, err := store.ReadLedger(ctx, name); !errors.Is(err, storage.ErrInvalidName) {
				t.Errorf("ReadLedger(%q) error = %v, want ErrInvalidName", name, err)
			}
		}
	})

	t.Run("ListLedgers merges registry and data dir", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		names, err := store.ListLedgers(ctx)
		if err != nil {
			t.Fatalf("ListLedgers failed: %v", err)
		}
		want := []string{"mordor", "shire"}
		if !reflect.DeepEqual(names, want) {
			t.Errorf("ListLedgers = %v, want %v", names, want)
		}
	})
}

func TestReadFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); err == nil {
		t.Error("expected an error for a broken file")
	}
}

func TestWriteFileLeavesNoTemporaryFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.json")
	if err := WriteFile(path, ledger.New("Bilbo")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only ledger.json, got %v", entries)
	}
}
