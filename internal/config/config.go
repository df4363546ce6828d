// Package config loads the web service configuration from the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	Port int

	// StorageBackend is one of BackendFile, BackendSQLite or BackendPostgres.
	StorageBackend string

	// DataDir holds one JSON file per ledger for the file backend.
	DataDir string

	// Ledgers maps ledger names to file paths for the file backend.
	// It is read from the JSON file named by LEDGERS_MAP.
	Ledgers map[string]string

	DBPath      string
	DatabaseURL string
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}

	cfg := &Config{
		Port:           port,
		StorageBackend: getEnv("STORAGE_BACKEND", BackendFile),
		DataDir:        getEnv("DATA_DIR", "./data"),
		DBPath:         getEnv("DB_PATH", "./data/ledgers.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
	}

	switch cfg.StorageBackend {
	case BackendFile:
		if path := os.Getenv("LEDGERS_MAP"); path != "" {
			cfg.Ledgers, err = LoadRegistry(path)
			if err != nil {
				return nil, err
			}
		}
	case BackendSQLite:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required for the %s backend", BackendPostgres)
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	return cfg, nil
}

// LoadRegistry reads a JSON object mapping ledger names to file paths.
func LoadRegistry(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledgers file: %w", err)
	}
	defer file.Close()

	var ledgers map[string]string
	if err := json.NewDecoder(file).Decode(&ledgers); err != nil {
		return nil, fmt.Errorf("failed to parse ledgers file: %w", err)
	}
	return ledgers, nil
}
