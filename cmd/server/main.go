package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/divider/internal/api"
	"github.com/mmynk/divider/internal/config"
	"github.com/mmynk/divider/internal/middleware"
	"github.com/mmynk/divider/internal/service"
	"github.com/mmynk/divider/internal/storage"
	"github.com/mmynk/divider/internal/storage/jsonfile"
	"github.com/mmynk/divider/internal/storage/postgres"
	"github.com/mmynk/divider/internal/storage/sqlite"
	"github.com/mmynk/divider/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := openStore(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "backend", cfg.StorageBackend)

	svc := service.NewLedgerService(store)

	// Register the Connect service next to the REST routes
	ledgerPath, ledgerHandler := service.NewLedgerServiceHandler(svc, connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(),
	))
	router := api.NewHandler(svc).Router()
	router.PathPrefix(ledgerPath).Handler(ledgerHandler)

	handler := middleware.RequestID(middleware.Logging(middleware.CORS(router)))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		return sqlite.New(cfg.DBPath)
	case config.BackendPostgres:
		return postgres.New(ctx, cfg.DatabaseURL)
	default:
		return jsonfile.New(cfg.DataDir, cfg.Ledgers)
	}
}
