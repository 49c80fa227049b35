// Package cli provides common initialization shared by cmd/tracker and
// cmd/tracker-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"tracker/internal/config"
	applog "tracker/internal/log"
	"tracker/internal/storage"
)

// SetupLogger initializes structured logging with default settings and sets
// the result as the process default.
func SetupLogger() *applog.Logger {
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore opens the configured storage backend. Exits on failure.
func OpenStore(logger *applog.Logger, cfg *config.Config) storage.Store {
	switch cfg.DataBackend {
	case "sqlite":
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite store", applog.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		return store
	default:
		return storage.NewMemoryStore()
	}
}
