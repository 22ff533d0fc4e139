package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"taskmanager/internal/pathutil"
)

// GetStore returns the configured storage backend based on environment
// variables.
//
// Environment variables:
//   - TASK_STORAGE_BACKEND: "sqlite" (default), "postgres", or "memory"
//   - TASK_SQLITE_PATH: custom SQLite path (default: <dataDir>/tasks.db)
//   - TASK_DATABASE_URL: PostgreSQL connection string (required for postgres)
//
// The returned store is constructed once at assembly time and injected
// into the engine; nothing in this package holds it as a global.
//
// Returns an error if the backend type is unknown, a required variable
// is missing, or a custom path escapes dataDir.
func GetStore(ctx context.Context, dataDir string) (Store, error) {
	backendType := strings.ToLower(strings.TrimSpace(os.Getenv("TASK_STORAGE_BACKEND")))
	if backendType == "" {
		backendType = "sqlite"
	}

	switch backendType {
	case "sqlite":
		path, err := getSQLitePath(dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to determine SQLite database path: %w", err)
		}
		return NewSQLiteBackend(path)

	case "postgres":
		connString := strings.TrimSpace(os.Getenv("TASK_DATABASE_URL"))
		if connString == "" {
			return nil, fmt.Errorf("TASK_DATABASE_URL is required for the postgres backend")
		}
		return NewPostgresBackend(ctx, connString)

	case "memory":
		return NewMemoryBackend(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %q. Expected 'sqlite', 'postgres' or 'memory'", backendType)
	}
}

// getSQLitePath returns the SQLite database file path.
//
// Reads TASK_SQLITE_PATH. If set, validates the path with
// pathutil.ResolveWithin to keep it inside dataDir. If not set,
// returns the default path <dataDir>/tasks.db.
func getSQLitePath(dataDir string) (string, error) {
	customPath := strings.TrimSpace(os.Getenv("TASK_SQLITE_PATH"))
	if customPath != "" {
		safePath, err := pathutil.ResolveWithin(dataDir, customPath)
		if err != nil {
			return "", fmt.Errorf("invalid TASK_SQLITE_PATH: %w", err)
		}
		return safePath, nil
	}

	return filepath.Join(dataDir, "tasks.db"), nil
}
