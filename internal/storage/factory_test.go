package storage_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"taskmanager/internal/storage"
)

// ---------------------------------------------------------------------------
// GetStore: backend type selection
// ---------------------------------------------------------------------------

func Test_GetStore_Cases(t *testing.T) {
	tests := []struct {
		name        string
		envBackend  string // TASK_STORAGE_BACKEND value ("" means unset)
		envPath     string // TASK_SQLITE_PATH value ("" means unset)
		wantSQLite  bool
		wantMemory  bool
		wantErr     bool
		errContains string
	}{
		{
			name:       "default is sqlite when no env set",
			wantSQLite: true,
		},
		{
			name:       "explicit sqlite",
			envBackend: "sqlite",
			wantSQLite: true,
		},
		{
			name:       "explicit memory",
			envBackend: "memory",
			wantMemory: true,
		},
		{
			name:       "case insensitive backend name",
			envBackend: "SQLite",
			wantSQLite: true,
		},
		{
			name:       "whitespace trimmed",
			envBackend: "  memory  ",
			wantMemory: true,
		},
		{
			name:        "unknown backend rejected",
			envBackend:  "mongodb",
			wantErr:     true,
			errContains: "unknown storage backend",
		},
		{
			name:       "custom sqlite path inside data dir accepted",
			envBackend: "sqlite",
			envPath:    "nested/custom.db",
			wantSQLite: true,
		},
		{
			name:        "sqlite path escaping data dir rejected",
			envBackend:  "sqlite",
			envPath:     "../../evil.db",
			wantErr:     true,
			errContains: "TASK_SQLITE_PATH",
		},
		{
			name:        "postgres without connection string rejected",
			envBackend:  "postgres",
			wantErr:     true,
			errContains: "TASK_DATABASE_URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TASK_STORAGE_BACKEND", tt.envBackend)
			t.Setenv("TASK_SQLITE_PATH", tt.envPath)
			t.Setenv("TASK_DATABASE_URL", "")

			dataDir := t.TempDir()
			store, err := storage.GetStore(context.Background(), dataDir)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetStore: %v", err)
			}
			t.Cleanup(func() { _ = store.Close() })

			switch {
			case tt.wantSQLite:
				if _, ok := store.(*storage.SQLiteBackend); !ok {
					t.Errorf("expected *SQLiteBackend, got %T", store)
				}
			case tt.wantMemory:
				if _, ok := store.(*storage.MemoryBackend); !ok {
					t.Errorf("expected *MemoryBackend, got %T", store)
				}
			}
		})
	}
}

func Test_GetStore_DefaultSQLitePath(t *testing.T) {
	t.Setenv("TASK_STORAGE_BACKEND", "sqlite")
	t.Setenv("TASK_SQLITE_PATH", "")

	dataDir := t.TempDir()
	store, err := storage.GetStore(context.Background(), dataDir)
	if err != nil {
		t.Fatalf("GetStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	b, ok := store.(*storage.SQLiteBackend)
	if !ok {
		t.Fatalf("expected *SQLiteBackend, got %T", store)
	}
	want := filepath.Join(dataDir, "tasks.db")
	if b.DBPath != want {
		t.Errorf("DBPath: got %q, want %q", b.DBPath, want)
	}
}

func Test_GetStore_CustomSQLitePathResolved(t *testing.T) {
	t.Setenv("TASK_STORAGE_BACKEND", "sqlite")
	t.Setenv("TASK_SQLITE_PATH", "custom/tasks.db")

	dataDir := t.TempDir()
	store, err := storage.GetStore(context.Background(), dataDir)
	if err != nil {
		t.Fatalf("GetStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	b, ok := store.(*storage.SQLiteBackend)
	if !ok {
		t.Fatalf("expected *SQLiteBackend, got %T", store)
	}
	if !strings.HasSuffix(b.DBPath, filepath.Join("custom", "tasks.db")) {
		t.Errorf("DBPath %q does not end with the custom path", b.DBPath)
	}
}
