package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver

	"taskmanager/internal/task"
)

// sqliteSchemaDDL defines the database schema for the SQLite backend.
//
// Timestamps are stored as RFC 3339 text in UTC. The unique index on
// title enforces the uniqueness guard at the storage layer, closing the
// check-then-insert race window for concurrent creates.
const sqliteSchemaDDL = `
CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_title ON tasks(title);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_created ON tasks(created_at);
`

// sqliteTimeFormat is the text representation used for the created_at
// and updated_at columns. The fractional second is fixed-width, so the
// stored text sorts lexicographically in time order and ORDER BY on the
// raw column is correct. All stored times are UTC.
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteBackend implements Store using a SQLite database file via
// modernc.org/sqlite. Uses WAL mode for better concurrent access.
//
// The *sql.DB handle is opened once at construction and pools
// connections internally; Close releases it.
type SQLiteBackend struct {
	// DBPath is the absolute path to the SQLite database file.
	DBPath string

	db *sql.DB
}

// NewSQLiteBackend opens (or creates) the database at dbPath and
// initializes the schema.
//
// Parent directories are created automatically. Returns an error if
// the directory cannot be created, the database cannot be opened, or
// schema creation fails.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if _, err := db.Exec(sqliteSchemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to execute schema DDL: %w", err)
	}

	return &SQLiteBackend{DBPath: dbPath, db: db}, nil
}

// Close releases the database handle.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

const sqliteTaskColumns = "id, title, description, status, created_at, updated_at"

// sqliteWhere translates a Filter into a WHERE clause and its
// arguments. Returns an empty string when the filter matches
// everything.
func sqliteWhere(f Filter) (string, []any) {
	var clauses []string
	var args []any

	if f.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Search != "" {
		// instr() gives plain substring matching without LIKE
		// wildcard interpretation of the user's input.
		clauses = append(clauses, "(instr(lower(title), lower(?)) > 0 OR instr(lower(description), lower(?)) > 0)")
		args = append(args, f.Search, f.Search)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// scanSQLiteTask scans one task row, parsing the timestamp columns.
func scanSQLiteTask(scan func(dest ...any) error) (*task.Task, error) {
	var t task.Task
	var createdAt, updatedAt string
	if err := scan(&t.ID, &t.Title, &t.Description, &t.Status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if t.CreatedAt, err = time.Parse(sqliteTimeFormat, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(sqliteTimeFormat, updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return &t, nil
}

// isSQLiteTitleConflict reports whether err is a violation of the
// unique title index. modernc.org/sqlite surfaces constraint failures
// as plain errors, so the message is the only discriminator available.
func isSQLiteTitleConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: tasks.title")
}

// Find returns the page of records matching q, newest first.
//
// Ties on created_at are broken by id descending; ids are UUIDv7, so
// the later insert wins the tie.
func (b *SQLiteBackend) Find(ctx context.Context, q Query) ([]task.Task, error) {
	where, args := sqliteWhere(q.Filter)
	query := "SELECT " + sqliteTaskColumns + " FROM tasks" + where +
		" ORDER BY created_at DESC, id DESC"
	if q.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, q.Limit, q.Offset)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]task.Task, 0)
	for rows.Next() {
		t, err := scanSQLiteTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}

// Count returns the number of records matching f.
func (b *SQLiteBackend) Count(ctx context.Context, f Filter) (int, error) {
	where, args := sqliteWhere(f)
	var n int
	err := b.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks"+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

// FindByID retrieves a single record by identifier.
func (b *SQLiteBackend) FindByID(ctx context.Context, id string) (*task.Task, error) {
	row := b.db.QueryRowContext(ctx,
		"SELECT "+sqliteTaskColumns+" FROM tasks WHERE id = ?", id)
	t, err := scanSQLiteTask(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return t, nil
}

// FindByTitle retrieves the record with an exactly matching title.
func (b *SQLiteBackend) FindByTitle(ctx context.Context, title string) (*task.Task, error) {
	row := b.db.QueryRowContext(ctx,
		"SELECT "+sqliteTaskColumns+" FROM tasks WHERE title = ?", title)
	t, err := scanSQLiteTask(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task by title: %w", err)
	}
	return t, nil
}

// Insert persists a new record, assigning its id and timestamps.
func (b *SQLiteBackend) Insert(ctx context.Context, nt NewTask) (*task.Task, error) {
	now := time.Now().UTC()
	t := task.Task{
		ID:          newID(),
		Title:       nt.Title,
		Description: nt.Description,
		Status:      nt.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := b.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, string(t.Status),
		now.Format(sqliteTimeFormat), now.Format(sqliteTimeFormat))
	if isSQLiteTitleConflict(err) {
		return nil, ErrDuplicateTitle
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}
	return &t, nil
}

// UpdateByID applies the non-nil fields of patch and refreshes
// updated_at, returning the updated record.
func (b *SQLiteBackend) UpdateByID(ctx context.Context, id string, patch task.Patch) (*task.Task, error) {
	set := "updated_at = ?"
	args := []any{time.Now().UTC().Format(sqliteTimeFormat)}

	if patch.Title != nil {
		set += ", title = ?"
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		set += ", description = ?"
		args = append(args, *patch.Description)
	}
	if patch.Status != nil {
		set += ", status = ?"
		args = append(args, string(*patch.Status))
	}
	args = append(args, id)

	row := b.db.QueryRowContext(ctx,
		"UPDATE tasks SET "+set+" WHERE id = ? RETURNING "+sqliteTaskColumns, args...)
	t, err := scanSQLiteTask(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if isSQLiteTitleConflict(err) {
		return nil, ErrDuplicateTitle
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

// DeleteByID removes a record and returns it.
func (b *SQLiteBackend) DeleteByID(ctx context.Context, id string) (*task.Task, error) {
	row := b.db.QueryRowContext(ctx,
		"DELETE FROM tasks WHERE id = ? RETURNING "+sqliteTaskColumns, id)
	t, err := scanSQLiteTask(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}
	return t, nil
}

// CountByStatus returns the per-status counts over all records.
func (b *SQLiteBackend) CountByStatus(ctx context.Context) (map[task.Status]int, error) {
	rows, err := b.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM tasks GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by status: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := zeroStatusCounts()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[task.Status(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return counts, nil
}
