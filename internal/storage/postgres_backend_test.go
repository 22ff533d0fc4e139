package storage_test

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"taskmanager/internal/storage"
	"taskmanager/internal/task"
)

// dockerAvailable checks whether the Docker daemon is reachable.
// testcontainers-go panics (rather than returning an error) when Docker
// is not installed, so we probe for it up-front.
func dockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	return cmd.Run() == nil
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// newTestPostgresBackend spins up a PostgreSQL 16 container via
// testcontainers-go and returns a fully initialised PostgresBackend.
// If Docker is not available the test is skipped.
func newTestPostgresBackend(t *testing.T) *storage.PostgresBackend {
	t.Helper()

	if !dockerAvailable() {
		t.Skip("Docker not available, skipping PostgreSQL integration tests")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("failed to start PostgreSQL container: %v", err)
	}

	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	backend, err := storage.NewPostgresBackend(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	t.Cleanup(func() { _ = backend.Close() })

	return backend
}

// ---------------------------------------------------------------------------
// CRUD tests
// ---------------------------------------------------------------------------

func Test_PostgresBackend_Insert_Roundtrip(t *testing.T) {
	b := newTestPostgresBackend(t)
	ctx := context.Background()

	created, err := b.Insert(ctx, newTask("write tests", "cover the backend", task.StatusInProgress))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := b.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}

	if got.Title != created.Title {
		t.Errorf("Title: got %q, want %q", got.Title, created.Title)
	}
	if got.Description != created.Description {
		t.Errorf("Description: got %q, want %q", got.Description, created.Description)
	}
	if got.Status != created.Status {
		t.Errorf("Status: got %q, want %q", got.Status, created.Status)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, created.CreatedAt)
	}
}

func Test_PostgresBackend_Insert_DuplicateTitleIndex(t *testing.T) {
	b := newTestPostgresBackend(t)
	ctx := context.Background()

	if _, err := b.Insert(ctx, newTask("one of a kind", "d", task.StatusPending)); err != nil {
		t.Fatalf("first Insert: %v", err)
	}

	_, err := b.Insert(ctx, newTask("one of a kind", "other", task.StatusCompleted))
	if !errors.Is(err, storage.ErrDuplicateTitle) {
		t.Fatalf("expected ErrDuplicateTitle, got %v", err)
	}
}

func Test_PostgresBackend_FindByID_NotFound(t *testing.T) {
	b := newTestPostgresBackend(t)

	_, err := b.FindByID(context.Background(), "no-such-id")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func Test_PostgresBackend_Find_FilterSearchPagination(t *testing.T) {
	b := newTestPostgresBackend(t)
	ctx := context.Background()

	seedTasks(t, b,
		newTask("fix auth bug", "login fails", task.StatusPending),
		newTask("fix css bug", "layout breaks", task.StatusPending),
		newTask("fix db bug", "pool leaks", task.StatusPending),
		newTask("fix api bug", "timeout", task.StatusCompleted),
		newTask("write changelog", "for release", task.StatusPending),
	)

	filter := storage.Filter{Status: task.StatusPending, Search: "FIX"}

	total, err := b.Count(ctx, filter)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 3 {
		t.Fatalf("filtered count: got %d, want 3", total)
	}

	page1, err := b.Find(ctx, storage.Query{Filter: filter, Offset: 0, Limit: 2})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(page1) != 2 {
		t.Fatalf("expected 2 tasks on page 1, got %d", len(page1))
	}
	if page1[0].Title != "fix db bug" || page1[1].Title != "fix css bug" {
		t.Errorf("page 1 ordering: got %v", taskTitles(page1))
	}
}

func Test_PostgresBackend_UpdateByID(t *testing.T) {
	b := newTestPostgresBackend(t)
	ctx := context.Background()

	created, err := b.Insert(ctx, newTask("original", "original desc", task.StatusPending))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	status := task.StatusCompleted
	updated, err := b.UpdateByID(ctx, created.ID, task.Patch{Status: &status})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}

	if updated.Status != task.StatusCompleted {
		t.Errorf("Status: got %q, want %q", updated.Status, task.StatusCompleted)
	}
	if updated.Title != "original" {
		t.Errorf("Title changed unexpectedly: got %q", updated.Title)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt changed: got %v, want %v", updated.CreatedAt, created.CreatedAt)
	}

	title := "anything"
	if _, err := b.UpdateByID(ctx, "missing", task.Patch{Title: &title}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing id, got %v", err)
	}
}

func Test_PostgresBackend_DeleteByID(t *testing.T) {
	b := newTestPostgresBackend(t)
	ctx := context.Background()

	created, err := b.Insert(ctx, newTask("doomed", "d", task.StatusPending))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	deleted, err := b.DeleteByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if deleted.ID != created.ID {
		t.Errorf("deleted record id: got %q, want %q", deleted.ID, created.ID)
	}

	if _, err := b.FindByID(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func Test_PostgresBackend_CountByStatus(t *testing.T) {
	b := newTestPostgresBackend(t)
	ctx := context.Background()

	seedTasks(t, b,
		newTask("p1", "d", task.StatusPending),
		newTask("c1", "d", task.StatusCompleted),
		newTask("c2", "d", task.StatusCompleted),
	)

	counts, err := b.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[task.StatusPending] != 1 {
		t.Errorf("pending: got %d, want 1", counts[task.StatusPending])
	}
	if counts[task.StatusInProgress] != 0 {
		t.Errorf("in-progress: got %d, want 0", counts[task.StatusInProgress])
	}
	if counts[task.StatusCompleted] != 2 {
		t.Errorf("completed: got %d, want 2", counts[task.StatusCompleted])
	}
}
