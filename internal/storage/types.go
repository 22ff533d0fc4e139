// Package storage provides the task record store: the interface and
// backends holding durable, indexed Task records.
//
// All backends implement the Store interface. The engine never talks to
// a database directly; it only sees Store, so backends are swappable at
// assembly time via the factory in this package.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"taskmanager/internal/task"
)

// ErrNotFound is returned by lookups and mutations when no record
// matches the given identifier.
var ErrNotFound = errors.New("task not found")

// ErrDuplicateTitle is returned when an insert or update would violate
// the title uniqueness constraint at the storage layer. The engine
// performs its own pre-insert lookup; this sentinel covers the race
// window where two concurrent creates pass that check simultaneously.
var ErrDuplicateTitle = errors.New("task title already exists")

// Filter is a predicate over stored records used for listing and
// counting.
type Filter struct {
	// Status restricts matches to a single status when non-empty.
	Status task.Status

	// Search restricts matches to records whose title or description
	// contains this substring, case-insensitively. Empty means no text
	// filter.
	Search string
}

// Query combines a filter with a pagination window.
//
// Results are always ordered newest-first (createdAt descending); the
// sort is fixed and not client-configurable. A Limit <= 0 means no
// limit (used by the unpaginated by-status listing).
type Query struct {
	Filter Filter
	Offset int
	Limit  int
}

// NewTask holds the validated fields for an insert. The store assigns
// the identifier and both timestamps.
type NewTask struct {
	Title       string
	Description string
	Status      task.Status
}

// Store is the contract every task record backend implements.
//
// Absent records surface as ErrNotFound, lost uniqueness races as
// ErrDuplicateTitle; any other error is a storage failure the caller
// surfaces immediately without retrying.
type Store interface {
	// Find returns the page of records matching q, newest first.
	Find(ctx context.Context, q Query) ([]task.Task, error)

	// Count returns the number of records matching f, ignoring
	// pagination.
	Count(ctx context.Context, f Filter) (int, error)

	// FindByID retrieves a single record by identifier.
	FindByID(ctx context.Context, id string) (*task.Task, error)

	// FindByTitle retrieves the record whose title exactly equals
	// title, if any. Used by the uniqueness guard before inserting.
	FindByTitle(ctx context.Context, title string) (*task.Task, error)

	// Insert persists a new record, assigning its id and timestamps,
	// and returns the stored record.
	Insert(ctx context.Context, nt NewTask) (*task.Task, error)

	// UpdateByID applies the non-nil fields of patch and refreshes
	// updatedAt, returning the updated record.
	UpdateByID(ctx context.Context, id string, patch task.Patch) (*task.Task, error)

	// DeleteByID removes a record and returns it as it was stored.
	DeleteByID(ctx context.Context, id string) (*task.Task, error)

	// CountByStatus returns the number of records in each status over
	// the entire collection. Statuses with no records are present in
	// the map with a zero count.
	CountByStatus(ctx context.Context) (map[task.Status]int, error)

	// Close releases the backend's resources.
	Close() error
}

// newID returns a fresh task identifier.
//
// UUIDv7 identifiers are time-ordered, which makes them a stable
// tie-breaker when two records share a createdAt timestamp.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// zeroStatusCounts returns a status count map with every enum member
// present at zero, so absent statuses report 0 rather than absence.
func zeroStatusCounts() map[task.Status]int {
	counts := make(map[task.Status]int, 3)
	for _, s := range task.Statuses() {
		counts[s] = 0
	}
	return counts
}
