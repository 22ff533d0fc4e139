// Package task defines the Task entity, its status enum, and the
// validation rules applied to create and update payloads.
//
// Everything in this package is pure: validation never touches storage,
// and storage backends depend on these types rather than the other way
// around.
package task

import "time"

// Status is the lifecycle state of a task.
//
// The set is closed: only the three constants below are ever persisted.
// There is no transition graph; any status may move to any other status
// via an update, with no side effects tied to a particular transition.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses returns all valid statuses in their canonical order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}

// ParseStatus converts a raw string into a Status.
//
// Returns false if the string is not exactly one of the three enum
// literals. No trimming or case folding is applied; "Pending" is invalid.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusInProgress, StatusCompleted:
		return Status(s), true
	}
	return "", false
}

// Valid reports whether s is a member of the status enum.
func (s Status) Valid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}

// Task is the sole persisted entity: one unit of work with a title,
// description, and status.
//
// The JSON tags use camelCase to match the public API envelope. The
// identifier is always exposed as "id" regardless of how a backend
// stores it; no storage-internal fields appear here.
type Task struct {
	// ID is an opaque identifier assigned by the store on creation.
	// Immutable and never reused after deletion.
	ID string `json:"id"`

	// Title is non-empty, 1-100 characters after trimming, and unique
	// across all live tasks (case-sensitive exact match).
	Title string `json:"title"`

	// Description is non-empty, 1-500 characters after trimming.
	Description string `json:"description"`

	// Status is always a member of the status enum.
	Status Status `json:"status"`

	// CreatedAt is set once at creation and never changes.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is set at creation and refreshed on every successful
	// mutation. Always >= CreatedAt.
	UpdatedAt time.Time `json:"updatedAt"`
}
