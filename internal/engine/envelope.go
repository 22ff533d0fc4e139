package engine

import (
	"errors"

	"taskmanager/internal/storage"
	"taskmanager/internal/task"
)

// Envelope shaping: every operation's outcome is converted into one of
// the structs below at the operation boundary. The identifier is
// always exposed as "id" (via the task.Task JSON tags) and no
// storage-internal fields ever appear.

// TaskEnvelope wraps a single-record success.
type TaskEnvelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Data    *task.Task `json:"data"`
}

// ListEnvelope wraps a listing success with pagination metadata.
type ListEnvelope struct {
	Success    bool        `json:"success"`
	Count      int         `json:"count"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	TotalPages int         `json:"totalPages"`
	HasNext    bool        `json:"hasNext"`
	HasPrev    bool        `json:"hasPrev"`
	Data       []task.Task `json:"data"`
}

// StatusListEnvelope wraps the unpaginated by-status listing.
type StatusListEnvelope struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Status  string      `json:"status"`
	Data    []task.Task `json:"data"`
}

// StatsEnvelope wraps the aggregate status counts.
type StatsEnvelope struct {
	Success bool   `json:"success"`
	Data    *Stats `json:"data"`
}

// ErrorEnvelope wraps any failure. Errors carries the ordered
// field-level messages for validation failures and is omitted
// otherwise.
type ErrorEnvelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// NewTaskEnvelope shapes a single-record success. msg may be empty.
func NewTaskEnvelope(t *task.Task, msg string) TaskEnvelope {
	return TaskEnvelope{Success: true, Message: msg, Data: t}
}

// NewListEnvelope shapes a listing success from a ListResult.
func NewListEnvelope(r *ListResult) ListEnvelope {
	return ListEnvelope{
		Success:    true,
		Count:      len(r.Tasks),
		Total:      r.Total,
		Page:       r.Page,
		TotalPages: r.TotalPages,
		HasNext:    r.HasNext,
		HasPrev:    r.HasPrev,
		Data:       r.Tasks,
	}
}

// NewStatusListEnvelope shapes a by-status listing success.
func NewStatusListEnvelope(status string, tasks []task.Task) StatusListEnvelope {
	return StatusListEnvelope{
		Success: true,
		Count:   len(tasks),
		Status:  status,
		Data:    tasks,
	}
}

// NewStatsEnvelope shapes an aggregation success.
func NewStatsEnvelope(st *Stats) StatsEnvelope {
	return StatsEnvelope{Success: true, Data: st}
}

// FailureKind classifies a failure for transport mapping (HTTP status
// codes, MCP error results).
type FailureKind int

const (
	// FailureInvalid covers malformed identifiers, field validation
	// failures, and empty updates.
	FailureInvalid FailureKind = iota

	// FailureNotFound covers lookups and mutations against an
	// identifier with no matching record.
	FailureNotFound

	// FailureDuplicate covers title uniqueness violations.
	FailureDuplicate

	// FailureStorage covers everything else: the record store is
	// unreachable or rejected the operation.
	FailureStorage
)

// User-visible failure messages.
const (
	MsgInvalidID      = "Invalid task ID format"
	MsgValidation     = "Validation error"
	MsgEmptyUpdate    = "No update data provided"
	MsgNotFound       = "Task not found"
	MsgDuplicateTitle = "A task with this title already exists"
)

// Classify maps an engine error onto its failure kind.
func Classify(err error) FailureKind {
	var ve *task.ValidationError
	switch {
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, task.ErrEmptyUpdate),
		errors.As(err, &ve):
		return FailureInvalid
	case errors.Is(err, storage.ErrNotFound):
		return FailureNotFound
	case errors.Is(err, storage.ErrDuplicateTitle):
		return FailureDuplicate
	default:
		return FailureStorage
	}
}

// FailureEnvelope shapes an engine error into an ErrorEnvelope and
// reports its kind.
//
// storageMsg is the operation-specific message used for storage
// failures (e.g., "Error fetching tasks"); client errors use their
// fixed messages. Validation failures additionally carry the ordered
// field-level messages.
func FailureEnvelope(err error, storageMsg string) (ErrorEnvelope, FailureKind) {
	kind := Classify(err)
	env := ErrorEnvelope{Success: false}

	switch {
	case errors.Is(err, ErrInvalidID):
		env.Message = MsgInvalidID
	case errors.Is(err, task.ErrEmptyUpdate):
		env.Message = MsgEmptyUpdate
	case errors.Is(err, storage.ErrNotFound):
		env.Message = MsgNotFound
	case errors.Is(err, storage.ErrDuplicateTitle):
		env.Message = MsgDuplicateTitle
	default:
		if ve, ok := task.AsValidationError(err); ok {
			env.Message = MsgValidation
			env.Errors = ve.Messages
		} else {
			env.Message = storageMsg
		}
	}

	return env, kind
}
