// Package engine implements the task query/mutation engine: the
// validation, uniqueness, query-building, aggregation, and envelope
// rules the API layer enforces on every request.
//
// The engine owns no state beyond an injected storage.Store handle.
// Each operation is a sequential pipeline (validate, guard, query or
// mutate, shape) executed per request; the engine never retries a
// storage failure.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"taskmanager/internal/storage"
	"taskmanager/internal/task"
)

// ErrInvalidID is returned when a caller-supplied identifier is not
// syntactically well-formed. The store is never consulted in that
// case, keeping the condition distinct from not-found.
var ErrInvalidID = errors.New("invalid task ID format")

// Service is the task engine. Construct one per process with New and
// share it across requests; it is safe for concurrent use if the
// underlying store is.
type Service struct {
	store storage.Store
}

// New creates a Service backed by the given store.
func New(store storage.Store) *Service {
	return &Service{store: store}
}

// checkID validates identifier syntax before any storage access.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

// Create validates the payload, enforces title uniqueness, and
// persists a new task.
//
// The uniqueness guard is a pre-insert lookup by exact trimmed title.
// It is not atomic against a concurrent create with the same title;
// the backends close that race with a storage-level unique index, and
// a lost race surfaces as the same duplicate-title failure.
func (s *Service) Create(ctx context.Context, in task.CreateInput) (*task.Task, error) {
	fields, err := task.ValidateCreate(in)
	if err != nil {
		return nil, err
	}

	_, err = s.store.FindByTitle(ctx, fields.Title)
	switch {
	case err == nil:
		return nil, storage.ErrDuplicateTitle
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("uniqueness check failed: %w", err)
	}

	created, err := s.store.Insert(ctx, storage.NewTask{
		Title:       fields.Title,
		Description: fields.Description,
		Status:      fields.Status,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateTitle) {
			return nil, storage.ErrDuplicateTitle
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

// Get retrieves a task by identifier.
func (s *Service) Get(ctx context.Context, id string) (*task.Task, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	t, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}
	return t, nil
}

// Update validates the partial payload and applies it to an existing
// task. Only title, description, and status are mutable; id and
// createdAt never change, and updatedAt is refreshed by the store.
func (s *Service) Update(ctx context.Context, id string, in task.UpdateInput) (*task.Task, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	patch, err := task.ValidateUpdate(in)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateByID(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, storage.ErrNotFound
		case errors.Is(err, storage.ErrDuplicateTitle):
			return nil, storage.ErrDuplicateTitle
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return updated, nil
}

// Delete removes a task and returns the deleted record. The
// identifier is never reused afterwards.
func (s *Service) Delete(ctx context.Context, id string) (*task.Task, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	deleted, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}
	return deleted, nil
}
