package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"taskmanager/internal/task"
)

// MemoryBackend implements Store with an in-process map.
//
// It mirrors the filter, sort, and pagination semantics of the SQL
// backends so the engine and transport layers can be tested without a
// database. It is also selectable via the factory as an ephemeral
// development backend; records do not survive a restart.
type MemoryBackend struct {
	mu    sync.RWMutex
	tasks map[string]task.Task
}

// NewMemoryBackend creates an empty in-memory store.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		tasks: make(map[string]task.Task),
	}
}

// matches reports whether t satisfies f.
func matches(t task.Task, f Filter) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	return true
}

// snapshot returns all records matching f, newest first. Caller must
// hold at least a read lock.
func (b *MemoryBackend) snapshot(f Filter) []task.Task {
	out := make([]task.Task, 0, len(b.tasks))
	for _, t := range b.tasks {
		if matches(t, f) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		// UUIDv7 ids are time-ordered, so id order breaks ties
		// deterministically in favor of the later insert.
		return out[i].ID > out[j].ID
	})
	return out
}

// Find returns the page of records matching q, newest first.
func (b *MemoryBackend) Find(_ context.Context, q Query) ([]task.Task, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	all := b.snapshot(q.Filter)
	if q.Offset >= len(all) {
		return []task.Task{}, nil
	}
	all = all[q.Offset:]
	if q.Limit > 0 && q.Limit < len(all) {
		all = all[:q.Limit]
	}
	return all, nil
}

// Count returns the number of records matching f.
func (b *MemoryBackend) Count(_ context.Context, f Filter) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, t := range b.tasks {
		if matches(t, f) {
			n++
		}
	}
	return n, nil
}

// FindByID retrieves a single record by identifier.
func (b *MemoryBackend) FindByID(_ context.Context, id string) (*task.Task, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	t, ok := b.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

// FindByTitle retrieves the record with an exactly matching title.
func (b *MemoryBackend) FindByTitle(_ context.Context, title string) (*task.Task, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, t := range b.tasks {
		if t.Title == title {
			found := t
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// Insert persists a new record, assigning its id and timestamps.
func (b *MemoryBackend) Insert(_ context.Context, nt NewTask) (*task.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, existing := range b.tasks {
		if existing.Title == nt.Title {
			return nil, ErrDuplicateTitle
		}
	}

	now := time.Now().UTC()
	t := task.Task{
		ID:          newID(),
		Title:       nt.Title,
		Description: nt.Description,
		Status:      nt.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.tasks[t.ID] = t
	return &t, nil
}

// UpdateByID applies the non-nil fields of patch and refreshes
// updatedAt.
func (b *MemoryBackend) UpdateByID(_ context.Context, id string, patch task.Patch) (*task.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}

	if patch.Title != nil {
		for otherID, other := range b.tasks {
			if otherID != id && other.Title == *patch.Title {
				return nil, ErrDuplicateTitle
			}
		}
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	t.UpdatedAt = time.Now().UTC()

	b.tasks[id] = t
	return &t, nil
}

// DeleteByID removes a record and returns it.
func (b *MemoryBackend) DeleteByID(_ context.Context, id string) (*task.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(b.tasks, id)
	return &t, nil
}

// CountByStatus returns the per-status counts over all records.
func (b *MemoryBackend) CountByStatus(_ context.Context) (map[task.Status]int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	counts := zeroStatusCounts()
	for _, t := range b.tasks {
		counts[t.Status]++
	}
	return counts, nil
}

// Close is a no-op for the in-memory backend.
func (b *MemoryBackend) Close() error {
	return nil
}
