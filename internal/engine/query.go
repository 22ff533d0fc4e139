package engine

import (
	"context"
	"fmt"
	"strconv"

	"taskmanager/internal/storage"
	"taskmanager/internal/task"
)

// Pagination defaults and bounds for listing.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListRequest carries the raw, untrusted listing parameters exactly as
// received from a client. All fields are optional.
type ListRequest struct {
	// Status filters the listing when it is a valid enum value.
	// Invalid values are ignored, not errored: the filter is simply
	// omitted. (Contrast with create/update, where an invalid status
	// is a hard validation error.)
	Status string

	// Search matches case-insensitively against title or description.
	Search string

	// Page and Limit are raw strings; non-numeric or out-of-range
	// input collapses to the defaults and clamps.
	Page  string
	Limit string
}

// ListResult is one page of the listing plus its pagination metadata.
type ListResult struct {
	Tasks      []task.Task
	Total      int
	Page       int
	Limit      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// parsePage coerces raw page input: parsed value or DefaultPage,
// floor-clamped to 1.
func parsePage(raw string) int {
	page := DefaultPage
	if n, err := strconv.Atoi(raw); err == nil {
		page = n
	}
	if page < 1 {
		page = 1
	}
	return page
}

// parseLimit coerces raw limit input: parsed value or DefaultLimit,
// clamped to [1, MaxLimit].
func parseLimit(raw string) int {
	limit := DefaultLimit
	if n, err := strconv.Atoi(raw); err == nil {
		limit = n
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return limit
}

// buildFilter translates raw status/search inputs into a storage
// filter, dropping an invalid status rather than erroring.
func buildFilter(status, search string) storage.Filter {
	var f storage.Filter
	if parsed, ok := task.ParseStatus(status); ok {
		f.Status = parsed
	}
	f.Search = search
	return f
}

// List returns the page of tasks matching req, newest first, along
// with the total match count and derived pagination metadata.
func (s *Service) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	page := parsePage(req.Page)
	limit := parseLimit(req.Limit)
	filter := buildFilter(req.Status, req.Search)

	tasks, err := s.store.Find(ctx, storage.Query{
		Filter: filter,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	totalPages := (total + limit - 1) / limit

	return &ListResult{
		Tasks:      tasks,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}

// ListByStatus returns all tasks in the given status, newest first,
// without pagination.
//
// Unlike the List status filter, the status here is required to be
// valid: an unknown value is a validation failure, matching the
// dedicated by-status endpoint's contract.
func (s *Service) ListByStatus(ctx context.Context, status string) ([]task.Task, error) {
	parsed, ok := task.ParseStatus(status)
	if !ok {
		return nil, &task.ValidationError{Messages: []string{
			fmt.Sprintf("Invalid status. Must be: %s, %s, or %s",
				task.StatusPending, task.StatusInProgress, task.StatusCompleted),
		}}
	}

	tasks, err := s.store.Find(ctx, storage.Query{
		Filter: storage.Filter{Status: parsed},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks by status: %w", err)
	}
	return tasks, nil
}

// Stats holds the aggregate status counts over the entire collection.
// The JSON field names match the public envelope, including the
// hyphenated in-progress key.
type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in-progress"`
	Completed  int `json:"completed"`
}

// Stats computes per-status counts plus the grand total over the
// whole, unfiltered collection.
//
// Total is the sum of the three per-status counts, so the invariant
// total == pending + in-progress + completed holds by construction,
// including for the empty population.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate task stats: %w", err)
	}

	st := &Stats{
		Pending:    counts[task.StatusPending],
		InProgress: counts[task.StatusInProgress],
		Completed:  counts[task.StatusCompleted],
	}
	st.Total = st.Pending + st.InProgress + st.Completed
	return st, nil
}
