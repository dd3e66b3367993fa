// Package store defines the persistence interfaces and errors shared by
// the HTTP layer and the storage implementations.
package store

import (
	"context"

	"github.com/lanning/taskstore/internal/domain"
)

// CreateTaskInput carries the fields accepted when creating a task.
// Zero values fall back to the documented defaults: empty description,
// status "todo", priority 0, no tags, no due date.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    int
	Tags        string
	DueDate     string
}

// UpdateTaskInput carries a partial update. A nil field is left untouched;
// a non-nil field is validated and applied. An explicit JSON null in the
// request surfaces here as a pointer to the zero value, so a null title
// fails validation and a null due date clears the stored date.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *int
	Tags        *string
	DueDate     *string
}

// ListFilter holds the optional filters for a task listing. Empty string
// fields are treated as absent. Filters compose with logical AND.
type ListFilter struct {
	// Query matches case-insensitively as a substring against the task
	// title or description.
	Query string

	// Status is an exact status match.
	Status string

	// Tag matches case-insensitively against whole tag tokens.
	Tag string

	// DueBefore and DueAfter are inclusive YYYY-MM-DD bounds on the due
	// date. Tasks without a due date never match either bound.
	DueBefore string
	DueAfter  string

	// Sort is restricted to created_at, updated_at, due_date, priority,
	// title and status; any other value silently falls back to
	// created_at. Order is restricted to asc and desc, falling back to
	// desc.
	Sort  string
	Order string
}

// TaskStore defines the interface for task persistence and retrieval.
// All validation happens inside the implementation before any mutation is
// applied, so a validation failure never leaves a partial write behind.
type TaskStore interface {
	// Create validates the input, assigns an id and timestamps, persists
	// the task and returns the stored record. Returns
	// domain.ErrTitleRequired, domain.ErrInvalidStatus or
	// domain.ErrInvalidDate on invalid input.
	Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error)

	// GetByID retrieves a task by its id.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// List returns the tasks matching the filter, in the requested order.
	// An empty result is not an error. Returns domain.ErrInvalidDate if a
	// due-date bound is malformed.
	List(ctx context.Context, filter ListFilter) ([]*domain.Task, error)

	// Update applies a partial update to an existing task and returns the
	// updated record. The updated_at timestamp is always recomputed, even
	// when no field changes value. Returns ErrTaskNotFound if the task
	// does not exist, plus the same validation errors as Create for any
	// supplied field.
	Update(ctx context.Context, id int64, input UpdateTaskInput) (*domain.Task, error)

	// Delete permanently removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// Toggle flips a task's status: done becomes todo, anything else
	// becomes done. Implemented as fetch + update, so it recomputes
	// updated_at. Returns ErrTaskNotFound if the task does not exist.
	Toggle(ctx context.Context, id int64) (*domain.Task, error)
}
