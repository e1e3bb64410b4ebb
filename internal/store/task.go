package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskboard/task-api/internal/domain"
)

// TaskPage is the result of a list query: one page of tasks plus the total
// number of records matching the query's predicates (ignoring pagination).
type TaskPage struct {
	Tasks      []*domain.Task
	TotalCount int
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors if the task data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update applies a partial update to an existing task. The record is
	// read, patched, re-validated, and written back atomically.
	// Returns ErrTaskNotFound if the task does not exist and validation
	// errors if the patched record is invalid; in both cases the stored
	// record is left unchanged.
	Update(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// Delete removes a task from the store by its ID. Deletion is permanent.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List executes a composed query (filters, search, sort, pagination)
	// and returns the requested page together with the total matching count.
	// Out-of-range pages yield an empty page, not an error.
	List(ctx context.Context, query TaskQuery) (*TaskPage, error)
}
