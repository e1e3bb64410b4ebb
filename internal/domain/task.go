package domain

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTitleLength is the maximum number of characters allowed in a task title.
const MaxTitleLength = 255

// Common validation errors for Task
var (
	ErrTaskIDEmpty      = errors.New("task ID cannot be empty")
	ErrTaskTitleEmpty   = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong = errors.New("task title cannot exceed 255 characters")
	ErrTaskTimestamps   = errors.New("task updated_at cannot precede created_at")
)

// Task represents a single unit of work tracked by the application.
// Title is required; Description is free text and may be empty.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskPatch describes a partial update to a task. Nil fields are
// left unchanged by Apply.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// NewTask creates a new Task with the given title, description, and
// completion state. It generates a new UUID for the task ID and sets the
// creation/update timestamps.
// Returns an error if validation fails.
func NewTask(title, description string, completed bool) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Completed:   completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.Title == "" {
		return ErrTaskTitleEmpty
	}

	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return ErrTaskTitleTooLong
	}

	if !t.UpdatedAt.IsZero() && t.UpdatedAt.Before(t.CreatedAt) {
		return ErrTaskTimestamps
	}

	return nil
}

// Apply applies a partial update to the task and refreshes the UpdatedAt
// timestamp. The full record is re-validated after the patch; if validation
// fails the task is restored to its previous state and the error is returned.
func (t *Task) Apply(patch TaskPatch) error {
	orig := *t

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}

	if err := t.Validate(); err != nil {
		*t = orig
		return err
	}

	t.UpdatedAt = time.Now().UTC()
	return nil
}

// IsValidationError reports whether err is one of the task validation errors.
// These surface to API callers as unprocessable-entity responses rather than
// internal failures.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrTaskTitleEmpty) ||
		errors.Is(err, ErrTaskTitleTooLong) ||
		errors.Is(err, ErrTaskIDEmpty) ||
		errors.Is(err, ErrTaskTimestamps)
}
