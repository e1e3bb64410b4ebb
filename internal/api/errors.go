package api

import (
	"errors"
	"net/http"

	"github.com/taskboard/task-api/internal/domain"
	"github.com/taskboard/task-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case domain.IsValidationError(err):
		return http.StatusUnprocessableEntity

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrInvalidEntity), errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid task data"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"

	default:
		return "An unexpected error occurred"
	}
}

// ValidationMessages converts a domain validation error into the list of
// human-readable, field-level messages returned by 422 responses.
func ValidationMessages(err error) []string {
	switch {
	case errors.Is(err, domain.ErrTaskTitleEmpty):
		return []string{"Title can't be blank"}
	case errors.Is(err, domain.ErrTaskTitleTooLong):
		return []string{"Title is too long (maximum is 255 characters)"}
	default:
		return []string{"Validation failed"}
	}
}
