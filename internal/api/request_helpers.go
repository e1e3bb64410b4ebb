package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskboard/task-api/internal/domain"
	"github.com/taskboard/task-api/internal/store"
)

// getPathUUID extracts and parses a UUID path parameter. A missing or
// malformed value yields a domain.ErrInvalidID wrapper that maps to a
// bad-request response.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: missing %s", domain.ErrInvalidID, paramName)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", domain.ErrInvalidID, paramName)
	}

	return id, nil
}

// listParamsFromQuery lifts the raw URL query parameters of a list request
// into a store.ListParams. Values are passed through untouched; all
// interpretation happens in store.BuildTaskQuery.
func listParamsFromQuery(r *http.Request) store.ListParams {
	q := r.URL.Query()
	return store.ListParams{
		Q:             q.Get("q"),
		Title:         q.Get("title"),
		Description:   q.Get("description"),
		Completed:     q.Get("completed"),
		CreatedAfter:  q.Get("created_after"),
		CreatedBefore: q.Get("created_before"),
		CreatedFrom:   q.Get("created_from"),
		CreatedTo:     q.Get("created_to"),
		SortBy:        q.Get("sort_by"),
		SortDirection: q.Get("sort_direction"),
		Page:          q.Get("page"),
		PerPage:       q.Get("per_page"),
	}
}
