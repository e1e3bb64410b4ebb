package api

import "time"

// Common request/response structures

// TaskPayload is the client-supplied task object inside create and update
// requests. All fields are optional at the decoding layer; create semantics
// (title required, completed defaulting to false) are enforced by the domain.
type TaskPayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// TaskRequest is the envelope for create and update payloads:
// {"task": {...}}. A missing task object is a bad request.
type TaskRequest struct {
	Task *TaskPayload `json:"task"`
}

// TaskView is the output representation of a task. The highlight fields are
// only populated on list/search responses when a free-text query was active.
type TaskView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	HighlightedTitle   string `json:"highlighted_title,omitempty"`
	DescriptionExcerpt string `json:"description_excerpt,omitempty"`
}

// TaskEnvelope wraps a single task view: {"task": {...}}.
type TaskEnvelope struct {
	Task TaskView `json:"task"`
}

// PaginationMeta describes the window a list response covers.
type PaginationMeta struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	TotalCount  int `json:"total_count"`
	PerPage     int `json:"per_page"`
}

// FiltersSummary echoes which filter/search/sort parameters were recognized
// as active on a list request. Raw values are echoed as supplied; sort_by and
// sort_direction always carry their resolved values, defaults included.
type FiltersSummary struct {
	Completed         string `json:"completed,omitempty"`
	CreatedAfter      string `json:"created_after,omitempty"`
	CreatedBefore     string `json:"created_before,omitempty"`
	CreatedFrom       string `json:"created_from,omitempty"`
	CreatedTo         string `json:"created_to,omitempty"`
	SearchQuery       string `json:"search_query,omitempty"`
	TitleSearch       string `json:"title_search,omitempty"`
	DescriptionSearch string `json:"description_search,omitempty"`
	SortBy            string `json:"sort_by"`
	SortDirection     string `json:"sort_direction"`
}

// ListTasksResponse is the body of GET /tasks.
type ListTasksResponse struct {
	Tasks   []TaskView     `json:"tasks"`
	Meta    PaginationMeta `json:"meta"`
	Filters FiltersSummary `json:"filters"`
}

// SearchTasksResponse is the body of GET /tasks/search.
type SearchTasksResponse struct {
	Tasks        []TaskView     `json:"tasks"`
	Meta         PaginationMeta `json:"meta"`
	SearchQuery  string         `json:"search_query,omitempty"`
	SearchFields []string       `json:"search_fields"`
}
