package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/task-api/internal/api"
	"github.com/taskboard/task-api/internal/domain"
	"github.com/taskboard/task-api/internal/store"
)

// fakeTaskStore implements store.TaskStore with function fields so each test
// can plug in exactly the behavior it needs.
type fakeTaskStore struct {
	createFn  func(ctx context.Context, task *domain.Task) error
	getByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	updateFn  func(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)
	deleteFn  func(ctx context.Context, id uuid.UUID) error
	listFn    func(ctx context.Context, query store.TaskQuery) (*store.TaskPage, error)
}

func (f *fakeTaskStore) Create(ctx context.Context, task *domain.Task) error {
	return f.createFn(ctx, task)
}

func (f *fakeTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	return f.updateFn(ctx, id, patch)
}

func (f *fakeTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeTaskStore) List(
	ctx context.Context,
	query store.TaskQuery,
) (*store.TaskPage, error) {
	return f.listFn(ctx, query)
}

// newTestRouter mounts the handler on the same routes the server uses.
func newTestRouter(taskStore store.TaskStore) http.Handler {
	handler := api.NewTaskHandler(taskStore, slog.Default())

	r := chi.NewRouter()
	r.Route("/api/v1/tasks", func(r chi.Router) {
		r.Get("/", handler.List)
		r.Get("/search", handler.Search)
		r.Post("/", handler.Create)
		r.Get("/{id}", handler.Get)
		r.Patch("/{id}", handler.Update)
		r.Delete("/{id}", handler.Delete)
	})
	return r
}

func newStoredTask(t *testing.T, title, description string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(title, description, false)
	require.NoError(t, err)
	return task
}

func doRequest(t *testing.T, handler http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func TestTaskHandlerList(t *testing.T) {
	t.Parallel()

	t.Run("default query reaches the store with defaults resolved", func(t *testing.T) {
		t.Parallel()
		var captured store.TaskQuery
		router := newTestRouter(&fakeTaskStore{
			listFn: func(ctx context.Context, query store.TaskQuery) (*store.TaskPage, error) {
				captured = query
				return &store.TaskPage{Tasks: []*domain.Task{}, TotalCount: 0}, nil
			},
		})

		rec := doRequest(t, router, http.MethodGet, "/api/v1/tasks", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, store.DefaultPage, captured.Page)
		assert.Equal(t, store.DefaultPerPage, captured.PerPage)
		assert.Equal(t, store.SortByCreatedAt, captured.SortBy)
		assert.Equal(t, store.SortDesc, captured.SortDirection)
		assert.Nil(t, captured.Completed)

		var resp api.ListTasksResponse
		decodeBody(t, rec, &resp)
		assert.NotNil(t, resp.Tasks)
		assert.Empty(t, resp.Tasks)
		assert.Equal(t, 0, resp.Meta.TotalPages)
		assert.Equal(t, "created_at", resp.Filters.SortBy)
		assert.Equal(t, "desc", resp.Filters.SortDirection)
	})

	t.Run("out-of-range page returns empty list with full metadata", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&fakeTaskStore{
			listFn: func(ctx context.Context, query store.TaskQuery) (*store.TaskPage, error) {
				// 15 matching records, but page 4 of 5-per-page is past the end.
				return &store.TaskPage{Tasks: []*domain.Task{}, TotalCount: 15}, nil
			},
		})

		rec := doRequest(t, router, http.MethodGet, "/api/v1/tasks?page=4&per_page=5", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp api.ListTasksResponse
		decodeBody(t, rec, &resp)
		assert.Empty(t, resp.Tasks)
		assert.Equal(t, 4, resp.Meta.CurrentPage)
		assert.Equal(t, 3, resp.Meta.TotalPages)
		assert.Equal(t, 15, resp.Meta.TotalCount)
		assert.Equal(t, 5, resp.Meta.PerPage)
	})

	t.Run("free-text search adds highlight fields", func(t *testing.T) {
		t.Parallel()
		task := newStoredTask(t, "Implementare API REST", "Design the API surface first.")
		router := newTestRouter(&fakeTaskStore{
			listFn: func(ctx context.Context, query store.TaskQuery) (*store.TaskPage, error) {
				return &store.TaskPage{Tasks: []*domain.Task{task}, TotalCount: 1}, nil
			},
		})

		rec := doRequest(t, router, http.MethodGet, "/api/v1/tasks?q=API", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp api.ListTasksResponse
		decodeBody(t, rec, &resp)
		require.Len(t, resp.Tasks, 1)
		assert.Equal(t, "Implementare <mark>API</mark> REST", resp.Tasks[0].HighlightedTitle)
		assert.Contains(t, resp.Tasks[0].DescriptionExcerpt, "<mark>API</mark>")
		assert.Equal(t, "API", resp.Filters.SearchQuery)
	})

	t.Run("no search term means no highlight fields", func(t *testing.T) {
		t.Parallel()
		task := newStoredTask(t, "Plain task", "No search active.")
		router := newTestRouter(&fakeTaskStore{
			listFn: func(ctx context.Context, query store.TaskQuery) (*store.TaskPage, error) {
				return &store.TaskPage{Tasks: []*domain.Task{task}, TotalCount: 1}, nil
			},
		})

		rec := doRequest(t, router, http.MethodGet, "/api/v1/tasks", "")

		var raw map[string]any
		decodeBody(t, rec, &raw)
		tasks, ok := raw["tasks"].([]any)
		require.True(t, ok)
		require.Len(t, tasks, 1)
		first, ok := tasks[0].(map[string]any)
		require.True(t, ok)
		assert.NotContains(t, first, "highlighted_title")
		assert.NotContains(t, first, "description_excerpt")
	})

	t.Run("filters echo raw recognized values", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&fakeTaskStore{
			listFn: func(ctx context.Context, query store.TaskQuery) (*store.TaskPage, error) {
				return &store.TaskPage{Tasks: []*domain.Task{}, TotalCount: 0}, nil
			},
		})

		rec := doRequest(t, router, http.MethodGet,
			"/api/v1/tasks?completed=true&created_after=2025-01-01&sort_by=title", "")

		var resp api.ListTasksResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "true", resp.Filters.Completed)
		assert.Equal(t, "2025-01-01", resp.Filters.CreatedAfter)
		assert.Equal(t, "title", resp.Filters.SortBy)
		assert.Equal(t, "asc", resp.Filters.SortDirection)
	})

	t.Run("store failure maps to 500", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&fakeTaskStore{
			listFn: func(ctx context.Context, query store.TaskQuery) (*store.TaskPage, error) {
				return nil, assert.AnError
			},
		})

		rec := doRequest(t, router, http.MethodGet, "/api/v1/tasks", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestTaskHandlerSearch(t *testing.T) {
	t.Parallel()

	t.Run("filter parameters do not participate", func(t *testing.T) {
		t.Parallel()
		var captured store.TaskQuery
		router := newTestRouter(&fakeTaskStore{
			listFn: func(ctx context.Context, query store.TaskQuery) (*store.TaskPage, error) {
				captured = query
				return &store.TaskPage{Tasks: []*domain.Task{}, TotalCount: 0}, nil
			},
		})

		rec := doRequest(t, router, http.MethodGet,
			"/api/v1/tasks/search?q=report&completed=true&created_after=2025-01-01", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "report", captured.Text)
		assert.Nil(t, captured.Completed)
		assert.Nil(t, captured.CreatedAfter)
	})

	t.Run("response carries the query and searched fields", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&fakeTaskStore{
			listFn: func(ctx context.Context, query store.TaskQuery) (*store.TaskPage, error) {
				return &store.TaskPage{Tasks: []*domain.Task{}, TotalCount: 0}, nil
			},
		})

		rec := doRequest(t, router, http.MethodGet,
			"/api/v1/tasks/search?q=report&title=weekly&description=draft", "")

		var resp api.SearchTasksResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "report", resp.SearchQuery)
		assert.Equal(t, []string{"title", "description"}, resp.SearchFields)
	})
}

func TestTaskHandlerGet(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		task := newStoredTask(t, "Read me", "")
		router := newTestRouter(&fakeTaskStore{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
				assert.Equal(t, task.ID, id)
				return task, nil
			},
		})

		rec := doRequest(t, router, http.MethodGet, "/api/v1/tasks/"+task.ID.String(), "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp api.TaskEnvelope
		decodeBody(t, rec, &resp)
		assert.Equal(t, task.ID.String(), resp.Task.ID)
		assert.Equal(t, "Read me", resp.Task.Title)
		assert.Empty(t, resp.Task.HighlightedTitle)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&fakeTaskStore{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
				return nil, store.ErrTaskNotFound
			},
		})

		rec := doRequest(t, router, http.MethodGet, "/api/v1/tasks/"+uuid.NewString(), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var resp map[string]any
		decodeBody(t, rec, &resp)
		assert.Equal(t, "Task not found", resp["error"])
	})

	t.Run("malformed id returns 400", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&fakeTaskStore{})

		rec := doRequest(t, router, http.MethodGet, "/api/v1/tasks/not-a-uuid", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskHandlerCreate(t *testing.T) {
	t.Parallel()

	t.Run("valid payload creates and returns 201", func(t *testing.T) {
		t.Parallel()
		var created *domain.Task
		router := newTestRouter(&fakeTaskStore{
			createFn: func(ctx context.Context, task *domain.Task) error {
				created = task
				return nil
			},
		})

		body := `{"task": {"title": "New task", "description": "Details", "completed": true}}`
		rec := doRequest(t, router, http.MethodPost, "/api/v1/tasks", body)

		assert.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, created)
		assert.Equal(t, "New task", created.Title)
		assert.True(t, created.Completed)

		var resp api.TaskEnvelope
		decodeBody(t, rec, &resp)
		assert.Equal(t, created.ID.String(), resp.Task.ID)
		assert.WithinDuration(t, time.Now().UTC(), resp.Task.CreatedAt, time.Minute)
	})

	t.Run("missing task envelope returns 400", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&fakeTaskStore{})

		rec := doRequest(t, router, http.MethodPost, "/api/v1/tasks", `{"title": "bare"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp map[string]any
		decodeBody(t, rec, &resp)
		assert.Equal(t, "Task payload is required", resp["error"])
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&fakeTaskStore{})

		rec := doRequest(t, router, http.MethodPost, "/api/v1/tasks", `{"task": `)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty title returns 422 with field message", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&fakeTaskStore{})

		rec := doRequest(t, router, http.MethodPost, "/api/v1/tasks", `{"task": {"title": ""}}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var resp struct {
			Errors []string `json:"errors"`
		}
		decodeBody(t, rec, &resp)
		assert.Equal(t, []string{"Title can't be blank"}, resp.Errors)
	})

	t.Run("overlong title returns 422", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&fakeTaskStore{})

		body := `{"task": {"title": "` + strings.Repeat("x", domain.MaxTitleLength+1) + `"}}`
		rec := doRequest(t, router, http.MethodPost, "/api/v1/tasks", body)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var resp struct {
			Errors []string `json:"errors"`
		}
		decodeBody(t, rec, &resp)
		assert.Equal(t, []string{"Title is too long (maximum is 255 characters)"}, resp.Errors)
	})
}

func TestTaskHandlerUpdate(t *testing.T) {
	t.Parallel()

	t.Run("partial update returns the patched task", func(t *testing.T) {
		t.Parallel()
		task := newStoredTask(t, "Before", "Keep me")
		router := newTestRouter(&fakeTaskStore{
			updateFn: func(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error) {
				require.NoError(t, task.Apply(patch))
				return task, nil
			},
		})

		body := `{"task": {"title": "After"}}`
		rec := doRequest(t, router, http.MethodPatch, "/api/v1/tasks/"+task.ID.String(), body)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp api.TaskEnvelope
		decodeBody(t, rec, &resp)
		assert.Equal(t, "After", resp.Task.Title)
		assert.Equal(t, "Keep me", resp.Task.Description)
	})

	t.Run("validation failure returns 422", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&fakeTaskStore{
			updateFn: func(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error) {
				return nil, domain.ErrTaskTitleEmpty
			},
		})

		body := `{"task": {"title": ""}}`
		rec := doRequest(t, router, http.MethodPatch, "/api/v1/tasks/"+uuid.NewString(), body)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var resp struct {
			Errors []string `json:"errors"`
		}
		decodeBody(t, rec, &resp)
		assert.Equal(t, []string{"Title can't be blank"}, resp.Errors)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&fakeTaskStore{
			updateFn: func(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error) {
				return nil, store.ErrTaskNotFound
			},
		})

		body := `{"task": {"completed": true}}`
		rec := doRequest(t, router, http.MethodPatch, "/api/v1/tasks/"+uuid.NewString(), body)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTaskHandlerDelete(t *testing.T) {
	t.Parallel()

	t.Run("success returns 204", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&fakeTaskStore{
			deleteFn: func(ctx context.Context, id uuid.UUID) error {
				return nil
			},
		})

		rec := doRequest(t, router, http.MethodDelete, "/api/v1/tasks/"+uuid.NewString(), "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&fakeTaskStore{
			deleteFn: func(ctx context.Context, id uuid.UUID) error {
				return store.ErrTaskNotFound
			},
		})

		rec := doRequest(t, router, http.MethodDelete, "/api/v1/tasks/"+uuid.NewString(), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
