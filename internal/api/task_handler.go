// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"

	"github.com/taskboard/task-api/internal/api/shared"
	"github.com/taskboard/task-api/internal/domain"
	"github.com/taskboard/task-api/internal/platform/logger"
	"github.com/taskboard/task-api/internal/redact"
	"github.com/taskboard/task-api/internal/store"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskStore store.TaskStore, log *slog.Logger) *TaskHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskStore: taskStore,
		logger:    log.With(slog.String("component", "task_handler")),
	}
}

// List handles GET /tasks requests: filters, search, sorting, and pagination
// compose into a single query; malformed filter values degrade to no-ops and
// never fail the request.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	params := listParamsFromQuery(r)
	query := store.BuildTaskQuery(params)

	page, err := h.taskStore.List(r.Context(), query)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	log.Debug("listed tasks",
		slog.Int("count", len(page.Tasks)),
		slog.Int("total_count", page.TotalCount))

	shared.RespondWithJSON(w, r, http.StatusOK, ListTasksResponse{
		Tasks:   tasksToViews(page.Tasks, query.Text),
		Meta:    paginationMeta(query, page.TotalCount),
		Filters: filtersSummary(params, query),
	})
}

// Search handles GET /tasks/search requests: free-text and field-scoped
// search with sorting and pagination, without the completion/date filters.
func (h *TaskHandler) Search(w http.ResponseWriter, r *http.Request) {
	raw := listParamsFromQuery(r)

	// Only search, sort, and pagination parameters participate here.
	params := store.ListParams{
		Q:             raw.Q,
		Title:         raw.Title,
		Description:   raw.Description,
		SortBy:        raw.SortBy,
		SortDirection: raw.SortDirection,
		Page:          raw.Page,
		PerPage:       raw.PerPage,
	}
	query := store.BuildTaskQuery(params)

	page, err := h.taskStore.List(r.Context(), query)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to search tasks", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SearchTasksResponse{
		Tasks:        tasksToViews(page.Tasks, query.Text),
		Meta:         paginationMeta(query, page.TotalCount),
		SearchQuery:  query.Text,
		SearchFields: searchFields(params),
	})
}

// Get handles GET /tasks/{id} requests. Single-record reads never carry
// highlight fields.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskEnvelope{Task: taskToView(task, "")})
}

// Create handles POST /tasks requests. The payload arrives inside a "task"
// envelope; its absence is a bad request, while an invalid task (empty or
// overlong title) is a validation failure with field-level messages.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Task == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Task payload is required")
		return
	}

	task, err := domain.NewTask(
		stringValue(req.Task.Title),
		stringValue(req.Task.Description),
		boolValue(req.Task.Completed),
	)
	if err != nil {
		log.Debug("task validation failed", slog.String("error", err.Error()))
		shared.RespondWithValidationErrors(w, r, ValidationMessages(err))
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to create task", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, TaskEnvelope{Task: taskToView(task, "")})
}

// Update handles PATCH/PUT /tasks/{id} requests with a partial task payload.
// Validation failures leave the stored record unchanged.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	var req TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Task == nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Task payload is required")
		return
	}

	task, err := h.taskStore.Update(r.Context(), id, domain.TaskPatch{
		Title:       req.Task.Title,
		Description: req.Task.Description,
		Completed:   req.Task.Completed,
	})
	if err != nil {
		if domain.IsValidationError(err) {
			shared.RespondWithValidationErrors(w, r, ValidationMessages(err))
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskEnvelope{Task: taskToView(task, "")})
}

// Delete handles DELETE /tasks/{id} requests. Deletion is permanent.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	if err := h.taskStore.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func boolValue(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}
