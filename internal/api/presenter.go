package api

import (
	"strings"

	"github.com/taskboard/task-api/internal/domain"
	"github.com/taskboard/task-api/internal/highlight"
	"github.com/taskboard/task-api/internal/store"
)

// descriptionExcerptLength bounds the description excerpt attached to
// search results, before markup overhead.
const descriptionExcerptLength = 150

// taskToView maps a task to its output representation. When searchTerm is
// non-blank the view additionally carries a highlighted title and a
// description excerpt centered on the first match.
func taskToView(task *domain.Task, searchTerm string) TaskView {
	view := TaskView{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if strings.TrimSpace(searchTerm) != "" {
		view.HighlightedTitle = highlight.Highlight(task.Title, searchTerm)
		view.DescriptionExcerpt = highlight.Excerpt(
			task.Description, searchTerm, descriptionExcerptLength)
	}

	return view
}

// tasksToViews maps one page of tasks to views.
func tasksToViews(tasks []*domain.Task, searchTerm string) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, taskToView(task, searchTerm))
	}
	return views
}

// paginationMeta derives the pagination metadata for a list response.
func paginationMeta(q store.TaskQuery, totalCount int) PaginationMeta {
	return PaginationMeta{
		CurrentPage: q.Page,
		TotalPages:  q.TotalPages(totalCount),
		TotalCount:  totalCount,
		PerPage:     q.PerPage,
	}
}

// filtersSummary reports which parameters were recognized as active,
// echoing the raw values the caller supplied. Sort parameters always appear
// with their resolved values so callers can see which defaults applied.
func filtersSummary(p store.ListParams, q store.TaskQuery) FiltersSummary {
	summary := FiltersSummary{
		SortBy:        string(q.SortBy),
		SortDirection: string(q.SortDirection),
	}

	if strings.TrimSpace(p.Completed) != "" {
		summary.Completed = p.Completed
	}
	if strings.TrimSpace(p.CreatedAfter) != "" {
		summary.CreatedAfter = p.CreatedAfter
	}
	if strings.TrimSpace(p.CreatedBefore) != "" {
		summary.CreatedBefore = p.CreatedBefore
	}
	if strings.TrimSpace(p.CreatedFrom) != "" {
		summary.CreatedFrom = p.CreatedFrom
	}
	if strings.TrimSpace(p.CreatedTo) != "" {
		summary.CreatedTo = p.CreatedTo
	}
	if strings.TrimSpace(p.Q) != "" {
		summary.SearchQuery = p.Q
	}
	if strings.TrimSpace(p.Title) != "" {
		summary.TitleSearch = p.Title
	}
	if strings.TrimSpace(p.Description) != "" {
		summary.DescriptionSearch = p.Description
	}

	return summary
}

// searchFields lists the field-scoped search parameters active on a search
// request, for the search endpoint's response metadata.
func searchFields(p store.ListParams) []string {
	fields := []string{}
	if strings.TrimSpace(p.Title) != "" {
		fields = append(fields, "title")
	}
	if strings.TrimSpace(p.Description) != "" {
		fields = append(fields, "description")
	}
	return fields
}
