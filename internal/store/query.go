package store

import (
	"strconv"
	"strings"
	"time"
)

// Defaults applied when pagination parameters are absent or unusable.
const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

// dateLayout is the calendar-date format accepted by the date filters.
const dateLayout = "2006-01-02"

// SortField identifies a column tasks may be ordered by.
type SortField string

// Sortable fields. Anything else resolves to SortByCreatedAt.
const (
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
	SortByTitle     SortField = "title"
)

// SortDirection is an ordering direction.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// defaultSortDirections maps each sortable field to the direction used when
// the caller supplies none (or an unrecognized one). Timestamps order
// newest-first; titles order alphabetically.
var defaultSortDirections = map[SortField]SortDirection{
	SortByCreatedAt: SortDesc,
	SortByUpdatedAt: SortDesc,
	SortByTitle:     SortAsc,
}

// ListParams carries the raw, untrusted query parameters of a list request.
// All fields are optional strings exactly as supplied by the caller;
// BuildTaskQuery turns them into a well-defined TaskQuery.
type ListParams struct {
	Q           string
	Title       string
	Description string

	Completed     string
	CreatedAfter  string
	CreatedBefore string
	CreatedFrom   string
	CreatedTo     string

	SortBy        string
	SortDirection string

	Page    string
	PerPage string
}

// TaskQuery is an immutable query specification: a set of predicate
// descriptors plus sort and pagination descriptors. All active predicates
// combine with logical AND. It is built once from raw input by
// BuildTaskQuery and then handed to TaskStore.List for execution; building
// it has no side effects, so identical params always yield identical
// queries.
type TaskQuery struct {
	// Completed, when non-nil, restricts results to the given completion state.
	Completed *bool

	// Date-bound predicates on created_at. Lower bounds are inclusive,
	// upper bounds exclusive: a "before" or "to" calendar date covers the
	// entire named day by pointing at midnight of the following day.
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	CreatedFrom   *time.Time
	CreatedTo     *time.Time

	// Text, when non-blank, requires title OR description to contain it
	// (case-insensitive substring). TitleContains and DescriptionContains
	// each independently constrain their own field.
	Text                string
	TitleContains       string
	DescriptionContains string

	SortBy        SortField
	SortDirection SortDirection

	Page    int
	PerPage int
}

// BuildTaskQuery composes a TaskQuery from raw parameters. Malformed filter
// values degrade to "no filter" rather than errors: an unparseable date or an
// unrecognized completion flag simply contributes no predicate.
func BuildTaskQuery(p ListParams) TaskQuery {
	q := TaskQuery{
		Completed:           parseCompletedFlag(p.Completed),
		CreatedAfter:        parseDayStart(p.CreatedAfter),
		CreatedBefore:       parseDayEnd(p.CreatedBefore),
		Text:                normalizeTerm(p.Q),
		TitleContains:       normalizeTerm(p.Title),
		DescriptionContains: normalizeTerm(p.Description),
		Page:                parsePositiveInt(p.Page, DefaultPage),
		PerPage:             parsePositiveInt(p.PerPage, DefaultPerPage),
	}

	// The range predicate only applies when both ends parse; a half-present
	// or half-broken range contributes nothing.
	from := parseDayStart(p.CreatedFrom)
	to := parseDayEnd(p.CreatedTo)
	if from != nil && to != nil {
		q.CreatedFrom = from
		q.CreatedTo = to
	}

	q.SortBy, q.SortDirection = ResolveSort(p.SortBy, p.SortDirection)

	return q
}

// HasTextSearch reports whether the query carries a general free-text term,
// which is what triggers highlighted fields in list responses.
func (q TaskQuery) HasTextSearch() bool {
	return q.Text != ""
}

// Offset returns the number of records to skip for the requested page.
func (q TaskQuery) Offset() int {
	return (q.Page - 1) * q.PerPage
}

// TotalPages returns the number of pages needed for totalCount records at
// this query's page size. An empty result set has zero pages.
func (q TaskQuery) TotalPages(totalCount int) int {
	if totalCount <= 0 {
		return 0
	}
	return (totalCount + q.PerPage - 1) / q.PerPage
}

// ResolveSort maps raw sort parameters onto a sortable field and direction.
// Unrecognized fields fall back to created_at; unrecognized directions fall
// back to the resolved field's own default. Both are matched
// case-insensitively.
func ResolveSort(rawField, rawDirection string) (SortField, SortDirection) {
	field := SortByCreatedAt
	switch SortField(strings.ToLower(strings.TrimSpace(rawField))) {
	case SortByTitle:
		field = SortByTitle
	case SortByUpdatedAt:
		field = SortByUpdatedAt
	case SortByCreatedAt:
		field = SortByCreatedAt
	}

	direction := defaultSortDirections[field]
	switch SortDirection(strings.ToLower(strings.TrimSpace(rawDirection))) {
	case SortAsc:
		direction = SortAsc
	case SortDesc:
		direction = SortDesc
	}

	return field, direction
}

// parseCompletedFlag interprets the raw completed filter. Only the literal
// strings "true" and "false" (any casing) produce a predicate.
func parseCompletedFlag(raw string) *bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}

// parseDayStart parses a calendar date into midnight UTC of that day.
// Returns nil when the value is absent or unparseable.
func parseDayStart(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	day, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil
	}
	t := day.UTC()
	return &t
}

// parseDayEnd parses a calendar date into midnight UTC of the following day,
// so an exclusive comparison covers the whole named day.
func parseDayEnd(raw string) *time.Time {
	start := parseDayStart(raw)
	if start == nil {
		return nil
	}
	t := start.AddDate(0, 0, 1)
	return &t
}

// normalizeTerm treats blank or whitespace-only search input as absent.
func normalizeTerm(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return raw
}

// parsePositiveInt parses raw as a positive integer, falling back to def
// when it is absent, malformed, or not positive.
func parsePositiveInt(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
