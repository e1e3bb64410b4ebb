package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/taskboard/task-api/internal/domain"
	"github.com/taskboard/task-api/internal/platform/logger"
	"github.com/taskboard/task-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db store.DBTX

	// sqlDB is the underlying pool when the store is not transaction-bound.
	// Update uses it to run its read-modify-write cycle in a transaction.
	sqlDB  *sql.DB
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. If log is nil, the default logger is used.
func NewPostgresTaskStore(db *sql.DB, log *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		sqlDB:  db,
		logger: log.With(slog.String("component", "task_store")),
	}
}

// WithTx returns a copy of the store bound to the given transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) *PostgresTaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

const taskColumns = "id, title, description, completed, created_at, updated_at"

// Create implements store.TaskStore.Create.
// Returns domain validation errors if the task data is invalid.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, title, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.Bool("completed", task.Completed))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	return task, nil
}

// Update implements store.TaskStore.Update. The record is read, patched, and
// written back inside a transaction so concurrent updates cannot interleave.
// Returns store.ErrTaskNotFound if the task does not exist and domain
// validation errors if the patched record is invalid; the stored record is
// untouched in both cases.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	// Transaction-bound stores are already atomic within the enclosing tx.
	if s.sqlDB == nil {
		return s.applyPatch(ctx, id, patch)
	}

	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.sqlDB, func(ctx context.Context, tx *sql.Tx) error {
		var txErr error
		updated, txErr = s.WithTx(tx).applyPatch(ctx, id, patch)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// applyPatch performs the read-modify-write cycle of Update against the
// store's current DBTX.
func (s *PostgresTaskStore) applyPatch(
	ctx context.Context,
	id uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := task.Apply(patch); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, completed = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Completed,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return nil, err
	}

	log.Info("task updated", slog.String("task_id", id.String()))
	return task, nil
}

// Delete implements store.TaskStore.Delete. Deletion is permanent.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		log.Debug("task not found for delete", slog.String("task_id", id.String()))
		return err
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	return nil
}

// List implements store.TaskStore.List. The query specification is compiled
// into a single WHERE clause shared by the page select and the count, so the
// page and the total can never disagree about which records match.
func (s *PostgresTaskStore) List(
	ctx context.Context,
	q store.TaskQuery,
) (*store.TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := buildTaskPredicates(q)

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	selectQuery := fmt.Sprintf(
		`SELECT %s FROM tasks%s%s LIMIT $%d OFFSET $%d`,
		taskColumns,
		where,
		orderByClause(q),
		len(args)+1,
		len(args)+2,
	)
	args = append(args, q.PerPage, q.Offset())

	rows, err := s.db.QueryContext(ctx, selectQuery, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("listed tasks",
		slog.Int("count", len(tasks)),
		slog.Int("total_count", total),
		slog.Int("page", q.Page))
	return &store.TaskPage{Tasks: tasks, TotalCount: total}, nil
}

// buildTaskPredicates translates the query's active predicate descriptors
// into a WHERE clause with positional arguments. Inactive descriptors
// contribute nothing; all active ones AND together, so the order they are
// emitted in never changes the result.
func buildTaskPredicates(q store.TaskQuery) (string, []any) {
	var conds []string
	var args []any

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Completed != nil {
		conds = append(conds, "completed = "+next(*q.Completed))
	}
	if q.CreatedAfter != nil {
		conds = append(conds, "created_at >= "+next(*q.CreatedAfter))
	}
	if q.CreatedBefore != nil {
		conds = append(conds, "created_at < "+next(*q.CreatedBefore))
	}
	if q.CreatedFrom != nil {
		conds = append(conds, "created_at >= "+next(*q.CreatedFrom))
	}
	if q.CreatedTo != nil {
		conds = append(conds, "created_at < "+next(*q.CreatedTo))
	}
	if q.Text != "" {
		pattern := containsPattern(q.Text)
		conds = append(conds, fmt.Sprintf(
			"(title ILIKE %s OR description ILIKE %s)",
			next(pattern), next(pattern),
		))
	}
	if q.TitleContains != "" {
		conds = append(conds, "title ILIKE "+next(containsPattern(q.TitleContains)))
	}
	if q.DescriptionContains != "" {
		conds = append(conds, "description ILIKE "+next(containsPattern(q.DescriptionContains)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// sortColumns whitelists the columns ORDER BY may reference. The sort field
// has already been resolved by store.ResolveSort, but the store never
// interpolates anything it does not recognize.
var sortColumns = map[store.SortField]string{
	store.SortByCreatedAt: "created_at",
	store.SortByUpdatedAt: "updated_at",
	store.SortByTitle:     "title",
}

// orderByClause renders the query's sort descriptor. A secondary id sort
// breaks ties so pagination over equal keys stays deterministic.
func orderByClause(q store.TaskQuery) string {
	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if q.SortDirection == store.SortAsc {
		direction = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", column, direction)
}

// likeEscaper neutralizes LIKE metacharacters so user input always means
// literal "contains", never a pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern wraps a search term into an ILIKE substring pattern.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task record from a row. The description column is
// nullable in the schema; NULL maps to the empty string.
func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var description sql.NullString

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	return &task, nil
}
