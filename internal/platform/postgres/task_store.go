package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasknest-api/internal/domain"
	"github.com/phrazzld/tasknest-api/internal/platform/logger"
	"github.com/phrazzld/tasknest-api/internal/store"
)

// taskColumns is the canonical column list for scanning tasks.
const taskColumns = `id, user_id, title, description, completed, priority, tags,
		due_date, recurring, recurrence_pattern, created_at, updated_at`

// priorityOrderExpr ranks priorities semantically instead of lexically:
// high before medium before low on ascending sorts, unknown values last.
const priorityOrderExpr = `CASE priority
		WHEN 'high' THEN 1
		WHEN 'medium' THEN 2
		WHEN 'low' THEN 3
		ELSE 4 END`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It takes the full connection (not a transaction)
// because partial updates run their read-modify-write cycle inside their own
// transaction.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db *sql.DB, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
// It saves a new task and writes the assigned ID back onto the task.
// Returns store.ErrInvalidEntity if the owning user does not exist.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", task.UserID.String()))
		return err
	}

	tags, err := marshalTags(task.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (user_id, title, description, completed, priority, tags,
			due_date, recurring, recurrence_pattern, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err = s.db.QueryRowContext(
		ctx,
		query,
		task.UserID,
		task.Title,
		task.Description,
		task.Completed,
		task.Priority,
		tags,
		task.DueDate,
		task.Recurring,
		task.RecurrencePattern,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("user_id", task.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, task.UserID)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", task.UserID.String()))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.Int64("task_id", task.ID),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound unless the (id, owner) pair matches; a task
// owned by someone else is indistinguishable from an absent one.
func (s *PostgresTaskStore) GetByID(
	ctx context.Context,
	userID uuid.UUID,
	taskID int64,
) (*domain.Task, error) {
	return getTaskByID(ctx, s.db, userID, taskID)
}

// List implements store.TaskStore.List
// It applies the query's filters and ordering in SQL and returns the matching
// tasks. An empty result is a nil-error empty slice.
func (s *PostgresTaskStore) List(
	ctx context.Context,
	userID uuid.UUID,
	query store.TaskQuery,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sqlQuery, args := buildListQuery(userID, query)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("tasks listed",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// Update implements store.TaskStore.Update
// It applies the patch inside a single transaction: the row is locked, the
// patch merged in memory, validated, and written back with a refreshed
// updated_at. Concurrent readers never observe a half-applied patch.
// Returns store.ErrTaskNotFound when the (id, owner) pair does not match.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	userID uuid.UUID,
	taskID int64,
	patch store.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		task, err := getTaskForUpdate(ctx, tx, userID, taskID)
		if err != nil {
			return err
		}

		applyPatch(task, patch)
		task.UpdatedAt = time.Now().UTC()

		if err := task.Validate(); err != nil {
			return err
		}

		tags, err := marshalTags(task.Tags)
		if err != nil {
			return err
		}

		query := `
			UPDATE tasks
			SET title = $1, description = $2, completed = $3, priority = $4,
				tags = $5, due_date = $6, recurring = $7, recurrence_pattern = $8,
				updated_at = $9
			WHERE id = $10 AND user_id = $11
		`
		result, err := tx.ExecContext(
			ctx,
			query,
			task.Title,
			task.Description,
			task.Completed,
			task.Priority,
			tags,
			task.DueDate,
			task.Recurring,
			task.RecurrencePattern,
			task.UpdatedAt,
			taskID,
			userID,
		)
		if err != nil {
			return MapError(err)
		}
		if err := CheckRowsAffected(result, "task"); err != nil {
			// The row was locked a moment ago, so this should not happen.
			return store.ErrTaskNotFound
		}

		updated = task
		return nil
	})

	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("failed to update task",
				slog.String("error", err.Error()),
				slog.Int64("task_id", taskID),
				slog.String("user_id", userID.String()))
		}
		return nil, err
	}

	log.Info("task updated successfully",
		slog.Int64("task_id", taskID),
		slog.String("user_id", userID.String()))
	return updated, nil
}

// Delete implements store.TaskStore.Delete
// Returns store.ErrTaskNotFound when the (id, owner) pair does not match.
func (s *PostgresTaskStore) Delete(ctx context.Context, userID uuid.UUID, taskID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	result, err := s.db.ExecContext(ctx, query, taskID, userID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		log.Debug("task not found for delete",
			slog.Int64("task_id", taskID),
			slog.String("user_id", userID.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task deleted successfully",
		slog.Int64("task_id", taskID),
		slog.String("user_id", userID.String()))
	return nil
}

// ToggleCompleted implements store.TaskStore.ToggleCompleted
// The flip happens in a single statement so concurrent toggles cannot lose
// each other's completion writes.
// Returns store.ErrTaskNotFound when the (id, owner) pair does not match.
func (s *PostgresTaskStore) ToggleCompleted(
	ctx context.Context,
	userID uuid.UUID,
	taskID int64,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET completed = NOT completed, updated_at = $1
		WHERE id = $2 AND user_id = $3
		RETURNING ` + taskColumns

	row := s.db.QueryRowContext(ctx, query, time.Now().UTC(), taskID, userID)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			log.Debug("task not found for toggle",
				slog.Int64("task_id", taskID),
				slog.String("user_id", userID.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to toggle task completion",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	log.Info("task completion toggled",
		slog.Int64("task_id", task.ID),
		slog.Bool("completed", task.Completed),
		slog.String("user_id", userID.String()))
	return task, nil
}

// buildListQuery translates a TaskQuery into SQL. Filters AND together;
// inactive filters add nothing. The default ordering is created_at
// descending, and any direction other than "asc" sorts descending.
func buildListQuery(userID uuid.UUID, query store.TaskQuery) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`)
	args := []any{userID}

	f := query.Filter
	if f.Priority != nil {
		args = append(args, *f.Priority)
		fmt.Fprintf(&sb, " AND priority = $%d", len(args))
	}
	if f.Tag != "" {
		// Containment match on the serialized tag list.
		args = append(args, "%"+f.Tag+"%")
		fmt.Fprintf(&sb, " AND tags::text LIKE $%d", len(args))
	}
	if f.DueBefore != nil {
		args = append(args, *f.DueBefore)
		fmt.Fprintf(&sb, " AND due_date <= $%d", len(args))
	}
	if f.DueAfter != nil {
		args = append(args, *f.DueAfter)
		fmt.Fprintf(&sb, " AND due_date >= $%d", len(args))
	}
	if f.Completed != nil {
		args = append(args, *f.Completed)
		fmt.Fprintf(&sb, " AND completed = $%d", len(args))
	}

	orderBy := string(store.SortByCreatedAt)
	switch query.Sort {
	case store.SortByPriority:
		orderBy = priorityOrderExpr
	case store.SortByDueDate, store.SortByTitle, store.SortByCreatedAt:
		orderBy = string(query.Sort)
	}

	direction := "DESC"
	if query.Order == store.OrderAsc {
		direction = "ASC"
	}

	fmt.Fprintf(&sb, " ORDER BY %s %s", orderBy, direction)

	return sb.String(), args
}

// applyPatch merges the patch into the task. Nil fields leave the current
// value; the due date additionally supports explicit clearing.
func applyPatch(task *domain.Task, patch store.TaskPatch) {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = patch.Description
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Tags != nil {
		task.Tags = normalizeTags(*patch.Tags)
	}
	if patch.ClearDueDate {
		task.DueDate = nil
	} else if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.Recurring != nil {
		task.Recurring = *patch.Recurring
	}
	if patch.RecurrencePattern != nil {
		task.RecurrencePattern = patch.RecurrencePattern
	}
}

// normalizeTags maps a nil slice to the canonical empty list.
func normalizeTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// marshalTags serializes the tag list for the jsonb column. A nil slice
// persists as an empty array, never as SQL NULL.
func marshalTags(tags []string) ([]byte, error) {
	data, err := json.Marshal(normalizeTags(tags))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}
	return data, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanTask.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row, converting the nullable columns into the
// domain representation. sql.ErrNoRows becomes store.ErrTaskNotFound.
func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		description sql.NullString
		tags        []byte
		dueDate     sql.NullTime
		recurrence  sql.NullString
	)

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&description,
		&task.Completed,
		&task.Priority,
		&tags,
		&dueDate,
		&task.Recurring,
		&recurrence,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}

	if description.Valid {
		task.Description = &description.String
	}
	if dueDate.Valid {
		ts := dueDate.Time.UTC()
		task.DueDate = &ts
	}
	if recurrence.Valid {
		pattern := domain.RecurrencePattern(recurrence.String)
		task.RecurrencePattern = &pattern
	}

	task.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &task.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
		task.Tags = normalizeTags(task.Tags)
	}

	return &task, nil
}

// getTaskByID fetches a task scoped to its owner.
func getTaskByID(
	ctx context.Context,
	db store.DBTX,
	userID uuid.UUID,
	taskID int64,
) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	return scanTask(db.QueryRowContext(ctx, query, taskID, userID))
}

// getTaskForUpdate fetches a task scoped to its owner with a row lock, so a
// patch merge cannot race a concurrent mutation of the same task.
func getTaskForUpdate(
	ctx context.Context,
	tx *sql.Tx,
	userID uuid.UUID,
	taskID int64,
) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2 FOR UPDATE`
	return scanTask(tx.QueryRowContext(ctx, query, taskID, userID))
}
