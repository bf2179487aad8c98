package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasknest-api/internal/domain"
)

// SortField names a task attribute results can be ordered by.
type SortField string

// Sortable task fields
const (
	SortByDueDate   SortField = "due_date"
	SortByPriority  SortField = "priority"
	SortByCreatedAt SortField = "created_at"
	SortByTitle     SortField = "title"
)

// SortOrder is the direction of a sort.
type SortOrder string

// Sort directions
const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// IsValid reports whether the field is one of the sortable task attributes.
func (f SortField) IsValid() bool {
	switch f {
	case SortByDueDate, SortByPriority, SortByCreatedAt, SortByTitle:
		return true
	default:
		return false
	}
}

// TaskFilter restricts a task listing. Zero-valued fields are inactive;
// active filters AND together.
type TaskFilter struct {
	// Priority matches tasks with exactly this priority.
	Priority *domain.Priority

	// Tag matches tasks whose tag list contains this string, by containment
	// rather than exact equality.
	Tag string

	// DueBefore keeps tasks due at or before this instant.
	DueBefore *time.Time

	// DueAfter keeps tasks due at or after this instant.
	DueAfter *time.Time

	// Completed matches tasks with exactly this completion state.
	Completed *bool
}

// TaskQuery combines a filter with an ordering for List.
type TaskQuery struct {
	Filter TaskFilter

	// Sort selects the order-by attribute. Empty or unknown values fall back
	// to created_at.
	Sort SortField

	// Order selects the direction. Anything but "asc" sorts descending.
	Order SortOrder
}

// TaskPatch describes a partial update. Nil pointer fields are left
// untouched. The due date is the one field with tri-state semantics: a nil
// DueDate with ClearDueDate false leaves the stored value, ClearDueDate true
// removes it, and a non-nil DueDate replaces it.
type TaskPatch struct {
	Title             *string
	Description       *string
	Completed         *bool
	Priority          *domain.Priority
	Tags              *[]string
	DueDate           *time.Time
	ClearDueDate      bool
	Recurring         *bool
	RecurrencePattern *domain.RecurrencePattern
}

// IsZero reports whether the patch changes nothing.
func (p TaskPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil &&
		p.Priority == nil && p.Tags == nil && p.DueDate == nil &&
		!p.ClearDueDate && p.Recurring == nil && p.RecurrencePattern == nil
}

// TaskStore defines the interface for task data persistence and querying.
// Every operation is scoped to an owning user: a (task, owner) pair that does
// not match behaves exactly like an absent task.
type TaskStore interface {
	// Create saves a new task and assigns its numeric ID and timestamps back
	// onto the given task. The owner must already be set by the caller from
	// the authenticated path, never from client-supplied data.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves the task with the given ID owned by userID.
	// Returns ErrTaskNotFound when no such pair exists.
	GetByID(ctx context.Context, userID uuid.UUID, taskID int64) (*domain.Task, error)

	// List returns the user's tasks matching the query's filter, ordered by
	// its sort settings. An empty result is a nil-error empty slice.
	List(ctx context.Context, userID uuid.UUID, query TaskQuery) ([]*domain.Task, error)

	// Update applies the patch to the task with the given ID owned by userID
	// in a single atomic commit, refreshes updated_at, and returns the
	// updated task. Returns ErrTaskNotFound when no such pair exists.
	Update(ctx context.Context, userID uuid.UUID, taskID int64, patch TaskPatch) (*domain.Task, error)

	// Delete removes the task with the given ID owned by userID.
	// Returns ErrTaskNotFound when no such pair exists; callers map that to
	// a 404 versus a 200 for a successful delete.
	Delete(ctx context.Context, userID uuid.UUID, taskID int64) error

	// ToggleCompleted flips the task's completion flag, refreshes updated_at,
	// and returns the updated task.
	// Returns ErrTaskNotFound when no such pair exists.
	ToggleCompleted(ctx context.Context, userID uuid.UUID, taskID int64) (*domain.Task, error)
}
