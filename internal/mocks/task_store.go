package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/tasknest-api/internal/domain"
	"github.com/phrazzld/tasknest-api/internal/store"
)

// MockTaskStore implements store.TaskStore backed by a map. Filtering,
// sorting, and patch application mirror the SQL implementation closely
// enough for handler tests.
type MockTaskStore struct {
	mu     sync.Mutex
	tasks  map[int64]*domain.Task
	nextID int64

	// Custom behavior functions, used when non-nil
	CreateFn          func(ctx context.Context, task *domain.Task) error
	GetByIDFn         func(ctx context.Context, userID uuid.UUID, taskID int64) (*domain.Task, error)
	ListFn            func(ctx context.Context, userID uuid.UUID, query store.TaskQuery) ([]*domain.Task, error)
	UpdateFn          func(ctx context.Context, userID uuid.UUID, taskID int64, patch store.TaskPatch) (*domain.Task, error)
	DeleteFn          func(ctx context.Context, userID uuid.UUID, taskID int64) error
	ToggleCompletedFn func(ctx context.Context, userID uuid.UUID, taskID int64) (*domain.Task, error)
}

// NewMockTaskStore creates an empty in-memory task store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		tasks:  make(map[int64]*domain.Task),
		nextID: 1,
	}
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// Create implements store.TaskStore.Create
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task.ID = m.nextID
	m.nextID++

	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (m *MockTaskStore) GetByID(
	ctx context.Context,
	userID uuid.UUID,
	taskID int64,
) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, taskID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.findOwned(userID, taskID)
}

// List implements store.TaskStore.List
func (m *MockTaskStore) List(
	ctx context.Context,
	userID uuid.UUID,
	query store.TaskQuery,
) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, query)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	matched := []*domain.Task{}
	for _, task := range m.tasks {
		if task.UserID != userID || !matchesFilter(task, query.Filter) {
			continue
		}
		copied := *task
		matched = append(matched, &copied)
	}

	sortTasks(matched, query.Sort, query.Order)
	return matched, nil
}

// Update implements store.TaskStore.Update
func (m *MockTaskStore) Update(
	ctx context.Context,
	userID uuid.UUID,
	taskID int64,
	patch store.TaskPatch,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, userID, taskID, patch)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.findOwned(userID, taskID); err != nil {
		return nil, err
	}
	task := m.tasks[taskID]

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
		task.Tags = *patch.Tags
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
	task.UpdatedAt = time.Now().UTC()

	copied := *task
	return &copied, nil
}

// Delete implements store.TaskStore.Delete
func (m *MockTaskStore) Delete(ctx context.Context, userID uuid.UUID, taskID int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, taskID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.findOwned(userID, taskID); err != nil {
		return err
	}

	delete(m.tasks, taskID)
	return nil
}

// ToggleCompleted implements store.TaskStore.ToggleCompleted
func (m *MockTaskStore) ToggleCompleted(
	ctx context.Context,
	userID uuid.UUID,
	taskID int64,
) (*domain.Task, error) {
	if m.ToggleCompletedFn != nil {
		return m.ToggleCompletedFn(ctx, userID, taskID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.findOwned(userID, taskID); err != nil {
		return nil, err
	}

	task := m.tasks[taskID]
	task.Completed = !task.Completed
	task.UpdatedAt = time.Now().UTC()

	copied := *task
	return &copied, nil
}

// findOwned returns the stored task when the (id, owner) pair matches.
// Callers must hold the mutex.
func (m *MockTaskStore) findOwned(userID uuid.UUID, taskID int64) (*domain.Task, error) {
	task, ok := m.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, store.ErrTaskNotFound
	}

	copied := *task
	return &copied, nil
}

func matchesFilter(task *domain.Task, f store.TaskFilter) bool {
	if f.Priority != nil && task.Priority != *f.Priority {
		return false
	}
	if f.Tag != "" && !containsTag(task.Tags, f.Tag) {
		return false
	}
	if f.DueBefore != nil && (task.DueDate == nil || task.DueDate.After(*f.DueBefore)) {
		return false
	}
	if f.DueAfter != nil && (task.DueDate == nil || task.DueDate.Before(*f.DueAfter)) {
		return false
	}
	if f.Completed != nil && task.Completed != *f.Completed {
		return false
	}
	return true
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.Contains(t, tag) {
			return true
		}
	}
	return false
}

func sortTasks(tasks []*domain.Task, field store.SortField, order store.SortOrder) {
	less := func(a, b *domain.Task) bool {
		switch field {
		case store.SortByDueDate:
			switch {
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			default:
				return a.DueDate.Before(*b.DueDate)
			}
		case store.SortByPriority:
			return a.Priority.Rank() < b.Priority.Rank()
		case store.SortByTitle:
			return a.Title < b.Title
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if order == store.OrderAsc {
			return less(tasks[i], tasks[j])
		}
		return less(tasks[j], tasks[i])
	})
}
