package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Priority represents the urgency level of a task.
type Priority string

// Possible priority values
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// RecurrencePattern represents how often a recurring task repeats.
type RecurrencePattern string

// Possible recurrence pattern values
const (
	RecurrenceDaily   RecurrencePattern = "daily"
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
)

// Task field limits
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// Common validation errors for Task. All wrap ErrValidation so callers can
// classify them with a single errors.Is check.
var (
	ErrEmptyTaskUserID       = fmt.Errorf("%w: task user ID cannot be empty", ErrValidation)
	ErrEmptyTitle            = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrTitleTooLong          = fmt.Errorf("%w: title must be at most 200 characters", ErrValidation)
	ErrDescriptionTooLong    = fmt.Errorf("%w: description must be at most 1000 characters", ErrValidation)
	ErrInvalidPriority       = fmt.Errorf("%w: priority must be one of: high, medium, low", ErrValidation)
	ErrInvalidRecurrence     = fmt.Errorf("%w: recurrence_pattern must be one of: daily, weekly, monthly", ErrValidation)
	ErrRecurrenceWithoutFlag = fmt.Errorf("%w: recurrence_pattern requires recurring to be set", ErrValidation)
)

// Task represents a single todo item owned by exactly one user. Tasks are
// only ever visible or mutable through requests authenticated as the owner.
type Task struct {
	ID                int64              `json:"id"`
	UserID            uuid.UUID          `json:"user_id"`
	Title             string             `json:"title"`
	Description       *string            `json:"description"`
	Completed         bool               `json:"completed"`
	Priority          Priority           `json:"priority"`
	Tags              []string           `json:"tags"`
	DueDate           *time.Time         `json:"due_date"`
	Recurring         bool               `json:"recurring"`
	RecurrencePattern *RecurrencePattern `json:"recurrence_pattern"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// NewTask creates a Task owned by the given user with defaults applied:
// completed false, priority medium, empty tag list, created_at and
// updated_at set to the same instant. The ID is assigned by the store on
// insert, not here.
func NewTask(userID uuid.UUID, title string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		UserID:    userID,
		Title:     title,
		Completed: false,
		Priority:  PriorityMedium,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}

	if t.Title == "" {
		return ErrEmptyTitle
	}

	// Limits count characters, not bytes, so multibyte titles are not
	// penalized.
	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}

	if t.Description != nil && utf8.RuneCountInString(*t.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}

	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}

	if t.RecurrencePattern != nil {
		if !t.RecurrencePattern.IsValid() {
			return ErrInvalidRecurrence
		}
		if !t.Recurring {
			return ErrRecurrenceWithoutFlag
		}
	}

	return nil
}

// ToggleCompleted flips the completion flag and refreshes UpdatedAt.
func (t *Task) ToggleCompleted() {
	t.Completed = !t.Completed
	t.UpdatedAt = time.Now().UTC()
}

// Rank returns the semantic ordering of a priority: high ranks before medium
// before low when sorted ascending. Unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// IsValid checks if the given priority is one of the known levels.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// IsValid checks if the given pattern is one of the known recurrence
// patterns.
func (p RecurrencePattern) IsValid() bool {
	switch p {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	default:
		return false
	}
}

// dueDateLayouts are the ISO 8601 shapes accepted for due dates, tried in
// order. RFC 3339 covers timestamps with an offset or Z suffix; the remaining
// layouts cover naive timestamps and bare dates.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDueDate parses an ISO 8601 due date string into a UTC timestamp.
// Returns ErrInvalidDueDate when the string matches none of the accepted
// layouts. Callers decide whether that is fatal: task create/update treats it
// as a hard validation error, list filtering silently drops the filter.
func ParseDueDate(value string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDueDate
}
