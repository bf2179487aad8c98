package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/tasknest-api/internal/domain"
)

// Common request/response structures

// SignupRequest defines the payload for the user signup endpoint.
// Password strength beyond the minimum length is enforced by the
// auth package's policy, not by struct tags.
type SignupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// UserResponse is the client-facing view of a user account.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// Token is the JWT used for API authorization
	Token string `json:"token"`

	// User describes the authenticated account
	User UserResponse `json:"user"`

	// Message is a human-readable status line
	Message string `json:"message,omitempty"`
}

// VerifyResponse defines the response for the token verification endpoint.
type VerifyResponse struct {
	Valid     bool      `json:"valid"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt string    `json:"expires_at"`
	Message   string    `json:"message"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title             string   `json:"title"              validate:"required,max=200"`
	Description       *string  `json:"description"        validate:"omitempty,max=1000"`
	Priority          string   `json:"priority"           validate:"omitempty,oneof=high medium low"`
	Tags              []string `json:"tags"`
	DueDate           *string  `json:"due_date"`
	Recurring         bool     `json:"recurring"`
	RecurrencePattern *string  `json:"recurrence_pattern" validate:"omitempty,oneof=daily weekly monthly"`
}

// UpdateTaskRequest defines the payload for partially updating a task.
// Absent fields leave the stored value untouched. DueDate is tri-state: a
// present empty string clears the stored date.
type UpdateTaskRequest struct {
	Title             *string   `json:"title"              validate:"omitempty,max=200"`
	Description       *string   `json:"description"        validate:"omitempty,max=1000"`
	Completed         *bool     `json:"completed"`
	Priority          *string   `json:"priority"           validate:"omitempty,oneof=high medium low"`
	Tags              *[]string `json:"tags"`
	DueDate           *string   `json:"due_date"`
	Recurring         *bool     `json:"recurring"`
	RecurrencePattern *string   `json:"recurrence_pattern" validate:"omitempty,oneof=daily weekly monthly"`
}

// TaskResponse is the client-facing view of a task. Timestamps are ISO 8601.
type TaskResponse struct {
	ID                int64    `json:"id"`
	UserID            string   `json:"user_id"`
	Title             string   `json:"title"`
	Description       *string  `json:"description"`
	Completed         bool     `json:"completed"`
	Priority          string   `json:"priority"`
	Tags              []string `json:"tags"`
	DueDate           *string  `json:"due_date"`
	Recurring         bool     `json:"recurring"`
	RecurrencePattern *string  `json:"recurrence_pattern"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

// NewTaskResponse converts a domain task into its API representation.
func NewTaskResponse(task *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:        task.ID,
		UserID:    task.UserID.String(),
		Title:     task.Title,
		Completed: task.Completed,
		Priority:  string(task.Priority),
		Tags:      task.Tags,
		Recurring: task.Recurring,
		CreatedAt: task.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: task.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if task.Description != nil {
		resp.Description = task.Description
	}
	if task.DueDate != nil {
		due := task.DueDate.UTC().Format(time.RFC3339)
		resp.DueDate = &due
	}
	if task.RecurrencePattern != nil {
		pattern := string(*task.RecurrencePattern)
		resp.RecurrencePattern = &pattern
	}

	return resp
}

// NewTaskListResponse converts a slice of domain tasks. Listings serialize
// as a bare JSON array, never null.
func NewTaskListResponse(tasks []*domain.Task) []TaskResponse {
	items := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, NewTaskResponse(task))
	}
	return items
}
