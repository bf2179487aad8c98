package api

import (
	"net/http"

	"github.com/phrazzld/tasknest-api/internal/api/shared"
	"github.com/phrazzld/tasknest-api/internal/domain"
	"github.com/phrazzld/tasknest-api/internal/store"
)

// TaskHandler handles task-related API requests. Every route is owner-scoped:
// the authenticated user must match the user_id path segment.
type TaskHandler struct {
	taskStore store.TaskStore
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskStore store.TaskStore) *TaskHandler {
	return &TaskHandler{
		taskStore: taskStore,
	}
}

// List handles GET /{user_id}/tasks. Filters arrive as query parameters and
// AND together; sort/order select the ordering. The response is a bare JSON
// array of tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireTaskOwner(w, r)
	if !ok {
		return
	}

	query := parseTaskQuery(r.URL.Query())

	tasks, err := h.taskStore.List(r.Context(), userID, query)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(tasks))
}

// Create handles POST /{user_id}/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireTaskOwner(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := domain.NewTask(userID, req.Title)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task.Description = req.Description
	if req.Priority != "" {
		task.Priority = domain.Priority(req.Priority)
	}
	if req.Tags != nil {
		task.Tags = req.Tags
	}
	task.Recurring = req.Recurring
	if req.RecurrencePattern != nil {
		pattern := domain.RecurrencePattern(*req.RecurrencePattern)
		task.RecurrencePattern = &pattern
	}

	if req.DueDate != nil && *req.DueDate != "" {
		due, err := domain.ParseDueDate(*req.DueDate)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		task.DueDate = &due
	}

	if err := task.Validate(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(task))
}

// Get handles GET /{user_id}/tasks/{task_id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireTaskOwner(w, r)
	if !ok {
		return
	}

	taskID, err := getPathTaskID(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Update handles PUT /{user_id}/tasks/{task_id}. Absent fields keep their
// stored values; a present empty due_date clears the stored date.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireTaskOwner(w, r)
	if !ok {
		return
	}

	taskID, err := getPathTaskID(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	patch, err := buildTaskPatch(req)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskStore.Update(r.Context(), userID, taskID, patch)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Delete handles DELETE /{user_id}/tasks/{task_id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireTaskOwner(w, r)
	if !ok {
		return
	}

	taskID, err := getPathTaskID(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskStore.Delete(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": "task deleted successfully",
	})
}

// ToggleComplete handles PATCH /{user_id}/tasks/{task_id}/complete.
func (h *TaskHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireTaskOwner(w, r)
	if !ok {
		return
	}

	taskID, err := getPathTaskID(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskStore.ToggleCompleted(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// buildTaskPatch converts an update request into a store patch, resolving the
// due_date tri-state. A malformed due date is the one conversion that can
// fail.
func buildTaskPatch(req UpdateTaskRequest) (store.TaskPatch, error) {
	patch := store.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Tags:        req.Tags,
		Recurring:   req.Recurring,
	}

	if req.Priority != nil {
		priority := domain.Priority(*req.Priority)
		patch.Priority = &priority
	}

	if req.RecurrencePattern != nil {
		pattern := domain.RecurrencePattern(*req.RecurrencePattern)
		patch.RecurrencePattern = &pattern
	}

	if req.DueDate != nil {
		if *req.DueDate == "" {
			patch.ClearDueDate = true
		} else {
			due, err := domain.ParseDueDate(*req.DueDate)
			if err != nil {
				return store.TaskPatch{}, err
			}
			patch.DueDate = &due
		}
	}

	return patch, nil
}
