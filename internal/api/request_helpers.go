package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/tasknest-api/internal/api/shared"
	"github.com/phrazzld/tasknest-api/internal/domain"
	"github.com/phrazzld/tasknest-api/internal/store"
)

// getUserIDFromContext extracts the authenticated user's UUID from the
// request context, where the authentication middleware placed it.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// getPathUserID parses the user_id path parameter as a UUID.
func getPathUserID(r *http.Request) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, "user_id")
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: user_id is required", domain.ErrInvalidID)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: user_id has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// getPathTaskID parses the task_id path parameter as a positive integer.
func getPathTaskID(r *http.Request) (int64, error) {
	pathParam := chi.URLParam(r, "task_id")
	if pathParam == "" {
		return 0, fmt.Errorf("%w: task_id is required", domain.ErrInvalidID)
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: task_id has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// requireTaskOwner resolves the authenticated user against the user_id path
// parameter. A mismatch is rejected before any task is touched, so one user
// can never observe another's tasks, not even their absence. Writes the error
// response itself and reports success through the boolean.
func requireTaskOwner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	authUserID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}

	pathUserID, err := getPathUserID(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return uuid.Nil, false
	}

	if authUserID != pathUserID {
		HandleAPIError(w, r, domain.ErrForbidden, "access forbidden: can only access own tasks")
		return uuid.Nil, false
	}

	return authUserID, true
}

// parseTaskQuery builds a store.TaskQuery from the request's query string.
// Unknown sort fields fall back to the default ordering, and date filters
// that do not parse are dropped rather than rejected.
func parseTaskQuery(values url.Values) store.TaskQuery {
	var query store.TaskQuery

	if raw := values.Get("priority"); raw != "" {
		priority := domain.Priority(raw)
		if priority.IsValid() {
			query.Filter.Priority = &priority
		}
	}

	if raw := values.Get("tag"); raw != "" {
		query.Filter.Tag = raw
	}

	if raw := values.Get("due_before"); raw != "" {
		if ts, err := domain.ParseDueDate(raw); err == nil {
			query.Filter.DueBefore = &ts
		}
	}

	if raw := values.Get("due_after"); raw != "" {
		if ts, err := domain.ParseDueDate(raw); err == nil {
			query.Filter.DueAfter = &ts
		}
	}

	if raw := values.Get("completed"); raw != "" {
		if completed, err := strconv.ParseBool(raw); err == nil {
			query.Filter.Completed = &completed
		}
	}

	if field := store.SortField(values.Get("sort")); field.IsValid() {
		query.Sort = field
	}

	if values.Get("order") == string(store.OrderAsc) {
		query.Order = store.OrderAsc
	} else {
		query.Order = store.OrderDesc
	}

	return query
}
