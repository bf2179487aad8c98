package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasknest-api/internal/api/middleware"
	"github.com/phrazzld/tasknest-api/internal/mocks"
	"github.com/phrazzld/tasknest-api/internal/service/auth"
)

type taskTestServer struct {
	router     http.Handler
	jwtService auth.JWTService
	taskStore  *mocks.MockTaskStore
}

func newTaskTestServer(t *testing.T) *taskTestServer {
	t.Helper()

	jwtService := auth.NewTestJWTService(testJWTSecret, time.Hour, nil)
	taskStore := mocks.NewMockTaskStore()
	handler := NewTaskHandler(taskStore)
	authMw := middleware.NewAuthMiddleware(jwtService)

	r := chi.NewRouter()
	r.Route("/api/{user_id}/tasks", func(r chi.Router) {
		r.Use(authMw.Authenticate)
		r.Get("/", handler.List)
		r.Post("/", handler.Create)
		r.Route("/{task_id}", func(r chi.Router) {
			r.Get("/", handler.Get)
			r.Put("/", handler.Update)
			r.Delete("/", handler.Delete)
			r.Patch("/complete", handler.ToggleComplete)
		})
	})

	return &taskTestServer{router: r, jwtService: jwtService, taskStore: taskStore}
}

func (s *taskTestServer) tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	token, err := s.jwtService.GenerateToken(context.Background(), userID, "")
	require.NoError(t, err)
	return token
}

func (s *taskTestServer) do(
	t *testing.T,
	method, path, token string,
	body any,
) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *taskTestServer) createTask(
	t *testing.T,
	userID uuid.UUID,
	token string,
	body map[string]any,
) TaskResponse {
	t.Helper()

	rr := s.do(t, http.MethodPost, fmt.Sprintf("/api/%s/tasks", userID), token, body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp TaskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestTaskCreate(t *testing.T) {
	t.Parallel()

	t.Run("creates with defaults", func(t *testing.T) {
		t.Parallel()

		srv := newTaskTestServer(t)
		userID := uuid.New()
		token := srv.tokenFor(t, userID)

		resp := srv.createTask(t, userID, token, map[string]any{"title": "buy milk"})

		assert.Equal(t, "buy milk", resp.Title)
		assert.Equal(t, "medium", resp.Priority)
		assert.False(t, resp.Completed)
		assert.NotNil(t, resp.Tags)
		assert.Empty(t, resp.Tags)
		assert.Nil(t, resp.DueDate)
		assert.Positive(t, resp.ID)
	})

	t.Run("accepts full payload", func(t *testing.T) {
		t.Parallel()

		srv := newTaskTestServer(t)
		userID := uuid.New()
		token := srv.tokenFor(t, userID)

		resp := srv.createTask(t, userID, token, map[string]any{
			"title":              "quarterly report",
			"description":        "numbers for Q3",
			"priority":           "high",
			"tags":               []string{"work", "urgent"},
			"due_date":           "2025-10-01T12:00:00Z",
			"recurring":          true,
			"recurrence_pattern": "monthly",
		})

		assert.Equal(t, "high", resp.Priority)
		assert.Equal(t, []string{"work", "urgent"}, resp.Tags)
		require.NotNil(t, resp.DueDate)
		assert.Equal(t, "2025-10-01T12:00:00Z", *resp.DueDate)
		assert.True(t, resp.Recurring)
		require.NotNil(t, resp.RecurrencePattern)
		assert.Equal(t, "monthly", *resp.RecurrencePattern)
	})

	t.Run("rejects malformed due date", func(t *testing.T) {
		t.Parallel()

		srv := newTaskTestServer(t)
		userID := uuid.New()
		token := srv.tokenFor(t, userID)

		rr := srv.do(t, http.MethodPost, fmt.Sprintf("/api/%s/tasks", userID), token,
			map[string]any{"title": "x", "due_date": "not-a-date"})

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "ISO 8601")
	})

	t.Run("rejects missing title", func(t *testing.T) {
		t.Parallel()

		srv := newTaskTestServer(t)
		userID := uuid.New()
		token := srv.tokenFor(t, userID)

		rr := srv.do(t, http.MethodPost, fmt.Sprintf("/api/%s/tasks", userID), token,
			map[string]any{"priority": "low"})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects invalid priority", func(t *testing.T) {
		t.Parallel()

		srv := newTaskTestServer(t)
		userID := uuid.New()
		token := srv.tokenFor(t, userID)

		rr := srv.do(t, http.MethodPost, fmt.Sprintf("/api/%s/tasks", userID), token,
			map[string]any{"title": "x", "priority": "critical"})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestTaskOwnershipGate(t *testing.T) {
	t.Parallel()

	srv := newTaskTestServer(t)
	owner := uuid.New()
	intruder := uuid.New()
	ownerToken := srv.tokenFor(t, owner)
	intruderToken := srv.tokenFor(t, intruder)

	task := srv.createTask(t, owner, ownerToken, map[string]any{"title": "private"})

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, fmt.Sprintf("/api/%s/tasks", owner)},
		{http.MethodPost, fmt.Sprintf("/api/%s/tasks", owner)},
		{http.MethodGet, fmt.Sprintf("/api/%s/tasks/%d", owner, task.ID)},
		{http.MethodPut, fmt.Sprintf("/api/%s/tasks/%d", owner, task.ID)},
		{http.MethodDelete, fmt.Sprintf("/api/%s/tasks/%d", owner, task.ID)},
		{http.MethodPatch, fmt.Sprintf("/api/%s/tasks/%d/complete", owner, task.ID)},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rr := srv.do(t, p.method, p.path, intruderToken, map[string]any{"title": "x"})

			require.Equal(t, http.StatusForbidden, rr.Code)
			assert.Contains(t, rr.Body.String(), "access forbidden: can only access own tasks")
		})
	}

	t.Run("missing token is 401 not 403", func(t *testing.T) {
		rr := srv.do(t, http.MethodGet, fmt.Sprintf("/api/%s/tasks", owner), "", nil)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
	})
}

func TestTaskGet(t *testing.T) {
	t.Parallel()

	srv := newTaskTestServer(t)
	userID := uuid.New()
	token := srv.tokenFor(t, userID)
	task := srv.createTask(t, userID, token, map[string]any{"title": "findable"})

	t.Run("returns owned task", func(t *testing.T) {
		rr := srv.do(t, http.MethodGet, fmt.Sprintf("/api/%s/tasks/%d", userID, task.ID), token, nil)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp TaskResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "findable", resp.Title)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		rr := srv.do(t, http.MethodGet, fmt.Sprintf("/api/%s/tasks/9999", userID), token, nil)

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Task not found")
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		rr := srv.do(t, http.MethodGet, fmt.Sprintf("/api/%s/tasks/abc", userID), token, nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestTaskList(t *testing.T) {
	t.Parallel()

	srv := newTaskTestServer(t)
	userID := uuid.New()
	token := srv.tokenFor(t, userID)

	srv.createTask(t, userID, token, map[string]any{
		"title": "alpha", "priority": "low", "tags": []string{"home"},
	})
	srv.createTask(t, userID, token, map[string]any{
		"title": "beta", "priority": "high", "tags": []string{"work"},
	})
	done := srv.createTask(t, userID, token, map[string]any{
		"title": "gamma", "priority": "high", "tags": []string{"work", "urgent"},
	})
	toggle := srv.do(
		t,
		http.MethodPatch,
		fmt.Sprintf("/api/%s/tasks/%d/complete", userID, done.ID),
		token,
		nil,
	)
	require.Equal(t, http.StatusOK, toggle.Code)

	list := func(t *testing.T, query string) []TaskResponse {
		t.Helper()
		rr := srv.do(t, http.MethodGet, fmt.Sprintf("/api/%s/tasks%s", userID, query), token, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var resp []TaskResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		return resp
	}

	t.Run("returns all tasks as a bare array", func(t *testing.T) {
		rr := srv.do(t, http.MethodGet, fmt.Sprintf("/api/%s/tasks", userID), token, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, strings.HasPrefix(rr.Body.String(), "["))

		resp := list(t, "")
		assert.Len(t, resp, 3)
	})

	t.Run("filters by priority", func(t *testing.T) {
		resp := list(t, "?priority=high")
		assert.Len(t, resp, 2)
	})

	t.Run("filters by tag containment", func(t *testing.T) {
		resp := list(t, "?tag=work")
		assert.Len(t, resp, 2)
	})

	t.Run("filters by completion", func(t *testing.T) {
		resp := list(t, "?completed=true")
		require.Len(t, resp, 1)
		assert.Equal(t, "gamma", resp[0].Title)
	})

	t.Run("filters combine", func(t *testing.T) {
		resp := list(t, "?priority=high&completed=false")
		require.Len(t, resp, 1)
		assert.Equal(t, "beta", resp[0].Title)
	})

	t.Run("sorts by title ascending", func(t *testing.T) {
		resp := list(t, "?sort=title&order=asc")
		require.Len(t, resp, 3)
		assert.Equal(t, "alpha", resp[0].Title)
		assert.Equal(t, "gamma", resp[2].Title)
	})

	t.Run("sorts by priority semantically", func(t *testing.T) {
		resp := list(t, "?sort=priority&order=asc")
		require.Len(t, resp, 3)
		assert.Equal(t, "high", resp[0].Priority)
		assert.Equal(t, "low", resp[2].Priority)
	})

	t.Run("invalid filter dates are ignored", func(t *testing.T) {
		resp := list(t, "?due_before=garbage")
		assert.Len(t, resp, 3)
	})
}

func TestTaskUpdate(t *testing.T) {
	t.Parallel()

	srv := newTaskTestServer(t)
	userID := uuid.New()
	token := srv.tokenFor(t, userID)

	t.Run("absent fields stay unchanged", func(t *testing.T) {
		task := srv.createTask(t, userID, token, map[string]any{
			"title":    "original",
			"priority": "high",
			"due_date": "2025-05-01",
		})

		rr := srv.do(t, http.MethodPut, fmt.Sprintf("/api/%s/tasks/%d", userID, task.ID), token,
			map[string]any{"title": "renamed"})

		require.Equal(t, http.StatusOK, rr.Code)

		var resp TaskResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "renamed", resp.Title)
		assert.Equal(t, "high", resp.Priority)
		assert.NotNil(t, resp.DueDate)
	})

	t.Run("empty due_date clears stored date", func(t *testing.T) {
		task := srv.createTask(t, userID, token, map[string]any{
			"title":    "dated",
			"due_date": "2025-05-01",
		})

		rr := srv.do(t, http.MethodPut, fmt.Sprintf("/api/%s/tasks/%d", userID, task.ID), token,
			map[string]any{"due_date": ""})

		require.Equal(t, http.StatusOK, rr.Code)

		var resp TaskResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Nil(t, resp.DueDate)
	})

	t.Run("malformed due_date is rejected", func(t *testing.T) {
		task := srv.createTask(t, userID, token, map[string]any{"title": "x"})

		rr := srv.do(t, http.MethodPut, fmt.Sprintf("/api/%s/tasks/%d", userID, task.ID), token,
			map[string]any{"due_date": "soon"})

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "ISO 8601")
	})

	t.Run("unknown task is 404", func(t *testing.T) {
		rr := srv.do(t, http.MethodPut, fmt.Sprintf("/api/%s/tasks/8888", userID), token,
			map[string]any{"title": "ghost"})

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestTaskDelete(t *testing.T) {
	t.Parallel()

	srv := newTaskTestServer(t)
	userID := uuid.New()
	token := srv.tokenFor(t, userID)
	task := srv.createTask(t, userID, token, map[string]any{"title": "doomed"})

	rr := srv.do(t, http.MethodDelete, fmt.Sprintf("/api/%s/tasks/%d", userID, task.ID), token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "task deleted successfully")

	rr = srv.do(t, http.MethodGet, fmt.Sprintf("/api/%s/tasks/%d", userID, task.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = srv.do(t, http.MethodDelete, fmt.Sprintf("/api/%s/tasks/%d", userID, task.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTaskToggleComplete(t *testing.T) {
	t.Parallel()

	srv := newTaskTestServer(t)
	userID := uuid.New()
	token := srv.tokenFor(t, userID)
	task := srv.createTask(t, userID, token, map[string]any{"title": "flip me"})

	path := fmt.Sprintf("/api/%s/tasks/%d/complete", userID, task.ID)

	rr := srv.do(t, http.MethodPatch, path, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp TaskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Completed)

	rr = srv.do(t, http.MethodPatch, path, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Completed)
}
