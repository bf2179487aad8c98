package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	t.Run("writes status and body", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		rr := httptest.NewRecorder()
		RespondWithError(rr, req, http.StatusNotFound, "Task not found")

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Task not found", resp.Error)
	})

	t.Run("401 carries bearer challenge", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		rr := httptest.NewRecorder()
		RespondWithError(rr, req, http.StatusUnauthorized, "Invalid token")

		assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
	})

	t.Run("other statuses do not", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		rr := httptest.NewRecorder()
		RespondWithError(rr, req, http.StatusForbidden, "access forbidden")

		assert.Empty(t, rr.Header().Get("WWW-Authenticate"))
	})

	t.Run("includes trace ID from context", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req = req.WithContext(SetTraceID(req.Context()))
		rr := httptest.NewRecorder()
		RespondWithError(rr, req, http.StatusBadRequest, "nope")

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Len(t, resp.TraceID, 2*TraceIDLength)
	})
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rr := httptest.NewRecorder()
	RespondWithErrorAndLog(rr, req, http.StatusInternalServerError,
		"An unexpected error occurred",
		errors.New("pq: password authentication failed for user \"svc\""))

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	// Only the safe message reaches the client.
	assert.NotContains(t, rr.Body.String(), "password authentication")
	assert.Contains(t, rr.Body.String(), "An unexpected error occurred")
}

func TestTraceID(t *testing.T) {
	t.Parallel()

	ctx := SetTraceID(context.Background())
	first := GetTraceID(ctx)
	assert.Len(t, first, 2*TraceIDLength)

	second := GetTraceID(SetTraceID(ctx))
	assert.NotEqual(t, first, second)
}
