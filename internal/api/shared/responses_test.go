package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusCreated, map[string]any{"title": "Hello"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"title":"Hello"}`, w.Body.String())
}

func TestRespondWithErrorIncludesTraceID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/posts/x", nil)
	req = req.WithContext(SetTraceID(req.Context()))
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusNotFound, "Post not found")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", body.Error)
	assert.Equal(t, GetTraceID(req.Context()), body.TraceID)
}

func TestRespondWithErrorAndLogRedacts(t *testing.T) {
	log, buf := logger.NewTestLogger(t)
	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), log))
	w := httptest.NewRecorder()

	err := errors.New("connect postgres://blog:hunter22@db:5432/app refused")
	RespondWithErrorAndLog(w, req, http.StatusInternalServerError, "An unexpected error occurred", err)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter22")
	assert.NotContains(t, buf.String(), "hunter22")

	entries, parseErr := buf.Entries()
	require.NoError(t, parseErr)
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0]["level"])
	assert.Equal(t, "*errors.errorString", entries[0]["error_type"])
}

func TestRespondWithErrorAndLogLevels(t *testing.T) {
	tests := []struct {
		name   string
		status int
		opts   []ResponseOption
		level  string
	}{
		{"client error", http.StatusBadRequest, nil, "DEBUG"},
		{"elevated client error", http.StatusUnauthorized, []ResponseOption{WithElevatedLogLevel()}, "WARN"},
		{"server error", http.StatusServiceUnavailable, nil, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, buf := logger.NewTestLogger(t)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(logger.WithLogger(req.Context(), log))

			RespondWithErrorAndLog(httptest.NewRecorder(), req, tt.status, "msg", nil, tt.opts...)

			entries, err := buf.Entries()
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0]["level"])
		})
	}
}
