package api_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lanning/taskstore/internal/api"
	"github.com/lanning/taskstore/internal/api/shared"
	"github.com/lanning/taskstore/internal/platform/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envelope mirrors the response wrapper with the data left raw so each
// test can decode it into the shape it expects.
type envelope struct {
	OK    bool              `json:"ok"`
	Data  json.RawMessage   `json:"data"`
	Error *shared.ErrorBody `json:"error"`
}

type taskPayload struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Status    string  `json:"status"`
	Priority  int     `json:"priority"`
	Tags      string  `json:"tags"`
	DueDate   *string `json:"due_date"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.MigrateUp(db))

	handler := api.NewTaskHandler(
		sqlite.NewTaskStore(db),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func decodeTask(t *testing.T, data json.RawMessage) taskPayload {
	t.Helper()
	var task taskPayload
	require.NoError(t, json.Unmarshal(data, &task))
	return task
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doRequest(t, router, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.OK)
	assert.JSONEq(t, `{"status":"healthy"}`, string(env.Data))
}

func TestCreateTask(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doRequest(t, router, http.MethodPost, "/api/tasks",
		`{"title":"Buy milk","tags":" A, b ,a,B ,c","due_date":"2024-06-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, env.OK)

	task := decodeTask(t, env.Data)
	assert.Equal(t, int64(1), task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "todo", task.Status)
	assert.Equal(t, "a,b,c", task.Tags)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2024-06-01", *task.DueDate)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
}

func TestCreateTaskValidationErrors(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"missing title", `{}`, api.CodeTitleRequired},
		{"blank title", `{"title":"   "}`, api.CodeTitleRequired},
		{"bad status", `{"title":"X","status":"pending"}`, api.CodeInvalidStatus},
		{"bad due date", `{"title":"X","due_date":"2024/01/01"}`, api.CodeInvalidDate},
		{"malformed body", `{"title":`, api.CodeValidationError},
		{"non-numeric priority", `{"title":"X","priority":"high"}`, api.CodeValidationError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := doRequest(t, router, http.MethodPost, "/api/tasks", tc.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.False(t, env.OK)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.wantCode, env.Error.Code)
			assert.NotEmpty(t, env.Error.Message)
		})
	}
}

func TestGetTask(t *testing.T) {
	router := newTestRouter(t)

	_, created := doRequest(t, router, http.MethodPost, "/api/tasks", `{"title":"X"}`)
	id := decodeTask(t, created.Data).ID

	rec, env := doRequest(t, router, http.MethodGet, "/api/tasks/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, decodeTask(t, env.Data).ID)

	rec, env = doRequest(t, router, http.MethodGet, "/api/tasks/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, api.CodeNotFound, env.Error.Code)

	// Non-integer ids are a routing-level miss.
	rec, env = doRequest(t, router, http.MethodGet, "/api/tasks/abc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, api.CodeNotFound, env.Error.Code)
}

func TestUpdateTask(t *testing.T) {
	router := newTestRouter(t)

	doRequest(t, router, http.MethodPost, "/api/tasks", `{"title":"X","due_date":"2024-06-01"}`)

	rec, env := doRequest(t, router, http.MethodPut, "/api/tasks/1", `{"priority":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	task := decodeTask(t, env.Data)
	assert.Equal(t, 5, task.Priority)
	assert.Equal(t, "X", task.Title)

	// An explicit null title counts as supplied and fails validation.
	rec, env = doRequest(t, router, http.MethodPut, "/api/tasks/1", `{"title":null}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, api.CodeTitleRequired, env.Error.Code)

	// An explicit null due date clears the stored date.
	rec, env = doRequest(t, router, http.MethodPut, "/api/tasks/1", `{"due_date":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeTask(t, env.Data).DueDate)

	rec, env = doRequest(t, router, http.MethodPut, "/api/tasks/999", `{"priority":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, api.CodeNotFound, env.Error.Code)

	rec, env = doRequest(t, router, http.MethodPut, "/api/tasks/1", `not json`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, api.CodeValidationError, env.Error.Code)
}

func TestDeleteTask(t *testing.T) {
	router := newTestRouter(t)

	doRequest(t, router, http.MethodPost, "/api/tasks", `{"title":"X"}`)

	rec, _ := doRequest(t, router, http.MethodDelete, "/api/tasks/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())

	rec, env := doRequest(t, router, http.MethodDelete, "/api/tasks/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, api.CodeNotFound, env.Error.Code)
}

func TestToggleTask(t *testing.T) {
	router := newTestRouter(t)

	doRequest(t, router, http.MethodPost, "/api/tasks", `{"title":"X"}`)

	rec, env := doRequest(t, router, http.MethodPatch, "/api/tasks/1/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", decodeTask(t, env.Data).Status)

	rec, env = doRequest(t, router, http.MethodPatch, "/api/tasks/1/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "todo", decodeTask(t, env.Data).Status)

	rec, env = doRequest(t, router, http.MethodPatch, "/api/tasks/999/toggle", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, api.CodeNotFound, env.Error.Code)
}

func TestListTasks(t *testing.T) {
	router := newTestRouter(t)

	doRequest(t, router, http.MethodPost, "/api/tasks",
		`{"title":"Report","status":"done","tags":"work"}`)
	doRequest(t, router, http.MethodPost, "/api/tasks",
		`{"title":"Groceries","tags":"home"}`)

	rec, env := doRequest(t, router, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []taskPayload
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Len(t, all, 2)

	rec, env = doRequest(t, router, http.MethodGet, "/api/tasks?status=done&tag=work", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var filtered []taskPayload
	require.NoError(t, json.Unmarshal(env.Data, &filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, "Report", filtered[0].Title)

	// No matches is an empty array, not null and not an error.
	rec, env = doRequest(t, router, http.MethodGet, "/api/tasks?status=archived", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(string(env.Data)))

	rec, env = doRequest(t, router, http.MethodGet, "/api/tasks?due_before=01-06-2024", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, api.CodeInvalidDate, env.Error.Code)
}
