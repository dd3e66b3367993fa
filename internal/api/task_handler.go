// Package api provides HTTP handlers for the API.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lanning/taskstore/internal/api/shared"
	"github.com/lanning/taskstore/internal/domain"
	"github.com/lanning/taskstore/internal/platform/logger"
	"github.com/lanning/taskstore/internal/store"
)

// TaskHandler handles task-related HTTP requests. It performs no business
// validation of its own: it decodes requests, calls exactly one store
// operation and maps the result or error kind onto the response envelope.
type TaskHandler struct {
	store  store.TaskStore
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskStore store.TaskStore, log *slog.Logger) *TaskHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}
	return &TaskHandler{
		store:  taskStore,
		logger: log.With(slog.String("component", "task_handler")),
	}
}

// RegisterRoutes attaches all task endpoints plus the health check to the
// given router. Mount it under the API prefix.
func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", h.CreateTask)
		r.Get("/", h.ListTasks)
		r.Get("/{id}", h.GetTask)
		r.Put("/{id}", h.UpdateTask)
		r.Delete("/{id}", h.DeleteTask)
		r.Patch("/{id}/toggle", h.ToggleTask)
	})
}

// Health handles GET /health requests.
func (h *TaskHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithData(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

// createTaskRequest mirrors the accepted creation payload. Absent fields
// take their documented defaults; a JSON null decodes to the zero value.
type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    int    `json:"priority"`
	Tags        string `json:"tags"`
	DueDate     string `json:"due_date"`
}

// CreateTask handles POST /tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req createTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.respondError(w, r, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	task, err := h.store.Create(r.Context(), store.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Tags:        req.Tags,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	log.Debug("task created", slog.Int64("task_id", task.ID))
	shared.RespondWithData(w, r, http.StatusCreated, task)
}

// ListTasks handles GET /tasks requests.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	tasks, err := h.store.List(r.Context(), store.ListFilter{
		Query:     params.Get("q"),
		Status:    params.Get("status"),
		Tag:       params.Get("tag"),
		DueBefore: params.Get("due_before"),
		DueAfter:  params.Get("due_after"),
		Sort:      params.Get("sort"),
		Order:     params.Get("order"),
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, tasks)
}

// GetTask handles GET /tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	task, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/{id} requests. Only fields present in the
// body are touched; presence is detected on the raw JSON object so an
// explicit null counts as supplied.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	input, err := parseUpdateRequest(r)
	if err != nil {
		h.respondError(w, r, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	task, err := h.store.Update(r.Context(), id, input)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleTask handles PATCH /tasks/{id}/toggle requests.
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	task, err := h.store.Toggle(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, task)
}

// taskID extracts and parses the integer {id} path segment. A non-integer
// segment is a routing-level miss and responds 404, matching the behavior
// of integer-typed route converters.
func (h *TaskHandler) taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.FromContext(r.Context()).Debug("non-integer task id in path", slog.String("id", raw))
		shared.RespondWithError(w, r, http.StatusNotFound, CodeNotFound, "task not found")
		return 0, false
	}
	return id, true
}

func parseUpdateRequest(r *http.Request) (store.UpdateTaskInput, error) {
	var input store.UpdateTaskInput

	var raw map[string]json.RawMessage
	if err := shared.DecodeJSON(r, &raw); err != nil {
		return input, err
	}

	var err error
	if input.Title, err = shared.OptionalString(raw, "title"); err != nil {
		return input, err
	}
	if input.Description, err = shared.OptionalString(raw, "description"); err != nil {
		return input, err
	}
	if input.Status, err = shared.OptionalString(raw, "status"); err != nil {
		return input, err
	}
	if input.Priority, err = shared.OptionalInt(raw, "priority"); err != nil {
		return input, err
	}
	if input.Tags, err = shared.OptionalString(raw, "tags"); err != nil {
		return input, err
	}
	if input.DueDate, err = shared.OptionalString(raw, "due_date"); err != nil {
		return input, err
	}
	return input, nil
}

func (h *TaskHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := MapError(err)
	shared.RespondWithErrorAndLog(w, r, status, code, message, err)
}
