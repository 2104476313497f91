package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/nexus/internal/tasks/application/commands"
	"github.com/felixgeelhaar/nexus/internal/tasks/application/queries"
	"github.com/felixgeelhaar/nexus/internal/tasks/domain/task"
)

const maxBodyBytes = 1 << 20

// TaskService is the set of task operations the HTTP API exposes.
type TaskService interface {
	GetAllTasks(ctx context.Context) ([]queries.TaskDTO, error)
	GetTaskByID(ctx context.Context, id int64) (*queries.TaskDTO, error)
	CreateTask(ctx context.Context, details commands.TaskDetails) (*queries.TaskDTO, error)
	UpdateTask(ctx context.Context, id int64, details commands.TaskDetails) (*queries.TaskDTO, error)
	DeleteTask(ctx context.Context, id int64) error
	GetTasksByStatus(ctx context.Context, status string) ([]queries.TaskDTO, error)
	GetTasksByStatuses(ctx context.Context, statuses ...string) ([]queries.TaskDTO, error)
	SearchTasksByName(ctx context.Context, name string) ([]queries.TaskDTO, error)
}

// TaskHandler handles task API requests.
type TaskHandler struct {
	service TaskService
	logger  *slog.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(service TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{service: service, logger: logger}
}

// ListTasks handles GET /api/tasks and GET /api/tasks?status=A,B
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	var (
		tasks []queries.TaskDTO
		err   error
	)

	if r.URL.Query().Has("status") {
		tasks, err = h.service.GetTasksByStatuses(r.Context(), splitStatuses(r.URL.Query().Get("status"))...)
	} else {
		tasks, err = h.service.GetAllTasks(r.Context())
	}
	if err != nil {
		h.internalError(w, r, "failed to list tasks", err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// GetTask handles GET /api/tasks/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	t, err := h.service.GetTaskByID(r.Context(), id)
	if err != nil {
		h.internalError(w, r, "failed to get task", err)
		return
	}
	if t == nil {
		writeAPIError(w, ErrNotFound.WithMessage((&task.NotFoundError{ID: id}).Error()))
		return
	}

	writeJSON(w, http.StatusOK, t)
}

// CreateTask handles POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	details, ok := decodeDetails(w, r)
	if !ok {
		return
	}

	t, err := h.service.CreateTask(r.Context(), details)
	if err != nil {
		h.internalError(w, r, "failed to create task", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/tasks/%d", t.ID))
	writeJSON(w, http.StatusCreated, t)
}

// UpdateTask handles PUT /api/tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	details, ok := decodeDetails(w, r)
	if !ok {
		return
	}

	t, err := h.service.UpdateTask(r.Context(), id, details)
	if err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			writeAPIError(w, ErrNotFound.WithMessage(err.Error()))
			return
		}
		h.internalError(w, r, "failed to update task", err)
		return
	}

	writeJSON(w, http.StatusOK, t)
}

// DeleteTask handles DELETE /api/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		h.internalError(w, r, "failed to delete task", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TasksByStatus handles GET /api/tasks/status/{status}
func (h *TaskHandler) TasksByStatus(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.GetTasksByStatus(r.Context(), r.PathValue("status"))
	if err != nil {
		h.internalError(w, r, "failed to list tasks by status", err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// SearchTasks handles GET /api/tasks/search?name=
func (h *TaskHandler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.SearchTasksByName(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.internalError(w, r, "failed to search tasks", err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg, "error", err)
	writeAPIError(w, ErrInternalServer)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeAPIError(w, ErrBadRequest.WithMessage(fmt.Sprintf("invalid task id %q", raw)))
		return 0, false
	}
	return id, true
}

// decodeDetails reads a task body. Unknown fields such as id are ignored.
func decodeDetails(w http.ResponseWriter, r *http.Request) (commands.TaskDetails, bool) {
	var details commands.TaskDetails
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&details); err != nil {
		writeAPIError(w, ErrBadRequest.WithMessage("invalid request body: "+err.Error()))
		return details, false
	}
	return details, true
}

// splitStatuses parses a comma-separated status list, dropping blanks.
func splitStatuses(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
