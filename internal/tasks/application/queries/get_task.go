package queries

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/nexus/internal/shared/application"
	"github.com/felixgeelhaar/nexus/internal/tasks/domain/task"
)

// GetTaskQuery contains the parameters for getting a single task.
type GetTaskQuery struct {
	ID int64
}

func (GetTaskQuery) QueryName() string { return "task.get" }

// GetTaskHandler handles the GetTaskQuery.
type GetTaskHandler struct {
	taskRepo task.Repository
}

var _ sharedApplication.QueryHandler[GetTaskQuery, *TaskDTO] = (*GetTaskHandler)(nil)

// NewGetTaskHandler creates a new GetTaskHandler.
func NewGetTaskHandler(taskRepo task.Repository) *GetTaskHandler {
	return &GetTaskHandler{taskRepo: taskRepo}
}

// Handle returns nil without an error when the task does not exist.
func (h *GetTaskHandler) Handle(ctx context.Context, query GetTaskQuery) (*TaskDTO, error) {
	t, err := h.taskRepo.FindByID(ctx, query.ID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil
	}
	dto := ToDTO(t)
	return &dto, nil
}
