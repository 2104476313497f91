package commands

import (
	"context"
	"fmt"

	sharedApplication "github.com/felixgeelhaar/nexus/internal/shared/application"
	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/nexus/internal/tasks/domain/task"
)

// UpdateTaskCommand overwrites name, status and target type of task ID.
type UpdateTaskCommand struct {
	ID int64
	TaskDetails
}

func (UpdateTaskCommand) CommandName() string { return "task.update" }

// UpdateTaskHandler handles the UpdateTaskCommand.
type UpdateTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

var _ sharedApplication.CommandHandler[UpdateTaskCommand, *task.Task] = (*UpdateTaskHandler)(nil)

// NewUpdateTaskHandler creates a new UpdateTaskHandler.
func NewUpdateTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateTaskHandler {
	return &UpdateTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle returns a *task.NotFoundError when the task does not exist.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) (*task.Task, error) {
	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*task.Task, error) {
		t, err := h.taskRepo.FindByID(txCtx, cmd.ID)
		if err != nil {
			return nil, fmt.Errorf("find task: %w", err)
		}
		if t == nil {
			return nil, &task.NotFoundError{ID: cmd.ID}
		}

		t.Update(cmd.Name, cmd.Status, cmd.TargetType)

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return nil, fmt.Errorf("save task: %w", err)
		}
		if err := saveEvents(txCtx, h.outboxRepo, t); err != nil {
			return nil, fmt.Errorf("save task events: %w", err)
		}
		return t, nil
	})
}
