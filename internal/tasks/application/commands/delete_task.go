package commands

import (
	"context"
	"fmt"

	sharedApplication "github.com/felixgeelhaar/nexus/internal/shared/application"
	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/nexus/internal/tasks/domain/task"
)

// DeleteTaskCommand removes task ID.
type DeleteTaskCommand struct {
	ID int64
}

func (DeleteTaskCommand) CommandName() string { return "task.delete" }

// DeleteTaskResult reports whether a task was actually removed.
type DeleteTaskResult struct {
	Deleted bool
}

// DeleteTaskHandler handles the DeleteTaskCommand.
type DeleteTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

var _ sharedApplication.CommandHandler[DeleteTaskCommand, DeleteTaskResult] = (*DeleteTaskHandler)(nil)

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DeleteTaskHandler {
	return &DeleteTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle deletes the task. A missing task is not an error and emits no event.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) (DeleteTaskResult, error) {
	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (DeleteTaskResult, error) {
		t, err := h.taskRepo.FindByID(txCtx, cmd.ID)
		if err != nil {
			return DeleteTaskResult{}, fmt.Errorf("find task: %w", err)
		}
		if t == nil {
			return DeleteTaskResult{}, nil
		}

		t.MarkDeleted()

		if err := h.taskRepo.DeleteByID(txCtx, cmd.ID); err != nil {
			return DeleteTaskResult{}, fmt.Errorf("delete task: %w", err)
		}
		if err := saveEvents(txCtx, h.outboxRepo, t); err != nil {
			return DeleteTaskResult{}, fmt.Errorf("save task events: %w", err)
		}
		return DeleteTaskResult{Deleted: true}, nil
	})
}
