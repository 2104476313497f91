package commands

import (
	"context"
	"fmt"

	sharedApplication "github.com/felixgeelhaar/nexus/internal/shared/application"
	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/nexus/internal/tasks/domain/task"
)

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	TaskDetails
}

func (CreateTaskCommand) CommandName() string { return "task.create" }

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

var _ sharedApplication.CommandHandler[CreateTaskCommand, *task.Task] = (*CreateTaskHandler)(nil)

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(taskRepo task.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateTaskHandler {
	return &CreateTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle stores a new task and returns it with its assigned id.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*task.Task, error) {
	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*task.Task, error) {
		t := task.NewTask(cmd.Name, cmd.Status, cmd.TargetType)

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return nil, fmt.Errorf("save task: %w", err)
		}
		if err := saveEvents(txCtx, h.outboxRepo, t); err != nil {
			return nil, fmt.Errorf("save task events: %w", err)
		}
		return t, nil
	})
}
