// Package application exposes task use cases through TaskService.
package application

import (
	"context"
	"log/slog"

	sharedApplication "github.com/felixgeelhaar/nexus/internal/shared/application"
	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/nexus/internal/tasks/application/commands"
	"github.com/felixgeelhaar/nexus/internal/tasks/application/queries"
	"github.com/felixgeelhaar/nexus/internal/tasks/domain/task"
	"github.com/felixgeelhaar/nexus/pkg/observability"
)

// TaskService provides a facade for task operations. Every call is timed
// and counted through the configured metrics.
type TaskService struct {
	// Command handlers
	createHandler *commands.CreateTaskHandler
	updateHandler *commands.UpdateTaskHandler
	deleteHandler *commands.DeleteTaskHandler

	// Query handlers
	getHandler  *queries.GetTaskHandler
	listHandler *queries.ListTasksHandler

	logger  *slog.Logger
	metrics observability.Metrics
}

// NewTaskService creates a new task service.
func NewTaskService(
	taskRepo task.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		createHandler: commands.NewCreateTaskHandler(taskRepo, outboxRepo, uow),
		updateHandler: commands.NewUpdateTaskHandler(taskRepo, outboxRepo, uow),
		deleteHandler: commands.NewDeleteTaskHandler(taskRepo, outboxRepo, uow),

		getHandler:  queries.NewGetTaskHandler(taskRepo),
		listHandler: queries.NewListTasksHandler(taskRepo),

		logger:  observability.WithComponent(logger, "task-service"),
		metrics: observability.NoopMetrics{},
	}
}

// WithMetrics sets the metrics sink.
func (s *TaskService) WithMetrics(metrics observability.Metrics) *TaskService {
	s.metrics = metrics
	return s
}

// GetAllTasks returns every task ordered by id.
func (s *TaskService) GetAllTasks(ctx context.Context) ([]queries.TaskDTO, error) {
	return observability.TimeOperationResult(ctx, s.logger, s.metrics, "task.get_all", func() ([]queries.TaskDTO, error) {
		return s.listHandler.Handle(ctx, queries.ListTasksQuery{})
	})
}

// GetTaskByID returns nil without an error when the task does not exist.
func (s *TaskService) GetTaskByID(ctx context.Context, id int64) (*queries.TaskDTO, error) {
	return observability.TimeOperationResult(ctx, s.logger, s.metrics, "task.get", func() (*queries.TaskDTO, error) {
		return s.getHandler.Handle(ctx, queries.GetTaskQuery{ID: id})
	})
}

// CreateTask stores a new task. The store assigns the id.
func (s *TaskService) CreateTask(ctx context.Context, details commands.TaskDetails) (*queries.TaskDTO, error) {
	return observability.TimeOperationResult(ctx, s.logger, s.metrics, "task.create", func() (*queries.TaskDTO, error) {
		t, err := s.createHandler.Handle(ctx, commands.CreateTaskCommand{TaskDetails: details})
		if err != nil {
			return nil, err
		}
		s.metrics.Counter(observability.MetricTasksCreated, 1)
		dto := queries.ToDTO(t)
		return &dto, nil
	})
}

// UpdateTask overwrites name, status and target type of task id. It returns
// a *task.NotFoundError when the task does not exist.
func (s *TaskService) UpdateTask(ctx context.Context, id int64, details commands.TaskDetails) (*queries.TaskDTO, error) {
	return observability.TimeOperationResult(ctx, s.logger, s.metrics, "task.update", func() (*queries.TaskDTO, error) {
		t, err := s.updateHandler.Handle(ctx, commands.UpdateTaskCommand{ID: id, TaskDetails: details})
		if err != nil {
			return nil, err
		}
		s.metrics.Counter(observability.MetricTasksUpdated, 1)
		dto := queries.ToDTO(t)
		return &dto, nil
	})
}

// DeleteTask removes task id. Deleting a missing task succeeds.
func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	return observability.TimeOperation(ctx, s.logger, s.metrics, "task.delete", func() error {
		result, err := s.deleteHandler.Handle(ctx, commands.DeleteTaskCommand{ID: id})
		if err != nil {
			return err
		}
		if result.Deleted {
			s.metrics.Counter(observability.MetricTasksDeleted, 1)
		}
		return nil
	})
}

// GetTasksByStatus returns tasks whose status equals status exactly.
func (s *TaskService) GetTasksByStatus(ctx context.Context, status string) ([]queries.TaskDTO, error) {
	return observability.TimeOperationResult(ctx, s.logger, s.metrics, "task.by_status", func() ([]queries.TaskDTO, error) {
		return s.listHandler.Handle(ctx, queries.ListTasksQuery{Statuses: []string{status}})
	})
}

// GetTasksByStatuses returns tasks whose status equals any of statuses.
// No statuses yields no tasks.
func (s *TaskService) GetTasksByStatuses(ctx context.Context, statuses ...string) ([]queries.TaskDTO, error) {
	if statuses == nil {
		statuses = []string{}
	}
	return observability.TimeOperationResult(ctx, s.logger, s.metrics, "task.by_statuses", func() ([]queries.TaskDTO, error) {
		return s.listHandler.Handle(ctx, queries.ListTasksQuery{Statuses: statuses})
	})
}

// SearchTasksByName returns tasks whose name contains name, ignoring case.
// An empty name matches every task.
func (s *TaskService) SearchTasksByName(ctx context.Context, name string) ([]queries.TaskDTO, error) {
	return observability.TimeOperationResult(ctx, s.logger, s.metrics, "task.search", func() ([]queries.TaskDTO, error) {
		return s.listHandler.Handle(ctx, queries.ListTasksQuery{NameContains: name})
	})
}
