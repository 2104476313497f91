package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/nexus/adapter/cli"
	"github.com/felixgeelhaar/nexus/internal/tasks/application/commands"
	"github.com/felixgeelhaar/nexus/internal/tasks/application/queries"
)

type taskCreateInput struct {
	Name       string `json:"name" jsonschema:"required"`
	Status     string `json:"status,omitempty"`
	TargetType string `json:"targetType,omitempty"`
}

type taskUpdateInput struct {
	ID         int64  `json:"id" jsonschema:"required"`
	Name       string `json:"name" jsonschema:"required"`
	Status     string `json:"status,omitempty"`
	TargetType string `json:"targetType,omitempty"`
}

type taskIDInput struct {
	ID int64 `json:"id" jsonschema:"required"`
}

type taskListInput struct {
	Statuses []string `json:"statuses,omitempty"`
}

type taskStatusInput struct {
	Status string `json:"status" jsonschema:"required"`
}

type taskSearchInput struct {
	Name string `json:"name,omitempty"`
}

type taskGetResult struct {
	Found bool             `json:"found"`
	Task  *queries.TaskDTO `json:"task,omitempty"`
}

type taskDeleteResult struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

// taskTools holds the handlers behind the task.* tools.
type taskTools struct {
	app *cli.App
}

func registerTaskTools(srv *mcp.Server, deps ToolDependencies) error {
	tools := taskTools{app: deps.App}

	srv.Tool("task.list").
		Description("List tasks ordered by id, optionally limited to some statuses").
		Handler(tools.list)

	srv.Tool("task.get").
		Description("Get a task by id; found is false when it does not exist").
		Handler(tools.get)

	srv.Tool("task.create").
		Description("Create a task; the store assigns its id").
		Handler(tools.create)

	srv.Tool("task.update").
		Description("Overwrite a task's name, status and target type").
		Handler(tools.update)

	srv.Tool("task.delete").
		Description("Delete a task; deleting an unknown id is a no-op").
		Handler(tools.delete)

	srv.Tool("task.by_status").
		Description("List tasks whose status matches exactly").
		Handler(tools.byStatus)

	srv.Tool("task.search").
		Description("Find tasks whose name contains the text, ignoring case").
		Handler(tools.search)

	return nil
}

func (t taskTools) list(ctx context.Context, input taskListInput) ([]queries.TaskDTO, error) {
	tasks, err := requireTasks(t.app)
	if err != nil {
		return nil, err
	}
	if statuses := trimStatuses(input.Statuses); len(statuses) > 0 {
		return tasks.GetTasksByStatuses(ctx, statuses...)
	}
	return tasks.GetAllTasks(ctx)
}

func (t taskTools) get(ctx context.Context, input taskIDInput) (*taskGetResult, error) {
	tasks, err := requireTasks(t.app)
	if err != nil {
		return nil, err
	}
	dto, err := tasks.GetTaskByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &taskGetResult{Found: dto != nil, Task: dto}, nil
}

func (t taskTools) create(ctx context.Context, input taskCreateInput) (*queries.TaskDTO, error) {
	tasks, err := requireTasks(t.app)
	if err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, errors.New("name is required")
	}
	return tasks.CreateTask(ctx, commands.TaskDetails{
		Name:       input.Name,
		Status:     input.Status,
		TargetType: input.TargetType,
	})
}

func (t taskTools) update(ctx context.Context, input taskUpdateInput) (*queries.TaskDTO, error) {
	tasks, err := requireTasks(t.app)
	if err != nil {
		return nil, err
	}
	if err := requireID(input.ID); err != nil {
		return nil, err
	}
	return tasks.UpdateTask(ctx, input.ID, commands.TaskDetails{
		Name:       input.Name,
		Status:     input.Status,
		TargetType: input.TargetType,
	})
}

func (t taskTools) delete(ctx context.Context, input taskIDInput) (*taskDeleteResult, error) {
	tasks, err := requireTasks(t.app)
	if err != nil {
		return nil, err
	}
	if err := tasks.DeleteTask(ctx, input.ID); err != nil {
		return nil, err
	}
	return &taskDeleteResult{ID: input.ID, Deleted: true}, nil
}

func (t taskTools) byStatus(ctx context.Context, input taskStatusInput) ([]queries.TaskDTO, error) {
	tasks, err := requireTasks(t.app)
	if err != nil {
		return nil, err
	}
	return tasks.GetTasksByStatus(ctx, input.Status)
}

func (t taskTools) search(ctx context.Context, input taskSearchInput) ([]queries.TaskDTO, error) {
	tasks, err := requireTasks(t.app)
	if err != nil {
		return nil, err
	}
	return tasks.SearchTasksByName(ctx, input.Name)
}
