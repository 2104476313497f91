package cli

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/nexus/internal/tasks/application/commands"
	"github.com/felixgeelhaar/nexus/internal/tasks/application/queries"
)

// ErrNotInitialized is returned by commands that need a database when the
// application could not be wired.
var ErrNotInitialized = errors.New("application not initialized - database connection required")

// TaskService is the task API the CLI and MCP adapters drive.
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

// App holds the CLI application dependencies.
type App struct {
	Tasks TaskService
}

// NewApp creates a new CLI application.
func NewApp(tasks TaskService) *App {
	return &App{Tasks: tasks}
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// RequireTasks returns the task service or ErrNotInitialized.
func RequireTasks() (TaskService, error) {
	if app == nil || app.Tasks == nil {
		return nil, ErrNotInitialized
	}
	return app.Tasks, nil
}
