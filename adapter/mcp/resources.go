package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/nexus/adapter/cli"
	"github.com/felixgeelhaar/nexus/internal/tasks/domain/task"
)

// RegisterResources registers MCP resources that expose Nexus data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	registerTaskResources(srv, deps)
	registerSystemResources(srv)
	return nil
}

func registerTaskResources(srv *mcp.Server, deps ToolDependencies) {
	app := deps.App

	srv.Resource("nexus://tasks").
		Name("Tasks").
		Description("All tasks ordered by id").
		MimeType(jsonMimeType).
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			tasks, err := requireTasks(app)
			if err != nil {
				return nil, err
			}
			all, err := tasks.GetAllTasks(ctx)
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, all)
		})

	// Tasks still waiting or in flight.
	srv.Resource("nexus://tasks/active").
		Name("Active Tasks").
		Description("Tasks that are pending or running").
		MimeType(jsonMimeType).
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			tasks, err := requireTasks(app)
			if err != nil {
				return nil, err
			}
			active, err := tasks.GetTasksByStatuses(ctx, task.StatusPending, task.StatusRunning)
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, active)
		})

	srv.Resource("nexus://tasks/failed").
		Name("Failed Tasks").
		Description("Tasks whose status is FAILED").
		MimeType(jsonMimeType).
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			tasks, err := requireTasks(app)
			if err != nil {
				return nil, err
			}
			failed, err := tasks.GetTasksByStatus(ctx, task.StatusFailed)
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, failed)
		})
}

func registerSystemResources(srv *mcp.Server) {
	srv.Resource("nexus://version").
		Name("Version").
		Description("Build information of the running server").
		MimeType(jsonMimeType).
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return jsonResource(uri, map[string]string{
				"version":   cli.Version,
				"commit":    cli.Commit,
				"buildDate": cli.BuildDate,
			})
		})
}
