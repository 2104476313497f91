package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/nexus/adapter/cli"
)

func registerCoreTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("cli.health").
		Description("Check that the task store is reachable").
		Handler(func(ctx context.Context, input struct{}) (map[string]any, error) {
			if app == nil {
				return nil, errors.New("app not initialized")
			}
			tasks, err := requireTasks(app)
			if err != nil {
				return nil, err
			}
			all, err := tasks.GetAllTasks(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]any{"status": "ok", "tasks": len(all)}, nil
		})

	srv.Tool("cli.version").
		Description("Get version information").
		Handler(func(ctx context.Context, input struct{}) (map[string]string, error) {
			return map[string]string{
				"version":   cli.Version,
				"commit":    cli.Commit,
				"buildDate": cli.BuildDate,
			}, nil
		})

	return nil
}
