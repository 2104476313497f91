package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/felixgeelhaar/nexus/adapter/cli"
	"github.com/felixgeelhaar/nexus/adapter/cli/mcp"
	"github.com/felixgeelhaar/nexus/adapter/cli/server"
	"github.com/felixgeelhaar/nexus/adapter/cli/task"
	"github.com/felixgeelhaar/nexus/internal/app"
	"github.com/felixgeelhaar/nexus/pkg/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	logger := app.NewLogger(os.Stderr, configOrDefault(cfg), cli.Version)
	if err != nil {
		// The CLI still starts so version and help work.
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development", LocalMode: true}
	}
	cli.SetLogger(logger)

	registerCommands()

	// serve commands build their own container.
	if !cli.OwnsContainer(cli.RootCmd(), os.Args[1:]) {
		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			if !cfg.IsDevelopment() {
				logger.Error("failed to initialize container", "error", err)
				os.Exit(1)
			}
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
		} else {
			defer container.Close()
			cli.SetApp(cli.NewApp(container.TaskService))
		}
	}

	cli.Execute(ctx)
}

func configOrDefault(cfg *config.Config) *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

var registerOnce sync.Once

func registerCommands() {
	registerOnce.Do(func() {
		cli.AddCommand(task.Cmd)
		cli.AddCommand(server.Cmd)
		cli.AddCommand(mcp.Cmd)
	})
}
