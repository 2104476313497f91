package server

import (
	"context"
	"time"

	"github.com/felixgeelhaar/nexus/adapter/api"
	"github.com/felixgeelhaar/nexus/adapter/cli"
	"github.com/felixgeelhaar/nexus/internal/app"
	"github.com/felixgeelhaar/nexus/pkg/config"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var (
	addr       string
	withOutbox bool
)

// Cmd starts the HTTP API.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Serve the task REST API with /health and /metrics.

With --outbox the server also drains the event outbox in-process,
which is convenient when no separate worker runs.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{cli.AnnotationOwnContainer: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if addr != "" {
			cfg.HTTPAddr = addr
		}
		if cmd.Flags().Changed("outbox") {
			cfg.OutboxProcessorEnabled = withOutbox
		}

		logger := app.NewLogger(cmd.ErrOrStderr(), cfg, cli.Version)

		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer container.Close()

		return Run(ctx, container)
	},
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from HTTP_ADDR)")
	Cmd.Flags().BoolVar(&withOutbox, "outbox", false, "run the outbox processor in this process")
}

// Run serves the API for container until ctx is canceled, then shuts down
// gracefully.
func Run(ctx context.Context, container *app.Container) error {
	cfg := container.Config
	logger := container.Logger

	if cfg.OutboxProcessorEnabled {
		processor, err := container.NewOutboxProcessor()
		if err != nil {
			return err
		}
		if err := processor.Start(ctx); err != nil {
			return err
		}
		defer processor.Stop()
	} else {
		logger.Info("outbox processor disabled in API server")
	}

	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = cfg.HTTPAddr
	srv := api.NewServer(serverCfg, api.ServerDeps{
		Handler:  api.NewTaskHandler(container.TaskService, logger),
		Health:   container.Health,
		Registry: container.Registry,
		Logger:   logger,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
