package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/nexus/adapter/cli"
	"github.com/felixgeelhaar/nexus/internal/app"
	mcpinternal "github.com/felixgeelhaar/nexus/internal/mcp"
	"github.com/felixgeelhaar/nexus/pkg/config"
	"github.com/spf13/cobra"
)

var addr string

var serveCmd = &cobra.Command{
	Use:         "serve",
	Short:       "Start the MCP server",
	Annotations: map[string]string{cli.AnnotationOwnContainer: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger := app.NewLogger(cmd.ErrOrStderr(), cfg, cli.Version)

		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer container.Close()

		if addr != "" {
			cfg.MCPAddr = addr
		}

		cliApp := mcpinternal.NewCLIApp(container)
		err = mcpinternal.Serve(ctx, cfg, cliApp, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default from MCP_ADDR)")
}
