package task

import (
	"fmt"

	"github.com/felixgeelhaar/nexus/adapter/cli"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [status]",
	Short: "List tasks with an exact status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := cli.RequireTasks()
		if err != nil {
			return err
		}

		result, err := tasks.GetTasksByStatus(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		printTasks(cmd.OutOrStdout(), result)
		return nil
	},
}
