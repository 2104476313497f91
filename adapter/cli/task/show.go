package task

import (
	"fmt"

	"github.com/felixgeelhaar/nexus/adapter/cli"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:     "show [task-id]",
	Short:   "Show task details",
	Aliases: []string{"get", "view"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := cli.RequireTasks()
		if err != nil {
			return err
		}

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		t, err := tasks.GetTaskByID(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}
		if t == nil {
			return fmt.Errorf("task %d not found", id)
		}

		printTask(cmd.OutOrStdout(), t)
		return nil
	},
}
