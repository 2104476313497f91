package task

import (
	"fmt"

	"github.com/felixgeelhaar/nexus/adapter/cli"
	"github.com/felixgeelhaar/nexus/internal/tasks/application/queries"
	"github.com/spf13/cobra"
)

var listStatus string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks ordered by ID.

Examples:
  nexus task list                        # All tasks
  nexus task list --status PENDING       # Pending tasks
  nexus task list --status PENDING,DONE  # Pending or done tasks`,
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := cli.RequireTasks()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		var result []queries.TaskDTO
		if listStatus != "" {
			result, err = tasks.GetTasksByStatuses(ctx, splitStatuses(listStatus)...)
		} else {
			result, err = tasks.GetAllTasks(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		printTasks(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "comma-separated statuses to include")
}
