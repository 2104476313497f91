package task

import (
	"fmt"

	"github.com/felixgeelhaar/nexus/adapter/cli"
	"github.com/felixgeelhaar/nexus/internal/tasks/application/commands"
	"github.com/felixgeelhaar/nexus/internal/tasks/domain/task"
	"github.com/spf13/cobra"
)

var (
	createStatus     string
	createTargetType string
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new task",
	Long: `Create a new task. The store assigns its ID.

Examples:
  nexus task create "Deploy" --target-type server
  nexus task create "Backup" --status RUNNING --target-type database`,
	Aliases: []string{"add", "new"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := cli.RequireTasks()
		if err != nil {
			return err
		}

		created, err := tasks.CreateTask(cmd.Context(), commands.TaskDetails{
			Name:       args[0],
			Status:     createStatus,
			TargetType: createTargetType,
		})
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created task %d: %s\n", created.ID, created.Name)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createStatus, "status", "s", task.StatusPending, "task status")
	createCmd.Flags().StringVarP(&createTargetType, "target-type", "t", "", "kind of target the task acts on")
}
