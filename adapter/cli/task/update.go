package task

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/nexus/adapter/cli"
	"github.com/felixgeelhaar/nexus/internal/tasks/application/commands"
	"github.com/felixgeelhaar/nexus/internal/tasks/domain/task"
	"github.com/spf13/cobra"
)

var (
	updateName       string
	updateStatus     string
	updateTargetType string
)

var updateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update a task",
	Long: `Overwrite a task's name, status and target type.
Fields whose flag is not given keep their current value.

Examples:
  nexus task update 1 --status DONE
  nexus task update 1 --name "Deploy v2" --status DONE`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := cli.RequireTasks()
		if err != nil {
			return err
		}

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		current, err := tasks.GetTaskByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}
		if current == nil {
			return &task.NotFoundError{ID: id}
		}

		details := commands.TaskDetails{
			Name:       current.Name,
			Status:     current.Status,
			TargetType: current.TargetType,
		}
		flags := cmd.Flags()
		if flags.Changed("name") {
			details.Name = updateName
		}
		if flags.Changed("status") {
			details.Status = updateStatus
		}
		if flags.Changed("target-type") {
			details.TargetType = updateTargetType
		}

		updated, err := tasks.UpdateTask(ctx, id, details)
		if err != nil {
			if errors.Is(err, task.ErrTaskNotFound) {
				return err
			}
			return fmt.Errorf("failed to update task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d\n", updated.ID)
		printTask(cmd.OutOrStdout(), updated)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateName, "name", "n", "", "new name")
	updateCmd.Flags().StringVarP(&updateStatus, "status", "s", "", "new status")
	updateCmd.Flags().StringVarP(&updateTargetType, "target-type", "t", "", "new target type")
}
