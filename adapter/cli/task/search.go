package task

import (
	"fmt"

	"github.com/felixgeelhaar/nexus/adapter/cli"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Find tasks whose name contains text",
	Long: `Case-insensitive substring search on task names.
Without text every task matches.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := cli.RequireTasks()
		if err != nil {
			return err
		}

		var text string
		if len(args) == 1 {
			text = args[0]
		}

		result, err := tasks.SearchTasksByName(cmd.Context(), text)
		if err != nil {
			return fmt.Errorf("failed to search tasks: %w", err)
		}

		printTasks(cmd.OutOrStdout(), result)
		return nil
	},
}
