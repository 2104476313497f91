package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the task store is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := RequireTasks()
		if err != nil {
			return err
		}
		all, err := tasks.GetAllTasks(cmd.Context())
		if err != nil {
			return fmt.Errorf("task store unavailable: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok (%d tasks)\n", len(all))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
