package task

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/felixgeelhaar/nexus/adapter/cli"
	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/security"
	"github.com/felixgeelhaar/nexus/internal/tasks/application/queries"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all tasks",
	Long: `Export every task as JSON or CSV.

Examples:
  nexus task export                        # JSON to stdout
  nexus task export --format csv -o t.csv  # CSV to a file`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := cli.RequireTasks()
		if err != nil {
			return err
		}

		all, err := tasks.GetAllTasks(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := security.SafeCreate(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportOutput, err)
			}
			defer f.Close()
			out = f
		}

		switch exportFormat {
		case "json":
			return exportJSON(out, all)
		case "csv":
			return exportCSV(out, all)
		default:
			return fmt.Errorf("unsupported format: %s (supported: json, csv)", exportFormat)
		}
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format (json, csv)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}

func exportJSON(w io.Writer, tasks []queries.TaskDTO) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tasks)
}

func exportCSV(w io.Writer, tasks []queries.TaskDTO) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "status", "targetType", "createdAt", "updatedAt"}); err != nil {
		return err
	}
	for _, t := range tasks {
		record := []string{
			strconv.FormatInt(t.ID, 10),
			t.Name,
			t.Status,
			t.TargetType,
			t.CreatedAt.Format(time.RFC3339),
			t.UpdatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
