package task

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/nexus/internal/tasks/application/queries"
)

const timeLayout = "2006-01-02 15:04"

func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task ID %q: %w", value, err)
	}
	return id, nil
}

func splitStatuses(value string) []string {
	parts := strings.Split(value, ",")
	statuses := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			statuses = append(statuses, p)
		}
	}
	return statuses
}

func printTasks(out io.Writer, tasks []queries.TaskDTO) {
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return
	}

	fmt.Fprintf(out, "Tasks (%d):\n", len(tasks))
	fmt.Fprintln(out, strings.Repeat("-", 60))
	for _, t := range tasks {
		fmt.Fprintf(out, "%4d  %-10s %-30s %s\n", t.ID, t.Status, t.Name, t.TargetType)
	}
}

func printTask(out io.Writer, t *queries.TaskDTO) {
	fmt.Fprintf(out, "Task: %d\n", t.ID)
	fmt.Fprintf(out, "  Name:        %s\n", t.Name)
	fmt.Fprintf(out, "  Status:      %s\n", t.Status)
	fmt.Fprintf(out, "  Target type: %s\n", t.TargetType)
	fmt.Fprintf(out, "  Created:     %s\n", t.CreatedAt.Format(timeLayout))
	fmt.Fprintf(out, "  Updated:     %s\n", t.UpdatedAt.Format(timeLayout))
}
