package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common task workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("task_triage").
		Description("Review active and failed tasks and decide what to retry, close or rename.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Task Triage",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Help me triage my tasks.

1. Read the nexus://tasks/active resource for pending and running tasks
2. Read the nexus://tasks/failed resource for failed tasks

For each failed task, suggest whether to retry it (task.update with status PENDING)
or close it (task.delete). Point out active tasks that look like duplicates by name.
Apply nothing until I confirm.`,
						},
					},
				},
			}, nil
		})

	srv.Prompt("bulk_status_change").
		Description("Move every task matching a name to a new status.").
		Argument("name", "Text the task names contain", true).
		Argument("status", "Status to set, for example DONE", true).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			name := args["name"]
			status := args["status"]
			if status == "" {
				status = "DONE"
			}

			return &mcp.PromptResult{
				Description: "Bulk Status Change",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: fmt.Sprintf(`Use task.search with name %q to find the matching tasks.
Show me the list, then call task.update for each one, keeping its name and
target type and setting status to %q.`, name, status),
						},
					},
				},
			}, nil
		})

	return nil
}
