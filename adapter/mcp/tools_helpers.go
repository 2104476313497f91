package mcp

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/nexus/adapter/cli"
)

const jsonMimeType = "application/json"

func requireTasks(app *cli.App) (cli.TaskService, error) {
	if app == nil || app.Tasks == nil {
		return nil, errors.New("task operations require database connection")
	}
	return app.Tasks, nil
}

func requireID(id int64) error {
	if id <= 0 {
		return errors.New("id must be a positive integer")
	}
	return nil
}

func trimStatuses(statuses []string) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: jsonMimeType,
		Text:     string(data),
	}, nil
}
