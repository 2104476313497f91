package queries

import (
	"context"
	"strings"

	sharedApplication "github.com/felixgeelhaar/nexus/internal/shared/application"
	"github.com/felixgeelhaar/nexus/internal/tasks/domain/task"
)

// ListTasksQuery contains the parameters for listing tasks.
// A nil Statuses means any status; a non-nil one matches any listed value
// exactly, so []string{""} selects tasks with an empty status.
type ListTasksQuery struct {
	Statuses     []string
	NameContains string // case-insensitive; empty matches all
}

func (ListTasksQuery) QueryName() string { return "task.list" }

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	taskRepo task.Repository
}

var _ sharedApplication.QueryHandler[ListTasksQuery, []TaskDTO] = (*ListTasksHandler)(nil)

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo task.Repository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

// Handle executes the ListTasksQuery. Results are ordered by id.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	var (
		tasks []*task.Task
		err   error
	)

	switch {
	case len(query.Statuses) == 1:
		tasks, err = h.taskRepo.FindByStatus(ctx, query.Statuses[0])
	case query.Statuses != nil:
		tasks, err = h.taskRepo.FindByStatuses(ctx, query.Statuses)
	case query.NameContains != "":
		return h.byName(ctx, query.NameContains)
	default:
		tasks, err = h.taskRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	if query.NameContains != "" {
		tasks = filterByName(tasks, query.NameContains)
	}
	return ToDTOs(tasks), nil
}

func (h *ListTasksHandler) byName(ctx context.Context, fragment string) ([]TaskDTO, error) {
	tasks, err := h.taskRepo.FindByNameContaining(ctx, fragment)
	if err != nil {
		return nil, err
	}
	return ToDTOs(tasks), nil
}

func filterByName(tasks []*task.Task, fragment string) []*task.Task {
	fragment = strings.ToLower(fragment)
	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Name()), fragment) {
			out = append(out, t)
		}
	}
	return out
}
