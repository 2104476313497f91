package queries

import (
	"time"

	"github.com/felixgeelhaar/nexus/internal/tasks/domain/task"
)

// TaskDTO is a data transfer object for tasks.
type TaskDTO struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	TargetType string    `json:"targetType"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ToDTO converts a task into its transfer form.
func ToDTO(t *task.Task) TaskDTO {
	return TaskDTO{
		ID:         t.ID(),
		Name:       t.Name(),
		Status:     t.Status(),
		TargetType: t.TargetType(),
		CreatedAt:  t.CreatedAt(),
		UpdatedAt:  t.UpdatedAt(),
	}
}

// ToDTOs converts tasks, never returning nil.
func ToDTOs(tasks []*task.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToDTO(t))
	}
	return out
}
