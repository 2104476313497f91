package task

import "context"

// Repository defines the interface for task persistence.
// Finders return an empty, non-nil slice when nothing matches.
type Repository interface {
	// Save inserts a new task and assigns its id, or overwrites an existing one.
	Save(ctx context.Context, task *Task) error
	// FindByID returns nil and no error when the task does not exist.
	FindByID(ctx context.Context, id int64) (*Task, error)
	FindAll(ctx context.Context) ([]*Task, error)
	// FindByStatus matches status exactly.
	FindByStatus(ctx context.Context, status string) ([]*Task, error)
	FindByStatuses(ctx context.Context, statuses []string) ([]*Task, error)
	// FindByNameContaining matches a case-insensitive substring. An empty
	// fragment matches every task.
	FindByNameContaining(ctx context.Context, fragment string) ([]*Task, error)
	// DeleteByID is a no-op when the task does not exist.
	DeleteByID(ctx context.Context, id int64) error
}
