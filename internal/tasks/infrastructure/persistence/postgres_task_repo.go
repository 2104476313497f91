package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/nexus/internal/tasks/domain/task"
	"github.com/lib/pq"
)

// PostgresTaskRepository implements task.Repository using PostgreSQL.
type PostgresTaskRepository struct {
	sqlStore
}

var _ task.Repository = (*PostgresTaskRepository)(nil)

// NewPostgresTaskRepository creates a new PostgreSQL task repository.
func NewPostgresTaskRepository(conn database.Connection) *PostgresTaskRepository {
	return &PostgresTaskRepository{sqlStore: newSQLStore(conn)}
}

// Save inserts new tasks and overwrites existing ones.
func (r *PostgresTaskRepository) Save(ctx context.Context, t *task.Task) error {
	if !t.IsNew() {
		return r.update(ctx, t)
	}

	var id int64
	err := r.exec(ctx).QueryRow(ctx, `
		INSERT INTO tasks (name, status, target_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		t.Name(), t.Status(), t.TargetType(), t.CreatedAt(), t.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return t.AssignID(id)
}

// FindByID returns nil when the task does not exist.
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id int64) (*task.Task, error) {
	return r.findByID(ctx, id)
}

// FindAll returns every task ordered by id.
func (r *PostgresTaskRepository) FindAll(ctx context.Context) ([]*task.Task, error) {
	return r.findMany(ctx, "")
}

// FindByStatus returns tasks whose status equals status.
func (r *PostgresTaskRepository) FindByStatus(ctx context.Context, status string) ([]*task.Task, error) {
	return r.findMany(ctx, `status = $1`, status)
}

// FindByStatuses returns tasks whose status is any of statuses.
func (r *PostgresTaskRepository) FindByStatuses(ctx context.Context, statuses []string) ([]*task.Task, error) {
	if len(statuses) == 0 {
		return []*task.Task{}, nil
	}
	return r.findMany(ctx, `status = ANY($1)`, pq.Array(statuses))
}

// FindByNameContaining matches case-insensitively. strpos treats % and _
// literally, unlike LIKE.
func (r *PostgresTaskRepository) FindByNameContaining(ctx context.Context, fragment string) ([]*task.Task, error) {
	return r.findMany(ctx, `strpos(lower(name), lower($1)) > 0`, fragment)
}

// DeleteByID removes the task if it exists.
func (r *PostgresTaskRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, id)
}
