package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/nexus/internal/tasks/domain/task"
)

// SQLiteTaskRepository implements task.Repository using SQLite.
type SQLiteTaskRepository struct {
	sqlStore
}

var _ task.Repository = (*SQLiteTaskRepository)(nil)

// NewSQLiteTaskRepository creates a new SQLite task repository.
func NewSQLiteTaskRepository(conn database.Connection) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{sqlStore: newSQLStore(conn)}
}

// Save inserts new tasks and overwrites existing ones.
func (r *SQLiteTaskRepository) Save(ctx context.Context, t *task.Task) error {
	if !t.IsNew() {
		return r.update(ctx, t)
	}

	result, err := r.exec(ctx).Exec(ctx, `
		INSERT INTO tasks (name, status, target_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.Name(), t.Status(), t.TargetType(),
		r.driver.Time(t.CreatedAt()), r.driver.Time(t.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return t.AssignID(id)
}

// FindByID returns nil when the task does not exist.
func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id int64) (*task.Task, error) {
	return r.findByID(ctx, id)
}

// FindAll returns every task ordered by id.
func (r *SQLiteTaskRepository) FindAll(ctx context.Context) ([]*task.Task, error) {
	return r.findMany(ctx, "")
}

// FindByStatus returns tasks whose status equals status.
func (r *SQLiteTaskRepository) FindByStatus(ctx context.Context, status string) ([]*task.Task, error) {
	return r.findMany(ctx, `status = ?`, status)
}

// FindByStatuses returns tasks whose status is any of statuses.
func (r *SQLiteTaskRepository) FindByStatuses(ctx context.Context, statuses []string) ([]*task.Task, error) {
	if len(statuses) == 0 {
		return []*task.Task{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(statuses)), ", ")
	args := make([]any, len(statuses))
	for i, s := range statuses {
		args[i] = s
	}
	return r.findMany(ctx, `status IN (`+placeholders+`)`, args...)
}

// FindByNameContaining matches case-insensitively across Unicode. instr
// treats % and _ literally, unlike LIKE.
func (r *SQLiteTaskRepository) FindByNameContaining(ctx context.Context, fragment string) ([]*task.Task, error) {
	return r.findMany(ctx, `instr(unicode_lower(name), unicode_lower(?)) > 0`, fragment)
}

// DeleteByID removes the task if it exists.
func (r *SQLiteTaskRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, id)
}
