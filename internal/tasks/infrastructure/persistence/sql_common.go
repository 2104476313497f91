// Package persistence implements task.Repository for PostgreSQL and SQLite,
// plus a Redis read-through cache that wraps either one.
package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/nexus/internal/tasks/domain/task"
)

const taskColumns = `id, name, status, target_type, created_at, updated_at`

// sqlStore holds the statements both SQL dialects share. Queries use ?
// placeholders and are rebound for the connection's driver.
type sqlStore struct {
	conn   database.Connection
	driver database.Driver
}

func newSQLStore(conn database.Connection) sqlStore {
	return sqlStore{conn: conn, driver: conn.Driver()}
}

func (s sqlStore) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, s.conn)
}

func (s sqlStore) findByID(ctx context.Context, id int64) (*task.Task, error) {
	query := s.driver.Rebind(`SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`)

	t, err := scanTask(s.exec(ctx).QueryRow(ctx, query, id))
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find task %d: %w", id, err)
	}
	return t, nil
}

func (s sqlStore) findMany(ctx context.Context, where string, args ...any) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY id`

	tasks, err := database.QueryAll(ctx, s.exec(ctx), scanTask, s.driver.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s sqlStore) update(ctx context.Context, t *task.Task) error {
	query := s.driver.Rebind(`
		UPDATE tasks
		SET name = ?, status = ?, target_type = ?, updated_at = ?
		WHERE id = ?`)

	result, err := s.exec(ctx).Exec(ctx, query,
		t.Name(), t.Status(), t.TargetType(), s.driver.Time(t.UpdatedAt()), t.ID())
	if err != nil {
		return fmt.Errorf("update task %d: %w", t.ID(), err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &task.NotFoundError{ID: t.ID()}
	}
	return nil
}

func (s sqlStore) deleteByID(ctx context.Context, id int64) error {
	query := s.driver.Rebind(`DELETE FROM tasks WHERE id = ?`)
	if _, err := s.exec(ctx).Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

func scanTask(row database.Row) (*task.Task, error) {
	var (
		id                       int64
		name, status, targetType string
		createdAt, updatedAt     database.NullTime
	)
	if err := row.Scan(&id, &name, &status, &targetType, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return task.Rehydrate(id, name, status, targetType, createdAt.Time, updatedAt.Time), nil
}
