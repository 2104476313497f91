package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/nexus/internal/tasks/domain/task"
	"github.com/felixgeelhaar/nexus/internal/tasks/infrastructure/persistence"
)

// RepositoryFactory creates repositories based on the database driver.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// TaskRepository creates a task repository for the configured driver.
func (f *RepositoryFactory) TaskRepository() (task.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return persistence.NewPostgresTaskRepository(f.conn), nil
	case database.DriverSQLite:
		return persistence.NewSQLiteTaskRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// CachedTaskRepository wraps next with a read-through cache.
func (f *RepositoryFactory) CachedTaskRepository(
	next task.Repository,
	client persistence.CacheClient,
	ttl time.Duration,
	logger *slog.Logger,
) *persistence.CachedTaskRepository {
	return persistence.NewCachedTaskRepository(next, client, ttl, logger)
}

// OutboxRepository creates the outbox repository. The SQL implementation
// serves both drivers.
func (f *RepositoryFactory) OutboxRepository() outbox.Repository {
	return outbox.NewSQLRepository(f.conn)
}

// Driver returns the database driver.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.driver
}
