package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/nexus/internal/shared/infrastructure/database/postgres"
	_ "github.com/felixgeelhaar/nexus/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/nexus/internal/tasks/application"
	"github.com/felixgeelhaar/nexus/internal/tasks/domain/task"
	"github.com/felixgeelhaar/nexus/pkg/config"
	"github.com/felixgeelhaar/nexus/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

const connectTimeout = 10 * time.Second

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Cache (optional)
	RedisClient *redis.Client

	// Repositories
	TaskRepo   task.Repository
	OutboxRepo outbox.Repository

	UnitOfWork *database.UnitOfWork

	// Services
	TaskService *application.TaskService

	// Observability
	Registry *prometheus.Registry
	Metrics  observability.Metrics
	Health   *observability.HealthRegistry

	publisher eventbus.Publisher
}

// NewContainer opens the database selected by cfg, applies migrations and
// wires the task service on top of it.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	conn, err := database.NewConnection(ctx, databaseConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()
	logger.Info("connected to database", "driver", c.DBDriver)

	applied, err := migrations.Run(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if len(applied) > 0 {
		logger.Info("applied migrations", "versions", applied)
	}

	if err := c.connectRedis(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = observability.NewPrometheusMetrics(c.Registry)

	factory := NewRepositoryFactory(conn)
	c.TaskRepo, err = factory.TaskRepository()
	if err != nil {
		c.Close()
		return nil, err
	}
	if c.RedisClient != nil {
		c.TaskRepo = factory.CachedTaskRepository(c.TaskRepo, c.RedisClient, cfg.TaskCacheTTL, logger).
			WithMetrics(c.Metrics)
	}
	c.OutboxRepo = factory.OutboxRepository()
	c.UnitOfWork = database.NewUnitOfWork(conn)

	c.TaskService = application.NewTaskService(c.TaskRepo, c.OutboxRepo, c.UnitOfWork, logger).
		WithMetrics(c.Metrics)

	c.Health = observability.NewHealthRegistry(2 * time.Second)
	c.Health.Register("database", observability.PingChecker(
		"database", observability.HealthStatusUnhealthy, conn.Ping,
	))
	if c.RedisClient != nil {
		c.Health.Register("redis", observability.PingChecker(
			"redis", observability.HealthStatusDegraded,
			func(ctx context.Context) error { return c.RedisClient.Ping(ctx).Err() },
		))
	}

	return c, nil
}

// NewLocalContainer creates a container backed by a SQLite file, for
// single-user CLI use without external services.
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	local := *cfg
	local.LocalMode = true
	local.DatabaseDriver = string(database.DriverSQLite)
	local.RedisURL = ""
	return NewContainer(ctx, &local, logger)
}

func databaseConfig(cfg *config.Config) database.Config {
	dbCfg := database.Config{
		URL:            cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		ConnectTimeout: connectTimeout,
	}

	if cfg.LocalMode {
		dbCfg.Driver = database.DriverSQLite
		dbCfg.SQLitePath = cfg.SQLitePath
		if dbCfg.SQLitePath == "" {
			dbCfg.SQLitePath = database.DefaultSQLitePath()
		}
		return dbCfg
	}

	if cfg.DatabaseDriver != "" && cfg.DatabaseDriver != "auto" {
		dbCfg.Driver = database.ParseDriver(cfg.DatabaseDriver)
	}
	return dbCfg
}

// connectRedis is lenient in development: a missing or broken Redis only
// disables the task cache.
func (c *Container) connectRedis(ctx context.Context) error {
	if c.Config.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, task cache disabled", "error", err)
		return nil
	}

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, task cache disabled", "error", err)
		return nil
	}

	c.RedisClient = client
	c.Logger.Info("connected to Redis")
	return nil
}

// EventPublisher returns the broker publisher, connecting on first use.
// Without a RabbitMQ URL, or in development when the broker is unreachable,
// events go to a noop publisher. Either way the result sits behind a
// circuit breaker.
func (c *Container) EventPublisher() (eventbus.Publisher, error) {
	if c.publisher != nil {
		return c.publisher, nil
	}

	var next eventbus.Publisher
	if c.Config.RabbitMQURL == "" {
		c.Logger.Info("no RabbitMQ URL configured, using noop publisher")
		next = eventbus.NewNoopPublisher(c.Logger)
	} else {
		rabbit, err := eventbus.NewRabbitMQPublisher(eventbus.RabbitMQConfig{
			URL:   c.Config.RabbitMQURL,
			AppID: "nexus",
		}, c.Logger)
		switch {
		case err == nil:
			next = rabbit
		case c.Config.IsDevelopment():
			c.Logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
			next = eventbus.NewNoopPublisher(c.Logger)
		default:
			return nil, err
		}
	}

	breakerCfg := eventbus.DefaultBreakerConfig()
	breakerCfg.FailureThreshold = convert.IntToUint32Clamped(c.Config.PublisherBreakerThreshold)
	if c.Config.PublisherBreakerTimeout > 0 {
		breakerCfg.Timeout = c.Config.PublisherBreakerTimeout
	}
	c.publisher = eventbus.NewBreakerPublisher(next, breakerCfg, c.Logger)
	return c.publisher, nil
}

// NewOutboxProcessor builds a processor that drains the outbox into the
// event publisher.
func (c *Container) NewOutboxProcessor() (*outbox.Processor, error) {
	publisher, err := c.EventPublisher()
	if err != nil {
		return nil, err
	}

	processorCfg := outbox.DefaultProcessorConfig()
	processorCfg.PollInterval = c.Config.OutboxPollInterval
	processorCfg.BatchSize = c.Config.OutboxBatchSize
	processorCfg.MaxRetries = c.Config.OutboxMaxRetries
	processorCfg.Retention = c.Config.OutboxRetention()
	processorCfg.CleanupInterval = c.Config.OutboxCleanupInterval

	return outbox.NewProcessor(c.OutboxRepo, publisher, processorCfg, c.Logger).
		WithMetrics(c.Metrics), nil
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	var errs []error
	if c.publisher != nil {
		errs = append(errs, c.publisher.Close())
	}
	if c.RedisClient != nil {
		errs = append(errs, c.RedisClient.Close())
	}
	if c.DBConn != nil {
		errs = append(errs, c.DBConn.Close())
	}
	if err := errors.Join(errs...); err != nil {
		c.Logger.Warn("error closing container", "error", err)
	}
}
