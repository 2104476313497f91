package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/nexus/internal/tasks/domain/task"
	"github.com/felixgeelhaar/nexus/pkg/observability"
	"github.com/redis/go-redis/v9"
)

// CacheKeyPrefix namespaces task entries in Redis.
const CacheKeyPrefix = "nexus:task:"

// CacheClient is the subset of the go-redis client the cache uses.
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedTaskRepository is a read-through cache for FindByID in front of
// another repository. Writes invalidate the entry, and again after the unit
// of work commits so a read racing the transaction cannot leave the old row
// cached. Redis failures are logged and the call falls through to the
// wrapped repository.
type CachedTaskRepository struct {
	next    task.Repository
	client  CacheClient
	ttl     time.Duration
	logger  *slog.Logger
	metrics observability.Metrics
}

var _ task.Repository = (*CachedTaskRepository)(nil)

// NewCachedTaskRepository wraps next. A zero ttl stores entries without expiry.
func NewCachedTaskRepository(next task.Repository, client CacheClient, ttl time.Duration, logger *slog.Logger) *CachedTaskRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedTaskRepository{
		next:    next,
		client:  client,
		ttl:     ttl,
		logger:  observability.WithComponent(logger, "task-cache"),
		metrics: observability.NoopMetrics{},
	}
}

// WithMetrics records cache hits, misses and errors.
func (r *CachedTaskRepository) WithMetrics(metrics observability.Metrics) *CachedTaskRepository {
	r.metrics = metrics
	return r
}

type cachedTask struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	TargetType string    `json:"target_type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func cacheKey(id int64) string {
	return CacheKeyPrefix + strconv.FormatInt(id, 10)
}

// FindByID serves from Redis when possible. Absent tasks are not cached.
func (r *CachedTaskRepository) FindByID(ctx context.Context, id int64) (*task.Task, error) {
	key := cacheKey(id)

	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var c cachedTask
		jsonErr := json.Unmarshal(data, &c)
		if jsonErr == nil {
			r.metrics.Counter(observability.MetricCacheHits, 1)
			return task.Rehydrate(c.ID, c.Name, c.Status, c.TargetType, c.CreatedAt, c.UpdatedAt), nil
		}
		r.cacheError(ctx, "decode", key, jsonErr)
	case errors.Is(err, redis.Nil):
		r.metrics.Counter(observability.MetricCacheMisses, 1)
	default:
		r.cacheError(ctx, "get", key, err)
	}

	t, err := r.next.FindByID(ctx, id)
	if err != nil || t == nil {
		return t, err
	}
	r.store(ctx, key, t)
	return t, nil
}

func (r *CachedTaskRepository) store(ctx context.Context, key string, t *task.Task) {
	data, err := json.Marshal(cachedTask{
		ID:         t.ID(),
		Name:       t.Name(),
		Status:     t.Status(),
		TargetType: t.TargetType(),
		CreatedAt:  t.CreatedAt(),
		UpdatedAt:  t.UpdatedAt(),
	})
	if err != nil {
		r.cacheError(ctx, "encode", key, err)
		return
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.cacheError(ctx, "set", key, err)
	}
}

func (r *CachedTaskRepository) invalidate(ctx context.Context, id int64) {
	r.evict(ctx, id)
	database.AfterCommit(ctx, func(ctx context.Context) { r.evict(ctx, id) })
}

func (r *CachedTaskRepository) evict(ctx context.Context, id int64) {
	key := cacheKey(id)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.cacheError(ctx, "delete", key, err)
	}
}

func (r *CachedTaskRepository) cacheError(ctx context.Context, op, key string, err error) {
	r.metrics.Counter(observability.MetricCacheErrors, 1, observability.T("op", op))
	r.logger.WarnContext(ctx, "task cache unavailable",
		"op", op,
		"key", key,
		observability.ErrorKey, err,
	)
}

// Save writes through and drops the cached entry.
func (r *CachedTaskRepository) Save(ctx context.Context, t *task.Task) error {
	if err := r.next.Save(ctx, t); err != nil {
		return err
	}
	r.invalidate(ctx, t.ID())
	return nil
}

// DeleteByID deletes through and drops the cached entry.
func (r *CachedTaskRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.next.DeleteByID(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedTaskRepository) FindAll(ctx context.Context) ([]*task.Task, error) {
	return r.next.FindAll(ctx)
}

func (r *CachedTaskRepository) FindByStatus(ctx context.Context, status string) ([]*task.Task, error) {
	return r.next.FindByStatus(ctx, status)
}

func (r *CachedTaskRepository) FindByStatuses(ctx context.Context, statuses []string) ([]*task.Task, error) {
	return r.next.FindByStatuses(ctx, statuses)
}

func (r *CachedTaskRepository) FindByNameContaining(ctx context.Context, fragment string) ([]*task.Task, error) {
	return r.next.FindByNameContaining(ctx, fragment)
}
