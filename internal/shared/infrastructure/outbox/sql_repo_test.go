package outbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/nexus/internal/shared/domain"
	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/outbox"
)

type taskEvent struct {
	domain.BaseEvent
	Name string `json:"name"`
}

func newMessage(t *testing.T, aggregateID, routingKey string) *outbox.Message {
	t.Helper()
	msg, err := outbox.NewMessage(&taskEvent{
		BaseEvent: domain.NewBaseEvent(aggregateID, "Task", routingKey),
		Name:      "Deploy",
	})
	require.NoError(t, err)
	return msg
}

func setupConn(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: sqlite.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = migrations.Run(ctx, conn)
	require.NoError(t, err)
	return conn
}

func TestSQLRepository_SaveAndGetUnpublished(t *testing.T) {
	ctx := context.Background()
	repo := outbox.NewSQLRepository(setupConn(t))

	first := newMessage(t, "1", "nexus.task.created")
	second := newMessage(t, "1", "nexus.task.updated")
	require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{first, second}))
	assert.NotZero(t, first.ID)
	assert.NotZero(t, second.ID)

	pending, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.EventID, pending[0].EventID)
	assert.Equal(t, "nexus.task.updated", pending[1].RoutingKey)
	assert.JSONEq(t, string(first.Payload), string(pending[0].Payload))
	assert.WithinDuration(t, first.CreatedAt, pending[0].CreatedAt, time.Microsecond)
}

func TestSQLRepository_SaveBatchJoinsTransaction(t *testing.T) {
	ctx := context.Background()
	conn := setupConn(t)
	repo := outbox.NewSQLRepository(conn)
	uow := database.NewUnitOfWork(conn)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.SaveBatch(txCtx, []*outbox.Message{newMessage(t, "5", "nexus.task.deleted")}))
	require.NoError(t, uow.Rollback(txCtx))

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts.Pending)
}

func TestSQLRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := outbox.NewSQLRepository(setupConn(t))

	published := newMessage(t, "1", "nexus.task.created")
	retried := newMessage(t, "2", "nexus.task.created")
	dead := newMessage(t, "3", "nexus.task.created")
	require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{published, retried, dead}))

	require.NoError(t, repo.MarkPublished(ctx, published.ID))
	require.NoError(t, repo.MarkFailed(ctx, retried.ID, "broker down", time.Now().Add(time.Hour)))
	require.NoError(t, repo.MarkDead(ctx, dead.ID, "poison"))

	pending, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending, "published, delayed and dead messages are not due")

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Pending)
	assert.Equal(t, int64(1), counts.Dead)

	deleted, err := repo.DeleteOld(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestSQLRepository_MarkFailedDueAgain(t *testing.T) {
	ctx := context.Background()
	repo := outbox.NewSQLRepository(setupConn(t))

	msg := newMessage(t, "9", "nexus.task.updated")
	require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{msg}))
	require.NoError(t, repo.MarkFailed(ctx, msg.ID, "timeout", time.Now().Add(-time.Second)))

	pending, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].RetryCount)
	require.NotNil(t, pending[0].LastError)
	assert.Equal(t, "timeout", *pending[0].LastError)
	assert.NotNil(t, pending[0].NextRetryAt)
}
