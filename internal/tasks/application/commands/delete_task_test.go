package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/nexus/internal/tasks/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDeleteTaskHandler_Handle(t *testing.T) {
	t.Run("deletes an existing task and records the event", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := passthroughUoW()

		now := time.Now().UTC()
		existing := task.Rehydrate(4, "Deploy", task.StatusDone, "server", now, now)
		taskRepo.On("FindByID", mock.Anything, int64(4)).Return(existing, nil)
		taskRepo.On("DeleteByID", mock.Anything, int64(4)).Return(nil)
		outboxRepo.On("SaveBatch", mock.Anything, singleMessage(task.RoutingKeyDeleted)).Return(nil)

		handler := NewDeleteTaskHandler(taskRepo, outboxRepo, uow)
		result, err := handler.Handle(context.Background(), DeleteTaskCommand{ID: 4})

		require.NoError(t, err)
		assert.True(t, result.Deleted)
		taskRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("missing task is a no-op", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := passthroughUoW()

		taskRepo.On("FindByID", mock.Anything, int64(404)).Return(nil, nil)

		handler := NewDeleteTaskHandler(taskRepo, outboxRepo, uow)
		result, err := handler.Handle(context.Background(), DeleteTaskCommand{ID: 404})

		require.NoError(t, err)
		assert.False(t, result.Deleted)
		taskRepo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
		outboxRepo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
	})

	t.Run("store failure rolls back", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := passthroughUoW()

		now := time.Now().UTC()
		taskRepo.On("FindByID", mock.Anything, int64(4)).Return(task.Rehydrate(4, "a", "b", "c", now, now), nil)
		deleteErr := errors.New("locked")
		taskRepo.On("DeleteByID", mock.Anything, int64(4)).Return(deleteErr)

		handler := NewDeleteTaskHandler(taskRepo, outboxRepo, uow)
		_, err := handler.Handle(context.Background(), DeleteTaskCommand{ID: 4})

		assert.ErrorIs(t, err, deleteErr)
		uow.AssertCalled(t, "Rollback", mock.Anything)
		outboxRepo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
	})
}
