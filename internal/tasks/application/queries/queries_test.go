package queries

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

// mockTaskRepo is a mock implementation of task.Repository.
type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Save(ctx context.Context, t *task.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id int64) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindAll(ctx context.Context) ([]*task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindByStatus(ctx context.Context, status string) ([]*task.Task, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindByStatuses(ctx context.Context, statuses []string) ([]*task.Task, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindByNameContaining(ctx context.Context, fragment string) ([]*task.Task, error) {
	args := m.Called(ctx, fragment)
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func sampleTasks() []*task.Task {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	return []*task.Task{
		task.Rehydrate(1, "Fabric rollout", task.StatusPending, "server", now, now),
		task.Rehydrate(2, "ABC migration", task.StatusDone, "db", now, now),
		task.Rehydrate(3, "xyz", task.StatusPending, "server", now, now),
	}
}

func TestGetTaskHandler_Handle(t *testing.T) {
	t.Run("returns the task", func(t *testing.T) {
		repo := new(mockTaskRepo)
		repo.On("FindByID", mock.Anything, int64(1)).Return(sampleTasks()[0], nil)

		got, err := NewGetTaskHandler(repo).Handle(context.Background(), GetTaskQuery{ID: 1})

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(1), got.ID)
		assert.Equal(t, "Fabric rollout", got.Name)
		assert.Equal(t, task.StatusPending, got.Status)
		assert.Equal(t, "server", got.TargetType)
	})

	t.Run("absent task is nil without error", func(t *testing.T) {
		repo := new(mockTaskRepo)
		repo.On("FindByID", mock.Anything, int64(9)).Return(nil, nil)

		got, err := NewGetTaskHandler(repo).Handle(context.Background(), GetTaskQuery{ID: 9})

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("store errors propagate", func(t *testing.T) {
		repo := new(mockTaskRepo)
		storeErr := errors.New("timeout")
		repo.On("FindByID", mock.Anything, int64(1)).Return(nil, storeErr)

		_, err := NewGetTaskHandler(repo).Handle(context.Background(), GetTaskQuery{ID: 1})
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestListTasksHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("all tasks", func(t *testing.T) {
		repo := new(mockTaskRepo)
		repo.On("FindAll", mock.Anything).Return(sampleTasks(), nil)

		got, err := NewListTasksHandler(repo).Handle(ctx, ListTasksQuery{})

		require.NoError(t, err)
		assert.Len(t, got, 3)
		assert.Equal(t, int64(1), got[0].ID)
	})

	t.Run("empty store yields an empty slice", func(t *testing.T) {
		repo := new(mockTaskRepo)
		repo.On("FindAll", mock.Anything).Return([]*task.Task{}, nil)

		got, err := NewListTasksHandler(repo).Handle(ctx, ListTasksQuery{})

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("single status uses exact lookup", func(t *testing.T) {
		repo := new(mockTaskRepo)
		repo.On("FindByStatus", mock.Anything, task.StatusDone).Return(sampleTasks()[1:2], nil)

		got, err := NewListTasksHandler(repo).Handle(ctx, ListTasksQuery{Statuses: []string{task.StatusDone}})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "ABC migration", got[0].Name)
		repo.AssertNotCalled(t, "FindAll", mock.Anything)
	})

	t.Run("empty status string is a status, not a wildcard", func(t *testing.T) {
		repo := new(mockTaskRepo)
		repo.On("FindByStatus", mock.Anything, "").Return([]*task.Task{}, nil)

		got, err := NewListTasksHandler(repo).Handle(ctx, ListTasksQuery{Statuses: []string{""}})

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("several statuses", func(t *testing.T) {
		repo := new(mockTaskRepo)
		statuses := []string{task.StatusPending, task.StatusDone}
		repo.On("FindByStatuses", mock.Anything, statuses).Return(sampleTasks(), nil)

		got, err := NewListTasksHandler(repo).Handle(ctx, ListTasksQuery{Statuses: statuses})

		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("name search", func(t *testing.T) {
		repo := new(mockTaskRepo)
		repo.On("FindByNameContaining", mock.Anything, "ab").Return(sampleTasks()[:2], nil)

		got, err := NewListTasksHandler(repo).Handle(ctx, ListTasksQuery{NameContains: "ab"})

		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("status and name combine", func(t *testing.T) {
		repo := new(mockTaskRepo)
		pending := []*task.Task{sampleTasks()[0], sampleTasks()[2]}
		repo.On("FindByStatus", mock.Anything, task.StatusPending).Return(pending, nil)

		got, err := NewListTasksHandler(repo).Handle(ctx, ListTasksQuery{
			Statuses:     []string{task.StatusPending},
			NameContains: "FAB",
		})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].ID)
	})

	t.Run("store errors propagate", func(t *testing.T) {
		repo := new(mockTaskRepo)
		storeErr := errors.New("boom")
		repo.On("FindAll", mock.Anything).Return(nil, storeErr)

		_, err := NewListTasksHandler(repo).Handle(ctx, ListTasksQuery{})
		assert.ErrorIs(t, err, storeErr)
	})
}
