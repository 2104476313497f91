package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/nexus/internal/tasks/domain/task"
)

// runRepositoryContract exercises behaviour every task.Repository must share.
// repo must start empty.
func runRepositoryContract(t *testing.T, repo task.Repository) {
	ctx := context.Background()

	create := func(t *testing.T, name, status, targetType string) *task.Task {
		t.Helper()
		tk := task.NewTask(name, status, targetType)
		require.NoError(t, repo.Save(ctx, tk))
		require.False(t, tk.IsNew())
		return tk
	}

	t.Run("empty store returns empty slices", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	deploy := create(t, "Deploy", task.StatusPending, "server")
	fabric := create(t, "Fabric", task.StatusDone, "network")
	abc := create(t, "ABC", task.StatusPending, "db")
	cab := create(t, "cab", task.StatusRunning, "fleet")
	xyz := create(t, "xyz", task.StatusFailed, "server")
	percent := create(t, "100% done_now", "pending", "misc")

	t.Run("save assigns increasing ids", func(t *testing.T) {
		assert.Greater(t, fabric.ID(), deploy.ID())
		assert.Greater(t, xyz.ID(), cab.ID())
	})

	t.Run("find by id returns the stored fields", func(t *testing.T) {
		got, err := repo.FindByID(ctx, deploy.ID())
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, deploy.ID(), got.ID())
		assert.Equal(t, "Deploy", got.Name())
		assert.Equal(t, task.StatusPending, got.Status())
		assert.Equal(t, "server", got.TargetType())
		assert.WithinDuration(t, deploy.CreatedAt(), got.CreatedAt(), time.Millisecond)
	})

	t.Run("find by id on a missing task is nil", func(t *testing.T) {
		got, err := repo.FindByID(ctx, 987654)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("find all is ordered by id", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 6)
		for i := 1; i < len(all); i++ {
			assert.Less(t, all[i-1].ID(), all[i].ID())
		}
	})

	t.Run("status match is exact and case-sensitive", func(t *testing.T) {
		got, err := repo.FindByStatus(ctx, task.StatusPending)
		require.NoError(t, err)
		assert.Equal(t, []int64{deploy.ID(), abc.ID()}, ids(got))

		got, err = repo.FindByStatus(ctx, "PEND")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("several statuses", func(t *testing.T) {
		got, err := repo.FindByStatuses(ctx, []string{task.StatusDone, task.StatusFailed})
		require.NoError(t, err)
		assert.Equal(t, []int64{fabric.ID(), xyz.ID()}, ids(got))

		got, err = repo.FindByStatuses(ctx, []string{})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("name search is a case-insensitive substring", func(t *testing.T) {
		got, err := repo.FindByNameContaining(ctx, "ab")
		require.NoError(t, err)
		assert.Equal(t, []int64{fabric.ID(), abc.ID(), cab.ID()}, ids(got))
	})

	t.Run("empty name matches every task", func(t *testing.T) {
		got, err := repo.FindByNameContaining(ctx, "")
		require.NoError(t, err)
		assert.Len(t, got, 6)
	})

	t.Run("wildcard characters are literal", func(t *testing.T) {
		got, err := repo.FindByNameContaining(ctx, "%")
		require.NoError(t, err)
		assert.Equal(t, []int64{percent.ID()}, ids(got))

		got, err = repo.FindByNameContaining(ctx, "e_n")
		require.NoError(t, err)
		assert.Equal(t, []int64{percent.ID()}, ids(got))

		got, err = repo.FindByNameContaining(ctx, "o_e")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("save overwrites an existing task", func(t *testing.T) {
		deploy.Update("Deploy v2", task.StatusDone, "server")
		require.NoError(t, repo.Save(ctx, deploy))

		got, err := repo.FindByID(ctx, deploy.ID())
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Deploy v2", got.Name())
		assert.Equal(t, task.StatusDone, got.Status())
		assert.Equal(t, "server", got.TargetType())
		assert.False(t, got.UpdatedAt().Before(got.CreatedAt()))
	})

	t.Run("saving a vanished task reports not found", func(t *testing.T) {
		ghost := task.Rehydrate(555555, "ghost", "", "", deploy.CreatedAt(), deploy.UpdatedAt())
		err := repo.Save(ctx, ghost)

		assert.ErrorIs(t, err, task.ErrTaskNotFound)
	})

	t.Run("delete removes the task and is a no-op when missing", func(t *testing.T) {
		require.NoError(t, repo.DeleteByID(ctx, xyz.ID()))

		got, err := repo.FindByID(ctx, xyz.ID())
		require.NoError(t, err)
		assert.Nil(t, got)

		require.NoError(t, repo.DeleteByID(ctx, xyz.ID()))
		require.NoError(t, repo.DeleteByID(ctx, 424242))
	})
}

func ids(tasks []*task.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID())
	}
	return out
}
