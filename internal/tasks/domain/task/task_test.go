package task

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	tk := NewTask("Deploy", StatusPending, "server")

	assert.True(t, tk.IsNew())
	assert.Equal(t, int64(0), tk.ID())
	assert.Equal(t, "Deploy", tk.Name())
	assert.Equal(t, StatusPending, tk.Status())
	assert.Equal(t, "server", tk.TargetType())
	assert.False(t, tk.CreatedAt().IsZero())
	assert.Equal(t, tk.CreatedAt(), tk.UpdatedAt())
	assert.Empty(t, tk.DomainEvents(), "created event waits for an id")
}

func TestTask_AssignID(t *testing.T) {
	t.Run("records created event with the id", func(t *testing.T) {
		tk := NewTask("Deploy", StatusPending, "server")

		require.NoError(t, tk.AssignID(1))

		assert.Equal(t, int64(1), tk.ID())
		assert.False(t, tk.IsNew())
		require.Len(t, tk.DomainEvents(), 1)

		event, ok := tk.DomainEvents()[0].(*TaskCreated)
		require.True(t, ok)
		assert.Equal(t, "1", event.AggregateID())
		assert.Equal(t, AggregateType, event.AggregateType())
		assert.Equal(t, RoutingKeyCreated, event.RoutingKey())
		assert.Equal(t, "Deploy", event.Name)
		assert.Equal(t, StatusPending, event.Status)
		assert.Equal(t, "server", event.TargetType)
	})

	t.Run("rejects a second assignment", func(t *testing.T) {
		tk := NewTask("Deploy", StatusPending, "server")
		require.NoError(t, tk.AssignID(1))

		assert.ErrorIs(t, tk.AssignID(2), ErrIDAlreadyAssigned)
		assert.Equal(t, int64(1), tk.ID())
	})

	t.Run("rejects non-positive ids", func(t *testing.T) {
		tk := NewTask("Deploy", StatusPending, "server")

		assert.ErrorIs(t, tk.AssignID(0), ErrInvalidID)
		assert.ErrorIs(t, tk.AssignID(-3), ErrInvalidID)
		assert.True(t, tk.IsNew())
	})
}

func TestTask_Update(t *testing.T) {
	created := time.Now().UTC().Add(-time.Minute)
	tk := Rehydrate(7, "Deploy", StatusPending, "server", created, created)

	tk.Update("Deploy v2", StatusDone, "")

	assert.Equal(t, int64(7), tk.ID())
	assert.Equal(t, "Deploy v2", tk.Name())
	assert.Equal(t, StatusDone, tk.Status())
	assert.Equal(t, "", tk.TargetType(), "empty values overwrite")
	assert.Equal(t, created, tk.CreatedAt())
	assert.False(t, tk.UpdatedAt().Before(created))

	require.Len(t, tk.DomainEvents(), 1)
	event, ok := tk.DomainEvents()[0].(*TaskUpdated)
	require.True(t, ok)
	assert.Equal(t, "7", event.AggregateID())
	assert.Equal(t, RoutingKeyUpdated, event.RoutingKey())
	assert.Equal(t, "Deploy v2", event.Name)
}

func TestTask_MarkDeleted(t *testing.T) {
	now := time.Now().UTC()
	tk := Rehydrate(3, "a", "b", "c", now, now)

	tk.MarkDeleted()

	require.Len(t, tk.DomainEvents(), 1)
	assert.Equal(t, RoutingKeyDeleted, tk.DomainEvents()[0].RoutingKey())
	assert.Equal(t, "3", tk.DomainEvents()[0].AggregateID())
}

func TestRehydrate_RecordsNoEvents(t *testing.T) {
	now := time.Now().UTC()
	tk := Rehydrate(1, "a", "b", "c", now, now)
	assert.Empty(t, tk.DomainEvents())
	assert.False(t, tk.IsNew())
}

func TestNotFoundError(t *testing.T) {
	var err error = &NotFoundError{ID: 42}

	assert.Equal(t, "task not found with id 42", err.Error())
	assert.True(t, errors.Is(err, ErrTaskNotFound))

	wrapped := fmt.Errorf("update task: %w", err)
	assert.ErrorIs(t, wrapped, ErrTaskNotFound)

	var nf *NotFoundError
	require.ErrorAs(t, wrapped, &nf)
	assert.Equal(t, int64(42), nf.ID)

	assert.False(t, errors.Is(err, ErrInvalidID))
}
