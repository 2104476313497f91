package outbox

import (
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/nexus/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	domain.BaseEvent
	Data string `json:"data"`
}

func newTestEvent(aggregateID, data string) *testEvent {
	return &testEvent{
		BaseEvent: domain.NewBaseEvent(aggregateID, "TestAggregate", "test.event.created"),
		Data:      data,
	}
}

func TestNewMessage(t *testing.T) {
	t.Run("creates message from domain event", func(t *testing.T) {
		event := newTestEvent("17", "test data")

		msg, err := NewMessage(event)

		require.NoError(t, err)
		assert.Equal(t, event.EventID(), msg.EventID)
		assert.Equal(t, "TestAggregate", msg.AggregateType)
		assert.Equal(t, "17", msg.AggregateID)
		assert.Equal(t, "test.event.created", msg.EventType)
		assert.Equal(t, "test.event.created", msg.RoutingKey)
		assert.Equal(t, event.OccurredAt(), msg.CreatedAt)
		assert.False(t, msg.IsPublished())
		assert.False(t, msg.IsDead())
		assert.Zero(t, msg.RetryCount)
	})

	t.Run("serializes payload and metadata", func(t *testing.T) {
		event := newTestEvent("17", "test payload data")
		event.SetMetadata(domain.EventMetadata{CorrelationID: "corr-9"})

		msg, err := NewMessage(event)

		require.NoError(t, err)
		assert.JSONEq(t, `{"data":"test payload data"}`, string(msg.Payload))

		var metadata domain.EventMetadata
		require.NoError(t, json.Unmarshal(msg.Metadata, &metadata))
		assert.Equal(t, "corr-9", metadata.CorrelationID)
	})
}

func TestNewMessages(t *testing.T) {
	events := []domain.DomainEvent{newTestEvent("1", "a"), newTestEvent("2", "b")}

	msgs, err := NewMessages(events)

	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "2", msgs[1].AggregateID)
}

func TestMessage_CanRetry(t *testing.T) {
	msg := &Message{RetryCount: 2}

	assert.True(t, msg.CanRetry(3))
	assert.False(t, msg.CanRetry(2))
}
