package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeOperation(t *testing.T) {
	t.Run("records success", func(t *testing.T) {
		metrics := NewInMemoryMetrics()

		err := TimeOperation(context.Background(), nil, metrics, "task.list", func() error { return nil })

		assert.NoError(t, err)
		assert.Equal(t, int64(1), metrics.GetCounter(MetricOperationTotal, T(OperationKey, "task.list")))
		assert.Zero(t, metrics.GetCounter(MetricOperationErrors, T(OperationKey, "task.list")))
		assert.Len(t, metrics.GetTimings(MetricOperationDuration, T(OperationKey, "task.list")), 1)
	})

	t.Run("records and logs failure", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Format: LogFormatJSON, Output: &buf})
		metrics := NewInMemoryMetrics()
		boom := errors.New("boom")

		err := TimeOperation(context.Background(), logger, metrics, "task.update", func() error { return boom })

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, int64(1), metrics.GetCounter(MetricOperationErrors, T(OperationKey, "task.update")))
		assert.Contains(t, buf.String(), `"operation":"task.update"`)
		assert.Contains(t, buf.String(), `"error":"boom"`)
	})
}

func TestTimeOperationResult(t *testing.T) {
	metrics := NewInMemoryMetrics()

	got, err := TimeOperationResult(context.Background(), nil, metrics, "task.get", func() (int, error) {
		return 42, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, int64(1), metrics.GetCounter(MetricOperationTotal, T(OperationKey, "task.get")))
}

func TestTimer_WithTags(t *testing.T) {
	metrics := NewInMemoryMetrics()

	StartTimer("task.create").WithMetrics(metrics).WithTags(T("source", "cli")).Stop(context.Background())

	assert.Equal(t, int64(1), metrics.GetCounter(MetricOperationTotal,
		T(OperationKey, "task.create"), T("source", "cli")))
}
