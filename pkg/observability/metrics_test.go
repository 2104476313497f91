package observability

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	var m Metrics = NoopMetrics{}

	assert.NotPanics(t, func() {
		m.Counter(MetricTasksCreated, 1)
		m.Gauge(MetricOutboxLag, 1.5)
		m.Histogram("payload_bytes", 10)
		m.Timing(MetricOperationDuration, time.Second)
	})
}

func TestInMemoryMetrics(t *testing.T) {
	t.Run("counters accumulate per tag set", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter(MetricTasksCreated, 1, T("source", "api"))
		m.Counter(MetricTasksCreated, 2, T("source", "api"))
		m.Counter(MetricTasksCreated, 1, T("source", "cli"))

		assert.Equal(t, int64(3), m.GetCounter(MetricTasksCreated, T("source", "api")))
		assert.Equal(t, int64(1), m.GetCounter(MetricTasksCreated, T("source", "cli")))
		assert.Zero(t, m.GetCounter(MetricTasksCreated))
	})

	t.Run("gauges keep the last value", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Gauge(MetricOutboxLag, 4)
		m.Gauge(MetricOutboxLag, 2)

		assert.Equal(t, 2.0, m.GetGauge(MetricOutboxLag))
	})

	t.Run("histograms and timings record every value", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Histogram("batch", 1)
		m.Histogram("batch", 5)
		m.Timing(MetricOperationDuration, time.Millisecond)

		assert.Equal(t, []float64{1, 5}, m.GetHistogram("batch"))
		assert.Equal(t, []time.Duration{time.Millisecond}, m.GetTimings(MetricOperationDuration))
	})

	t.Run("reset clears everything", func(t *testing.T) {
		m := NewInMemoryMetrics()
		m.Counter("c", 1)
		m.Histogram("h", 1)

		m.Reset()

		assert.Zero(t, m.GetCounter("c"))
		assert.Empty(t, m.GetHistogram("h"))
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		m := NewInMemoryMetrics()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				m.Counter("hits", 1)
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(50), m.GetCounter("hits"))
	})
}

func TestFormatKey(t *testing.T) {
	tests := []struct {
		name     string
		tags     []Tag
		expected string
	}{
		{name: "no tags", tags: nil, expected: "requests"},
		{name: "single tag", tags: []Tag{T("method", "GET")}, expected: "requests:method=GET"},
		{name: "multiple tags", tags: []Tag{T("method", "GET"), T("status", "200")}, expected: "requests:method=GET:status=200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatKey("requests", tt.tags))
		})
	}
}
