package observability

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics exposes Metrics through a Prometheus registry.
// Collectors are created on first use; the label names of a metric are fixed
// by the tags of its first observation and missing tags are exported empty.
type PrometheusMetrics struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
	labels     map[string][]string
}

// NewPrometheusMetrics creates a Metrics adapter registering on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	return &PrometheusMetrics{
		registerer: reg,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		labels:     make(map[string][]string),
	}
}

// Counter adds value to a counter; negative values are ignored.
func (m *PrometheusMetrics) Counter(name string, value int64, tags ...Tag) {
	if value < 0 {
		return
	}
	m.mu.Lock()
	vec, ok := m.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: promName(name),
			Help: "Counter " + name,
		}, m.labelNames(name, tags))
		vec = registerOrExisting(m.registerer, vec)
		m.counters[name] = vec
	}
	values := m.labelValues(name, tags)
	m.mu.Unlock()

	vec.WithLabelValues(values...).Add(float64(value))
}

// Gauge sets a gauge.
func (m *PrometheusMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.mu.Lock()
	vec, ok := m.gauges[name]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: promName(name),
			Help: "Gauge " + name,
		}, m.labelNames(name, tags))
		vec = registerOrExisting(m.registerer, vec)
		m.gauges[name] = vec
	}
	values := m.labelValues(name, tags)
	m.mu.Unlock()

	vec.WithLabelValues(values...).Set(value)
}

// Histogram observes value with the default buckets.
func (m *PrometheusMetrics) Histogram(name string, value float64, tags ...Tag) {
	m.histogram(name, prometheus.DefBuckets, tags).Observe(value)
}

// Timing observes duration in seconds.
func (m *PrometheusMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.histogram(name+"_seconds", prometheus.DefBuckets, tags).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) histogram(name string, buckets []float64, tags []Tag) prometheus.Observer {
	m.mu.Lock()
	defer m.mu.Unlock()

	vec, ok := m.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    promName(name),
			Help:    "Histogram " + name,
			Buckets: buckets,
		}, m.labelNames(name, tags))
		vec = registerOrExisting(m.registerer, vec)
		m.histograms[name] = vec
	}
	return vec.WithLabelValues(m.labelValues(name, tags)...)
}

// labelNames must be called with mu held.
func (m *PrometheusMetrics) labelNames(name string, tags []Tag) []string {
	if names, ok := m.labels[name]; ok {
		return names
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, promName(t.Key))
	}
	sort.Strings(names)
	m.labels[name] = names
	return names
}

// labelValues must be called with mu held.
func (m *PrometheusMetrics) labelValues(name string, tags []Tag) []string {
	names := m.labels[name]
	values := make([]string, len(names))
	for _, t := range tags {
		key := promName(t.Key)
		if i := sort.SearchStrings(names, key); i < len(names) && names[i] == key {
			values[i] = t.Value
		}
	}
	return values
}

func registerOrExisting[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

// promName converts dotted metric names into Prometheus identifiers.
func promName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == ':':
			return r
		default:
			return '_'
		}
	}, name)
}
