package query

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics for a client.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "reago").
	Namespace string

	// Subsystem is the metrics subsystem (default: "query").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for operation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "reago",
		Subsystem: "query",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus metrics for a client.
//
// Metrics collected:
//   - reago_query_fetches_total: Counter of fetches by status
//   - reago_query_mutations_total: Counter of mutations by status
//   - reago_query_invalidations_total: Counter of invalidation broadcasts
//   - reago_query_operation_duration_seconds: Histogram of fetch/mutate duration
//   - reago_query_records: Gauge of cached records
//
// Statuses are success|error; keys stay out of labels to keep cardinality
// bounded.
type Metrics struct {
	fetches       *prometheus.CounterVec
	mutations     *prometheus.CounterVec
	invalidations prometheus.Counter
	durations     *prometheus.HistogramVec
	records       prometheus.Gauge
}

// NewMetrics builds and registers the metrics set.
//
// Example:
//
//	client := query.NewClient(
//	    query.WithMetrics(query.NewMetrics(
//	        query.WithNamespace("myapp"),
//	    )),
//	)
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fetches_total",
			Help:        "Total number of query fetches by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mutations_total",
			Help:        "Total number of mutations by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		invalidations: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "invalidations_total",
			Help:        "Total number of invalidation broadcasts",
			ConstLabels: config.ConstLabels,
		}),

		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operation_duration_seconds",
			Help:        "Fetch and mutation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),

		records: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "records",
			Help:        "Number of cached query records",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) observeFetch(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(status).Inc()
	m.durations.WithLabelValues("fetch").Observe(d.Seconds())
}

func (m *Metrics) observeMutation(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(status).Inc()
	m.durations.WithLabelValues("mutate").Observe(d.Seconds())
}

func (m *Metrics) observeInvalidation() {
	if m == nil {
		return
	}
	m.invalidations.Inc()
}

func (m *Metrics) observeRecords(count int) {
	if m == nil {
		return
	}
	m.records.Set(float64(count))
}
