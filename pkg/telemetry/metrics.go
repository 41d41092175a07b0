package telemetry

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/gatefx/pkg/reactive"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "gatefx").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for effect duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
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
		Namespace: "gatefx",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a reactive.Observer that counts effect activity by hook.
//
// Metrics collected:
//   - gatefx_effects_scheduled_total: renders that queued an effect
//   - gatefx_effects_skipped_total: renders that left an effect unchanged
//   - gatefx_effect_runs_total: completed effect runs
//   - gatefx_effect_duration_seconds: effect body duration
//   - gatefx_effect_cleanups_total: cleanups run
type Metrics struct {
	scheduled *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	runs      *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	cleanups  *prometheus.CounterVec
}

// Prometheus creates a metrics observer. Collectors already registered
// under the same names (a second observer on the same registry) are
// reused, so every observer on a registry feeds the same series.
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	counter := func(name, help string) *prometheus.CounterVec {
		return register(config.Registry, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, []string{"hook"}))
	}

	return &Metrics{
		scheduled: counter("effects_scheduled_total", "Total renders that scheduled an effect"),
		skipped:   counter("effects_skipped_total", "Total renders that left an effect unchanged"),
		runs:      counter("effect_runs_total", "Total effect runs"),
		cleanups:  counter("effect_cleanups_total", "Total effect cleanups run"),
		duration: register(config.Registry, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_duration_seconds",
			Help:        "Effect body duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"hook"})),
	}
}

// register registers c, or returns the collector registered before it.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *Metrics) EffectScheduled(info reactive.EffectInfo) {
	m.scheduled.WithLabelValues(info.Hook).Inc()
}

func (m *Metrics) EffectSkipped(info reactive.EffectInfo) {
	m.skipped.WithLabelValues(info.Hook).Inc()
}

func (m *Metrics) EffectRan(info reactive.EffectInfo, d time.Duration) {
	m.runs.WithLabelValues(info.Hook).Inc()
	m.duration.WithLabelValues(info.Hook).Observe(d.Seconds())
}

func (m *Metrics) CleanupRan(info reactive.EffectInfo) {
	m.cleanups.WithLabelValues(info.Hook).Inc()
}
