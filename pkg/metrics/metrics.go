// Package metrics records node lifecycle metrics with Prometheus.
//
// Metrics collected:
//   - weft_nodes_created_total: Counter of intercepted nodes by kind
//   - weft_nodes_started_total: Counter of activated nodes by kind
//   - weft_activation_duration_seconds: Histogram of activation time by kind
//   - weft_replays_total: Counter of source emissions by whether callbacks ran
//   - weft_swallowed_errors_total: Counter of non-fatal errors by category
//   - weft_pending_nodes: Gauge of nodes waiting in the deferred-start queue
//   - weft_stack_depth: Gauge of the construction stack depth
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	b := node.NewBuilder(root, node.WithObserver(metrics.New(metrics.WithRegistry(reg))))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/node"
)

// Config configures the Prometheus observer.
type Config struct {
	// Namespace is the metrics namespace (default: "weft").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for activation duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus observer.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "weft",
		// Activations are sub-millisecond in the common case.
		Buckets:  prometheus.ExponentialBuckets(0.00001, 4, 10),
		Registry: prometheus.DefaultRegisterer,
	}
}

// Observer implements node.Observer.
type Observer struct {
	created    *prometheus.CounterVec
	started    *prometheus.CounterVec
	activation *prometheus.HistogramVec
	replays    *prometheus.CounterVec
	swallowed  *prometheus.CounterVec
	pending    prometheus.Gauge
	depth      prometheus.Gauge
}

var _ node.Observer = (*Observer)(nil)

// New creates an observer and registers its metrics. Registering twice
// with the same registry panics.
func New(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Observer{
		created: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_created_total",
			Help:        "Total number of nodes intercepted at construction",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		started: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_started_total",
			Help:        "Total number of nodes activated",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		activation: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "activation_duration_seconds",
			Help:        "Node activation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"kind"}),

		replays: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "replays_total",
			Help:        "Total number of source emissions delivered to nodes",
			ConstLabels: config.ConstLabels,
		}, []string{"fired"}),

		swallowed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "swallowed_errors_total",
			Help:        "Total number of non-fatal binding errors",
			ConstLabels: config.ConstLabels,
		}, []string{"category"}),

		pending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pending_nodes",
			Help:        "Number of nodes waiting in the deferred-start queue",
			ConstLabels: config.ConstLabels,
		}),

		depth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "stack_depth",
			Help:        "Depth of the construction stack",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// NodeCreated implements node.Observer.
func (o *Observer) NodeCreated(n *node.Node) {
	o.created.WithLabelValues(n.Kind()).Inc()
	o.sample(n)
}

// NodeStarted implements node.Observer.
func (o *Observer) NodeStarted(n *node.Node, elapsed time.Duration) {
	o.started.WithLabelValues(n.Kind()).Inc()
	o.activation.WithLabelValues(n.Kind()).Observe(elapsed.Seconds())
	o.sample(n)
}

// Replayed implements node.Observer.
func (o *Observer) Replayed(_ *node.Node, _ uint64, fired bool) {
	o.replays.WithLabelValues(strconv.FormatBool(fired)).Inc()
}

// Swallowed implements node.Observer.
func (o *Observer) Swallowed(_ *node.Node, err error) {
	o.swallowed.WithLabelValues(categorize(err)).Inc()
}

func (o *Observer) sample(n *node.Node) {
	b := n.Builder()
	o.pending.Set(float64(b.Pending()))
	o.depth.Set(float64(b.Depth()))
}

// categorize maps err to a low-cardinality label.
func categorize(err error) string {
	if c := errors.CategoryOf(err); c != "" {
		return string(c)
	}
	return "other"
}
