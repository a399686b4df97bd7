// Package tracing records node lifecycle spans with OpenTelemetry.
//
// Each activation becomes a span covering the time the node spent running
// its eager bindings. Swallowed errors become short error spans, and
// replays can optionally be traced too.
//
// The tracer comes from the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. Configure it in main():
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//	b := node.NewBuilder(root, node.WithObserver(tracing.New()))
package tracing

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/node"
)

// Default tracer name for weft node trees.
const defaultTracerName = "weft"

// Span names.
const (
	SpanStart  = "weft.node.start"
	SpanReplay = "weft.node.replay"
	SpanError  = "weft.node.error"
)

// Config configures the OpenTelemetry observer.
type Config struct {
	// TracerName is the name of the tracer (default: "weft").
	TracerName string

	// TracerProvider overrides the global tracer provider.
	TracerProvider trace.TracerProvider

	// TraceReplays creates a span for every replay.
	TraceReplays bool

	// Context is the parent context of every span.
	Context context.Context

	// Filter determines which nodes to trace. If nil, all nodes are traced.
	Filter func(n *node.Node) bool
}

// Option configures the OpenTelemetry observer.
type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = tp
	}
}

// WithTraceReplays enables or disables replay spans.
func WithTraceReplays(enabled bool) Option {
	return func(c *Config) {
		c.TraceReplays = enabled
	}
}

// WithContext sets the parent context of every span.
func WithContext(ctx context.Context) Option {
	return func(c *Config) {
		c.Context = ctx
	}
}

// WithNodeFilter sets a filter function for nodes.
func WithNodeFilter(filter func(n *node.Node) bool) Option {
	return func(c *Config) {
		c.Filter = filter
	}
}

func defaultConfig() Config {
	return Config{
		TracerName: defaultTracerName,
		Context:    context.Background(),
	}
}

// Observer implements node.Observer.
type Observer struct {
	config Config
	tracer trace.Tracer
}

var _ node.Observer = (*Observer)(nil)

// New creates an observer.
func New(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Context == nil {
		config.Context = context.Background()
	}

	var tracer trace.Tracer
	if config.TracerProvider != nil {
		tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}
	return &Observer{config: config, tracer: tracer}
}

// NodeCreated implements node.Observer.
func (o *Observer) NodeCreated(*node.Node) {}

// NodeStarted implements node.Observer. The span is backdated to cover the
// activation.
func (o *Observer) NodeStarted(n *node.Node, elapsed time.Duration) {
	if !o.traced(n) {
		return
	}
	end := time.Now()
	_, span := o.tracer.Start(o.config.Context, SpanStart,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(append(nodeAttributes(n),
			attribute.Int("weft.bindings", n.Bindings()),
		)...),
		trace.WithTimestamp(end.Add(-elapsed)),
	)
	span.End(trace.WithTimestamp(end))
}

// Replayed implements node.Observer.
func (o *Observer) Replayed(n *node.Node, key uint64, fired bool) {
	if !o.config.TraceReplays || !o.traced(n) {
		return
	}
	_, span := o.tracer.Start(o.config.Context, SpanReplay,
		trace.WithAttributes(append(nodeAttributes(n),
			attribute.String("weft.binding_key", strconv.FormatUint(key, 10)),
			attribute.Bool("weft.fired", fired),
		)...),
		trace.WithTimestamp(time.Now()),
	)
	span.End()
}

// Swallowed implements node.Observer.
func (o *Observer) Swallowed(n *node.Node, err error) {
	if !o.traced(n) {
		return
	}
	attrs := nodeAttributes(n)
	if we, ok := err.(*errors.Error); ok {
		attrs = append(attrs,
			attribute.String("weft.error_code", we.Code),
			attribute.String("weft.error_category", string(we.Category)),
		)
	}
	_, span := o.tracer.Start(o.config.Context, SpanError,
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(time.Now()),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
}

func (o *Observer) traced(n *node.Node) bool {
	return o.config.Filter == nil || o.config.Filter(n)
}

func nodeAttributes(n *node.Node) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.Int64("weft.node_id", int64(n.ID())),
		attribute.String("weft.tag", n.Kind()),
	}
	if c := n.Component(); c != nil {
		attrs = append(attrs, attribute.String("weft.component", c.CIDName()))
	}
	return attrs
}
