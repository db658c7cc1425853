package event

import (
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// Option configures a Registry.
type Option func(*registryConfig)

// registryConfig contains configuration for a registry.
type registryConfig struct {
	// defaultPriority is used by subscriptions without WithPriority.
	defaultPriority Priority

	logger  *zap.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// defaultRegistryConfig returns the default configuration.
func defaultRegistryConfig() registryConfig {
	return registryConfig{
		defaultPriority: DefaultPriority,
		logger:          zap.NewNop(),
		tracer:          noop.NewTracerProvider().Tracer(""),
	}
}

// WithDefaultPriority sets the priority used when a subscription does not give one.
func WithDefaultPriority(p Priority) Option {
	return func(c *registryConfig) {
		c.defaultPriority = p
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(c *registryConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics attaches prometheus metrics created by NewMetrics.
func WithMetrics(m *Metrics) Option {
	return func(c *registryConfig) {
		c.metrics = m
	}
}

// WithTracer sets the tracer used for emission spans. A nil tracer is ignored.
func WithTracer(t trace.Tracer) Option {
	return func(c *registryConfig) {
		if t != nil {
			c.tracer = t
		}
	}
}

// SubscribeOption configures a single subscription.
type SubscribeOption func(*subscribeConfig)

type subscribeConfig struct {
	priority    Priority
	hasPriority bool
}

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscribeOption {
	return func(c *subscribeConfig) {
		c.priority = p
		c.hasPriority = true
	}
}
