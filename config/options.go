package config

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/eventkit/event"
)

// NewLogger builds a zap logger for the configured level and mode.
func (c Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, &ValidationError{Path: "logging.level", Message: err.Error()}
	}

	zc := zap.NewProductionConfig()
	if c.Logging.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

// RegistryOptions returns the event.NewRegistry options for this configuration.
//
// Metrics are registered with reg when enabled; a nil reg uses
// prometheus.DefaultRegisterer. Tracing uses the global OpenTelemetry tracer
// provider. A nil logger leaves the registry's no-op logger in place.
func (c Config) RegistryOptions(reg prometheus.Registerer, logger *zap.Logger) ([]event.Option, error) {
	opts := []event.Option{
		event.WithDefaultPriority(event.Priority(c.DefaultPriority)),
		event.WithLogger(logger),
	}

	if c.Metrics.Enabled {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		m, err := event.NewMetrics(c.Metrics.Namespace, reg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, event.WithMetrics(m))
	}

	if c.Tracing.Enabled {
		opts = append(opts, event.WithTracer(otel.Tracer(c.Tracing.TracerName)))
	}

	return opts, nil
}

// NewRegistry builds a registry from the configuration.
func (c Config) NewRegistry(reg prometheus.Registerer, logger *zap.Logger) (*event.Registry, error) {
	opts, err := c.RegistryOptions(reg, logger)
	if err != nil {
		return nil, err
	}
	return event.NewRegistry(opts...), nil
}
