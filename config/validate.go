package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// ValidationError reports an invalid configuration value.
type ValidationError struct {
	// Path is the dotted setting path (e.g., "logging.level").
	Path string

	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Path, e.Message)
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return &ValidationError{Path: "logging.level", Message: err.Error()}
	}
	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Namespace) == "" {
		return &ValidationError{Path: "metrics.namespace", Message: "required when metrics are enabled"}
	}
	if c.Tracing.Enabled && strings.TrimSpace(c.Tracing.TracerName) == "" {
		return &ValidationError{Path: "tracing.tracer_name", Message: "required when tracing is enabled"}
	}
	return nil
}
