package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/dshills/eventkit/event"
	"github.com/dshills/eventkit/internal/loader"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "EVENTKIT_"

// Config is the eventkit configuration.
type Config struct {
	// DefaultPriority is used for subscriptions made without an explicit priority.
	DefaultPriority int `mapstructure:"default_priority"`

	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `mapstructure:"level"`

	// Development selects zap's development encoder and stack traces.
	Development bool `mapstructure:"development"`
}

// MetricsConfig configures prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// TracingConfig configures OpenTelemetry emission spans.
type TracingConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	TracerName string `mapstructure:"tracer_name"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DefaultPriority: int(event.DefaultPriority),
		Logging: LoggingConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Namespace: "eventkit",
		},
		Tracing: TracingConfig{
			TracerName: "github.com/dshills/eventkit/event",
		},
	}
}

// Load reads the configuration file at path (TOML or YAML by extension),
// applies EVENTKIT_ environment overrides and validates the result.
// An empty path or a missing file leaves the defaults in place.
func Load(path string) (Config, error) {
	return LoadWithFS(loader.DefaultFS(), path)
}

// LoadWithFS is Load with a custom file system.
func LoadWithFS(fsys loader.FileSystem, path string) (Config, error) {
	var layers []loader.Loader
	if path != "" {
		fl, err := loader.ForPath(fsys, path)
		if err != nil {
			return Config{}, fmt.Errorf("loading config: %w", err)
		}
		layers = append(layers, fl)
	}
	layers = append(layers, loader.NewEnvLoader(EnvPrefix))

	return FromLayers(layers...)
}

// FromLayers merges the given layers over the defaults, in order, and
// decodes and validates the result.
func FromLayers(layers ...loader.Loader) (Config, error) {
	merged := make(map[string]any)
	for _, l := range layers {
		data, err := l.Load()
		if err != nil {
			return Config{}, fmt.Errorf("loading config: %w", err)
		}
		merged = loader.DeepMerge(merged, data)
	}

	cfg := Default()
	if err := decode(merged, &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode writes the merged map onto cfg. Keys missing from data keep the
// values already in cfg.
func decode(data map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}
