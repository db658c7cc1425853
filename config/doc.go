// Package config loads eventkit configuration and turns it into registry options.
//
// Configuration is layered, lowest to highest precedence:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file
//  3. Environment variables with the EVENTKIT_ prefix
//
// Example file (TOML):
//
//	default_priority = 100
//
//	[logging]
//	level = "debug"
//
//	[metrics]
//	enabled = true
//	namespace = "editor"
//
// Typical host setup:
//
//	cfg, err := config.Load("eventkit.toml")
//	if err != nil {
//	    return err
//	}
//	logger, err := cfg.NewLogger()
//	if err != nil {
//	    return err
//	}
//	opts, err := cfg.RegistryOptions(prometheus.DefaultRegisterer, logger)
//	if err != nil {
//	    return err
//	}
//	event.SetDefault(event.NewRegistry(opts...))
package config
