// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrogolib/log"

	"github.com/retroenv/snesgomem/internal/options"
)

// CreateLogger creates a logger with the log level selected by the
// program options.
func CreateLogger(opts options.Program) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case opts.Debug:
		cfg.Level = log.DebugLevel
	case opts.Quiet:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
