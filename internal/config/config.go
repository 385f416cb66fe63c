// Package config handles application configuration and setup
package config

import (
	"fmt"

	"github.com/retroenv/memsnap/internal/addrmap"
	"github.com/retroenv/memsnap/internal/options"
	"github.com/retroenv/memsnap/internal/snapshot"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateDecoder creates the snapshot decoder for the configured layout.
func CreateDecoder(logger *log.Logger, opts options.Program) (*snapshot.Decoder, error) {
	layout, err := addrmap.Lookup(opts.Layout)
	if err != nil {
		return nil, err
	}

	decoder, err := snapshot.New(layout, logger)
	if err != nil {
		return nil, fmt.Errorf("creating decoder: %w", err)
	}
	return decoder, nil
}
