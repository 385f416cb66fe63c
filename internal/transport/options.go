package transport

import (
	"time"

	"golang.org/x/time/rate"
)

// default client settings.
const (
	DefaultRegionSize   = 0x2000
	DefaultHoldDuration = 10 * time.Millisecond
	DefaultCommandRate  = 200
)

// Options controls the client behavior.
type Options struct {
	RegionSize   int           // bytes returned by a memory dump
	HoldDuration time.Duration // time between button press and release
	CommandRate  rate.Limit    // commands per second
	CommandBurst int
}

// Option modifies the client options.
type Option func(*Options)

// NewOptions returns the default options with the given modifications applied.
func NewOptions(options ...Option) Options {
	opts := Options{
		RegionSize:   DefaultRegionSize,
		HoldDuration: DefaultHoldDuration,
		CommandRate:  DefaultCommandRate,
		CommandBurst: 1,
	}
	for _, option := range options {
		option(&opts)
	}
	return opts
}

// WithRegionSize sets the size of the memory dump.
func WithRegionSize(size int) Option {
	return func(opts *Options) {
		opts.RegionSize = size
	}
}

// WithHoldDuration sets how long buttons are held.
func WithHoldDuration(d time.Duration) Option {
	return func(opts *Options) {
		opts.HoldDuration = d
	}
}

// WithCommandRate limits the number of commands sent per second.
// rate.Inf disables the limit.
func WithCommandRate(limit rate.Limit, burst int) Option {
	return func(opts *Options) {
		opts.CommandRate = limit
		opts.CommandBurst = max(burst, 1)
	}
}
