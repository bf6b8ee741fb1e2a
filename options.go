package generator

import (
	"github.com/rs/zerolog"
	"github.com/tcard/coro"
	"go.opentelemetry.io/otel/metric"
)

// A GoFunc spawns the goroutine that runs a producer task.
type GoFunc = coro.GoFunc

// Options is configured via SetOptions passed to New.
type Options struct {
	g     GoFunc
	log   zerolog.Logger
	meter metric.Meter
}

type SetOption func(*Options)

// WithGoFunc sets a custom GoFunc to spawn producer tasks, e.g. to track them
// in an errgroup or to run them with pprof labels.
func WithGoFunc(g GoFunc) SetOption {
	return func(o *Options) {
		o.g = g
	}
}

func WithLogger(log zerolog.Logger) SetOption {
	return func(o *Options) {
		o.log = log
	}
}

// WithMeter records task and value counters on m instead of the global
// OpenTelemetry meter.
func WithMeter(m metric.Meter) SetOption {
	return func(o *Options) {
		o.meter = m
	}
}

var defaultOptions = []SetOption{
	WithGoFunc(func(f func()) { go f() }),
	WithLogger(zerolog.Nop()),
}

func buildOptions(setOptions []SetOption) Options {
	var options Options
	for _, setOption := range defaultOptions {
		setOption(&options)
	}
	for _, setOption := range setOptions {
		setOption(&options)
	}
	return options
}
