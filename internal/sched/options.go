// internal/sched/options.go

package sched

import (
	"log/slog"
	"time"
)

// DefaultFrameInterval is the time slice used when none is configured.
const DefaultFrameInterval = 5 * time.Millisecond

type options struct {
	clock         Clock
	frameInterval time.Duration
	logger        *slog.Logger
	sink          EventSink
}

// Option configures a Scheduler.
type Option func(*options)

// WithClock sets the time source. Defaults to a MonotonicClock.
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithFrameInterval sets how long the work loop may run before yielding.
// Non-positive values keep the default.
func WithFrameInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.frameInterval = d
		}
	}
}

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithEventSink registers a receiver for scheduler events.
func WithEventSink(sink EventSink) Option {
	return func(o *options) {
		o.sink = sink
	}
}
