// Package host provides the message loop the scheduler re-arms itself on.
//
// A Loop runs requested callbacks one per turn in FIFO order. Callbacks
// requested while a turn is running are queued behind everything already
// pending, so a callback never runs on the stack of the code that asked
// for it.
package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// ErrLoopRunning is returned when Run or RunUntilIdle is called on a loop
// that is already being driven.
var ErrLoopRunning = errors.New("host: loop is already running")

// PanicError carries a value recovered from a panicking callback.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("host: callback panicked: %v", e.Value)
}

// ErrorHandler receives failures from callbacks run by Run and RunUntilIdle.
type ErrorHandler func(error)

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithErrorHandler overrides how callback failures are reported. By
// default they are logged with slog.Default at error level.
func WithErrorHandler(h ErrorHandler) LoopOption {
	return func(l *Loop) {
		if h != nil {
			l.onError = h
		}
	}
}

// Loop is a single-consumer message loop. RequestCallback and Post are
// safe to call from any goroutine; callbacks always run on the goroutine
// driving the loop.
type Loop struct {
	mu      sync.Mutex
	queue   []func() error
	wake    chan struct{}
	running atomic.Bool
	onError ErrorHandler
}

// NewLoop creates an idle loop.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		wake: make(chan struct{}, 1),
		onError: func(err error) {
			slog.Default().Error("host callback failed", "err", err)
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RequestCallback queues fn for a later turn.
func (l *Loop) RequestCallback(fn func() error) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Post queues fn for a later turn. It is the usual way for other
// goroutines to hand work to whatever runs on the loop.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.RequestCallback(func() error {
		fn()
		return nil
	})
}

// Pending returns the number of queued callbacks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Step runs the oldest queued callback and returns its error. A panic is
// recovered and returned as a *PanicError. ran is false when nothing was
// queued.
func (l *Loop) Step() (ran bool, err error) {
	l.mu.Lock()
	if len(l.queue) == 0 {
		l.mu.Unlock()
		return false, nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	l.mu.Unlock()

	ran = true
	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{Value: p, Stack: debug.Stack()}
		}
	}()
	return ran, fn()
}

// RunUntilIdle runs turns on the calling goroutine until no callbacks are
// queued or ctx is done.
func (l *Loop) RunUntilIdle(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ran, err := l.Step()
		if !ran {
			return nil
		}
		if err != nil {
			l.onError(err)
		}
	}
}

// Run drives the loop on the calling goroutine until ctx is done, waiting
// for new callbacks whenever the queue is empty.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ran, err := l.Step()
		if err != nil {
			l.onError(err)
		}
		if ran {
			continue
		}

		select {
		case <-l.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
