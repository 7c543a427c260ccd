// internal/sched/tickclock.go

package sched

import (
	"sync/atomic"
	"time"
)

// Clock is a monotonic time source. Readings are durations since an
// arbitrary fixed origin.
type Clock interface {
	Now() time.Duration
}

// MonotonicClock reads the runtime's monotonic clock relative to its creation.
type MonotonicClock struct {
	anchor time.Time
}

// NewMonotonicClock anchors a clock at the current instant.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{anchor: time.Now()}
}

func (c *MonotonicClock) Now() time.Duration { return time.Since(c.anchor) }

// TickClock is a virtual clock that only moves when told to. Each Tick
// advances it by a fixed step; Advance moves it by an arbitrary amount.
type TickClock struct {
	step  time.Duration
	ticks atomic.Int64
	now   atomic.Int64
}

// NewTickClock creates a clock at zero with the given tick step.
func NewTickClock(step time.Duration) *TickClock {
	if step <= 0 {
		step = time.Millisecond
	}
	return &TickClock{step: step}
}

func (c *TickClock) Now() time.Duration { return time.Duration(c.now.Load()) }

// Tick advances the clock by one step.
func (c *TickClock) Tick() {
	c.ticks.Add(1)
	c.now.Add(int64(c.step))
}

// Advance moves the clock forward by d. Negative values are ignored.
func (c *TickClock) Advance(d time.Duration) {
	if d > 0 {
		c.now.Add(int64(d))
	}
}

// Count returns how many times Tick has been called.
func (c *TickClock) Count() int64 {
	return c.ticks.Load()
}
