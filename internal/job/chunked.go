package job

import (
	"time"

	"coopsched/internal/sched"
)

// Yielder is the part of the scheduler a cooperative job needs.
type Yielder interface {
	ShouldYieldToHost() bool
}

// ChunkedWork returns a callback that performs chunks units of work, each
// costing cost on the given clock. Between units it checks y and, once the
// time slice is used up, hands back a continuation for the remaining units.
// spend is how a unit consumes time: advancing a virtual clock or sleeping.
func ChunkedWork(y Yielder, chunks int, cost time.Duration, spend func(time.Duration)) sched.Callback {
	remaining := chunks
	var step sched.Callback
	step = func(didTimeout bool) (sched.Result, error) {
		for remaining > 0 {
			spend(cost)
			remaining--
			// expired tasks run to completion instead of yielding
			if remaining > 0 && !didTimeout && y.ShouldYieldToHost() {
				return sched.Continue(step), nil
			}
		}
		return sched.Complete(), nil
	}
	return step
}

// Counted wraps cb, continuations included, and counts its invocations.
func Counted(cb sched.Callback, calls *int) sched.Callback {
	var wrap func(sched.Callback) sched.Callback
	wrap = func(inner sched.Callback) sched.Callback {
		return func(didTimeout bool) (sched.Result, error) {
			*calls++
			res, err := inner(didTimeout)
			if next := res.Continuation(); next != nil {
				return sched.Continue(wrap(next)), err
			}
			return res, err
		}
	}
	return wrap(cb)
}
