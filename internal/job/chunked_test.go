package job_test

import (
	"testing"
	"time"

	"coopsched/internal/job"
	"coopsched/internal/sched"
)

// sliceYielder yields once the clock has moved budget past its origin.
type sliceYielder struct {
	clock  *sched.TickClock
	origin time.Duration
	budget time.Duration
}

func (y *sliceYielder) ShouldYieldToHost() bool {
	return y.clock.Now()-y.origin >= y.budget
}

func TestChunkedWork(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		chunks      int
		didTimeout  bool
		wantPasses  int
		wantElapsed time.Duration
	}{
		"fits in one slice": {
			chunks:      2,
			wantPasses:  1,
			wantElapsed: 2 * time.Millisecond,
		},
		"split across slices": {
			chunks:      7,
			wantPasses:  3, // 3 + 3 + 1 units
			wantElapsed: 7 * time.Millisecond,
		},
		"expired task never yields": {
			chunks:      7,
			didTimeout:  true,
			wantPasses:  1,
			wantElapsed: 7 * time.Millisecond,
		},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			clock := sched.NewTickClock(time.Millisecond)
			y := &sliceYielder{clock: clock, budget: 3 * time.Millisecond}

			cb := job.ChunkedWork(y, tt.chunks, time.Millisecond, clock.Advance)
			passes := 0
			for cb != nil {
				passes++
				y.origin = clock.Now()
				res, err := cb(tt.didTimeout)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				cb = res.Continuation()
			}

			if passes != tt.wantPasses {
				t.Errorf("passes: got %d, want %d", passes, tt.wantPasses)
			}
			if got := clock.Now(); got != tt.wantElapsed {
				t.Errorf("elapsed: got %v, want %v", got, tt.wantElapsed)
			}
		})
	}
}

func TestCounted(t *testing.T) {
	t.Parallel()

	clock := sched.NewTickClock(time.Millisecond)
	y := &sliceYielder{clock: clock, budget: time.Millisecond}

	calls := 0
	cb := job.Counted(job.ChunkedWork(y, 3, time.Millisecond, clock.Advance), &calls)
	for cb != nil {
		y.origin = clock.Now()
		res, _ := cb(false)
		cb = res.Continuation()
	}

	if calls != 3 {
		t.Errorf("expected 3 invocations, got %d", calls)
	}
}
