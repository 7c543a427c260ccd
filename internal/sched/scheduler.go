// internal/sched/scheduler.go

package sched

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

var (
	// ErrNilCallback is returned by Schedule when no callback is given.
	ErrNilCallback = errors.New("sched: nil callback")

	// ErrReentrantFlush is returned when a task callback tries to flush the
	// scheduler that is currently running it.
	ErrReentrantFlush = errors.New("sched: flush called from inside a task callback")
)

// TaskError wraps a failure returned by a task callback.
type TaskError struct {
	ID       TaskID
	Priority PriorityLevel
	Err      error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("sched: task %d (%s): %v", e.ID, e.Priority, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

// Host runs callbacks on a later turn of its own loop, never synchronously
// on the caller's stack.
type Host interface {
	RequestCallback(fn func() error)
}

// Scheduler is a cooperative, time-sliced task scheduler. Tasks run in
// deadline order on whichever goroutine the Host uses to run callbacks.
//
// A Scheduler is not safe for concurrent use: Schedule, Cancel and the
// introspection methods must be called from the host's goroutine,
// typically from inside task callbacks.
type Scheduler struct {
	host          Host
	clock         Clock
	frameInterval time.Duration
	logger        *slog.Logger
	sink          EventSink

	tasks *Registry

	sliceStart      time.Duration // origin of the current time slice
	currentTask     *Task
	currentPriority PriorityLevel

	performingWork        bool // guards against re-entrant flushes
	hostCallbackScheduled bool
	loopRunning           bool
}

// New creates a Scheduler that re-arms itself through host.
func New(host Host, opts ...Option) *Scheduler {
	o := options{frameInterval: DefaultFrameInterval}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = NewMonotonicClock()
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Scheduler{
		host:            host,
		clock:           o.clock,
		frameInterval:   o.frameInterval,
		logger:          o.logger,
		sink:            o.sink,
		tasks:           NewRegistry(),
		currentPriority: NormalPriority,
	}
}

// Schedule queues cb with a deadline derived from priority and, if the
// scheduler is idle, asks the host for a callback. cb is never invoked
// synchronously. The returned task can be passed to Cancel.
func (s *Scheduler) Schedule(priority PriorityLevel, cb Callback) (*Task, error) {
	if cb == nil {
		return nil, ErrNilCallback
	}

	t := newTask(priority, s.clock.Now(), cb)
	s.tasks.Add(t)
	s.emit(EventEnqueue, t, false)

	if !s.hostCallbackScheduled && !s.performingWork {
		s.hostCallbackScheduled = true
		s.requestHostCallback()
	}
	return t, nil
}

func (s *Scheduler) requestHostCallback() {
	if s.loopRunning {
		return
	}
	s.loopRunning = true
	s.logger.Debug("arming host callback", "pending", s.tasks.Len())
	s.host.RequestCallback(s.PerformWork)
}

// PerformWork is the callback handed to the host. It runs one time slice
// and re-arms itself while work remains, including when a task fails.
func (s *Scheduler) PerformWork() error {
	if !s.loopRunning {
		return nil
	}
	if s.performingWork {
		return ErrReentrantFlush
	}

	hasMoreWork := true
	defer func() {
		if hasMoreWork {
			s.host.RequestCallback(s.PerformWork)
		} else {
			s.loopRunning = false
		}
	}()

	var err error
	hasMoreWork, err = s.Flush(s.clock.Now())
	return err
}

// Flush runs the work loop starting a slice at sliceStart and reports
// whether tasks remain. Bookkeeping is restored on every exit path,
// panics included.
func (s *Scheduler) Flush(sliceStart time.Duration) (bool, error) {
	if s.performingWork {
		return false, ErrReentrantFlush
	}

	s.hostCallbackScheduled = false
	s.performingWork = true
	previousPriority := s.currentPriority
	defer func() {
		s.currentTask = nil
		s.currentPriority = previousPriority
		s.performingWork = false
	}()

	return s.workLoop(sliceStart)
}

func (s *Scheduler) workLoop(initialTime time.Duration) (bool, error) {
	s.sliceStart = initialTime
	currentTime := initialTime

	s.currentTask = s.tasks.Peek()
	for s.currentTask != nil {
		t := s.currentTask
		if t.Deadline > currentTime && s.ShouldYieldToHost() {
			s.emit(EventYield, t, false)
			break
		}

		cb := t.callback
		if cb == nil {
			// tombstone
			s.tasks.Pop()
			if !t.settled {
				s.emit(EventDiscard, t, false)
			}
			s.currentTask = s.tasks.Peek()
			continue
		}

		// Detach before invoking so a cancellation from inside cb sticks.
		t.callback = nil
		s.currentPriority = t.Priority
		didTimeout := t.Deadline <= currentTime
		s.emit(EventDispatch, t, didTimeout)

		res, err := s.invoke(t, cb, didTimeout)
		currentTime = s.clock.Now()

		if err != nil {
			t.settled = true
			s.removeIfRoot(t)
			s.emit(EventFail, t, didTimeout)
			s.logger.Warn("task failed", "task", t.ID, "priority", t.Priority, "err", err)
			return s.tasks.Len() > 0, &TaskError{ID: t.ID, Priority: t.Priority, Err: err}
		}

		if next := res.Continuation(); next != nil && !t.canceled {
			t.callback = next
			s.emit(EventContinue, t, didTimeout)
			return true, nil
		}

		t.settled = true
		s.removeIfRoot(t)
		if t.canceled {
			s.emit(EventDiscard, t, didTimeout)
		} else {
			s.emit(EventFinish, t, didTimeout)
		}
		s.currentTask = s.tasks.Peek()
	}

	return s.currentTask != nil, nil
}

// invoke runs cb for t. If cb panics, t is settled and reported as
// failed before the panic continues up to the host.
func (s *Scheduler) invoke(t *Task, cb Callback, didTimeout bool) (Result, error) {
	panicking := true
	defer func() {
		if !panicking {
			return
		}
		t.settled = true
		s.removeIfRoot(t)
		s.emit(EventFail, t, didTimeout)
		s.logger.Error("task panicked", "task", t.ID, "priority", t.Priority)
	}()

	res, err := cb(didTimeout)
	panicking = false
	return res, err
}

// removeIfRoot pops t when it is still the most urgent task. Otherwise a
// more urgent task was queued while t ran and t stays behind as a
// tombstone.
func (s *Scheduler) removeIfRoot(t *Task) {
	if s.tasks.Peek() == t {
		s.tasks.Pop()
	}
}

// ShouldYieldToHost reports whether the current time slice is used up.
// Long-running callbacks may poll it and return a continuation when true.
func (s *Scheduler) ShouldYieldToHost() bool {
	return s.clock.Now()-s.sliceStart >= s.frameInterval
}

// CancelCurrent tombstones the task that is executing right now. Any
// continuation it returns afterwards is discarded. Outside a task
// callback it does nothing.
func (s *Scheduler) CancelCurrent() {
	if !s.performingWork || s.currentTask == nil {
		return
	}
	s.Cancel(s.currentTask)
}

// Cancel tombstones t. A queued task is dropped unexecuted when it
// reaches the front of the queue; a running task keeps running but its
// continuation is ignored. Tasks that already finished or failed are left
// untouched.
func (s *Scheduler) Cancel(t *Task) {
	if t == nil || t.settled {
		return
	}
	t.callback = nil
	t.canceled = true
}

// CurrentPriority returns the priority of the running task, or the
// priority context of the caller outside a flush.
func (s *Scheduler) CurrentPriority() PriorityLevel {
	return s.currentPriority
}

// RunWithPriority runs fn with p as the current priority and restores the
// previous priority afterwards. NoPriority and unknown levels run as
// NormalPriority.
func (s *Scheduler) RunWithPriority(p PriorityLevel, fn func()) {
	if p == NoPriority || !p.IsValid() {
		p = NormalPriority
	}
	previous := s.currentPriority
	s.currentPriority = p
	defer func() {
		s.currentPriority = previous
	}()
	fn()
}

// Now returns the scheduler's clock reading.
func (s *Scheduler) Now() time.Duration { return s.clock.Now() }

// Len returns the number of queued tasks, tombstones included.
func (s *Scheduler) Len() int { return s.tasks.Len() }

// Lookup finds a queued task by id.
func (s *Scheduler) Lookup(id TaskID) (*Task, bool) { return s.tasks.Lookup(id) }

// Pending returns the ids of queued tasks in creation order.
func (s *Scheduler) Pending() []TaskID { return s.tasks.Pending() }

func (s *Scheduler) emit(kind EventKind, t *Task, timedOut bool) {
	if s.sink == nil {
		return
	}
	s.sink.OnEvent(Event{
		Time:     s.clock.Now(),
		Kind:     kind,
		TaskID:   t.ID,
		Priority: t.Priority,
		Deadline: t.Deadline,
		TimedOut: timedOut,
	})
}
