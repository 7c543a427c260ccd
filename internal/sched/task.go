// internal/sched/task.go

package sched

import "time"

// TaskID uniquely identifies a task for the lifetime of a scheduler.
type TaskID uint64

// Callback is one unit of work. didTimeout reports whether the task's
// deadline had already passed when it was invoked.
type Callback func(didTimeout bool) (Result, error)

// Result tells the work loop whether a task finished or wants to be
// invoked again.
type Result struct {
	next Callback
}

// Complete marks the task as finished.
func Complete() Result { return Result{} }

// Continue keeps the task at its queue position; next runs on a later pass.
func Continue(next Callback) Result { return Result{next: next} }

// Continuation returns the follow-up callback, or nil when the task is done.
func (r Result) Continuation() Callback { return r.next }

// Task represents one schedulable unit and doubles as the handle returned
// by Schedule.
type Task struct {
	ID        TaskID
	Priority  PriorityLevel
	CreatedAt time.Duration // clock reading at submission
	Deadline  time.Duration // CreatedAt + Priority.Timeout()

	callback Callback // nil marks a tombstone
	canceled bool
	settled  bool // finished, failed or discarded; no further events
}

// newTask computes the deadline from the priority table.
// NOTE: the ID is assigned by the registry when the task is queued.
func newTask(priority PriorityLevel, now time.Duration, cb Callback) *Task {
	return &Task{
		Priority:  priority,
		CreatedAt: now,
		Deadline:  now + priority.Timeout(),
		callback:  cb,
	}
}

// SortKey implements queue.Entry.
func (t *Task) SortKey() int64 { return int64(t.Deadline) }

// Seq implements queue.Entry.
func (t *Task) Seq() uint64 { return uint64(t.ID) }

// Canceled reports whether the task was cancelled before it finished.
func (t *Task) Canceled() bool { return t.canceled }

// Live reports whether the task still holds a callback to run.
func (t *Task) Live() bool { return t.callback != nil }
