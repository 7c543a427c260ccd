// internal/sched/schedulerEvent.go

package sched

import "time"

// EventKind represents the type of scheduler event
type EventKind int

const (
	EventEnqueue  EventKind = iota // task queued by Schedule
	EventDispatch                  // callback about to be invoked
	EventContinue                  // callback returned a continuation
	EventFinish                    // task completed and left the queue
	EventDiscard                   // tombstone dropped without running
	EventYield                     // time slice exhausted, control returned to host
	EventFail                      // callback returned an error or panicked
)

// Event is emitted on every state change of a task or the work loop.
type Event struct {
	Time     time.Duration // scheduler clock reading
	Kind     EventKind
	TaskID   TaskID
	Priority PriorityLevel
	Deadline time.Duration
	TimedOut bool
}

// EventSink receives scheduler events synchronously on the scheduling goroutine.
type EventSink interface {
	OnEvent(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

func (f EventSinkFunc) OnEvent(ev Event) { f(ev) }

func (k EventKind) String() string {
	switch k {
	case EventEnqueue:
		return "Enqueue"
	case EventDispatch:
		return "Dispatch"
	case EventContinue:
		return "Continue"
	case EventFinish:
		return "Finish"
	case EventDiscard:
		return "Discard"
	case EventYield:
		return "Yield"
	case EventFail:
		return "Fail"
	default:
		return "Unknown"
	}
}
