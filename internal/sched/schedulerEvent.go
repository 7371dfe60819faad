// internal/sched/schedulerEvent.go

package sched

import (
	"time"
)

// EventKind represents the type of scheduler event
type EventKind int

const (
	EventTransition EventKind = iota
	EventEnqueue
	EventDispatch
	EventIdle
	EventRejected
)

// Event is emitted synchronously on every scheduler step
type Event struct {
	Time      time.Time
	Kind      EventKind
	Op        Op
	From      Phase
	To        Phase
	Task      Task // zero unless Kind is EventEnqueue or EventDispatch
	Remaining int  // backlog length after the step
}

// Observer receives events inline, in the order they happen.
type Observer func(Event)

func (k EventKind) String() string {
	switch k {
	case EventTransition:
		return "Transition"
	case EventEnqueue:
		return "Enqueued"
	case EventDispatch:
		return "Dispatch"
	case EventIdle:
		return "Idle"
	case EventRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}
