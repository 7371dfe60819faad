package sched

// Phase is the lifecycle state of a scheduler.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseInitialized
	PhaseRunning
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "Uninitialized"
	case PhaseInitialized:
		return "Initialized"
	case PhaseRunning:
		return "Running"
	case PhaseStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Op names an operation on the scheduler.
type Op int

const (
	OpInitialize Op = iota
	OpAddTask
	OpStart
	OpExecuteNext
	OpPause
	OpStop
	OpReset
	OpRestart

	// read accessors
	OpTaskCount
	OpHasTasks
	OpCurrentTask
	OpSummary
	OpRemainingTasks
)

var opNames = map[Op]string{
	OpInitialize:     "initialize",
	OpAddTask:        "add_task",
	OpStart:          "start",
	OpExecuteNext:    "execute_next",
	OpPause:          "pause",
	OpStop:           "stop",
	OpReset:          "reset",
	OpRestart:        "restart",
	OpTaskCount:      "task_count",
	OpHasTasks:       "has_tasks",
	OpCurrentTask:    "current_task",
	OpSummary:        "summary",
	OpRemainingTasks: "remaining_tasks",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// ParseOp maps an operation name back to its Op.
func ParseOp(name string) (Op, bool) {
	for op, n := range opNames {
		if n == name {
			return op, true
		}
	}
	return 0, false
}

// transitions lists, per phase, every legal op and the phase it leads to.
// Ops missing from a phase's row are illegal there.
var transitions = map[Phase]map[Op]Phase{
	PhaseUninitialized: {
		OpInitialize: PhaseInitialized,
	},
	PhaseInitialized: {
		OpAddTask:   PhaseInitialized,
		OpStart:     PhaseRunning,
		OpTaskCount: PhaseInitialized,
	},
	PhaseRunning: {
		OpExecuteNext: PhaseRunning,
		OpPause:       PhaseInitialized,
		OpStop:        PhaseStopped,
		OpHasTasks:    PhaseRunning,
		OpCurrentTask: PhaseRunning,
	},
	PhaseStopped: {
		OpSummary: PhaseStopped,
		OpReset:   PhaseInitialized,
		OpRestart: PhaseRunning,
	},
}

// Allowed reports whether op is legal in phase p.
func Allowed(p Phase, op Op) bool {
	if op == OpRemainingTasks {
		return true
	}
	_, ok := transitions[p][op]
	return ok
}

// Next returns the phase reached by performing op in p.
// ok is false when op is illegal in p.
func Next(p Phase, op Op) (next Phase, ok bool) {
	if op == OpRemainingTasks {
		return p, true
	}
	next, ok = transitions[p][op]
	return next, ok
}
