// internal/sched/scheduler.go

package sched

import (
	"fmt"
	"time"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/rs/zerolog"
)

// Engine holds the state of one scheduler: backlog, current-task slot and phase.
// Every operation is checked against the phase table and rejected with a
// *PhaseError when illegal. Engine is not safe for concurrent use; it has a
// single owner at a time.
type Engine struct {
	phase   Phase
	gen     uint64          // bumped on every phase change, invalidates older handles
	backlog *arraylist.List // of entry, in execution order once Running
	current *Task           // most recently executed task
	seq     uint64          // next insertion sequence number

	log       zerolog.Logger
	observers []Observer
}

// entry is a backlog slot. seq is the insertion order and survives
// pause/start cycles so the combined backlog sorts stably.
type entry struct {
	task Task
	seq  uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for transition diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithObserver registers an event observer. May be given more than once.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// NewEngine creates an Uninitialized engine with an empty backlog.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		phase:   PhaseUninitialized,
		backlog: arraylist.New(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log.Debug().Msg("creating new scheduler")
	return e
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// Initialize moves Uninitialized -> Initialized. Backlog and current slot carry over.
func (e *Engine) Initialize() error {
	return e.transition(OpInitialize, nil)
}

// AddTask appends t to the backlog. Only legal while Initialized.
// The backlog is not reordered until Start.
func (e *Engine) AddTask(t Task) error {
	if err := e.check(OpAddTask); err != nil {
		return err
	}
	e.backlog.Add(entry{task: t, seq: e.seq})
	e.seq++

	e.log.Debug().
		Uint32("task_id", uint32(t.ID())).
		Str("task_name", t.Name()).
		Uint8("priority", uint8(t.Priority())).
		Msg("adding task")
	e.emit(Event{Kind: EventEnqueue, Op: OpAddTask, From: e.phase, To: e.phase, Task: t})
	return nil
}

// Start moves Initialized -> Running and sorts the backlog by descending
// priority, ties kept in insertion order.
func (e *Engine) Start() error {
	return e.transition(OpStart, e.sortBacklog)
}

// ExecuteNext pops the front of the backlog into the current-task slot.
// An empty backlog leaves the slot untouched and is not an error.
func (e *Engine) ExecuteNext() error {
	if err := e.check(OpExecuteNext); err != nil {
		return err
	}

	v, ok := e.backlog.Get(0)
	if !ok {
		e.log.Debug().Msg("no more tasks to execute")
		e.emit(Event{Kind: EventIdle, Op: OpExecuteNext, From: PhaseRunning, To: PhaseRunning})
		return nil
	}
	e.backlog.Remove(0)
	t := v.(entry).task
	e.current = &t

	e.log.Info().
		Uint32("task_id", uint32(t.ID())).
		Str("task_name", t.Name()).
		Uint8("priority", uint8(t.Priority())).
		Int("remaining", e.backlog.Size()).
		Msg("executing task")
	e.emit(Event{Kind: EventDispatch, Op: OpExecuteNext, From: PhaseRunning, To: PhaseRunning, Task: t})
	return nil
}

// Pause moves Running -> Initialized for reconfiguration. The current slot is cleared.
func (e *Engine) Pause() error {
	return e.transition(OpPause, e.clearCurrent)
}

// Stop moves Running -> Stopped. Backlog and current slot carry over.
func (e *Engine) Stop() error {
	return e.transition(OpStop, nil)
}

// Reset moves Stopped -> Initialized and empties both backlog and current slot.
func (e *Engine) Reset() error {
	return e.transition(OpReset, func() {
		e.backlog.Clear()
		e.current = nil
	})
}

// Restart moves Stopped -> Running. Only the current slot is cleared; the
// backlog is assumed to already be in execution order and is not re-sorted.
func (e *Engine) Restart() error {
	return e.transition(OpRestart, e.clearCurrent)
}

// TaskCount returns the backlog length. Only legal while Initialized.
func (e *Engine) TaskCount() (int, error) {
	if err := e.check(OpTaskCount); err != nil {
		return 0, err
	}
	return e.backlog.Size(), nil
}

// HasTasks reports whether the backlog is non-empty. Only legal while Running.
func (e *Engine) HasTasks() (bool, error) {
	if err := e.check(OpHasTasks); err != nil {
		return false, err
	}
	return !e.backlog.Empty(), nil
}

// CurrentTask returns the most recently executed task. ok is false when
// nothing was executed since entering Running. Only legal while Running.
func (e *Engine) CurrentTask() (t Task, ok bool, err error) {
	if err := e.check(OpCurrentTask); err != nil {
		return Task{}, false, err
	}
	if e.current == nil {
		return Task{}, false, nil
	}
	return *e.current, true, nil
}

// RemainingTasks returns the backlog length in any phase.
func (e *Engine) RemainingTasks() int { return e.backlog.Size() }

// Backlog returns a copy of the pending tasks in their current order.
func (e *Engine) Backlog() []Task {
	out := make([]Task, 0, e.backlog.Size())
	it := e.backlog.Iterator()
	for it.Next() {
		out = append(out, it.Value().(entry).task)
	}
	return out
}

// Summary reports the remaining backlog and the last executed task.
// Only legal while Stopped.
func (e *Engine) Summary() (string, error) {
	if err := e.check(OpSummary); err != nil {
		return "", err
	}
	return e.summary(), nil
}

func (e *Engine) summary() string {
	last := "No tasks executed"
	if e.current != nil {
		last = "Last executed: " + e.current.Name()
	}
	return fmt.Sprintf("Scheduler Summary - Remaining tasks: %d, %s", e.backlog.Size(), last)
}

// Exec performs op by value. add_task takes exactly one task; other ops
// ignore tasks. Read accessors are checked for legality but their result is
// only logged.
func (e *Engine) Exec(op Op, tasks ...Task) error {
	switch op {
	case OpInitialize:
		return e.Initialize()
	case OpAddTask:
		if len(tasks) != 1 {
			return fmt.Errorf("sched: add_task needs exactly one task, got %d", len(tasks))
		}
		return e.AddTask(tasks[0])
	case OpStart:
		return e.Start()
	case OpExecuteNext:
		return e.ExecuteNext()
	case OpPause:
		return e.Pause()
	case OpStop:
		return e.Stop()
	case OpReset:
		return e.Reset()
	case OpRestart:
		return e.Restart()
	case OpTaskCount:
		n, err := e.TaskCount()
		if err == nil {
			e.log.Info().Int("task_count", n).Msg("task count")
		}
		return err
	case OpHasTasks:
		has, err := e.HasTasks()
		if err == nil {
			e.log.Info().Bool("has_tasks", has).Msg("has tasks")
		}
		return err
	case OpCurrentTask:
		t, ok, err := e.CurrentTask()
		if err == nil {
			ev := e.log.Info().Bool("executed", ok)
			if ok {
				ev = ev.Str("task_name", t.Name())
			}
			ev.Msg("current task")
		}
		return err
	case OpSummary:
		s, err := e.Summary()
		if err == nil {
			e.log.Info().Msg(s)
		}
		return err
	case OpRemainingTasks:
		e.log.Info().Int("remaining", e.RemainingTasks()).Msg("remaining tasks")
		return nil
	default:
		return fmt.Errorf("sched: unknown op %d", int(op))
	}
}

// check rejects op when the current phase does not allow it.
func (e *Engine) check(op Op) error {
	if Allowed(e.phase, op) {
		return nil
	}
	err := illegal(op, e.phase)
	e.log.Warn().Str("op", op.String()).Str("phase", e.phase.String()).Msg("rejected operation")
	e.emit(Event{Kind: EventRejected, Op: op, From: e.phase, To: e.phase})
	return err
}

// transition applies effect and then moves to the successor phase of op.
func (e *Engine) transition(op Op, effect func()) error {
	if err := e.check(op); err != nil {
		return err
	}
	from := e.phase
	to, _ := Next(from, op)
	if effect != nil {
		effect()
	}
	e.phase = to
	e.gen++

	e.log.Debug().
		Str("op", op.String()).
		Str("from", from.String()).
		Str("to", to.String()).
		Int("remaining", e.backlog.Size()).
		Msg("transition")
	e.emit(Event{Kind: EventTransition, Op: op, From: from, To: to})
	return nil
}

func (e *Engine) clearCurrent() { e.current = nil }

// sortBacklog reorders the backlog by walking a red-black tree keyed on
// (priority desc, seq asc). seq is unique so no two entries collide.
func (e *Engine) sortBacklog() {
	rbt := redblacktree.NewWith(cmp)
	it := e.backlog.Iterator()
	for it.Next() {
		en := it.Value().(entry)
		rbt.Put(nodeKey{priority: en.task.Priority(), seq: en.seq}, en)
	}
	e.backlog.Clear()
	e.backlog.Add(rbt.Values()...)
}

func (e *Engine) emit(ev Event) {
	if len(e.observers) == 0 {
		return
	}
	ev.Time = time.Now()
	ev.Remaining = e.backlog.Size()
	for _, o := range e.observers {
		o(ev)
	}
}

// nodeKey is used as a key in the red-black tree.
type nodeKey struct {
	priority Priority
	seq      uint64
}

// cmp orders higher priority first, then earlier insertion.
func cmp(a, b any) int {
	ka, kb := a.(nodeKey), b.(nodeKey)
	switch {
	case ka.priority > kb.priority:
		return -1
	case ka.priority < kb.priority:
		return 1
	case ka.seq < kb.seq:
		return -1
	case ka.seq > kb.seq:
		return 1
	default:
		return 0
	}
}
