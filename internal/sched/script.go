package sched

import (
	"errors"
	"fmt"
)

// ErrNoTaskLeft is returned by Replay when add_task runs out of tasks.
var ErrNoTaskLeft = errors.New("no task left for add_task")

// StepResult is the outcome of one replayed op.
type StepResult struct {
	Step int
	Op   Op
	Err  error
}

// Replay runs ops against e in order. Each add_task consumes the next entry
// of tasks. A rejected op does not stop the replay; results hold one entry
// per op.
func Replay(e *Engine, ops []Op, tasks []Task) []StepResult {
	results := make([]StepResult, 0, len(ops))
	next := 0
	for i, op := range ops {
		var err error
		if op == OpAddTask {
			if next >= len(tasks) {
				err = fmt.Errorf("script step %d: %w", i+1, ErrNoTaskLeft)
			} else if err = e.Exec(op, tasks[next]); err == nil {
				next++
			}
		} else {
			err = e.Exec(op)
		}
		results = append(results, StepResult{Step: i + 1, Op: op, Err: err})
	}
	return results
}
