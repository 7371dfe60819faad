package sched

import (
	"errors"
	"testing"
)

func TestReplay(t *testing.T) {
	t.Parallel()
	ops := []Op{
		OpStart, // rejected
		OpInitialize,
		OpAddTask,
		OpAddTask,
		OpAddTask, // no task left
		OpStart,
		OpExecuteNext,
		OpStop,
		OpSummary,
	}
	tasks := []Task{NewTask(1, "low", 1), NewTask(2, "high", 9)}

	e := NewEngine()
	results := Replay(e, ops, tasks)
	if len(results) != len(ops) {
		t.Fatalf("results = %d, want %d", len(results), len(ops))
	}
	if !errors.Is(results[0].Err, ErrIllegalOp) {
		t.Fatalf("step 1 err = %v, want ErrIllegalOp", results[0].Err)
	}
	if !errors.Is(results[4].Err, ErrNoTaskLeft) {
		t.Fatalf("step 5 err = %v, want ErrNoTaskLeft", results[4].Err)
	}
	for _, i := range []int{1, 2, 3, 5, 6, 7, 8} {
		if results[i].Err != nil {
			t.Fatalf("step %d (%v) err = %v", results[i].Step, results[i].Op, results[i].Err)
		}
	}
	got, _ := e.Summary()
	if want := "Scheduler Summary - Remaining tasks: 1, Last executed: high"; got != want {
		t.Fatalf("Summary = %q, want %q", got, want)
	}
}
