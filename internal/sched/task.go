package sched

import "fmt"

// TaskID uniquely identifies a task. IDs are assigned by the caller.
type TaskID uint32

// Priority orders tasks in the backlog, higher runs sooner.
type Priority uint8

// Task is an immutable unit handed to the scheduler.
type Task struct {
	id       TaskID
	name     string
	priority Priority
}

// NewTask creates a task value. Names need not be unique.
func NewTask(id TaskID, name string, priority Priority) Task {
	return Task{
		id:       id,
		name:     name,
		priority: priority,
	}
}

func (t Task) ID() TaskID         { return t.id }
func (t Task) Name() string       { return t.name }
func (t Task) Priority() Priority { return t.priority }

func (t Task) String() string {
	return fmt.Sprintf("%s (ID: %d, priority: %d)", t.name, t.id, t.priority)
}
