// internal/sched/trace.go

package sched

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// TraceRecorder writes scheduler events as CSV rows, one per event.
type TraceRecorder struct {
	w   *csv.Writer
	err error
}

// NewTraceRecorder writes the CSV header to w and returns a recorder whose
// Observe method can be passed to WithObserver.
func NewTraceRecorder(w io.Writer) *TraceRecorder {
	r := &TraceRecorder{w: csv.NewWriter(w)}
	r.write([]string{"timestamp", "event", "op", "from", "to", "task_id", "task_name", "priority", "remaining"})
	return r
}

// Observe records ev. After the first write error further events are dropped.
func (r *TraceRecorder) Observe(ev Event) {
	taskID, taskName, priority := "", "", ""
	if ev.Kind == EventEnqueue || ev.Kind == EventDispatch {
		taskID = strconv.FormatUint(uint64(ev.Task.ID()), 10)
		taskName = ev.Task.Name()
		priority = strconv.FormatUint(uint64(ev.Task.Priority()), 10)
	}
	r.write([]string{
		ev.Time.Format(time.RFC3339Nano),
		ev.Kind.String(),
		ev.Op.String(),
		ev.From.String(),
		ev.To.String(),
		taskID,
		taskName,
		priority,
		strconv.Itoa(ev.Remaining),
	})
}

// Err returns the first write error, if any.
func (r *TraceRecorder) Err() error { return r.err }

func (r *TraceRecorder) write(rec []string) {
	if r.err != nil {
		return
	}
	if err := r.w.Write(rec); err != nil {
		r.err = err
		return
	}
	r.w.Flush()
	r.err = r.w.Error()
}
