package sched

import (
	"encoding/csv"
	"errors"
	"strings"
	"testing"
)

func TestTraceRecorder(t *testing.T) {
	t.Parallel()
	var buf strings.Builder
	rec := NewTraceRecorder(&buf)
	e := NewEngine(WithObserver(rec.Observe))
	_ = e.Initialize()
	_ = e.AddTask(NewTask(7, "Emergency Task", 9))
	_ = e.Start()
	_ = e.ExecuteNext()

	if err := rec.Err(); err != nil {
		t.Fatalf("Err = %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5 (header + 4 events)", len(rows))
	}
	if rows[0][0] != "timestamp" || rows[0][8] != "remaining" {
		t.Fatalf("header = %v", rows[0])
	}
	dispatch := rows[4]
	if dispatch[1] != "Dispatch" || dispatch[5] != "7" || dispatch[6] != "Emergency Task" || dispatch[7] != "9" || dispatch[8] != "0" {
		t.Fatalf("dispatch row = %v", dispatch)
	}
	if rows[3][1] != "Transition" || rows[3][3] != "Initialized" || rows[3][4] != "Running" || rows[3][5] != "" {
		t.Fatalf("start row = %v", rows[3])
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestTraceRecorderWriteError(t *testing.T) {
	t.Parallel()
	rec := NewTraceRecorder(failWriter{})
	rec.Observe(Event{Kind: EventIdle})
	if rec.Err() == nil {
		t.Fatal("expected write error")
	}
}
