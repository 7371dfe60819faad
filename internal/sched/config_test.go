package sched

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yml")} {
		cfg := Load(path)
		if cfg.LogLevel != "info" {
			t.Fatalf("LogLevel = %q, want info", cfg.LogLevel)
		}
		if len(cfg.Tasks) != 4 || cfg.Tasks[2].Name != "Start Web Server" {
			t.Fatalf("Tasks = %+v", cfg.Tasks)
		}
	}
}

func TestLoadOverridesAndClamps(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
log_level: debug
trace_path: trace.csv
tasks:
  - { id: 10, name: "big", priority: 900 }
  - { id: 11, name: "neg", priority: -3 }
script: [initialize, add_task, start]
`)
	cfg := Load(path)
	if cfg.Level() != zerolog.DebugLevel {
		t.Fatalf("Level = %v, want debug", cfg.Level())
	}
	if cfg.TracePath != "trace.csv" {
		t.Fatalf("TracePath = %q", cfg.TracePath)
	}
	if len(cfg.Tasks) != 2 || cfg.Tasks[0].Priority != 255 || cfg.Tasks[1].Priority != 0 {
		t.Fatalf("Tasks = %+v", cfg.Tasks)
	}
	if got := cfg.Tasks[0].Task(); got.ID() != 10 || got.Priority() != 255 {
		t.Fatalf("Task = %v", got)
	}
	ops, err := cfg.ScriptOps()
	if err != nil {
		t.Fatalf("ScriptOps error: %v", err)
	}
	if len(ops) != 3 || ops[0] != OpInitialize || ops[1] != OpAddTask || ops[2] != OpStart {
		t.Fatalf("ops = %v", ops)
	}
}

func TestLoadBadLevelFallsBack(t *testing.T) {
	t.Parallel()
	cfg := Load(writeConfig(t, "log_level: loud\n"))
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadFileReportsDecodeError(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
log_level: debug
tasks:
  - { id: -1, name: "bad", priority: 1 }
`)
	cfg, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected decode error for negative id")
	}
	if cfg.LogLevel != "info" || len(cfg.Tasks) != 4 {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
	if got := Load(path); len(got.Tasks) != 4 {
		t.Fatalf("Load Tasks = %+v, want defaults", got.Tasks)
	}
}

func TestLoadFileMissingIsDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if len(cfg.Tasks) != 4 {
		t.Fatalf("Tasks = %+v, want defaults", cfg.Tasks)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: defaultConfig()},
		{name: "duplicate id", cfg: Config{Tasks: []TaskConfig{{ID: 1}, {ID: 1}}}, wantErr: true},
		{name: "unknown op", cfg: Config{Script: []string{"initialize", "launch"}}, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
