package sched

import (
	"fmt"
	"os"
	"strings"

	yaml "github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
)

// Config mirrors config.yml
type Config struct {
	LogLevel  string       `yaml:"log_level"`  // info (by default)
	TracePath string       `yaml:"trace_path"` // empty disables the CSV trace
	Tasks     []TaskConfig `yaml:"tasks"`      // the four demo tasks (by default)
	Script    []string     `yaml:"script"`     // op names replayed on an Engine, optional
}

// TaskConfig is one task entry in the config file.
type TaskConfig struct {
	ID       uint32 `yaml:"id"`
	Name     string `yaml:"name"`
	Priority int    `yaml:"priority"` // clamped to 0..255
}

// Task converts the entry to a Task.
func (tc TaskConfig) Task() Task {
	return NewTask(TaskID(tc.ID), tc.Name, Priority(tc.Priority))
}

func defaultTasks() []TaskConfig {
	return []TaskConfig{
		{ID: 1, Name: "Initialize Database", Priority: 5},
		{ID: 2, Name: "Load Configuration", Priority: 8},
		{ID: 3, Name: "Start Web Server", Priority: 10},
		{ID: 4, Name: "Run Health Check", Priority: 3},
	}
}

// If the config file is not found, we use default values
func defaultConfig() Config {
	return Config{
		LogLevel: "info",
		Tasks:    defaultTasks(),
	}
}

// Load reads YAML and overrides defaults; empty path = defaults only.
// Decode errors are ignored and yield defaults; use LoadFile to see them.
func Load(path string) Config {
	cfg, _ := LoadFile(path)
	return cfg
}

// LoadFile is Load that reports decode errors. A missing or unreadable file
// is not an error. On a decode error the defaults are returned with it.
func LoadFile(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("decode %s: %w", path, err)
	}

	// sanity clamps
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err != nil || cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if len(cfg.Tasks) == 0 {
		cfg.Tasks = defaultTasks()
	}
	for i := range cfg.Tasks {
		if cfg.Tasks[i].Priority < 0 {
			cfg.Tasks[i].Priority = 0
		} else if cfg.Tasks[i].Priority > 255 {
			cfg.Tasks[i].Priority = 255
		}
	}

	return cfg, nil
}

// Validate rejects duplicate task ids and unknown script ops.
func (c Config) Validate() error {
	seen := make(map[uint32]struct{}, len(c.Tasks))
	for _, tc := range c.Tasks {
		if _, dup := seen[tc.ID]; dup {
			return fmt.Errorf("task %d already exists", tc.ID)
		}
		seen[tc.ID] = struct{}{}
	}
	if _, err := c.ScriptOps(); err != nil {
		return err
	}
	return nil
}

// ScriptOps parses the script into ops.
func (c Config) ScriptOps() ([]Op, error) {
	ops := make([]Op, 0, len(c.Script))
	for i, name := range c.Script {
		op, ok := ParseOp(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("script step %d: unknown op %q", i+1, name)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// Level returns the configured log level.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
