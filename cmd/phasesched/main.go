package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"phasesched/internal/sched"
)

func main() {
	var (
		cfgPath   string
		logLevel  string
		tracePath string
	)
	flag.StringVar(&cfgPath, "config", "config.yml", "path to config yaml")
	flag.StringVar(&logLevel, "log-level", "", "override log level (trace, debug, info, warn, error)")
	flag.StringVar(&tracePath, "trace", "", "write a CSV event trace to this path")
	flag.Parse()

	// Read the configuration
	cfg, err := sched.LoadFile(cfgPath)
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if tracePath != "" {
		cfg.TracePath = tracePath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}).
		Level(cfg.Level()).
		With().Timestamp().Logger()

	opts := []sched.Option{sched.WithLogger(log)}
	if cfg.TracePath != "" {
		f, err := os.Create(cfg.TracePath)
		if err != nil {
			fmt.Println("fatal:", err)
			os.Exit(1)
		}
		defer f.Close()
		rec := sched.NewTraceRecorder(f)
		opts = append(opts, sched.WithObserver(rec.Observe))
		defer func() {
			if err := rec.Err(); err != nil {
				log.Error().Err(err).Msg("trace write failed")
			}
		}()
	}

	tasks := make([]sched.Task, 0, len(cfg.Tasks))
	for _, tc := range cfg.Tasks {
		tasks = append(tasks, tc.Task())
	}

	if err := runDemo(log, opts, tasks); err != nil {
		log.Error().Err(err).Msg("demo failed")
		os.Exit(1)
	}

	if len(cfg.Script) > 0 {
		ops, err := cfg.ScriptOps()
		if err != nil {
			log.Error().Err(err).Msg("invalid script")
			os.Exit(1)
		}
		runScript(log, opts, ops, tasks)
	}
}

// runDemo drives the typed handles through a full lifecycle.
func runDemo(log zerolog.Logger, opts []sched.Option, tasks []sched.Task) error {
	setup := sched.New(opts...).Initialize()
	for _, t := range tasks {
		setup = setup.AddTask(t)
	}
	log.Info().Int("task_count", setup.TaskCount()).Msg("added tasks")

	run := setup.Start()
	for run.HasTasks() {
		run = run.ExecuteNext()
		if cur, ok := run.CurrentTask(); ok {
			log.Info().Str("task_name", cur.Name()).Uint8("priority", uint8(cur.Priority())).Msg("current task")
		}
	}
	// one more step on the drained backlog is a no-op
	run = run.ExecuteNext()

	stopped := run.Stop()
	fmt.Println(stopped.Summary())
	if err := stopped.Err(); err != nil {
		return err
	}

	// pause and reconfigure a partly executed scheduler
	run = sched.New(opts...).Initialize().
		AddTask(sched.NewTask(5, "Backup Data", 7)).
		AddTask(sched.NewTask(6, "Send Notifications", 4)).
		Start().
		ExecuteNext()
	run = run.Pause().
		AddTask(sched.NewTask(7, "Emergency Task", 9)).
		Start()
	log.Info().Int("remaining", run.RemainingTasks()).Msg("restarted after reconfiguration")

	restarted := run.Stop().Restart().ExecuteNext()
	if cur, ok := restarted.CurrentTask(); ok {
		log.Info().Str("task_name", cur.Name()).Msg("first task after restart")
	}
	return restarted.Err()
}

// runScript replays the configured ops on an Engine and reports rejections.
func runScript(log zerolog.Logger, opts []sched.Option, ops []sched.Op, tasks []sched.Task) {
	e := sched.NewEngine(opts...)
	for _, res := range sched.Replay(e, ops, tasks) {
		var perr *sched.PhaseError
		switch {
		case res.Err == nil:
		case errors.As(res.Err, &perr):
			log.Warn().Int("step", res.Step).Str("op", perr.Op.String()).Str("phase", perr.Phase.String()).Msg("script step rejected")
		default:
			log.Error().Int("step", res.Step).Err(res.Err).Msg("script step failed")
		}
	}
	log.Info().Str("phase", e.Phase().String()).Int("remaining", e.RemainingTasks()).Msg("script finished")
}
