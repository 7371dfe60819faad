package sched

// Phase handles expose only the operations legal in their phase, so an
// illegal call does not compile. A transition consumes its receiver: the
// engine generation moves on and the old handle goes stale. The first use of
// a stale handle records a *PhaseError wrapping ErrStaleHandle; the error is
// sticky and carried through any further transitions chained off it, so a
// chain can be checked once at the end with Err.

// handle is the state shared by all phase handles.
type handle struct {
	e   *Engine
	gen uint64
	err error
}

func newHandle(e *Engine, err error) handle {
	return handle{e: e, gen: e.gen, err: err}
}

// use reports whether the handle may act for op, recording a stale error otherwise.
func (h *handle) use(op Op) bool {
	if h.err != nil {
		return false
	}
	if h.gen != h.e.gen {
		h.err = stale(op, h.e.phase)
		h.e.log.Warn().Str("op", op.String()).Str("phase", h.e.phase.String()).Msg("stale handle")
		h.e.emit(Event{Kind: EventRejected, Op: op, From: h.e.phase, To: h.e.phase})
		return false
	}
	return true
}

// Err returns the first error recorded on this handle or the chain that produced it.
func (h *handle) Err() error { return h.err }

// RemainingTasks is available in every phase.
func (h *handle) RemainingTasks() int { return h.e.RemainingTasks() }

// phaseOr returns static while the handle is live. A stale handle reports
// the phase the engine has actually moved on to.
func (h *handle) phaseOr(static Phase) Phase {
	if h.gen != h.e.gen {
		return h.e.phase
	}
	return static
}

// Engine returns the underlying state record.
func (h *handle) Engine() *Engine { return h.e }

// Uninitialized is a scheduler that has just been created.
type Uninitialized struct{ handle }

// Initialized is a scheduler accepting tasks.
type Initialized struct{ handle }

// Running is a scheduler executing its backlog.
type Running struct{ handle }

// Stopped is a scheduler whose results can be inspected.
type Stopped struct{ handle }

// New creates a scheduler with an empty backlog in the Uninitialized phase.
func New(opts ...Option) *Uninitialized {
	return &Uninitialized{newHandle(NewEngine(opts...), nil)}
}

func (s *Uninitialized) Phase() Phase { return s.phaseOr(PhaseUninitialized) }

// Initialize transitions to Initialized.
func (s *Uninitialized) Initialize() *Initialized {
	if s.use(OpInitialize) {
		s.err = s.e.Initialize()
	}
	return &Initialized{newHandle(s.e, s.err)}
}

func (s *Initialized) Phase() Phase { return s.phaseOr(PhaseInitialized) }

// AddTask appends t to the backlog and returns the same handle for chaining.
func (s *Initialized) AddTask(t Task) *Initialized {
	if s.use(OpAddTask) {
		s.err = s.e.AddTask(t)
	}
	return s
}

// TaskCount returns the number of tasks added so far.
func (s *Initialized) TaskCount() int {
	if !s.use(OpTaskCount) {
		return 0
	}
	n, err := s.e.TaskCount()
	if err != nil {
		s.err = err
	}
	return n
}

// Start sorts the backlog and transitions to Running.
func (s *Initialized) Start() *Running {
	if s.use(OpStart) {
		s.err = s.e.Start()
	}
	return &Running{newHandle(s.e, s.err)}
}

func (s *Running) Phase() Phase { return s.phaseOr(PhaseRunning) }

// ExecuteNext runs the highest-priority remaining task. With an empty
// backlog it does nothing.
func (s *Running) ExecuteNext() *Running {
	if s.use(OpExecuteNext) {
		s.err = s.e.ExecuteNext()
	}
	return s
}

// HasTasks reports whether tasks remain to be executed.
func (s *Running) HasTasks() bool {
	if !s.use(OpHasTasks) {
		return false
	}
	has, err := s.e.HasTasks()
	if err != nil {
		s.err = err
	}
	return has
}

// CurrentTask returns the most recently executed task, if any.
func (s *Running) CurrentTask() (Task, bool) {
	if !s.use(OpCurrentTask) {
		return Task{}, false
	}
	t, ok, err := s.e.CurrentTask()
	if err != nil {
		s.err = err
	}
	return t, ok
}

// Pause transitions back to Initialized for reconfiguration.
func (s *Running) Pause() *Initialized {
	if s.use(OpPause) {
		s.err = s.e.Pause()
	}
	return &Initialized{newHandle(s.e, s.err)}
}

// Stop transitions to Stopped.
func (s *Running) Stop() *Stopped {
	if s.use(OpStop) {
		s.err = s.e.Stop()
	}
	return &Stopped{newHandle(s.e, s.err)}
}

func (s *Stopped) Phase() Phase { return s.phaseOr(PhaseStopped) }

// Summary describes the remaining backlog and the last executed task.
func (s *Stopped) Summary() string {
	if !s.use(OpSummary) {
		return ""
	}
	out, err := s.e.Summary()
	if err != nil {
		s.err = err
	}
	return out
}

// Reset clears everything and transitions to Initialized.
func (s *Stopped) Reset() *Initialized {
	if s.use(OpReset) {
		s.err = s.e.Reset()
	}
	return &Initialized{newHandle(s.e, s.err)}
}

// Restart resumes the existing backlog without re-sorting it.
func (s *Stopped) Restart() *Running {
	if s.use(OpRestart) {
		s.err = s.e.Restart()
	}
	return &Running{newHandle(s.e, s.err)}
}
