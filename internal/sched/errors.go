package sched

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalOp is matched by every rejection of an op in the wrong phase.
	ErrIllegalOp = errors.New("illegal operation for current phase")

	// ErrStaleHandle marks use of a phase handle after it was consumed by a transition.
	ErrStaleHandle = errors.New("handle consumed by an earlier transition")
)

// PhaseError reports an op attempted in a phase that does not allow it.
type PhaseError struct {
	Op    Op
	Phase Phase
	Err   error // ErrIllegalOp or ErrStaleHandle
}

func (e *PhaseError) Error() string {
	if errors.Is(e.Err, ErrStaleHandle) {
		return fmt.Sprintf("sched: %s on stale handle (scheduler is %s)", e.Op, e.Phase)
	}
	return fmt.Sprintf("sched: %s not allowed in phase %s", e.Op, e.Phase)
}

func (e *PhaseError) Unwrap() error { return e.Err }

// Is lets a stale-handle error also match ErrIllegalOp.
func (e *PhaseError) Is(target error) bool {
	return target == ErrIllegalOp
}

func illegal(op Op, p Phase) error {
	return &PhaseError{Op: op, Phase: p, Err: ErrIllegalOp}
}

func stale(op Op, p Phase) error {
	return &PhaseError{Op: op, Phase: p, Err: ErrStaleHandle}
}
