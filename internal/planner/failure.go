package planner

import (
	"errors"
	"fmt"
)

// Placement failure reasons. Every one of them is recoverable: the ladder
// retries with looser limits and the caller retries on a later tick.
var (
	ErrNoStartCell   = errors.New("no legal start cell")
	ErrGapBlocked    = errors.New("gap already has a trunk, direct route forbidden")
	ErrNoRoute       = errors.New("pathfinder found no route")
	ErrInvalidCommit = errors.New("corridor failed commit validation")
	ErrSelfOverlap   = errors.New("corridor overlaps itself")
)

// Failure is returned when the whole relaxation ladder is exhausted.
type Failure struct {
	Reason     error
	Relax      int
	Aggressive bool
}

func (f *Failure) Error() string {
	mode := "normal"
	if f.Aggressive {
		mode = "aggressive"
	}
	return fmt.Sprintf("planner: placement failed (relax %d, %s): %v", f.Relax, mode, f.Reason)
}

func (f *Failure) Unwrap() error {
	return f.Reason
}
