package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for planning runs.
var (
	// ErrNonConvergence indicates the loop stopped before reaching the goal.
	ErrNonConvergence = errors.New("dynamo: planner did not converge")

	// ErrInvalidState indicates a position or control containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// AbortError is returned together with a partial Result when a run ends
// without converging. It matches ErrNonConvergence and, when set, Cause.
type AbortError struct {
	Iteration int
	Position  Vec2
	Reason    string
	Cause     error
}

func (e *AbortError) Error() string {
	msg := fmt.Sprintf("dynamo: aborted at iteration %d %s: %s", e.Iteration, e.Position, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *AbortError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrNonConvergence}
	}
	return []error{ErrNonConvergence, e.Cause}
}
