package mppi

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGoalOrStart indicates a start or goal off the map or on an
	// obstacle cell. It is reported before any sampling happens.
	ErrInvalidGoalOrStart = errors.New("mppi: invalid start or goal")

	ErrInvalidStart = fmt.Errorf("%w: start", ErrInvalidGoalOrStart)
	ErrInvalidGoal  = fmt.Errorf("%w: goal", ErrInvalidGoalOrStart)

	// ErrInvalidConfig indicates planner parameters out of range.
	ErrInvalidConfig = errors.New("mppi: invalid config")
)
