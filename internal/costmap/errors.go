package costmap

import "errors"

var (
	ErrInvalidSize     = errors.New("costmap: grid size must be positive")
	ErrInvalidCost     = errors.New("costmap: costs must be finite and non-negative")
	ErrOutOfBounds     = errors.New("costmap: position is not on the map")
	ErrObstacle        = errors.New("costmap: position lies on an obstacle")
	ErrObstacleTooBig  = errors.New("costmap: obstacle does not fit on the map")
	ErrPlacementFailed = errors.New("costmap: could not place all obstacles")
)
