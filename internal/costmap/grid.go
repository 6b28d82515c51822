package costmap

import (
	"fmt"

	"github.com/san-kum/mppi/internal/dynamo"
)

const (
	DefaultObstacleCost = 100.0
	DefaultWallFactor   = 5.0
)

// Grid is an immutable square cost field.
type Grid struct {
	size         int
	obstacleCost float64
	cells        []float64 // x-major: cells[x*size+y]
}

func (g *Grid) Size() int { return g.size }

func (g *Grid) ObstacleCost() float64 { return g.obstacleCost }

// Cost returns the value of cell (x, y). Callers must keep x and y in
// [0, size).
func (g *Grid) Cost(x, y int) float64 {
	return g.cells[x*g.size+y]
}

// Contains reports whether p lies on the map, using the same half-open
// [0, size) bounds the planner's collision term uses.
func (g *Grid) Contains(p dynamo.Vec2) bool {
	return p.X >= 0 && p.X < float64(g.size) && p.Y >= 0 && p.Y < float64(g.size)
}

// IsObstacle reports whether cell (x, y) is at least as expensive as the
// flat obstacle cost. Wall cells count as obstacles.
func (g *Grid) IsObstacle(x, y int) bool {
	return g.Cost(x, y) >= g.obstacleCost
}

// ValidateEndpoint checks that p is a legal start or goal: on the map and
// not on an obstacle cell.
func (g *Grid) ValidateEndpoint(p dynamo.Vec2) error {
	if !p.IsValid() || !g.Contains(p) {
		return fmt.Errorf("%w: %v outside [0,%d)", ErrOutOfBounds, p, g.size)
	}
	x, y := p.Cell()
	if g.IsObstacle(x, y) {
		return fmt.Errorf("%w: %v (cost %.1f)", ErrObstacle, p, g.Cost(x, y))
	}
	return nil
}

// ObstacleCount returns the number of obstacle cells.
func (g *Grid) ObstacleCount() int {
	n := 0
	for _, c := range g.cells {
		if c >= g.obstacleCost {
			n++
		}
	}
	return n
}
