package costmap

import (
	"fmt"
	"math"
)

// maxPlacementAttempts bounds random obstacle placement per requested
// obstacle so impossible requests fail instead of spinning.
const maxPlacementAttempts = 10000

// IntSource is the random source used to place obstacles.
type IntSource interface {
	IntN(n int) int
}

// Builder accumulates obstacles on a mutable field. Build returns an
// immutable copy; the builder may keep being used afterwards.
type Builder struct {
	size         int
	obstacleCost float64
	cells        []float64
}

// NewBuilder returns a builder for an obstacle-free size × size field.
func NewBuilder(size int, obstacleCost float64) *Builder {
	if size < 0 {
		size = 0
	}
	return &Builder{
		size:         size,
		obstacleCost: obstacleCost,
		cells:        make([]float64, size*size),
	}
}

func (b *Builder) Size() int { return b.size }

func (b *Builder) Set(x, y int, cost float64) error {
	if x < 0 || x >= b.size || y < 0 || y >= b.size {
		return fmt.Errorf("%w: cell (%d, %d)", ErrOutOfBounds, x, y)
	}
	if cost < 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidCost, cost)
	}
	b.cells[x*b.size+y] = cost
	return nil
}

// Rect fills the half-open rectangle [x0,x1) × [y0,y1) with cost, clipped
// to the map.
func (b *Builder) Rect(x0, y0, x1, y1 int, cost float64) {
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, b.size), min(y1, b.size)
	for x := x0; x < x1; x++ {
		for y := y0; y < y1; y++ {
			b.cells[x*b.size+y] = cost
		}
	}
}

// Obstacle fills [x0,x1) × [y0,y1) with the flat obstacle cost.
func (b *Builder) Obstacle(x0, y0, x1, y1 int) {
	b.Rect(x0, y0, x1, y1, b.obstacleCost)
}

// RandomObstacles places count square obstacles of side size. Centers are
// drawn uniformly over the map; a candidate whose square would leave the
// map is redrawn.
func (b *Builder) RandomObstacles(src IntSource, count, size int) error {
	if count <= 0 {
		return nil
	}
	if size > b.size || size < 0 {
		return fmt.Errorf("%w: size %d on a %d map", ErrObstacleTooBig, size, b.size)
	}

	half := float64(size) / 2
	placed := 0
	for attempts := 0; placed < count; attempts++ {
		if attempts >= maxPlacementAttempts*count {
			return fmt.Errorf("%w: placed %d of %d", ErrPlacementFailed, placed, count)
		}

		idx := src.IntN(b.size * b.size)
		cx, cy := idx/b.size, idx%b.size

		x0 := int(float64(cx) - half)
		x1 := int(float64(cx) + half)
		y0 := int(float64(cy) - half)
		y1 := int(float64(cy) + half)
		if x0 < 0 || x1 > b.size || y0 < 0 || y1 > b.size {
			continue
		}

		b.Obstacle(x0, y0, x1, y1)
		placed++
	}
	return nil
}

// Wall draws a heavy band at row x = round(size/2) spanning
// y in [round(size/10), size-round(size/10)), costing factor times the
// obstacle cost. Rounding is half to even.
func (b *Builder) Wall(factor float64) {
	if b.size == 0 {
		return
	}
	n := float64(b.size)
	x := int(math.RoundToEven(n / 2))
	margin := int(math.RoundToEven(n / 10))
	if x >= b.size {
		return
	}
	b.Rect(x, margin, x+1, b.size-margin, b.obstacleCost*factor)
}

// Build returns an immutable snapshot of the field.
func (b *Builder) Build() (*Grid, error) {
	if b.size <= 0 {
		return nil, ErrInvalidSize
	}
	if b.obstacleCost <= 0 || math.IsNaN(b.obstacleCost) || math.IsInf(b.obstacleCost, 0) {
		return nil, fmt.Errorf("%w: obstacle cost %v", ErrInvalidCost, b.obstacleCost)
	}
	cells := make([]float64, len(b.cells))
	copy(cells, b.cells)
	return &Grid{size: b.size, obstacleCost: b.obstacleCost, cells: cells}, nil
}
