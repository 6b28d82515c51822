package metrics

import "github.com/san-kum/mppi/internal/dynamo"

// Field is the part of the cost field the collision metric reads. A
// position the field would reject as an endpoint counts as a collision.
type Field interface {
	ValidateEndpoint(p dynamo.Vec2) error
}

// Collisions counts iterations that ended off the map or on an obstacle
// cell.
type Collisions struct {
	name  string
	field Field
	hits  int
}

func NewCollisions(field Field) *Collisions {
	return &Collisions{
		name:  "collisions",
		field: field,
	}
}

func (c *Collisions) Name() string {
	return c.name
}

func (c *Collisions) Observe(stats dynamo.IterationStats) {
	if c.field.ValidateEndpoint(stats.Position) != nil {
		c.hits++
	}
}

func (c *Collisions) Value() float64 {
	return float64(c.hits)
}

func (c *Collisions) Reset() {
	c.hits = 0
}
