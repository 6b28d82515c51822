package mppi

import "github.com/san-kum/mppi/internal/dynamo"

// CostField is the read-only grid the evaluator queries. costmap.Grid
// implements it. ValidateEndpoint owns the rule for legal start and goal
// positions.
type CostField interface {
	Size() int
	Cost(x, y int) float64
	ObstacleCost() float64
	ValidateEndpoint(p dynamo.Vec2) error
}

// Terms are the unweighted components of a step cost.
type Terms struct {
	Distance  float64
	Collision float64
	Direction float64
}

// Evaluator scores a (position, control) pair against the field and goal.
type Evaluator struct {
	field           CostField
	goal            dynamo.Vec2
	collisionWeight float64
	directionWeight float64
}

func NewEvaluator(field CostField, goal dynamo.Vec2, collisionWeight, directionWeight float64) *Evaluator {
	return &Evaluator{
		field:           field,
		goal:            goal,
		collisionWeight: collisionWeight,
		directionWeight: directionWeight,
	}
}

// Terms computes the three raw cost terms.
//
// Collision is the field value of the containing cell, or the obstacle
// cost for positions off the map. Direction is the cosine between the
// goal-to-position offset and the control, so a step straight at the goal
// scores -1; it is 0 when either vector has zero length.
func (e *Evaluator) Terms(pos, u dynamo.Vec2) Terms {
	offset := pos.Sub(e.goal)
	t := Terms{
		Distance:  offset.Norm(),
		Collision: e.collision(pos),
	}

	away, ok := offset.Unit()
	if !ok {
		return t
	}
	heading, ok := u.Unit()
	if !ok {
		return t
	}
	t.Direction = away.Dot(heading)
	return t
}

// Cost returns distance + collision*Wc + direction*Wd.
func (e *Evaluator) Cost(pos, u dynamo.Vec2) float64 {
	t := e.Terms(pos, u)
	return t.Distance + t.Collision*e.collisionWeight + t.Direction*e.directionWeight
}

func (e *Evaluator) collision(pos dynamo.Vec2) float64 {
	n := float64(e.field.Size())
	if !pos.IsValid() || pos.X < 0 || pos.X >= n || pos.Y < 0 || pos.Y >= n {
		return e.field.ObstacleCost()
	}
	x, y := pos.Cell()
	return e.field.Cost(x, y)
}
