package dynamo

// Additive moves a point by the control displacement: x' = x + u.
type Additive struct{}

func NewAdditive() *Additive {
	return &Additive{}
}

func (a *Additive) Step(x, u Vec2) Vec2 {
	return x.Add(u)
}

// Scaled is an additive model with a step length multiplier, the discrete
// analogue of an Euler step with a fixed dt.
type Scaled struct {
	Dt float64
}

func NewScaled(dt float64) *Scaled {
	return &Scaled{Dt: dt}
}

func (s *Scaled) Step(x, u Vec2) Vec2 {
	return x.Add(u.Scale(s.Dt))
}
