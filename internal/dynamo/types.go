package dynamo

import (
	"fmt"
	"math"
	"time"
)

// Vec2 is a real-valued 2D vector. It is used both for positions on the
// cost field and for per-step displacements (controls).
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Norm() float64        { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64  { return v.Sub(o).Norm() }
func (v Vec2) String() string       { return fmt.Sprintf("(%.3f, %.3f)", v.X, v.Y) }

// Unit returns v scaled to length one. ok is false for the zero vector, in
// which case the zero vector is returned.
func (v Vec2) Unit() (u Vec2, ok bool) {
	n := v.Norm()
	if n == 0 || math.IsNaN(n) {
		return Vec2{}, false
	}
	return Vec2{v.X / n, v.Y / n}, true
}

// Cell truncates both coordinates toward zero, giving the index of the grid
// cell that contains v.
func (v Vec2) Cell() (int, int) {
	return int(v.X), int(v.Y)
}

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Path is the ordered sequence of positions actually visited by the agent.
type Path []Vec2

// Last returns the most recent position. It panics on an empty path.
func (p Path) Last() Vec2 {
	return p[len(p)-1]
}

// Length is the total travelled distance along the path.
func (p Path) Length() float64 {
	total := 0.0
	for i := 1; i < len(p); i++ {
		total += p[i].Dist(p[i-1])
	}
	return total
}

// Status is the state of the optimizer loop.
type Status int

const (
	StatusRunning Status = iota
	StatusConverged
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusConverged:
		return "converged"
	case StatusAborted:
		return "aborted"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "running":
		*s = StatusRunning
	case "converged":
		*s = StatusConverged
	case "aborted":
		*s = StatusAborted
	default:
		return fmt.Errorf("dynamo: unknown status %q", b)
	}
	return nil
}

// Terminal reports whether no further iterations will run.
func (s Status) Terminal() bool {
	return s == StatusConverged || s == StatusAborted
}

type Model interface {
	Step(x, u Vec2) Vec2
}

// IterationStats describes one outer iteration of the optimizer.
type IterationStats struct {
	Iteration  int
	Position   Vec2 // position after applying Control
	Control    Vec2
	MinCost    float64
	MeanCost   float64
	StdCost    float64
	ESS        float64 // effective sample size of the importance weights
	Degenerate bool    // weights fell back to uniform
	Distance   float64 // distance from Position to the goal
}

type Observer interface {
	OnIteration(stats IterationStats)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(stats IterationStats)

func (f ObserverFunc) OnIteration(stats IterationStats) { f(stats) }

type Metric interface {
	Name() string
	Observe(stats IterationStats)
	Value() float64
	Reset()
}

type Result struct {
	Status          Status
	Path            Path
	Iterations      int
	Reason          string
	Elapsed         time.Duration
	Metrics         map[string]float64
	FinalMinCost    float64
	DegenerateSteps int
}

// Final returns the last position of the path.
func (r *Result) Final() Vec2 {
	return r.Path.Last()
}

func (r *Result) Converged() bool {
	return r.Status == StatusConverged
}
