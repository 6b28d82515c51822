package mppi

import (
	"errors"

	"github.com/san-kum/mppi/internal/dynamo"
)

type testField struct {
	size     int
	obstacle float64
	fill     float64
	cells    map[[2]int]float64
	// reject, when set, fails every endpoint check with this error.
	reject error
}

func newTestField(size int) *testField {
	return &testField{size: size, obstacle: 100, cells: make(map[[2]int]float64)}
}

func (f *testField) Size() int             { return f.size }
func (f *testField) ObstacleCost() float64 { return f.obstacle }
func (f *testField) Cost(x, y int) float64 {
	if c, ok := f.cells[[2]int{x, y}]; ok {
		return c
	}
	return f.fill
}

func (f *testField) ValidateEndpoint(p dynamo.Vec2) error {
	if f.reject != nil {
		return f.reject
	}
	n := float64(f.size)
	if !p.IsValid() || p.X < 0 || p.X >= n || p.Y < 0 || p.Y >= n {
		return errors.New("off the map")
	}
	x, y := p.Cell()
	if f.Cost(x, y) >= f.obstacle {
		return errors.New("on an obstacle")
	}
	return nil
}

// countingNoise returns a fixed value and counts draws.
type countingNoise struct {
	value float64
	draws int
}

func (c *countingNoise) NormFloat64() float64 {
	c.draws++
	return c.value
}

// seqNoise returns 1, 2, 3, ... on successive draws.
type seqNoise struct{ n float64 }

func (s *seqNoise) NormFloat64() float64 {
	s.n++
	return s.n
}

type countMetric struct{ n int }

func (m *countMetric) Name() string                        { return "count" }
func (m *countMetric) Observe(stats dynamo.IterationStats) { m.n++ }
func (m *countMetric) Value() float64                      { return float64(m.n) }
func (m *countMetric) Reset()                              { m.n = 0 }
