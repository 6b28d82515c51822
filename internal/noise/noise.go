// Package noise provides seeded random sources for the planner's control
// perturbations and the obstacle generator.
package noise

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source is a reproducible random stream. A Source is not safe for
// concurrent use; give every goroutine its own via Split.
type Source struct {
	seed   uint64
	rng    *rand.Rand
	normal distuv.Normal
}

// NewSource creates a source with the given seed. A zero seed is replaced by
// the current time.
func NewSource(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := uint64(seed)
	rng := rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
	return &Source{
		seed:   s,
		rng:    rng,
		normal: distuv.Normal{Mu: 0, Sigma: 1, Src: rng},
	}
}

// Seed reports the seed in effect, after a zero seed has been resolved.
func (s *Source) Seed() int64 { return int64(s.seed) }

// NormFloat64 draws from the standard normal distribution.
func (s *Source) NormFloat64() float64 {
	return s.normal.Rand()
}

// IntN returns a uniform int in [0, n).
func (s *Source) IntN(n int) int {
	return s.rng.IntN(n)
}

func (s *Source) Float64() float64 {
	return s.rng.Float64()
}

// Split derives an independent stream, e.g. for a parallel worker.
func (s *Source) Split(stream uint64) *Source {
	child := s.rng.Uint64() ^ (stream * 0xbf58476d1ce4e5b9)
	if child == 0 {
		child = 1
	}
	return NewSource(int64(child))
}
