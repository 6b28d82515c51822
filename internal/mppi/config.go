package mppi

import (
	"fmt"
	"math"
	"time"
)

const (
	DefaultPredictionHorizon = 30
	DefaultControlHorizon    = 5
	DefaultLambda            = 1.0
	DefaultNoiseStd          = 1.0
	DefaultCollisionWeight   = 1e9
	DefaultDirectionWeight   = 10.0
	DefaultTolerance         = 0.5
	DefaultMaxIterations     = 10000

	// minWeightRatio keeps collision avoidance dominant over heading.
	minWeightRatio = 1e3
)

// Config holds the planner knobs.
type Config struct {
	// PredictionHorizon is the number of noise samples rolled out per
	// iteration.
	PredictionHorizon int
	// ControlHorizon is the length of the nominal control sequence.
	ControlHorizon int
	// Lambda is the weighting temperature.
	Lambda float64
	// NoiseStd is the per-axis standard deviation of control perturbations.
	NoiseStd        float64
	CollisionWeight float64
	DirectionWeight float64
	// Tolerance is the per-axis goal tolerance in cells.
	Tolerance     float64
	MaxIterations int
	// Timeout bounds wall-clock time per Plan call; zero disables it.
	Timeout time.Duration
	// Workers is the number of rollout goroutines; zero uses all CPUs.
	Workers int
	// Seed seeds the default noise source; zero picks a time-based seed.
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		PredictionHorizon: DefaultPredictionHorizon,
		ControlHorizon:    DefaultControlHorizon,
		Lambda:            DefaultLambda,
		NoiseStd:          DefaultNoiseStd,
		CollisionWeight:   DefaultCollisionWeight,
		DirectionWeight:   DefaultDirectionWeight,
		Tolerance:         DefaultTolerance,
		MaxIterations:     DefaultMaxIterations,
	}
}

func (c Config) Validate() error {
	if c.PredictionHorizon <= 0 {
		return fmt.Errorf("%w: prediction horizon must be positive, got %d", ErrInvalidConfig, c.PredictionHorizon)
	}
	if c.ControlHorizon <= 0 {
		return fmt.Errorf("%w: control horizon must be positive, got %d", ErrInvalidConfig, c.ControlHorizon)
	}
	if !(c.Lambda > 0) || math.IsInf(c.Lambda, 0) {
		return fmt.Errorf("%w: lambda must be positive, got %v", ErrInvalidConfig, c.Lambda)
	}
	if c.NoiseStd < 0 || math.IsNaN(c.NoiseStd) {
		return fmt.Errorf("%w: noise std cannot be negative, got %v", ErrInvalidConfig, c.NoiseStd)
	}
	if c.DirectionWeight < 0 || math.IsNaN(c.DirectionWeight) {
		return fmt.Errorf("%w: direction weight cannot be negative, got %v", ErrInvalidConfig, c.DirectionWeight)
	}
	if !(c.CollisionWeight > 0) || c.CollisionWeight < c.DirectionWeight*minWeightRatio {
		return fmt.Errorf("%w: collision weight %v must exceed direction weight %v by %gx",
			ErrInvalidConfig, c.CollisionWeight, c.DirectionWeight, minWeightRatio)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance cannot be negative, got %v", ErrInvalidConfig, c.Tolerance)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidConfig, c.MaxIterations)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout cannot be negative, got %v", ErrInvalidConfig, c.Timeout)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers cannot be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}
