package config

import (
	"fmt"
	"math"
	"sort"
)

var params = map[string]func(c *Config, v float64){
	"lambda":             func(c *Config, v float64) { c.Planner.Lambda = v },
	"noise_std":          func(c *Config, v float64) { c.Planner.NoiseStd = v },
	"direction_weight":   func(c *Config, v float64) { c.Planner.DirectionWeight = v },
	"collision_weight":   func(c *Config, v float64) { c.Planner.CollisionWeight = v },
	"tolerance":          func(c *Config, v float64) { c.Planner.Tolerance = v },
	"prediction_horizon": func(c *Config, v float64) { c.Planner.PredictionHorizon = int(math.Round(v)) },
	"control_horizon":    func(c *Config, v float64) { c.Planner.ControlHorizon = int(math.Round(v)) },
	"max_iterations":     func(c *Config, v float64) { c.Planner.MaxIterations = int(math.Round(v)) },
	"obstacles":          func(c *Config, v float64) { c.Map.Obstacles = int(math.Round(v)) },
	"obstacle_size":      func(c *Config, v float64) { c.Map.ObstacleSize = int(math.Round(v)) },
	"dt":                 func(c *Config, v float64) { c.Dt = v },
}

// SetParam assigns a numeric knob by its YAML name. Integer knobs are
// rounded.
func (c *Config) SetParam(name string, v float64) error {
	set, ok := params[name]
	if !ok {
		return fmt.Errorf("%w: unknown parameter %q", ErrInvalid, name)
	}
	set(c, v)
	return nil
}

// ListParams returns the names SetParam accepts.
func ListParams() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
