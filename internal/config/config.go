package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mppi/internal/costmap"
	"github.com/san-kum/mppi/internal/dynamo"
	"github.com/san-kum/mppi/internal/logger"
	"github.com/san-kum/mppi/internal/mppi"
)

const (
	DefaultMapSize      = 100
	DefaultObstacles    = 50
	DefaultObstacleSize = 5
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "json"
	DefaultModel        = "additive"
	DefaultDt           = 1.0
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Seed      int64  `yaml:"seed"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	// Model names the dynamics: "additive" (x' = x + u) or "scaled"
	// (x' = x + u*dt).
	Model   string        `yaml:"model"`
	Dt      float64       `yaml:"dt"`
	Map     MapConfig     `yaml:"map"`
	Start   dynamo.Vec2   `yaml:"start"`
	Goal    dynamo.Vec2   `yaml:"goal"`
	Planner PlannerConfig `yaml:"planner"`
}

type MapConfig struct {
	Size         int     `yaml:"size"`
	Obstacles    int     `yaml:"obstacles"`
	ObstacleSize int     `yaml:"obstacle_size"`
	ObstacleCost float64 `yaml:"obstacle_cost"`
	Wall         bool    `yaml:"wall"`
	WallFactor   float64 `yaml:"wall_factor"`
	// ClearRadius frees cells within this Chebyshev distance of the start
	// and goal after random obstacles are placed.
	ClearRadius int `yaml:"clear_radius"`
	// Rects are fixed obstacles, each as [x0, y0, x1, y1) in cells.
	Rects [][4]int `yaml:"rects,omitempty"`
}

type PlannerConfig struct {
	PredictionHorizon int           `yaml:"prediction_horizon"`
	ControlHorizon    int           `yaml:"control_horizon"`
	Lambda            float64       `yaml:"lambda"`
	NoiseStd          float64       `yaml:"noise_std"`
	CollisionWeight   float64       `yaml:"collision_weight"`
	DirectionWeight   float64       `yaml:"direction_weight"`
	Tolerance         float64       `yaml:"tolerance"`
	MaxIterations     int           `yaml:"max_iterations"`
	Timeout           time.Duration `yaml:"timeout"`
	Workers           int           `yaml:"workers"`
}

func DefaultConfig() *Config {
	p := mppi.DefaultConfig()
	return &Config{
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Model:     DefaultModel,
		Dt:        DefaultDt,
		Map: MapConfig{
			Size:         DefaultMapSize,
			Obstacles:    DefaultObstacles,
			ObstacleSize: DefaultObstacleSize,
			ObstacleCost: costmap.DefaultObstacleCost,
			Wall:         true,
			WallFactor:   costmap.DefaultWallFactor,
		},
		Start: dynamo.Vec2{X: 10, Y: 10},
		Goal:  dynamo.Vec2{X: 90, Y: 90},
		Planner: PlannerConfig{
			PredictionHorizon: p.PredictionHorizon,
			ControlHorizon:    p.ControlHorizon,
			Lambda:            p.Lambda,
			NoiseStd:          p.NoiseStd,
			CollisionWeight:   p.CollisionWeight,
			DirectionWeight:   p.DirectionWeight,
			Tolerance:         p.Tolerance,
			MaxIterations:     p.MaxIterations,
		},
	}
}

// Load reads a YAML file on top of DefaultConfig, so omitted fields keep
// their defaults.
func Load(path string) (*Config, error) {
	return LoadWith(path, DefaultConfig())
}

// LoadWith reads a YAML file on top of a copy of base. Lists in the file
// replace the base lists.
func LoadWith(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.Map.Rects != nil {
		out.Map.Rects = append([][4]int(nil), c.Map.Rects...)
	}
	return &out
}

// PlannerConfig converts the file representation to planner knobs.
func (c *Config) PlannerConfig() mppi.Config {
	return mppi.Config{
		PredictionHorizon: c.Planner.PredictionHorizon,
		ControlHorizon:    c.Planner.ControlHorizon,
		Lambda:            c.Planner.Lambda,
		NoiseStd:          c.Planner.NoiseStd,
		CollisionWeight:   c.Planner.CollisionWeight,
		DirectionWeight:   c.Planner.DirectionWeight,
		Tolerance:         c.Planner.Tolerance,
		MaxIterations:     c.Planner.MaxIterations,
		Timeout:           c.Planner.Timeout,
		Workers:           c.Planner.Workers,
		Seed:              c.Seed,
	}
}

// Validate checks everything that can be checked without building the map.
// Whether start and goal land on free cells is decided by the planner.
func (c *Config) Validate() error {
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("%w: log format %q (want json or text)", ErrInvalid, c.LogFormat)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model is required", ErrInvalid)
	}
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalid, c.Dt)
	}
	m := c.Map
	if m.Size <= 0 {
		return fmt.Errorf("%w: map size must be positive, got %d", ErrInvalid, m.Size)
	}
	if m.Obstacles < 0 {
		return fmt.Errorf("%w: obstacle count cannot be negative, got %d", ErrInvalid, m.Obstacles)
	}
	if m.Obstacles > 0 && (m.ObstacleSize < 0 || m.ObstacleSize > m.Size) {
		return fmt.Errorf("%w: obstacle size %d does not fit a %d map", ErrInvalid, m.ObstacleSize, m.Size)
	}
	if !(m.ObstacleCost > 0) {
		return fmt.Errorf("%w: obstacle cost must be positive, got %v", ErrInvalid, m.ObstacleCost)
	}
	if m.Wall && !(m.WallFactor > 0) {
		return fmt.Errorf("%w: wall factor must be positive, got %v", ErrInvalid, m.WallFactor)
	}
	if m.ClearRadius < 0 {
		return fmt.Errorf("%w: clear radius cannot be negative, got %d", ErrInvalid, m.ClearRadius)
	}
	for i, r := range m.Rects {
		if r[0] >= r[2] || r[1] >= r[3] {
			return fmt.Errorf("%w: rect %d %v is empty", ErrInvalid, i, r)
		}
	}
	if !c.Start.IsValid() || !c.Goal.IsValid() {
		return fmt.Errorf("%w: start %v and goal %v must be finite", ErrInvalid, c.Start, c.Goal)
	}
	if err := c.PlannerConfig().Validate(); err != nil {
		return fmt.Errorf("planner: %w", err)
	}
	return nil
}
