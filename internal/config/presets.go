package config

import (
	"sort"

	"github.com/san-kum/mppi/internal/dynamo"
)

// Presets are named scenarios, each a modification of DefaultConfig.
var Presets = map[string]func(*Config){
	"open": func(c *Config) {
		c.Map.Size = 20
		c.Map.Obstacles = 0
		c.Map.Wall = false
		c.Start = dynamo.Vec2{X: 1, Y: 1}
		c.Goal = dynamo.Vec2{X: 15, Y: 15}
		c.Planner.MaxIterations = 500
	},
	"cluttered": func(c *Config) {
		c.Map.Wall = false
		c.Map.ClearRadius = 3
		c.Planner.MaxIterations = 2000
	},
	"walled": func(c *Config) {
		c.Map.ClearRadius = 3
	},
	"enclosed": func(c *Config) {
		c.Map.Size = 30
		c.Map.Obstacles = 0
		c.Map.Wall = false
		c.Map.Rects = [][4]int{{9, 9, 22, 10}, {9, 21, 22, 22}, {9, 9, 10, 22}, {21, 9, 22, 22}}
		c.Start = dynamo.Vec2{X: 2, Y: 2}
		c.Goal = dynamo.Vec2{X: 15, Y: 15}
		c.Planner.MaxIterations = 300
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
