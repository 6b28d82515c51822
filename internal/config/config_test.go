package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/mppi/internal/dynamo"
	"github.com/san-kum/mppi/internal/mppi"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Map.Size != 100 {
		t.Errorf("expected map size 100, got %d", cfg.Map.Size)
	}
	if cfg.Planner.PredictionHorizon != 30 || cfg.Planner.ControlHorizon != 5 {
		t.Errorf("unexpected horizons %d/%d", cfg.Planner.PredictionHorizon, cfg.Planner.ControlHorizon)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestPlannerConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.Planner.Timeout = 2 * time.Second
	cfg.Planner.Workers = 3

	pc := cfg.PlannerConfig()
	if pc.Seed != 7 || pc.Timeout != 2*time.Second || pc.Workers != 3 {
		t.Errorf("fields not carried over: %+v", pc)
	}
	if pc.Lambda != mppi.DefaultLambda {
		t.Errorf("expected lambda %v, got %v", mppi.DefaultLambda, pc.Lambda)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
		{"model", func(c *Config) { c.Model = "" }},
		{"dt", func(c *Config) { c.Dt = 0 }},
		{"map size", func(c *Config) { c.Map.Size = 0 }},
		{"obstacle count", func(c *Config) { c.Map.Obstacles = -1 }},
		{"obstacle size", func(c *Config) { c.Map.ObstacleSize = 101 }},
		{"obstacle cost", func(c *Config) { c.Map.ObstacleCost = 0 }},
		{"wall factor", func(c *Config) { c.Map.WallFactor = 0 }},
		{"clear radius", func(c *Config) { c.Map.ClearRadius = -2 }},
		{"empty rect", func(c *Config) { c.Map.Rects = [][4]int{{3, 3, 3, 5}} }},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", tt.name, err)
		}
	}
}

func TestValidate_Planner(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Planner.Lambda = 0
	if err := cfg.Validate(); !errors.Is(err, mppi.ErrInvalidConfig) {
		t.Errorf("expected mppi.ErrInvalidConfig, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := GetPreset("enclosed")
	cfg.Seed = 99
	cfg.Planner.Timeout = 1500 * time.Millisecond
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Seed != 99 || loaded.Planner.Timeout != cfg.Planner.Timeout {
		t.Errorf("round trip lost fields: seed=%d timeout=%v", loaded.Seed, loaded.Planner.Timeout)
	}
	if len(loaded.Map.Rects) != 4 || loaded.Goal != (dynamo.Vec2{X: 15, Y: 15}) {
		t.Errorf("round trip lost map: %+v goal=%v", loaded.Map.Rects, loaded.Goal)
	}
}

func TestLoadWith_Preset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte("seed: 5\nplanner:\n  lambda: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	base := GetPreset("enclosed")
	cfg, err := LoadWith(path, base)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Seed != 5 || cfg.Planner.Lambda != 2 {
		t.Errorf("file fields not applied: seed=%d lambda=%v", cfg.Seed, cfg.Planner.Lambda)
	}
	if len(cfg.Map.Rects) != 4 || cfg.Map.Size != 30 || cfg.Planner.MaxIterations != 300 {
		t.Errorf("preset fields lost: %+v", cfg.Map)
	}
	if base.Seed != 0 {
		t.Error("base config was modified")
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("open")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Map.Obstacles != 0 || cfg.Map.Wall {
		t.Error("open preset should have no obstacles")
	}

	// presets must not share state
	cfg.Map.Size = 3
	if GetPreset("open").Map.Size == 3 {
		t.Error("preset mutation leaked")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestSetParam(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.SetParam("lambda", 0.25); err != nil {
		t.Fatal(err)
	}
	if err := cfg.SetParam("prediction_horizon", 11.6); err != nil {
		t.Fatal(err)
	}
	if cfg.Planner.Lambda != 0.25 || cfg.Planner.PredictionHorizon != 12 {
		t.Errorf("params not applied: %+v", cfg.Planner)
	}

	if err := cfg.SetParam("gravity", 9.81); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if len(ListParams()) != len(params) {
		t.Error("ListParams incomplete")
	}
}
