package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/mppi/internal/config"
	"github.com/san-kum/mppi/internal/dynamo"
	"github.com/san-kum/mppi/internal/logger"
	"github.com/san-kum/mppi/internal/mppi"
)

func openConfig() *config.Config {
	cfg := config.GetPreset("open")
	cfg.Seed = 42
	cfg.Map.Size = 10
	cfg.Start = dynamo.Vec2{X: 0, Y: 0}
	cfg.Goal = dynamo.Vec2{X: 5, Y: 5}
	cfg.Planner.MaxIterations = 200
	cfg.Planner.Workers = 2
	return cfg
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if _, err := r.GetModel("additive", 1); err != nil {
		t.Errorf("additive: %v", err)
	}
	m, err := r.GetModel("scaled", 0.5)
	if err != nil {
		t.Fatalf("scaled: %v", err)
	}
	if got := m.Step(dynamo.Vec2{}, dynamo.Vec2{X: 2}); got.X != 1 {
		t.Errorf("scaled step: expected x=1, got %v", got)
	}
	if _, err := r.GetModel("bicycle", 1); err == nil {
		t.Error("expected error for unknown model")
	}
	if _, err := r.GetMetric("nope", nil); err == nil {
		t.Error("expected error for unknown metric")
	}
	if len(r.ListMetrics()) != 4 {
		t.Errorf("expected 4 metrics, got %v", r.ListMetrics())
	}
}

func TestBuildGrid_Deterministic(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Seed = 11

	a, err := BuildGrid(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	b, err := BuildGrid(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for x := 0; x < a.Size(); x++ {
		for y := 0; y < a.Size(); y++ {
			if a.Cost(x, y) != b.Cost(x, y) {
				t.Fatalf("cell (%d,%d) differs between builds", x, y)
			}
		}
	}
	if a.ObstacleCount() == 0 {
		t.Error("expected obstacles on the default map")
	}
	// wall row is round(100/2) = 50, columns [10, 90)
	if a.Cost(50, 10) != 500 || a.Cost(50, 89) != 500 {
		t.Errorf("wall missing: %v %v", a.Cost(50, 10), a.Cost(50, 89))
	}
}

func TestBuildGrid_ClearRadius(t *testing.T) {
	cfg := openConfig()
	cfg.Map.Rects = [][4]int{{0, 0, 10, 10}}
	cfg.Map.ClearRadius = 1

	g, err := BuildGrid(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if g.IsObstacle(0, 0) || g.IsObstacle(1, 1) || g.IsObstacle(6, 6) {
		t.Error("expected cells around start and goal to be cleared")
	}
	if !g.IsObstacle(2, 2) || !g.IsObstacle(9, 9) {
		t.Error("expected cells outside the radius to stay blocked")
	}
}

func TestGridCache(t *testing.T) {
	c := NewGridCache(4)
	cfg := openConfig()

	a, err := c.Get(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := c.Get(cfg.Clone())
	if a != b {
		t.Error("expected cached grid to be reused")
	}

	other := cfg.Clone()
	other.Map.Size = 12
	d, _ := c.Get(other)
	if d == a || c.Len() != 2 {
		t.Errorf("expected a distinct entry, cache has %d", c.Len())
	}
}

func TestGridCache_IgnoresUnusedInputs(t *testing.T) {
	c := NewGridCache(4)

	// open map: no random obstacles and no clearing
	cfg := openConfig()
	a, _ := c.Get(cfg)
	reseeded := cfg.Clone()
	reseeded.Seed = 7
	reseeded.Start = dynamo.Vec2{X: 3, Y: 2}
	if b, _ := c.Get(reseeded); b != a {
		t.Error("seed and start do not shape an open map, expected a hit")
	}

	cluttered := config.DefaultConfig()
	cluttered.Seed = 5
	cluttered.Map.ClearRadius = 0
	x, err := c.Get(cluttered)
	if err != nil {
		t.Fatal(err)
	}
	moved := cluttered.Clone()
	moved.Start = dynamo.Vec2{X: 12.5, Y: 11}
	if y, _ := c.Get(moved); y != x {
		t.Error("start only matters with a clear radius, expected a hit")
	}
	other := cluttered.Clone()
	other.Seed = 6
	if z, _ := c.Get(other); z == x {
		t.Error("random obstacles depend on the seed, expected a miss")
	}
	if c.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", c.Len())
	}
}

func TestExperiment_ResolvesZeroSeed(t *testing.T) {
	cfg := openConfig()
	cfg.Seed = 0
	exp := New(cfg)
	if err := exp.Setup(nil); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if exp.Config().Seed == 0 {
		t.Error("expected a concrete seed after setup")
	}
	if exp.Grid() == nil || exp.Grid().Size() != 10 {
		t.Errorf("unexpected grid %v", exp.Grid())
	}
}

func TestExperiment_Run(t *testing.T) {
	exp := New(openConfig())
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}

	var seen int
	obs := dynamo.ObserverFunc(func(dynamo.IterationStats) { seen++ })
	if err := exp.Setup(logger.Discard(), obs); err != nil {
		t.Fatalf("setup: %v", err)
	}

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.Converged() {
		t.Errorf("expected convergence, got %v", res.Status)
	}
	if seen != res.Iterations {
		t.Errorf("observer saw %d iterations, result has %d", seen, res.Iterations)
	}
	for _, name := range NewRegistry().ListMetrics() {
		if _, ok := res.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if res.Metrics["path_length"] <= 0 {
		t.Errorf("expected positive path length, got %v", res.Metrics["path_length"])
	}
	if len(exp.ID()) != 36 {
		t.Errorf("unexpected run id %q", exp.ID())
	}
}

func TestExperiment_SetupErrors(t *testing.T) {
	cfg := openConfig()
	cfg.Model = "bicycle"
	if err := New(cfg).Setup(nil); err == nil {
		t.Error("expected unknown model error")
	}

	cfg = openConfig()
	cfg.Planner.Lambda = -1
	if err := New(cfg).Setup(nil); !errors.Is(err, mppi.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestEnsemble(t *testing.T) {
	seeds := Seeds(0, 4)
	if seeds[0] != 1 || seeds[3] != 4 {
		t.Fatalf("unexpected seeds %v", seeds)
	}

	sum, err := Ensemble(context.Background(), openConfig(), seeds, 2, logger.Discard())
	if err != nil {
		t.Fatalf("ensemble: %v", err)
	}
	if len(sum.Runs) != 4 {
		t.Fatalf("expected 4 runs, got %d", len(sum.Runs))
	}
	if sum.Converged+sum.Aborted+sum.Rejected != 4 {
		t.Errorf("outcomes do not add up: %+v", sum)
	}
	if sum.Converged == 0 || sum.SuccessRate <= 0 {
		t.Errorf("expected converged runs on an open map: %+v", sum)
	}
	if sum.MeanIterations <= 0 || sum.MeanPathLength <= 0 {
		t.Errorf("expected positive averages: %+v", sum)
	}
	for i, r := range sum.Runs {
		if r.Seed != seeds[i] {
			t.Errorf("run %d has seed %d, want %d", i, r.Seed, seeds[i])
		}
	}
}

func TestEnsemble_ConfigError(t *testing.T) {
	cfg := openConfig()
	cfg.Map.Size = 0
	if _, err := Ensemble(context.Background(), cfg, Seeds(1, 2), 1, nil); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestSummarize_Rejected(t *testing.T) {
	runs := []EnsembleRun{
		{Seed: 1, Err: mppi.ErrInvalidStart},
		{Seed: 2, Result: &dynamo.Result{Status: dynamo.StatusAborted}, Err: dynamo.ErrNonConvergence},
		{Seed: 3, Result: &dynamo.Result{Status: dynamo.StatusConverged, Iterations: 10, Path: dynamo.Path{{}, {X: 3, Y: 4}}}},
	}
	s := summarize(runs)
	if s.Rejected != 1 || s.Aborted != 1 || s.Converged != 1 {
		t.Errorf("unexpected tally %+v", s)
	}
	if s.MeanIterations != 10 || s.StdIterations != 0 || s.MeanPathLength != 5 {
		t.Errorf("unexpected averages %+v", s)
	}
}
