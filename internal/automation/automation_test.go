package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/mppi/internal/config"
	"github.com/san-kum/mppi/internal/dynamo"
)

const scenarioYAML = `name: smoke
description: open map then a blocked start
steps:
  - name: open
    preset: open
    seed: 42
    goal: {x: 5, y: 5}
    params:
      max_iterations: 200
  - name: blocked
    preset: enclosed
    seed: 1
    start: {x: 9.5, y: 12}
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sc.Name != "smoke" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if sc.Steps[0].Goal == nil || *sc.Steps[0].Goal != (dynamo.Vec2{X: 5, Y: 5}) {
		t.Errorf("goal override not parsed: %v", sc.Steps[0].Goal)
	}

	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestResolve(t *testing.T) {
	step := ScenarioStep{
		Preset: "open",
		Seed:   5,
		Params: map[string]float64{"lambda": 2},
	}
	cfg, err := step.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 5 || cfg.Planner.Lambda != 2 {
		t.Errorf("overrides not applied: seed=%d lambda=%v", cfg.Seed, cfg.Planner.Lambda)
	}

	if _, err := (ScenarioStep{Preset: "nowhere"}).Resolve(); err == nil {
		t.Error("expected unknown preset error")
	}
	if _, err := (ScenarioStep{Params: map[string]float64{"mass": 1}}).Resolve(); err == nil {
		t.Error("expected unknown param error")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}

	results, err := RunScenario(context.Background(), sc, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	open := results[0]
	if open.Result == nil || !open.Result.Converged() {
		t.Errorf("open step should converge: %+v", open)
	}
	if open.RunID == "" {
		t.Error("expected run id")
	}

	blocked := results[1]
	if blocked.Result != nil || blocked.Error == "" {
		t.Errorf("start on the enclosure wall should be rejected: %+v", blocked)
	}
}

func TestRunSweep(t *testing.T) {
	base := config.GetPreset("open")
	base.Seed = 3
	base.Map.Size = 10
	base.Goal = dynamo.Vec2{X: 6, Y: 6}
	base.Planner.MaxIterations = 150

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Base:      base,
		ParamName: "lambda",
		ParamMin:  0.5,
		ParamMax:  2,
		NumSteps:  3,
	}, nil)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	want := []float64{0.5, 1.25, 2}
	for i, r := range results {
		if r.ParamValue != want[i] {
			t.Errorf("step %d: value %v, want %v", i, r.ParamValue, want[i])
		}
		if !r.Status.Terminal() {
			t.Errorf("step %d: status %v", i, r.Status)
		}
	}
	if base.Planner.Lambda != 1 {
		t.Error("sweep must not modify the base config")
	}

	if _, err := RunSweep(context.Background(), &ParameterSweep{Base: base, ParamName: "lambda"}, nil); err == nil {
		t.Error("expected error for zero steps")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.GetPreset("enclosed")
	base.Seed = 9
	base.Start = dynamo.Vec2{X: 9, Y: 15}
	base.Planner.MaxIterations = 3

	results, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{
		Base:         base,
		Perturbation: 1,
		NumTrials:    12,
		Seed:         4,
	}, nil)
	if err != nil {
		t.Fatalf("monte carlo: %v", err)
	}
	if len(results) != 12 {
		t.Fatalf("expected 12 trials, got %d", len(results))
	}

	converged, aborted, rejected := MonteCarloStats(results)
	if converged+aborted+rejected != 12 {
		t.Errorf("tally %d+%d+%d != 12", converged, aborted, rejected)
	}
	// starts within one cell of x=9 straddle the enclosure wall column
	if rejected == 0 || aborted == 0 {
		t.Errorf("expected both rejected and aborted trials, got aborted=%d rejected=%d", aborted, rejected)
	}
}
