package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mppi/internal/config"
	"github.com/san-kum/mppi/internal/dynamo"
	"github.com/san-kum/mppi/internal/experiment"
	"github.com/san-kum/mppi/internal/logger"
	"github.com/san-kum/mppi/internal/mppi"
	"github.com/san-kum/mppi/internal/noise"
)

// Scenario defines a batch of planner runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run: a base config (preset or file) plus overrides.
type ScenarioStep struct {
	Name   string             `yaml:"name"`
	Preset string             `yaml:"preset"`
	Config string             `yaml:"config"`
	Seed   int64              `yaml:"seed"`
	Start  *dynamo.Vec2       `yaml:"start"`
	Goal   *dynamo.Vec2       `yaml:"goal"`
	Params map[string]float64 `yaml:"params"`
}

// StepResult is the outcome of one scenario step. Aborted runs and
// rejected endpoints are outcomes, not batch failures.
type StepResult struct {
	Name   string         `json:"name"`
	RunID  string         `json:"run_id"`
	Seed   int64          `json:"seed"`
	Result *dynamo.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Resolve builds the run config for a step.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case s.Config != "":
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case s.Preset != "":
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	default:
		cfg = config.DefaultConfig()
	}

	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Start != nil {
		cfg.Start = *s.Start
	}
	if s.Goal != nil {
		cfg.Goal = *s.Goal
	}
	for name, v := range s.Params {
		if err := cfg.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// RunScenario executes all steps in order. It stops at the first step whose
// config cannot be built or when ctx is done.
func RunScenario(ctx context.Context, scenario *Scenario, log *slog.Logger) ([]StepResult, error) {
	if log == nil {
		log = logger.Discard()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		log.Info("running step", "scenario", scenario.Name, "step", name, "index", i+1, "total", len(scenario.Steps))

		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(log); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		res, err := exp.Run(ctx)
		sr := StepResult{Name: name, RunID: exp.ID(), Seed: cfg.Seed, Result: res}
		if err != nil {
			if !errors.Is(err, dynamo.ErrNonConvergence) && !errors.Is(err, mppi.ErrInvalidGoalOrStart) {
				return results, fmt.Errorf("step %d run: %w", i+1, err)
			}
			sr.Error = err.Error()
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep varies one knob linearly over a base config
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds the outcome at one parameter value
type SweepResult struct {
	ParamValue float64       `json:"param_value"`
	Status     dynamo.Status `json:"status"`
	Iterations int           `json:"iterations"`
	PathLength float64       `json:"path_length"`
	Collisions float64       `json:"collisions"`
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, log *slog.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	if log == nil {
		log = logger.Discard()
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}
	grids := experiment.NewGridCache(1)
	results := make([]SweepResult, 0, sweep.NumSteps)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		exp := experiment.New(cfg)
		exp.UseGridCache(grids)
		if err := exp.Setup(log); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		res, err := exp.Run(ctx)
		if res == nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Status:     res.Status,
			Iterations: res.Iterations,
			PathLength: res.Path.Length(),
			Collisions: res.Metrics["collisions"],
		})

		log.Info("sweep", "index", i+1, "total", sweep.NumSteps, "param", sweep.ParamName, "value", paramVal, "status", res.Status.String())
	}

	return results, nil
}

// MonteCarloConfig perturbs the start position of a base config
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
}

// MonteCarloResult holds the outcome of one perturbed trial
type MonteCarloResult struct {
	TrialID    int           `json:"trial"`
	Start      dynamo.Vec2   `json:"start"`
	Status     dynamo.Status `json:"status"`
	Iterations int           `json:"iterations"`
	Rejected   bool          `json:"rejected"` // start landed on an obstacle or off the map
}

// RunMonteCarlo executes multiple trials with random start perturbations
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, log *slog.Logger) ([]MonteCarloResult, error) {
	if log == nil {
		log = logger.Discard()
	}
	rng := noise.NewSource(cfg.Seed)
	grids := experiment.NewGridCache(1)
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	// every trial shares one map
	base := cfg.Base.Clone()
	if base.Seed == 0 {
		base.Seed = noise.NewSource(0).Seed()
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		run := base.Clone()
		run.Start = run.Start.Add(dynamo.Vec2{
			X: (rng.Float64() - 0.5) * 2 * cfg.Perturbation,
			Y: (rng.Float64() - 0.5) * 2 * cfg.Perturbation,
		})

		exp := experiment.New(run)
		exp.UseGridCache(grids)
		if err := exp.Setup(log); err != nil {
			return nil, err
		}

		mr := MonteCarloResult{TrialID: trial, Start: run.Start}
		res, err := exp.Run(ctx)
		switch {
		case errors.Is(err, mppi.ErrInvalidGoalOrStart):
			mr.Rejected = true
		case res != nil:
			mr.Status = res.Status
			mr.Iterations = res.Iterations
		default:
			return nil, err
		}
		results = append(results, mr)

		if (trial+1)%10 == 0 {
			log.Info("monte carlo", "done", trial+1, "total", cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats tallies trial outcomes
func MonteCarloStats(results []MonteCarloResult) (converged, aborted, rejected int) {
	for _, r := range results {
		switch {
		case r.Rejected:
			rejected++
		case r.Status == dynamo.StatusConverged:
			converged++
		default:
			aborted++
		}
	}
	return
}
