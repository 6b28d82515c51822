package experiment

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/mppi/internal/config"
	"github.com/san-kum/mppi/internal/dynamo"
	"github.com/san-kum/mppi/internal/mppi"
)

// EnsembleRun is the outcome of one seed.
type EnsembleRun struct {
	Seed   int64          `json:"seed"`
	Result *dynamo.Result `json:"result,omitempty"`
	Err    error          `json:"-"`
}

type EnsembleSummary struct {
	Runs      []EnsembleRun `json:"runs"`
	Converged int           `json:"converged"`
	Aborted   int           `json:"aborted"`
	// Rejected counts seeds whose random map covered the start or goal.
	Rejected       int     `json:"rejected"`
	SuccessRate    float64 `json:"success_rate"`
	MeanIterations float64 `json:"mean_iterations"`
	StdIterations  float64 `json:"std_iterations"`
	MeanPathLength float64 `json:"mean_path_length"`
}

// Seeds returns n consecutive seeds starting at base. A zero base starts
// at 1 so every run stays reproducible.
func Seeds(base int64, n int) []int64 {
	if base == 0 {
		base = 1
	}
	out := make([]int64, n)
	for i := range out {
		out[i] = base + int64(i)
	}
	return out
}

// Ensemble runs base once per seed, at most parallel runs at a time. Each
// run gets its own map, planner and noise source. Config errors stop the
// ensemble; planner outcomes are collected per run.
func Ensemble(ctx context.Context, base *config.Config, seeds []int64, parallel int, log *slog.Logger) (*EnsembleSummary, error) {
	runs := make([]EnsembleRun, len(seeds))
	cache := NewGridCache(len(seeds))

	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, seed := range seeds {
		g.Go(func() error {
			cfg := base.Clone()
			cfg.Seed = seed

			exp := New(cfg)
			exp.UseGridCache(cache)
			if err := exp.Setup(log); err != nil {
				return err
			}
			res, err := exp.Run(ctx)
			runs[i] = EnsembleRun{Seed: seed, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summarize(runs), nil
}

func summarize(runs []EnsembleRun) *EnsembleSummary {
	s := &EnsembleSummary{Runs: runs}

	var iters, lengths []float64
	for _, r := range runs {
		switch {
		case errors.Is(r.Err, mppi.ErrInvalidGoalOrStart):
			s.Rejected++
		case r.Result != nil && r.Result.Converged():
			s.Converged++
			iters = append(iters, float64(r.Result.Iterations))
			lengths = append(lengths, r.Result.Path.Length())
		default:
			s.Aborted++
		}
	}

	if len(runs) > 0 {
		s.SuccessRate = float64(s.Converged) / float64(len(runs))
	}
	if len(iters) > 0 {
		s.MeanIterations = stat.Mean(iters, nil)
		if len(iters) > 1 {
			s.StdIterations = stat.StdDev(iters, nil)
		}
		s.MeanPathLength = stat.Mean(lengths, nil)
	}
	return s
}
