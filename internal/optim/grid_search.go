package optim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/mppi/internal/config"
	"github.com/san-kum/mppi/internal/dynamo"
	"github.com/san-kum/mppi/internal/experiment"
)

// Objective scores a finished run; lower is better.
type Objective func(res *dynamo.Result) float64

// Iterations scores converged runs by iteration count. Anything else
// scores +Inf.
func Iterations(res *dynamo.Result) float64 {
	if res == nil || !res.Converged() {
		return math.Inf(1)
	}
	return float64(res.Iterations)
}

// PathLength scores converged runs by distance travelled.
func PathLength(res *dynamo.Result) float64 {
	if res == nil || !res.Converged() {
		return math.Inf(1)
	}
	return res.Path.Length()
}

// Metric scores converged runs by a named run metric.
func Metric(name string) Objective {
	return func(res *dynamo.Result) float64 {
		if res == nil || !res.Converged() {
			return math.Inf(1)
		}
		v, ok := res.Metrics[name]
		if !ok {
			return math.Inf(1)
		}
		return v
	}
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("got %d params and %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("param %s has no values", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of parameter combinations.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search evaluates every combination and returns the best one. Combinations
// whose experiment cannot be built are skipped. If nothing scores below
// +Inf the returned params are nil.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	objective Objective,
) (map[string]float64, float64, error) {

	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, objective, &best, &bestParams)

	return bestParams, best, ctx.Err()
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.paramNames) {
		exp, err := buildExperiment(current)
		if err != nil {
			return
		}

		result, _ := exp.Run(ctx)
		val := objective(result)
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, buildExperiment, objective, best, bestParams)
	}
}

// FromConfig returns a builder that applies each combination to a copy of
// base. All combinations share one map.
func FromConfig(base *config.Config, log *slog.Logger) func(map[string]float64) (*experiment.Experiment, error) {
	grids := experiment.NewGridCache(1)
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for name, v := range params {
			if err := cfg.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(cfg)
		exp.UseGridCache(grids)
		if err := exp.Setup(log); err != nil {
			return nil, err
		}
		return exp, nil
	}
}
