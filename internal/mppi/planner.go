package mppi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/mppi/internal/dynamo"
	"github.com/san-kum/mppi/internal/logger"
	"github.com/san-kum/mppi/internal/noise"
)

// Planner is the receding-horizon optimizer loop.
type Planner struct {
	field     CostField
	cfg       Config
	model     dynamo.Model
	noise     NoiseSource
	log       *slog.Logger
	observers []dynamo.Observer
	metrics   []dynamo.Metric
}

// New validates cfg and returns a planner over field.
func New(field CostField, cfg Config, opts ...Option) (*Planner, error) {
	if field == nil || field.Size() <= 0 {
		return nil, fmt.Errorf("%w: cost field is empty", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Planner{
		field: field,
		cfg:   cfg,
		model: dynamo.NewAdditive(),
		log:   logger.Default,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.noise == nil {
		p.noise = noise.NewSource(cfg.Seed)
	}
	return p, nil
}

// ValidateEndpoints asks the field to vet start and goal and tags the
// field's error with the endpoint that failed.
func (p *Planner) ValidateEndpoints(start, goal dynamo.Vec2) error {
	if err := p.field.ValidateEndpoint(start); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidStart, err)
	}
	if err := p.field.ValidateEndpoint(goal); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidGoal, err)
	}
	return nil
}

// reached applies the termination test on the truncated position.
func (p *Planner) reached(pos, goal dynamo.Vec2) bool {
	x, y := pos.Cell()
	return math.Abs(float64(x)-goal.X) <= p.cfg.Tolerance &&
		math.Abs(float64(y)-goal.Y) <= p.cfg.Tolerance
}

// Plan drives the agent from start toward goal. On convergence it returns
// the Result and a nil error. When the run stops early (iteration cap,
// timeout, cancellation, invalid state) the partial Result is returned with
// an *dynamo.AbortError. Invalid endpoints fail before any sampling with an
// error matching ErrInvalidGoalOrStart and a nil Result.
func (p *Planner) Plan(ctx context.Context, start, goal dynamo.Vec2) (*dynamo.Result, error) {
	if err := p.ValidateEndpoints(start, goal); err != nil {
		return nil, err
	}

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	var (
		h       = p.cfg.ControlHorizon
		n       = p.cfg.PredictionHorizon
		eval    = NewEvaluator(p.field, goal, p.cfg.CollisionWeight, p.cfg.DirectionWeight)
		sampler = NewSampler(p.noise, p.cfg.NoiseStd)
		rollout = NewRollout(eval, p.model, p.cfg.Workers)
		batch   = NewBatch(h, n)
		weights = make([]float64, n)
		seq     = dynamo.NewSequence(h)
		log     = p.log.With("start", start.String(), "goal", goal.String())
	)

	for _, m := range p.metrics {
		m.Reset()
	}

	began := time.Now()
	pos := start
	result := &dynamo.Result{
		Status:  dynamo.StatusRunning,
		Path:    dynamo.Path{start},
		Metrics: make(map[string]float64),
	}

	var abort *dynamo.AbortError
	for !result.Status.Terminal() {
		if p.reached(pos, goal) {
			result.Status = dynamo.StatusConverged
			break
		}
		if err := ctx.Err(); err != nil {
			reason := "canceled"
			if errors.Is(err, context.DeadlineExceeded) {
				reason = "timeout"
			}
			abort = &dynamo.AbortError{Iteration: result.Iterations, Position: pos, Reason: reason, Cause: err}
			break
		}
		if result.Iterations >= p.cfg.MaxIterations {
			abort = &dynamo.AbortError{
				Iteration: result.Iterations,
				Position:  pos,
				Reason:    fmt.Sprintf("iteration limit %d reached", p.cfg.MaxIterations),
			}
			break
		}

		sampler.Sample(seq, batch)
		costs := rollout.Run(pos, batch)
		degenerate := Reweight(costs, p.cfg.Lambda, weights)
		Update(weights, batch, seq)

		u := seq.At(0)
		next := p.model.Step(pos, u)
		if !next.IsValid() {
			abort = &dynamo.AbortError{
				Iteration: result.Iterations,
				Position:  pos,
				Reason:    fmt.Sprintf("control %v produced an invalid position", u),
				Cause:     dynamo.ErrInvalidState,
			}
			break
		}

		pos = next
		result.Path = append(result.Path, pos)
		result.Iterations++
		seq.Shift()

		stats := dynamo.IterationStats{
			Iteration:  result.Iterations,
			Position:   pos,
			Control:    u,
			MinCost:    minCost(costs),
			ESS:        EffectiveSampleSize(weights),
			Degenerate: degenerate,
			Distance:   pos.Dist(goal),
		}
		stats.MeanCost, stats.StdCost = stat.MeanStdDev(costs, nil)
		result.FinalMinCost = stats.MinCost

		if degenerate {
			result.DegenerateSteps++
			log.Warn("importance weights degenerate, using uniform",
				"iteration", stats.Iteration, "min_cost", stats.MinCost)
		}
		log.Debug("iteration",
			"iteration", stats.Iteration,
			"position", pos.String(),
			"control", u.String(),
			"min_cost", stats.MinCost,
			"ess", stats.ESS,
			"distance", stats.Distance,
		)

		for _, m := range p.metrics {
			m.Observe(stats)
		}
		for _, o := range p.observers {
			o.OnIteration(stats)
		}
	}

	result.Elapsed = time.Since(began)
	for _, m := range p.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if abort != nil {
		result.Status = dynamo.StatusAborted
		result.Reason = abort.Reason
		log.Warn("planner aborted",
			"reason", abort.Reason,
			"iterations", result.Iterations,
			"position", pos.String(),
			"elapsed", result.Elapsed,
		)
		return result, abort
	}

	result.Reason = "goal reached"
	log.Info("planner converged",
		"iterations", result.Iterations,
		"path_length", result.Path.Length(),
		"elapsed", result.Elapsed,
	)
	return result, nil
}
