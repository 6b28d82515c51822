package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/san-kum/mppi/internal/config"
	"github.com/san-kum/mppi/internal/costmap"
	"github.com/san-kum/mppi/internal/dynamo"
	"github.com/san-kum/mppi/internal/logger"
	"github.com/san-kum/mppi/internal/mppi"
	"github.com/san-kum/mppi/internal/noise"
)

// Experiment is one planner run built from a config.
type Experiment struct {
	id       string
	cfg      *config.Config
	registry *Registry
	grids    *GridCache
	grid     *costmap.Grid
	planner  *mppi.Planner
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		id:       uuid.New().String(),
		cfg:      cfg,
		registry: NewRegistry(),
	}
}

// UseGridCache makes Setup take the map from c instead of rebuilding it.
func (e *Experiment) UseGridCache(c *GridCache) {
	e.grids = c
}

// Setup validates the config, builds the map and the planner. A zero seed
// is replaced by a time-based one and written back to the config so the
// run can be repeated. Observers receive every iteration of the run.
func (e *Experiment) Setup(log *slog.Logger, observers ...dynamo.Observer) error {
	if log == nil {
		log = logger.Discard()
	}
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	if e.cfg.Seed == 0 {
		e.cfg.Seed = noise.NewSource(0).Seed()
	}

	var err error
	if e.grids != nil {
		e.grid, err = e.grids.Get(e.cfg)
	} else {
		e.grid, err = BuildGrid(e.cfg)
	}
	if err != nil {
		return fmt.Errorf("build map: %w", err)
	}

	model, err := e.registry.GetModel(e.cfg.Model, e.cfg.Dt)
	if err != nil {
		return err
	}

	opts := []mppi.Option{
		mppi.WithLogger(log.With("run", e.id[:8])),
		mppi.WithModel(model),
		mppi.WithMetrics(e.registry.DefaultMetrics(e.grid)...),
	}
	for _, o := range observers {
		opts = append(opts, mppi.WithObserver(o))
	}

	e.planner, err = mppi.New(e.grid, e.cfg.PlannerConfig(), opts...)
	return err
}

// Run plans from the configured start to goal. Aborted runs return their
// partial result together with the abort error.
func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.planner == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.planner.Plan(ctx, e.cfg.Start, e.cfg.Goal)
}

func (e *Experiment) ID() string { return e.id }

// Config returns the run's config, with the seed resolved after Setup.
func (e *Experiment) Config() *config.Config { return e.cfg }

// Grid returns the map built by Setup.
func (e *Experiment) Grid() *costmap.Grid { return e.grid }
