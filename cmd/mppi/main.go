package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/mppi/internal/automation"
	"github.com/san-kum/mppi/internal/config"
	"github.com/san-kum/mppi/internal/dynamo"
	"github.com/san-kum/mppi/internal/experiment"
	"github.com/san-kum/mppi/internal/logger"
	"github.com/san-kum/mppi/internal/optim"
	"github.com/san-kum/mppi/internal/report"
)

var (
	// Config sources
	configFile string
	preset     string
	// Logging
	logLevel  string
	logFormat string
	// Scenario overrides
	seed      int64
	start     []float64
	goal      []float64
	mapSize   int
	obstacles int
	noWall    bool
	// Planner overrides
	lambda        float64
	noiseStd      float64
	maxIterations int
	timeout       time.Duration
	workers       int
	// Output
	jsonOut   bool
	showChart bool
	// Ensemble
	runs     int
	parallel int
	// Sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	// Tune
	tuneParams []string
	objective  string
)

// main registers the commands and executes the root command. Interrupts
// cancel the running planner, which then reports an aborted run.
func main() {
	rootCmd := &cobra.Command{
		Use:           "mppi",
		Short:         "sampling-based path planner on a 2D cost grid",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, text)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "plan a path from start to goal",
		Args:  cobra.NoArgs,
		RunE:  runPlanner,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "write the result as JSON to stdout")
	runCmd.Flags().BoolVar(&showChart, "chart", false, "plot distance and rollout cost per iteration")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets and dynamics models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-10s %dx%d map, %d obstacles, wall=%t, %v -> %v\n",
					name, cfg.Map.Size, cfg.Map.Size, cfg.Map.Obstacles, cfg.Map.Wall, cfg.Start, cfg.Goal)
			}
			fmt.Println("models:")
			for _, name := range experiment.NewRegistry().ListModels() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run one scenario across consecutive seeds",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addScenarioFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 10, "number of seeds")
	ensembleCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent runs (0 = unlimited)")
	ensembleCmd.Flags().BoolVar(&jsonOut, "json", false, "write the summary as JSON to stdout")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one parameter linearly",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "lambda", "parameter name ("+strings.Join(config.ListParams(), ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2.0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().BoolVar(&jsonOut, "json", false, "write results as JSON to stdout")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search over planner parameters",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addScenarioFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "grid", nil, "parameter values as name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&objective, "objective", "iterations", "iterations, path_length or metric:<name>")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a YAML scenario of planner runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&jsonOut, "json", false, "write results as JSON to stdout")

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the resolved configuration as YAML",
		Long:  "Resolves --preset, --config and override flags and writes the result to path, or stdout when path is omitted.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}
	addScenarioFlags(configCmd)

	rootCmd.AddCommand(runCmd, presetsCmd, ensembleCmd, sweepCmd, tuneCmd, batchCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for map and noise (0 = time based)")
	cmd.Flags().Float64SliceVar(&start, "start", nil, "start position x,y")
	cmd.Flags().Float64SliceVar(&goal, "goal", nil, "goal position x,y")
	cmd.Flags().IntVar(&mapSize, "size", 0, "map size in cells")
	cmd.Flags().IntVar(&obstacles, "obstacles", 0, "number of random obstacles")
	cmd.Flags().BoolVar(&noWall, "no-wall", false, "omit the wall")
	cmd.Flags().Float64Var(&lambda, "lambda", 0, "weighting temperature")
	cmd.Flags().Float64Var(&noiseStd, "noise-std", 0, "control perturbation std")
	cmd.Flags().IntVar(&maxIterations, "max-iter", 0, "iteration cap")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "wall-clock limit, e.g. 30s (0 = none)")
	cmd.Flags().IntVar(&workers, "workers", 0, "rollout goroutines (0 = all CPUs)")
}

// loadConfig resolves preset, then config file layered over it, then flags
// that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.LoadWith(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("start") {
		p, err := parseVec(start)
		if err != nil {
			return nil, fmt.Errorf("--start: %w", err)
		}
		cfg.Start = p
	}
	if flags.Changed("goal") {
		p, err := parseVec(goal)
		if err != nil {
			return nil, fmt.Errorf("--goal: %w", err)
		}
		cfg.Goal = p
	}
	if flags.Changed("size") {
		cfg.Map.Size = mapSize
	}
	if flags.Changed("obstacles") {
		cfg.Map.Obstacles = obstacles
	}
	if noWall {
		cfg.Map.Wall = false
	}
	if flags.Changed("lambda") {
		cfg.Planner.Lambda = lambda
	}
	if flags.Changed("noise-std") {
		cfg.Planner.NoiseStd = noiseStd
	}
	if flags.Changed("max-iter") {
		cfg.Planner.MaxIterations = maxIterations
	}
	if flags.Changed("workers") {
		cfg.Planner.Workers = workers
	}
	if flags.Changed("timeout") {
		cfg.Planner.Timeout = timeout
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseVec(v []float64) (dynamo.Vec2, error) {
	if len(v) != 2 {
		return dynamo.Vec2{}, fmt.Errorf("want x,y, got %d values", len(v))
	}
	return dynamo.Vec2{X: v[0], Y: v[1]}, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	log := logger.NewFormat(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	logger.SetDefault(log)
	return log
}

func runPlanner(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	history := report.NewHistory()
	exp := experiment.New(cfg)
	if err := exp.Setup(log, history); err != nil {
		return err
	}

	res, runErr := exp.Run(cmd.Context())
	if res == nil {
		return runErr
	}

	run := report.NewRun(exp, res)
	if jsonOut {
		if err := report.WriteJSON(os.Stdout, report.NewExport(run)); err != nil {
			return err
		}
	} else {
		fmt.Println(report.Summary(run))
		if showChart {
			fmt.Println()
			fmt.Print(report.Chart(history, report.DefaultChartWidth, report.DefaultChartHeight))
		}
	}

	var abort *dynamo.AbortError
	if errors.As(runErr, &abort) {
		return fmt.Errorf("no path after %d iterations: %s", abort.Iteration, abort.Reason)
	}
	return runErr
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	sum, err := experiment.Ensemble(cmd.Context(), cfg, experiment.Seeds(cfg.Seed, runs), parallel, log)
	if err != nil {
		return err
	}
	if jsonOut {
		return report.WriteJSON(os.Stdout, sum)
	}
	fmt.Print(report.EnsembleTable(sum))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}, log)
	if err != nil {
		return err
	}
	if jsonOut {
		return report.WriteJSON(os.Stdout, results)
	}
	fmt.Print(report.SweepTable(sweepParam, results))
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	names, ranges, err := parseGrid(tuneParams)
	if err != nil {
		return err
	}
	obj, err := parseObjective(objective)
	if err != nil {
		return err
	}

	gs, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	log.Info("grid search", "combinations", gs.Size(), "objective", objective)

	best, score, err := gs.Search(cmd.Context(), optim.FromConfig(cfg, log), obj)
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no combination reached the goal")
	}
	fmt.Printf("best %s = %.4g\n", objective, score)
	for _, name := range names {
		fmt.Printf("  %-20s %g\n", name, best[name])
	}
	return nil
}

// parseGrid turns name=v1,v2 specs into search ranges.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	if len(specs) == 0 {
		return nil, nil, fmt.Errorf("at least one --grid is required")
	}
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("bad --grid %q: want name=v1,v2", spec)
		}
		var values []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad --grid %q: %w", spec, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func parseObjective(name string) (optim.Objective, error) {
	switch {
	case name == "iterations":
		return optim.Iterations, nil
	case name == "path_length":
		return optim.PathLength, nil
	case strings.HasPrefix(name, "metric:"):
		return optim.Metric(strings.TrimPrefix(name, "metric:")), nil
	}
	return nil, fmt.Errorf("unknown objective: %s", name)
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	log := newLogger(cfg)

	results, err := automation.RunScenario(cmd.Context(), scenario, log)
	if jsonOut {
		if werr := report.WriteJSON(os.Stdout, results); werr != nil {
			return werr
		}
	} else if len(results) > 0 {
		fmt.Print(report.BatchTable(results))
	}
	return err
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		if err := config.Save(args[0], cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", args[0])
		return nil
	}
	return yaml.NewEncoder(os.Stdout).Encode(cfg)
}
