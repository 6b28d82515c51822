package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/mppi/internal/automation"
	"github.com/san-kum/mppi/internal/dynamo"
	"github.com/san-kum/mppi/internal/experiment"
)

// Run identifies a planner run for the summary and the JSON export.
type Run struct {
	ID            string
	Seed          int64
	Start         dynamo.Vec2
	Goal          dynamo.Vec2
	MapSize       int
	ObstacleCells int
	Result        *dynamo.Result
}

// NewRun describes a finished experiment. exp must have been set up.
func NewRun(exp *experiment.Experiment, res *dynamo.Result) Run {
	cfg := exp.Config()
	grid := exp.Grid()
	return Run{
		ID:            exp.ID(),
		Seed:          cfg.Seed,
		Start:         cfg.Start,
		Goal:          cfg.Goal,
		MapSize:       grid.Size(),
		ObstacleCells: grid.ObstacleCount(),
		Result:        res,
	}
}

func row(k, v string) string {
	return label.Render(k) + value.Render(v) + "\n"
}

func statusText(s dynamo.Status) string {
	if s == dynamo.StatusConverged {
		return converged.Render(s.String())
	}
	return aborted.Render(s.String())
}

// Summary renders the outcome of one run.
func Summary(r Run) string {
	res := r.Result
	var s strings.Builder
	s.WriteString(title.Render("mppi run "+shortID(r.ID)) + "\n\n")
	s.WriteString(label.Render("status") + statusText(res.Status) + "\n")
	if res.Reason != "" {
		s.WriteString(row("reason", res.Reason))
	}
	s.WriteString(row("seed", fmt.Sprintf("%d", r.Seed)))
	s.WriteString(row("start", r.Start.String()))
	s.WriteString(row("goal", r.Goal.String()))
	if r.MapSize > 0 {
		s.WriteString(row("map", fmt.Sprintf("%dx%d, %d obstacle cells", r.MapSize, r.MapSize, r.ObstacleCells)))
	}
	s.WriteString(row("final", res.Final().String()))
	s.WriteString(row("iterations", fmt.Sprintf("%d", res.Iterations)))
	s.WriteString(row("path length", fmt.Sprintf("%.3f", res.Path.Length())))
	s.WriteString(row("elapsed", res.Elapsed.String()))
	if res.DegenerateSteps > 0 {
		s.WriteString(row("degenerate steps", fmt.Sprintf("%d", res.DegenerateSteps)))
	}

	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.WriteString(row(name, fmt.Sprintf("%.4g", res.Metrics[name])))
	}

	return panel.Render(strings.TrimRight(s.String(), "\n"))
}

// EnsembleTable renders per-seed outcomes and the aggregate.
func EnsembleTable(sum *experiment.EnsembleSummary) string {
	var s strings.Builder
	s.WriteString(header.Render(fmt.Sprintf("%-8s %-10s %10s %12s", "seed", "status", "iterations", "path length")) + "\n")
	for _, r := range sum.Runs {
		switch {
		case r.Result == nil:
			s.WriteString(fmt.Sprintf("%-8d %-10s %10s %12s\n", r.Seed, "rejected", "-", "-"))
		default:
			s.WriteString(fmt.Sprintf("%-8d %-10s %10d %12.3f\n",
				r.Seed, r.Result.Status, r.Result.Iterations, r.Result.Path.Length()))
		}
	}
	s.WriteString("\n")
	s.WriteString(row("success rate", fmt.Sprintf("%.1f%% (%d/%d)", 100*sum.SuccessRate, sum.Converged, len(sum.Runs))))
	s.WriteString(row("aborted", fmt.Sprintf("%d", sum.Aborted)))
	s.WriteString(row("rejected", fmt.Sprintf("%d", sum.Rejected)))
	if sum.Converged > 0 {
		s.WriteString(row("iterations", fmt.Sprintf("%.1f ± %.1f", sum.MeanIterations, sum.StdIterations)))
		s.WriteString(row("path length", fmt.Sprintf("%.3f", sum.MeanPathLength)))
	}
	return s.String()
}

// SweepTable renders one line per swept value.
func SweepTable(param string, results []automation.SweepResult) string {
	var s strings.Builder
	s.WriteString(header.Render(fmt.Sprintf("%-14s %-10s %10s %12s %10s", param, "status", "iterations", "path length", "collisions")) + "\n")
	for _, r := range results {
		s.WriteString(fmt.Sprintf("%-14.4g %-10s %10d %12.3f %10.0f\n",
			r.ParamValue, r.Status, r.Iterations, r.PathLength, r.Collisions))
	}
	return s.String()
}

// BatchTable renders the outcome of every scenario step.
func BatchTable(results []automation.StepResult) string {
	var s strings.Builder
	s.WriteString(header.Render(fmt.Sprintf("%-20s %-10s %-10s %10s", "step", "run", "status", "iterations")) + "\n")
	for _, r := range results {
		status, iters := "rejected", "-"
		if r.Result != nil {
			status = r.Result.Status.String()
			iters = fmt.Sprintf("%d", r.Result.Iterations)
		}
		s.WriteString(fmt.Sprintf("%-20s %-10s %-10s %10s\n", r.Name, shortID(r.RunID), status, iters))
	}
	return s.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
