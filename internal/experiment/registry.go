package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/mppi/internal/dynamo"
	"github.com/san-kum/mppi/internal/metrics"
)

type Registry struct {
	models  map[string]func(dt float64) dynamo.Model
	metrics map[string]func(field metrics.Field) dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		models:  make(map[string]func(float64) dynamo.Model),
		metrics: make(map[string]func(metrics.Field) dynamo.Metric),
	}

	r.models["additive"] = func(float64) dynamo.Model { return dynamo.NewAdditive() }
	r.models["scaled"] = func(dt float64) dynamo.Model { return dynamo.NewScaled(dt) }

	r.metrics["path_length"] = func(metrics.Field) dynamo.Metric { return metrics.NewPathLength() }
	r.metrics["control_effort"] = func(metrics.Field) dynamo.Metric { return metrics.NewControlEffort() }
	r.metrics["collisions"] = func(f metrics.Field) dynamo.Metric { return metrics.NewCollisions(f) }
	r.metrics["mean_ess"] = func(metrics.Field) dynamo.Metric { return metrics.NewMeanESS() }

	return r
}

func (r *Registry) GetModel(name string, dt float64) (dynamo.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(dt), nil
}

func (r *Registry) GetMetric(name string, field metrics.Field) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(field), nil
}

func (r *Registry) ListModels() []string {
	return sortedKeys(r.models)
}

func (r *Registry) ListMetrics() []string {
	return sortedKeys(r.metrics)
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics(field metrics.Field) []dynamo.Metric {
	names := r.ListMetrics()
	out := make([]dynamo.Metric, 0, len(names))
	for _, name := range names {
		if m, err := r.GetMetric(name, field); err == nil {
			out = append(out, m)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
