package mppi

import (
	"log/slog"

	"github.com/san-kum/mppi/internal/dynamo"
)

type Option func(*Planner)

func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) { p.log = l }
}

// WithNoise replaces the seeded default noise source.
func WithNoise(src NoiseSource) Option {
	return func(p *Planner) { p.noise = src }
}

// WithModel replaces the additive dynamics.
func WithModel(m dynamo.Model) Option {
	return func(p *Planner) { p.model = m }
}

func WithObserver(o dynamo.Observer) Option {
	return func(p *Planner) { p.observers = append(p.observers, o) }
}

// WithMetrics registers metrics whose values are reported in Result.Metrics.
func WithMetrics(ms ...dynamo.Metric) Option {
	return func(p *Planner) { p.metrics = append(p.metrics, ms...) }
}
