package report

import (
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
)

const (
	DefaultChartWidth  = 80
	DefaultChartHeight = 10
)

// Chart plots distance to goal and the best rollout cost per iteration.
// Costs span many orders of magnitude once a rollout touches an obstacle,
// so they are plotted as log10(1+cost).
func Chart(h *History, width, height int) string {
	if h == nil || h.Len() == 0 {
		return ""
	}
	if width <= 0 {
		width = DefaultChartWidth
	}
	if height <= 0 {
		height = DefaultChartHeight
	}

	logCost := make([]float64, len(h.MinCost))
	for i, c := range h.MinCost {
		logCost[i] = logScale(c)
	}

	var s strings.Builder
	s.WriteString(asciigraph.Plot(h.Distance,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("distance to goal"),
	))
	s.WriteString("\n\n")
	s.WriteString(asciigraph.Plot(logCost,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("log10(1 + best rollout cost)"),
	))
	s.WriteString("\n")
	return s.String()
}

// logScale keeps the sign so negative direction-dominated costs stay
// distinguishable.
func logScale(c float64) float64 {
	switch {
	case math.IsInf(c, 1) || math.IsNaN(c):
		return math.Log10(math.MaxFloat64)
	case c >= 0:
		return math.Log10(1 + c)
	default:
		return -math.Log10(1 - c)
	}
}
