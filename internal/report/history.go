package report

import "github.com/san-kum/mppi/internal/dynamo"

// History records per-iteration diagnostics. It is a dynamo.Observer.
type History struct {
	MinCost    []float64
	MeanCost   []float64
	Distance   []float64
	ESS        []float64
	Degenerate int
}

func NewHistory() *History {
	return &History{}
}

func (h *History) OnIteration(stats dynamo.IterationStats) {
	h.MinCost = append(h.MinCost, stats.MinCost)
	h.MeanCost = append(h.MeanCost, stats.MeanCost)
	h.Distance = append(h.Distance, stats.Distance)
	h.ESS = append(h.ESS, stats.ESS)
	if stats.Degenerate {
		h.Degenerate++
	}
}

func (h *History) Len() int { return len(h.Distance) }
