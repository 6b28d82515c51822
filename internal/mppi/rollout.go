package mppi

import (
	"math"

	"github.com/san-kum/mppi/internal/dynamo"
)

// minSamplesPerWorker keeps tiny batches on the calling goroutine.
const minSamplesPerWorker = 8

// Rollout simulates every sample of a batch forward from a shared start.
type Rollout struct {
	eval    *Evaluator
	model   dynamo.Model
	workers int
}

func NewRollout(eval *Evaluator, model dynamo.Model, workers int) *Rollout {
	return &Rollout{eval: eval, model: model, workers: workers}
}

// Run fills b.Costs: for every sample i the position restarts at start,
// advances through all horizon steps and sums the step costs. NaN totals
// are stored as +Inf so they never win the weighting.
func (r *Rollout) Run(start dynamo.Vec2, b *Batch) []float64 {
	dynamo.ParallelFor(b.Samples, minSamplesPerWorker, r.workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			b.Costs[i] = r.sample(start, b, i)
		}
	})
	return b.Costs
}

func (r *Rollout) sample(start dynamo.Vec2, b *Batch, i int) float64 {
	pos := start
	total := 0.0
	for j := 0; j < b.Horizon; j++ {
		u := b.At(j, i)
		pos = r.model.Step(pos, u)
		total += r.eval.Cost(pos, u)
	}
	if math.IsNaN(total) {
		return math.Inf(1)
	}
	return total
}
