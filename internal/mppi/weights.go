package mppi

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/mppi/internal/dynamo"
)

// Reweight converts rollout costs into normalized importance weights,
// w_i ∝ exp((min(costs) - cost_i) / lambda), writing them into weights.
// When every weight underflows (or the costs are not finite) it writes a
// uniform distribution and reports degenerate.
func Reweight(costs []float64, lambda float64, weights []float64) (degenerate bool) {
	if len(weights) != len(costs) {
		panic("mppi: weights and costs differ in length")
	}
	if len(costs) == 0 {
		return true
	}

	lo := minCost(costs)
	for i, c := range costs {
		if math.IsNaN(c) {
			weights[i] = 0
			continue
		}
		weights[i] = math.Exp((lo - c) / lambda)
	}

	sum := floats.Sum(weights)
	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		uniform(weights)
		return true
	}
	floats.Scale(1/sum, weights)
	return false
}

func minCost(costs []float64) float64 {
	if !floats.HasNaN(costs) {
		return floats.Min(costs)
	}
	lo := math.Inf(1)
	for _, c := range costs {
		if c < lo {
			lo = c
		}
	}
	return lo
}

func uniform(weights []float64) {
	w := 1 / float64(len(weights))
	for i := range weights {
		weights[i] = w
	}
}

// Update sets every step j of seq to the weighted average of the batch's
// perturbed controls at step j.
func Update(weights []float64, b *Batch, seq *dynamo.Sequence) {
	for j := 0; j < b.Horizon; j++ {
		var acc dynamo.Vec2
		for i, w := range weights {
			acc = acc.Add(b.At(j, i).Scale(w))
		}
		seq.Set(j, acc)
	}
}

// EffectiveSampleSize is 1/Σw² for normalized weights: P for uniform
// weights, 1 when a single sample carries all the mass.
func EffectiveSampleSize(weights []float64) float64 {
	sq := floats.Dot(weights, weights)
	if sq == 0 {
		return 0
	}
	return 1 / sq
}
