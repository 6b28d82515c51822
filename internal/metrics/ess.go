package metrics

import "github.com/san-kum/mppi/internal/dynamo"

// MeanESS averages the effective sample size of the importance weights.
// Values near 1 mean a single rollout dominated every update.
type MeanESS struct {
	sum     float64
	samples int
}

func NewMeanESS() *MeanESS { return &MeanESS{} }

func (m *MeanESS) Name() string { return "mean_ess" }

func (m *MeanESS) Observe(stats dynamo.IterationStats) {
	m.sum += stats.ESS
	m.samples++
}

func (m *MeanESS) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanESS) Reset() {
	m.sum = 0
	m.samples = 0
}
