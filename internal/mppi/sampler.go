package mppi

import "github.com/san-kum/mppi/internal/dynamo"

// NoiseSource yields standard normal draws. noise.Source implements it.
type NoiseSource interface {
	NormFloat64() float64
}

// Batch holds one iteration's perturbed controls and their rollout costs.
// Controls are stored step-major: the control for horizon step j of
// sample i is Controls[j*Samples+i].
type Batch struct {
	Horizon  int
	Samples  int
	Controls []dynamo.Vec2
	Costs    []float64
}

func NewBatch(horizon, samples int) *Batch {
	return &Batch{
		Horizon:  horizon,
		Samples:  samples,
		Controls: make([]dynamo.Vec2, horizon*samples),
		Costs:    make([]float64, samples),
	}
}

func (b *Batch) At(j, i int) dynamo.Vec2 { return b.Controls[j*b.Samples+i] }

func (b *Batch) Set(j, i int, u dynamo.Vec2) { b.Controls[j*b.Samples+i] = u }

// Sampler perturbs a nominal sequence with zero-mean Gaussian noise.
type Sampler struct {
	src NoiseSource
	std float64
}

func NewSampler(src NoiseSource, std float64) *Sampler {
	return &Sampler{src: src, std: std}
}

// Sample overwrites b with nominal[j] + N(0, std²) for every horizon step j
// and sample i. Every entry gets its own draw. b.Horizon must equal
// nominal.Len().
func (s *Sampler) Sample(nominal *dynamo.Sequence, b *Batch) {
	if nominal.Len() != b.Horizon {
		panic("mppi: batch horizon does not match nominal sequence")
	}
	for j := 0; j < b.Horizon; j++ {
		base := nominal.At(j)
		row := b.Controls[j*b.Samples : (j+1)*b.Samples]
		for i := range row {
			row[i] = dynamo.Vec2{
				X: base.X + s.src.NormFloat64()*s.std,
				Y: base.Y + s.src.NormFloat64()*s.std,
			}
		}
	}
}
