package metrics

import "github.com/san-kum/mppi/internal/dynamo"

// PathLength accumulates the distance travelled. The position before the
// first observed step is recovered as Position - Control, which holds for
// the additive model.
type PathLength struct {
	name   string
	total  float64
	prev   dynamo.Vec2
	primed bool
}

func NewPathLength() *PathLength {
	return &PathLength{name: "path_length"}
}

func (p *PathLength) Name() string { return p.name }

func (p *PathLength) Observe(stats dynamo.IterationStats) {
	if !p.primed {
		p.prev = stats.Position.Sub(stats.Control)
		p.primed = true
	}
	p.total += stats.Position.Dist(p.prev)
	p.prev = stats.Position
}

func (p *PathLength) Value() float64 { return p.total }

func (p *PathLength) Reset() {
	p.total = 0
	p.prev = dynamo.Vec2{}
	p.primed = false
}
