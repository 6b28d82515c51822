package mppi_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mppi/internal/costmap"
	"github.com/san-kum/mppi/internal/dynamo"
	"github.com/san-kum/mppi/internal/logger"
	"github.com/san-kum/mppi/internal/mppi"
	"github.com/san-kum/mppi/internal/noise"
)

type drawCounter struct {
	src   *noise.Source
	draws int
}

func (d *drawCounter) NormFloat64() float64 {
	d.draws++
	return d.src.NormFloat64()
}

var _ = Describe("Planner", func() {
	var (
		ctx context.Context
		cfg mppi.Config
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg = mppi.DefaultConfig()
		cfg.Seed = 42
		cfg.Lambda = 1
	})

	Context("on an open 10x10 map", func() {
		var grid *costmap.Grid

		BeforeEach(func() {
			var err error
			grid, err = costmap.NewBuilder(10, costmap.DefaultObstacleCost).Build()
			Expect(err).NotTo(HaveOccurred())
			cfg.MaxIterations = 200
		})

		It("converges from (0,0) to (5,5)", func() {
			p, err := mppi.New(grid, cfg, mppi.WithLogger(logger.Discard()))
			Expect(err).NotTo(HaveOccurred())

			start, goal := dynamo.Vec2{X: 0, Y: 0}, dynamo.Vec2{X: 5, Y: 5}
			res, err := p.Plan(ctx, start, goal)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Status).To(Equal(dynamo.StatusConverged))
			Expect(res.Iterations).To(BeNumerically("<=", 200))
			Expect(res.Path).To(HaveLen(res.Iterations + 1))
			Expect(res.Path[0]).To(Equal(start))

			x, y := res.Final().Cell()
			Expect(math.Abs(float64(x) - goal.X)).To(BeNumerically("<=", 0.5))
			Expect(math.Abs(float64(y) - goal.Y)).To(BeNumerically("<=", 0.5))
		})

		It("reproduces the same path for the same seed", func() {
			run := func() dynamo.Path {
				p, err := mppi.New(grid, cfg, mppi.WithLogger(logger.Discard()))
				Expect(err).NotTo(HaveOccurred())
				res, _ := p.Plan(ctx, dynamo.Vec2{X: 0, Y: 0}, dynamo.Vec2{X: 5, Y: 5})
				return res.Path
			}
			Expect(run()).To(Equal(run()))
		})
	})

	Context("when the start is an obstacle cell", func() {
		It("rejects the run before sampling", func() {
			b := costmap.NewBuilder(10, costmap.DefaultObstacleCost)
			b.Obstacle(0, 0, 2, 2)
			grid, err := b.Build()
			Expect(err).NotTo(HaveOccurred())

			src := &drawCounter{src: noise.NewSource(1)}
			p, err := mppi.New(grid, cfg, mppi.WithNoise(src), mppi.WithLogger(logger.Discard()))
			Expect(err).NotTo(HaveOccurred())

			res, err := p.Plan(ctx, dynamo.Vec2{X: 1, Y: 1}, dynamo.Vec2{X: 5, Y: 5})
			Expect(err).To(MatchError(mppi.ErrInvalidGoalOrStart))
			Expect(err).To(MatchError(mppi.ErrInvalidStart))
			Expect(err).To(MatchError(costmap.ErrObstacle))
			Expect(res).To(BeNil())
			Expect(src.draws).To(BeZero())
		})

		It("reports an off-map goal with the grid's bounds error", func() {
			grid, err := costmap.NewBuilder(10, costmap.DefaultObstacleCost).Build()
			Expect(err).NotTo(HaveOccurred())

			p, err := mppi.New(grid, cfg, mppi.WithLogger(logger.Discard()))
			Expect(err).NotTo(HaveOccurred())

			_, err = p.Plan(ctx, dynamo.Vec2{X: 1, Y: 1}, dynamo.Vec2{X: 10, Y: 3})
			Expect(err).To(MatchError(mppi.ErrInvalidGoal))
			Expect(err).To(MatchError(costmap.ErrOutOfBounds))
		})
	})

	Context("when the goal is enclosed by obstacles", func() {
		var grid *costmap.Grid

		BeforeEach(func() {
			b := costmap.NewBuilder(30, costmap.DefaultObstacleCost)
			b.Obstacle(9, 9, 22, 22)
			Expect(b.Set(15, 15, 0)).To(Succeed())

			var err error
			grid, err = b.Build()
			Expect(err).NotTo(HaveOccurred())
			cfg.MaxIterations = 60
		})

		It("stops at the iteration cap as aborted", func() {
			p, err := mppi.New(grid, cfg, mppi.WithLogger(logger.Discard()))
			Expect(err).NotTo(HaveOccurred())

			res, err := p.Plan(ctx, dynamo.Vec2{X: 2, Y: 2}, dynamo.Vec2{X: 15, Y: 15})
			Expect(err).To(MatchError(dynamo.ErrNonConvergence))

			var abort *dynamo.AbortError
			Expect(err).To(BeAssignableToTypeOf(abort))
			Expect(res.Status).To(Equal(dynamo.StatusAborted))
			Expect(res.Iterations).To(Equal(60))
			Expect(res.Path).To(HaveLen(61))
		})

		It("keeps the agent out of the obstacle band", func() {
			var inside int
			obs := dynamo.ObserverFunc(func(s dynamo.IterationStats) {
				if grid.ValidateEndpoint(s.Position) != nil {
					inside++
				}
			})
			p, err := mppi.New(grid, cfg, mppi.WithObserver(obs), mppi.WithLogger(logger.Discard()))
			Expect(err).NotTo(HaveOccurred())

			res, _ := p.Plan(ctx, dynamo.Vec2{X: 2, Y: 2}, dynamo.Vec2{X: 15, Y: 15})
			Expect(inside).To(BeNumerically("<", res.Iterations/2))
		})
	})
})
