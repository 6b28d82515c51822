// Package mppi implements Model Predictive Path Integral control for a point
// agent moving across a 2D cost field.
//
// Each outer iteration the [Planner]:
//
//  1. perturbs the nominal control sequence with Gaussian noise ([Sampler]),
//  2. rolls every perturbed sequence forward from the current position and
//     accumulates its cost ([Rollout], [Evaluator]),
//  3. turns costs into importance weights ([Reweight]) and blends the
//     perturbed controls into a new nominal sequence ([Update]),
//  4. applies only the first control, records the position and shifts the
//     sequence one step (receding horizon).
//
// The loop ends Converged when the truncated position is within Tolerance
// of the goal, or Aborted on the iteration cap, timeout or cancellation.
//
// # Example
//
//	p, err := mppi.New(grid, mppi.DefaultConfig(), mppi.WithLogger(log))
//	res, err := p.Plan(ctx, dynamo.Vec2{X: 10, Y: 10}, dynamo.Vec2{X: 90, Y: 90})
//	if errors.Is(err, dynamo.ErrNonConvergence) {
//		// res.Path holds the partial path
//	}
//
// # Thread Safety
//
// A Planner is NOT safe for concurrent Plan calls: it owns a single noise
// stream. Rollout columns inside one iteration run in parallel.
package mppi
