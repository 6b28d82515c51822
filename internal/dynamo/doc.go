// Package dynamo provides the planning primitives shared by the optimizer
// and its collaborators.
//
// The package defines the value types and small interfaces the rest of the
// module is built on:
//
//   - [Vec2]: a 2D position or per-step displacement (control)
//   - [Sequence]: fixed-length nominal control sequence with an O(1) shift
//   - [Path]: ordered positions visited by the agent
//   - [Model]: one-step dynamics (the planner uses [Additive])
//   - [Observer], [Metric]: per-iteration diagnostics consumers
//   - [Result]: terminal outcome of a planning run
//
// # Example
//
//	seq := dynamo.NewSequence(5)
//	seq.Set(0, dynamo.Vec2{X: 1, Y: 0})
//	first := seq.At(0)
//	seq.Shift() // drop first, append zero
//
// # Thread Safety
//
// Sequence and Path are NOT thread-safe. Vec2 is a value type and may be
// shared freely. [ParallelFor] is the only concurrency helper; callers are
// responsible for giving each chunk private output slots.
package dynamo
