// Package costmap builds the static 2D cost field the planner reads.
//
// A [Builder] collects obstacles (explicit rectangles, random square
// obstacles, a wall band) and produces an immutable [Grid]. Cells are
// indexed [x][y]; positions are mapped to cells by truncation toward zero.
//
//	b := costmap.NewBuilder(100, costmap.DefaultObstacleCost)
//	if err := b.RandomObstacles(src, 50, 5); err != nil { ... }
//	b.Wall(costmap.DefaultWallFactor)
//	grid, err := b.Build()
//	if err != nil { ... }
//	if err := grid.ValidateEndpoint(start); err != nil { ... }
package costmap
