package experiment

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/san-kum/mppi/internal/config"
	"github.com/san-kum/mppi/internal/costmap"
	"github.com/san-kum/mppi/internal/dynamo"
	"github.com/san-kum/mppi/internal/noise"
)

// mapStream is the noise stream reserved for obstacle placement, so the
// map does not consume the planner's perturbations.
const mapStream = 1

const defaultGridCacheSize = 64

// BuildGrid lays out the map described by cfg: fixed rects first, then
// random obstacles from the run seed, then the clearing around start and
// goal, and the wall last.
func BuildGrid(cfg *config.Config) (*costmap.Grid, error) {
	m := cfg.Map
	b := costmap.NewBuilder(m.Size, m.ObstacleCost)

	for _, r := range m.Rects {
		b.Obstacle(r[0], r[1], r[2], r[3])
	}

	if m.Obstacles > 0 {
		src := noise.NewSource(cfg.Seed).Split(mapStream)
		if err := b.RandomObstacles(src, m.Obstacles, m.ObstacleSize); err != nil {
			return nil, fmt.Errorf("place obstacles: %w", err)
		}
	}

	if m.ClearRadius > 0 {
		clearAround(b, cfg.Start, m.ClearRadius)
		clearAround(b, cfg.Goal, m.ClearRadius)
	}

	if m.Wall {
		b.Wall(m.WallFactor)
	}
	return b.Build()
}

func clearAround(b *costmap.Builder, p dynamo.Vec2, r int) {
	x, y := p.Cell()
	b.Rect(x-r, y-r, x+r+1, y+r+1, 0)
}

// gridKey identifies a built map by the inputs BuildGrid actually reads:
// the seed only when obstacles are random, and the endpoints only when a
// clearing is cut around them.
type gridKey struct {
	seed  int64
	start [2]int
	goal  [2]int
	m     string
}

func keyFor(cfg *config.Config) gridKey {
	k := gridKey{m: fmt.Sprintf("%+v", cfg.Map)}
	if cfg.Map.Obstacles > 0 {
		k.seed = cfg.Seed
	}
	if cfg.Map.ClearRadius > 0 {
		k.start = cellOf(cfg.Start)
		k.goal = cellOf(cfg.Goal)
	}
	return k
}

func cellOf(p dynamo.Vec2) [2]int {
	x, y := p.Cell()
	return [2]int{x, y}
}

// GridCache memoizes BuildGrid for sweeps that rerun one map many times.
type GridCache struct {
	cache *lru.Cache[gridKey, *costmap.Grid]
}

func NewGridCache(size int) *GridCache {
	if size <= 0 {
		size = defaultGridCacheSize
	}
	cache, _ := lru.New[gridKey, *costmap.Grid](size)
	return &GridCache{cache: cache}
}

// Get returns the map for cfg, building it on a miss. A zero seed with
// random obstacles is time-based and always rebuilt.
func (c *GridCache) Get(cfg *config.Config) (*costmap.Grid, error) {
	if cfg.Seed == 0 && cfg.Map.Obstacles > 0 {
		return BuildGrid(cfg)
	}
	key := keyFor(cfg)
	if g, ok := c.cache.Get(key); ok {
		return g, nil
	}
	g, err := BuildGrid(cfg)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, g)
	return g, nil
}

func (c *GridCache) Len() int { return c.cache.Len() }
