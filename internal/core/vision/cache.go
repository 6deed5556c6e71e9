package vision

import (
	"math"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/pixelescape/internal/core/shadows"
	"chosenoffset.com/pixelescape/internal/logger"
)

// ObstacleSource supplies the walls that block sight.
type ObstacleSource interface {
	Obstacles() []shadows.Obstacle
}

// Obstacles adapts a plain slice to ObstacleSource.
type Obstacles []shadows.Obstacle

// Obstacles implements ObstacleSource.
func (o Obstacles) Obstacles() []shadows.Obstacle {
	return o
}

// CacheStats counts cache activity since creation.
type CacheStats struct {
	Builds        int
	Hits          int
	Invalidations int
}

// Cache memoizes the most recent field of view for a single viewer.
//
// It holds one slot: a query with a different pose or obstacle set replaces it.
// A Cache is owned by one game loop and is not safe for concurrent use; give
// each viewer its own Cache.
type Cache struct {
	cfg    *Config
	caster shadows.Caster
	log    *logrus.Entry

	valid         bool
	lastPose      shadows.Pose
	lastObstacles []shadows.Obstacle
	result        *VisibilityData

	stats CacheStats
}

// NewCache creates an empty cache. The config is validated and copied.
func NewCache(cfg *Config) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := *cfg
	return &Cache{
		cfg:    &c,
		caster: c.Caster(),
		log:    logger.Component("vision"),
	}, nil
}

// SetCaster replaces the ray caster and drops the cached snapshot.
func (c *Cache) SetCaster(caster shadows.Caster) {
	if caster == nil {
		caster = c.cfg.Caster()
	}
	c.caster = caster
	c.Invalidate()
}

// Config returns a copy of the cache's configuration.
func (c *Cache) Config() Config {
	return *c.cfg
}

// Stats returns a copy of the activity counters.
func (c *Cache) Stats() CacheStats {
	return c.stats
}

// Visibility returns the field of view for the viewer pose, rebuilding it only
// when the pose or obstacle set differs from the cached one.
// A nil viewer yields an empty snapshot; a nil source means no obstacles.
func (c *Cache) Visibility(viewer *shadows.Pose, src ObstacleSource) *VisibilityData {
	if viewer == nil {
		c.log.Warn("visibility requested without a viewer pose")
		return emptyVisibility(c.cfg)
	}

	var obstacles []shadows.Obstacle
	if src != nil {
		obstacles = src.Obstacles()
	}

	if c.valid && c.poseMatches(*viewer) && sameObstacles(c.lastObstacles, obstacles) {
		c.stats.Hits++
		return c.result
	}

	c.result = buildFOV(*viewer, obstacles, c.cfg, c.caster)
	c.lastPose = *viewer
	c.lastObstacles = obstacles
	c.valid = true
	c.stats.Builds++

	c.log.WithFields(logrus.Fields{
		"x":         viewer.X,
		"y":         viewer.Y,
		"angle":     viewer.Angle,
		"obstacles": len(obstacles),
		"points":    len(c.result.Polygon),
	}).Debug("rebuilt field of view")

	return c.result
}

// Invalidate unconditionally drops the cached snapshot.
// Movement code calls this whenever the viewer moves or turns.
func (c *Cache) Invalidate() {
	c.valid = false
	c.result = nil
	c.lastObstacles = nil
	c.stats.Invalidations++
}

func (c *Cache) poseMatches(p shadows.Pose) bool {
	last := c.lastPose
	eps := c.cfg.PoseEpsilon
	if eps == 0 {
		return p == last
	}
	return math.Abs(p.X-last.X) <= eps &&
		math.Abs(p.Y-last.Y) <= eps &&
		math.Abs(shadows.AngleDiff(p.Angle, last.Angle)) <= eps
}

// sameObstacles compares slice identity, not contents: maps are immutable while
// loaded, so a different backing array means a different map.
func sameObstacles(a, b []shadows.Obstacle) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
