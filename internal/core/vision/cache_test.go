package vision

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/pixelescape/internal/core/shadows"
)

func newCountingCache(t *testing.T, cfg *Config) (*Cache, *countingCaster) {
	t.Helper()
	cache, err := NewCache(cfg)
	require.NoError(t, err)
	cc := &countingCaster{}
	cache.SetCaster(cc)
	return cache, cc
}

func TestCacheReusesSnapshotForSamePose(t *testing.T) {
	cache, cc := newCountingCache(t, testConfig(math.Pi/2, 10, 100, 30))
	walls := Obstacles{{X: 40, Y: -50, Width: 10, Height: 100}}
	pose := &shadows.Pose{X: 1, Y: 2, Angle: 0.5}

	first := cache.Visibility(pose, walls)
	require.Equal(t, 11, cc.calls)

	second := cache.Visibility(pose, walls)
	assert.Same(t, first, second)
	assert.Equal(t, 11, cc.calls)
	assert.Equal(t, CacheStats{Builds: 1, Hits: 1, Invalidations: 1}, cache.Stats())
}

func TestCacheRebuildsAfterInvalidate(t *testing.T) {
	cache, cc := newCountingCache(t, testConfig(math.Pi/2, 10, 100, 30))
	pose := &shadows.Pose{X: 1, Y: 2, Angle: 0.5}

	first := cache.Visibility(pose, nil)
	cache.Invalidate()
	second := cache.Visibility(pose, nil)

	assert.Equal(t, 22, cc.calls)
	assert.NotSame(t, first, second)
	assert.Equal(t, first.Polygon, second.Polygon)
}

func TestCacheRebuildsOnPoseChange(t *testing.T) {
	cache, cc := newCountingCache(t, testConfig(math.Pi/2, 10, 100, 30))

	cache.Visibility(&shadows.Pose{X: 1, Y: 2, Angle: 0.5}, nil)
	cache.Visibility(&shadows.Pose{X: 1, Y: 2, Angle: 0.5000001}, nil)
	cache.Visibility(&shadows.Pose{X: 1.0000001, Y: 2, Angle: 0.5000001}, nil)

	assert.Equal(t, 33, cc.calls)
	assert.Equal(t, 3, cache.Stats().Builds)
}

func TestCacheRebuildsOnObstacleChange(t *testing.T) {
	cache, cc := newCountingCache(t, testConfig(math.Pi/2, 10, 100, 30))
	pose := &shadows.Pose{}
	a := Obstacles{{X: 40, Y: -50, Width: 10, Height: 100}}
	b := Obstacles{{X: 40, Y: -50, Width: 10, Height: 100}}

	cache.Visibility(pose, a)
	cache.Visibility(pose, a)
	cache.Visibility(pose, b)

	assert.Equal(t, 22, cc.calls)
}

func TestCachePoseEpsilon(t *testing.T) {
	cfg := testConfig(math.Pi/2, 10, 100, 30)
	cfg.PoseEpsilon = 0.01
	cache, cc := newCountingCache(t, cfg)

	first := cache.Visibility(&shadows.Pose{X: 5, Y: 5, Angle: 1}, nil)
	second := cache.Visibility(&shadows.Pose{X: 5.001, Y: 4.999, Angle: 1.002}, nil)
	assert.Same(t, first, second)
	assert.Equal(t, 11, cc.calls)

	cache.Visibility(&shadows.Pose{X: 5.5, Y: 5, Angle: 1}, nil)
	assert.Equal(t, 22, cc.calls)
}

func TestCacheNilViewer(t *testing.T) {
	cache, cc := newCountingCache(t, testConfig(math.Pi/2, 10, 100, 30))

	vd := cache.Visibility(nil, nil)
	require.NotNil(t, vd)
	assert.False(t, vd.Sufficient())
	assert.Zero(t, cc.calls)
	// Fail-open: nothing is hidden without a viewer.
	assert.True(t, vd.IsVisible(shadows.Point{X: 1000, Y: 1000}))
}

func TestNewCacheRejectsInvalidConfig(t *testing.T) {
	_, err := NewCache(testConfig(math.Pi, 0, 100, 30))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestCacheCopiesConfig(t *testing.T) {
	cfg := testConfig(math.Pi, 10, 100, 30)
	cache, err := NewCache(cfg)
	require.NoError(t, err)

	cfg.RayCount = 0
	assert.Equal(t, 10, cache.Config().RayCount)
}
