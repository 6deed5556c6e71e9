package vision

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/pixelescape/internal/core/shadows"
)

func buildFor(t *testing.T, pose shadows.Pose, obstacles []shadows.Obstacle, cfg *Config) *VisibilityData {
	t.Helper()
	vd, err := BuildFOV(pose, obstacles, cfg, nil)
	require.NoError(t, err)
	return vd
}

func TestOpenConeScenario(t *testing.T) {
	vd := buildFor(t, shadows.Pose{}, nil, testConfig(math.Pi/2, 40, 100, 50))

	assert.True(t, IsVisible(shadows.Point{X: 90, Y: 0}, vd), "ahead and in range")
	assert.False(t, IsVisible(shadows.Point{X: 0, Y: 90}, vd), "outside the cone")
	assert.False(t, IsVisible(shadows.Point{X: 150, Y: 0}, vd), "beyond range")
}

func TestWallBlocksFullCircleScenario(t *testing.T) {
	wall := shadows.Obstacle{X: 40, Y: -50, Width: 10, Height: 100}
	vd := buildFor(t, shadows.Pose{}, []shadows.Obstacle{wall}, testConfig(2*math.Pi, 72, 100, 10))

	assert.False(t, IsVisible(shadows.Point{X: 80, Y: 0}, vd), "behind the wall")
	assert.True(t, IsVisible(shadows.Point{X: 20, Y: 0}, vd), "in front of the wall")
	assert.True(t, IsVisible(shadows.Point{X: -80, Y: 0}, vd), "full circle sees behind")
}

func TestCloseRadiusOverridesFacing(t *testing.T) {
	wall := shadows.Obstacle{X: 4, Y: -20, Width: 2, Height: 40}
	vd := buildFor(t, shadows.Pose{Angle: math.Pi}, []shadows.Obstacle{wall}, testConfig(math.Pi/2, 20, 100, 30))

	assert.True(t, IsVisible(shadows.Point{X: 10, Y: 10}, vd))

	for i := 0; i < 16; i++ {
		a := float64(i) * math.Pi / 8
		p := shadows.Point{X: 29 * math.Cos(a), Y: 29 * math.Sin(a)}
		assert.True(t, IsVisible(p, vd), "point at angle %v inside close radius", a)
	}
}

func TestRangeCutoff(t *testing.T) {
	vd := buildFor(t, shadows.Pose{}, nil, testConfig(2*math.Pi, 20, 100, 30))

	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		p := shadows.Point{X: 100.5 * math.Cos(a), Y: 100.5 * math.Sin(a)}
		assert.False(t, IsVisible(p, vd))
	}
}

func TestPointBehindViewerIsHidden(t *testing.T) {
	for _, cone := range []float64{math.Pi / 2, math.Pi, 1.9 * math.Pi} {
		vd := buildFor(t, shadows.Pose{Angle: 0.3}, nil, testConfig(cone, 20, 100, 10))
		behind := shadows.Point{X: -60 * math.Cos(0.3), Y: -60 * math.Sin(0.3)}
		assert.False(t, IsVisible(behind, vd), "cone %v", cone)
	}
}

func TestConeAcrossAngleSeam(t *testing.T) {
	// Facing almost exactly left; targets straddle the -pi/pi seam.
	vd := buildFor(t, shadows.Pose{Angle: 3 * math.Pi}, nil, testConfig(math.Pi/2, 20, 100, 10))

	assert.True(t, IsVisible(shadows.Point{X: -80, Y: 10}, vd))
	assert.True(t, IsVisible(shadows.Point{X: -80, Y: -10}, vd))
	assert.False(t, IsVisible(shadows.Point{X: 80, Y: 0}, vd))
}

func TestOcclusionDependsOnObstacle(t *testing.T) {
	cfg := testConfig(math.Pi/2, 30, 200, 10)
	target := shadows.Point{X: 120, Y: 0}
	wall := shadows.Obstacle{X: 60, Y: -20, Width: 10, Height: 40}

	blocked := buildFor(t, shadows.Pose{}, []shadows.Obstacle{wall}, cfg)
	assert.False(t, IsVisible(target, blocked))

	open := buildFor(t, shadows.Pose{}, nil, cfg)
	assert.True(t, IsVisible(target, open))
}

func TestOcclusionTolerance(t *testing.T) {
	wall := shadows.Obstacle{X: 60, Y: -20, Width: 10, Height: 40}
	vd := buildFor(t, shadows.Pose{}, []shadows.Obstacle{wall}, testConfig(math.Pi/2, 30, 200, 10))

	// A point on the wall face is still visible.
	assert.True(t, IsVisible(shadows.Point{X: 60, Y: 0}, vd))
	assert.True(t, IsVisible(shadows.Point{X: 61.5, Y: 0}, vd))
	assert.False(t, IsVisible(shadows.Point{X: 63, Y: 0}, vd))
}

func TestInsufficientDataFailsOpen(t *testing.T) {
	assert.True(t, IsVisible(shadows.Point{X: 5000, Y: 5000}, nil))
	assert.True(t, IsVisible(shadows.Point{X: 5000, Y: 5000}, &VisibilityData{}))
	assert.True(t, IsVisible(shadows.Point{}, &VisibilityData{Polygon: []shadows.Point{{}, {X: 1}}}))
}

func TestPolygonPointTest(t *testing.T) {
	cfg := testConfig(math.Pi/2, 40, 100, 0)
	cfg.PointTest = PointTestPolygon
	wall := shadows.Obstacle{X: 40, Y: -50, Width: 10, Height: 100}
	vd := buildFor(t, shadows.Pose{}, []shadows.Obstacle{wall}, cfg)

	assert.True(t, IsVisible(shadows.Point{X: 20, Y: 5}, vd))
	assert.False(t, IsVisible(shadows.Point{X: 80, Y: 5}, vd))
	assert.False(t, IsVisible(shadows.Point{X: 0, Y: 80}, vd))
}

func TestSteppedModeOracle(t *testing.T) {
	cfg := testConfig(math.Pi/2, 20, 200, 10)
	cfg.RayMode = RayModeStepped
	cfg.MarchStep = 2
	wall := shadows.Obstacle{X: 60, Y: -20, Width: 10, Height: 40}
	vd := buildFor(t, shadows.Pose{}, []shadows.Obstacle{wall}, cfg)

	assert.False(t, IsVisible(shadows.Point{X: 120, Y: 0}, vd))
	assert.True(t, IsVisible(shadows.Point{X: 40, Y: 0}, vd))
}

func TestRegionQueries(t *testing.T) {
	wall := shadows.Obstacle{X: 40, Y: -50, Width: 10, Height: 100}
	vd := buildFor(t, shadows.Pose{}, []shadows.Obstacle{wall}, testConfig(math.Pi/2, 40, 200, 20))

	t.Run("obstacle with a visible corner", func(t *testing.T) {
		assert.True(t, IsObstacleVisible(shadows.Obstacle{X: 20, Y: -5, Width: 5, Height: 5}, vd))
		// Near face corners sit on the blocking wall itself.
		assert.True(t, IsObstacleVisible(shadows.Obstacle{X: 40, Y: -10, Width: 10, Height: 20}, vd))
		assert.False(t, IsObstacleVisible(shadows.Obstacle{X: 100, Y: -10, Width: 10, Height: 20}, vd))
	})

	t.Run("region containing the viewer", func(t *testing.T) {
		assert.True(t, IsRectVisible(-500, -500, 1000, 1000, vd))
		assert.False(t, IsRectVisible(-300, -300, 10, 10, vd))
	})

	t.Run("circle overlapping close vision", func(t *testing.T) {
		assert.True(t, IsCircleVisible(shadows.Point{X: -50, Y: 0}, 40, vd))
		assert.False(t, IsCircleVisible(shadows.Point{X: -150, Y: 0}, 40, vd))
	})

	t.Run("filter keeps order", func(t *testing.T) {
		pts := []shadows.Point{{X: 30, Y: 0}, {X: 100, Y: 0}, {X: 10, Y: 1}, {X: -100, Y: 0}}
		got := FilterVisible(pts, func(p shadows.Point) shadows.Point { return p }, vd)
		assert.Equal(t, []shadows.Point{{X: 30, Y: 0}, {X: 10, Y: 1}}, got)
	})
}
