package vision

import (
	"chosenoffset.com/pixelescape/internal/core/shadows"
)

// VisibilityData is an immutable field-of-view snapshot for one viewer pose.
//
// Polygon is an apex-anchored fan: Polygon[0] is the apex and the outline closes
// implicitly from the last point back to the apex. Fewer than three points means
// there is no usable visibility data.
type VisibilityData struct {
	Apex              shadows.Point
	Polygon           []shadows.Point
	FacingAngle       float64
	ConeHalfAngle     float64
	ViewDistance      float64
	CloseVisionRadius float64

	// Inputs kept for the occlusion step of point queries. Read-only.
	obstacles  []shadows.Obstacle
	caster     shadows.Caster
	tolerance  float64
	pointTest  string
	fullCircle bool
}

// Sufficient reports whether the snapshot can answer queries.
func (v *VisibilityData) Sufficient() bool {
	return v != nil && len(v.Polygon) >= 3
}

// Obstacles returns the obstacles the snapshot was built against.
func (v *VisibilityData) Obstacles() []shadows.Obstacle {
	if v == nil {
		return nil
	}
	return v.obstacles
}

// BuildFOV casts RayCount+1 rays evenly across the configured cone centred on
// the apex facing angle and assembles the hits into a fan polygon.
// A nil caster uses the one selected by the config.
func BuildFOV(apex shadows.Pose, obstacles []shadows.Obstacle, cfg *Config, caster shadows.Caster) (*VisibilityData, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if caster == nil {
		caster = cfg.Caster()
	}
	return buildFOV(apex, obstacles, cfg, caster), nil
}

// buildFOV assumes cfg has been validated.
func buildFOV(apex shadows.Pose, obstacles []shadows.Obstacle, cfg *Config, caster shadows.Caster) *VisibilityData {
	origin := apex.Point()
	half := cfg.ConeAngle / 2
	start := apex.Angle - half
	step := cfg.ConeAngle / float64(cfg.RayCount)

	polygon := make([]shadows.Point, 0, cfg.RayCount+2)
	polygon = append(polygon, origin)
	for i := 0; i <= cfg.RayCount; i++ {
		hit := caster.Cast(origin, start+step*float64(i), cfg.ViewDistance, obstacles)
		polygon = append(polygon, hit.Point)
	}

	return &VisibilityData{
		Apex:              origin,
		Polygon:           polygon,
		FacingAngle:       apex.Angle,
		ConeHalfAngle:     half,
		ViewDistance:      cfg.ViewDistance,
		CloseVisionRadius: cfg.CloseVisionRadius,
		obstacles:         obstacles,
		caster:            caster,
		tolerance:         cfg.OcclusionTolerance,
		pointTest:         cfg.PointTest,
		fullCircle:        cfg.FullCircle(),
	}
}

// emptyVisibility is the snapshot returned when there is no viewer.
func emptyVisibility(cfg *Config) *VisibilityData {
	return &VisibilityData{
		ViewDistance:      cfg.ViewDistance,
		CloseVisionRadius: cfg.CloseVisionRadius,
		ConeHalfAngle:     cfg.ConeAngle / 2,
		pointTest:         cfg.PointTest,
	}
}
