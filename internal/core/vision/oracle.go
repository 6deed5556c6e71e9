package vision

import (
	"math"

	"chosenoffset.com/pixelescape/internal/core/shadows"
)

// IsVisible reports whether p can be seen according to vd.
// Missing or insufficient data is treated as fully visible.
func IsVisible(p shadows.Point, vd *VisibilityData) bool {
	return vd.IsVisible(p)
}

// IsVisible classifies a single world point.
//
// Checks run in order: insufficient data (visible), close-vision disc
// (visible), range cutoff, cone angle, and finally occlusion, either with a
// confirmation ray toward the point or by fan-polygon containment.
func (v *VisibilityData) IsVisible(p shadows.Point) bool {
	if !v.Sufficient() {
		return true
	}

	dist := shadows.Distance(v.Apex, p)
	if dist < v.CloseVisionRadius {
		return true
	}
	if dist > v.ViewDistance {
		return false
	}

	angle := shadows.AngleTo(v.Apex, p)
	if !v.fullCircle && math.Abs(shadows.AngleDiff(angle, v.FacingAngle)) > v.ConeHalfAngle {
		return false
	}

	if v.pointTest == PointTestPolygon {
		return shadows.PointInPolygon(p, v.Polygon)
	}

	if dist == 0 || v.caster == nil {
		return true
	}
	hit := v.caster.Cast(v.Apex, angle, dist, v.obstacles)
	return !(hit.Hit && hit.Distance < dist-v.tolerance)
}

// AnyVisible reports whether at least one of the points is visible.
func AnyVisible(points []shadows.Point, vd *VisibilityData) bool {
	for _, p := range points {
		if vd.IsVisible(p) {
			return true
		}
	}
	return false
}

// IsObstacleVisible reports whether any corner of the wall is visible.
func IsObstacleVisible(o shadows.Obstacle, vd *VisibilityData) bool {
	corners := o.Corners()
	return AnyVisible(corners[:], vd)
}

// IsRectVisible reports whether an axis-aligned region is at least partly
// visible: it contains the viewer, or a corner or its centre is visible.
func IsRectVisible(x, y, w, h float64, vd *VisibilityData) bool {
	if !vd.Sufficient() {
		return true
	}
	a := vd.Apex
	if a.X >= x && a.X <= x+w && a.Y >= y && a.Y <= y+h {
		return true
	}
	return AnyVisible([]shadows.Point{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
		{X: x + w/2, Y: y + h/2},
	}, vd)
}

// IsCircleVisible reports whether a circular area is visible: its centre is
// visible or the circle overlaps the close-vision disc.
func IsCircleVisible(center shadows.Point, radius float64, vd *VisibilityData) bool {
	if vd.IsVisible(center) {
		return true
	}
	return shadows.Distance(vd.Apex, center)-radius < vd.CloseVisionRadius
}

// FilterVisible returns the items whose position is visible, preserving order.
func FilterVisible[T any](items []T, pos func(T) shadows.Point, vd *VisibilityData) []T {
	visible := make([]T, 0, len(items))
	for _, item := range items {
		if vd.IsVisible(pos(item)) {
			visible = append(visible, item)
		}
	}
	return visible
}
