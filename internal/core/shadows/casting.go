package shadows

import "math"

// parallelEpsilon is the determinant magnitude below which a ray and an edge
// are treated as parallel.
const parallelEpsilon = 1e-4

// Caster resolves a single ray against a set of obstacles.
type Caster interface {
	Cast(origin Point, angle, maxDistance float64, obstacles []Obstacle) RayHit
}

// ExactCaster intersects rays with obstacle edges analytically.
type ExactCaster struct{}

// Cast implements Caster using CastRay.
func (ExactCaster) Cast(origin Point, angle, maxDistance float64, obstacles []Obstacle) RayHit {
	return CastRay(origin, angle, maxDistance, obstacles)
}

// SteppedCaster marches rays in fixed increments.
// It assumes no obstacle is thinner than Step; thinner walls can be stepped over.
type SteppedCaster struct {
	Step float64
}

// Cast implements Caster using MarchRay.
func (c SteppedCaster) Cast(origin Point, angle, maxDistance float64, obstacles []Obstacle) RayHit {
	return MarchRay(origin, angle, maxDistance, c.Step, obstacles)
}

// CastRay finds the nearest point where a ray from origin at angle meets an obstacle edge.
// Hits further than maxDistance are ignored. With no hit, the result is the
// unobstructed endpoint at maxDistance and Hit is false.
func CastRay(origin Point, angle, maxDistance float64, obstacles []Obstacle) RayHit {
	dx, dy := math.Cos(angle), math.Sin(angle)

	closest := RayHit{
		Point:    Point{X: origin.X + dx*maxDistance, Y: origin.Y + dy*maxDistance},
		Distance: maxDistance,
	}

	for _, o := range obstacles {
		if o.Degenerate() {
			continue
		}
		for _, seg := range o.Edges() {
			ok, dist, point := raySegmentIntersection(origin, dx, dy, seg)
			if !ok || dist > maxDistance {
				continue
			}
			if !closest.Hit || dist < closest.Distance {
				closest = RayHit{Point: point, Distance: dist, Hit: true}
			}
		}
	}

	return closest
}

// MaxMarchSteps bounds the samples MarchRay takes along one ray.
const MaxMarchSteps = 100000

// MarchRay walks the ray in increments of step and stops at the first sample
// that falls inside an obstacle. A non-positive step falls back to CastRay.
// Steps too small to cover maxDistance in MaxMarchSteps samples are widened.
func MarchRay(origin Point, angle, maxDistance, step float64, obstacles []Obstacle) RayHit {
	if !(step > 0) {
		return CastRay(origin, angle, maxDistance, obstacles)
	}
	if maxDistance/step > MaxMarchSteps {
		step = maxDistance / MaxMarchSteps
	}
	dx, dy := math.Cos(angle), math.Sin(angle)

	steps := int(math.Ceil(maxDistance / step))
	if steps < 1 {
		steps = 1
	}
	for i := 1; i <= steps; i++ {
		dist := math.Min(float64(i)*step, maxDistance)
		p := Point{X: origin.X + dx*dist, Y: origin.Y + dy*dist}
		for _, o := range obstacles {
			if o.Contains(p) {
				return RayHit{Point: p, Distance: dist, Hit: true}
			}
		}
	}
	return RayHit{
		Point:    Point{X: origin.X + dx*maxDistance, Y: origin.Y + dy*maxDistance},
		Distance: maxDistance,
	}
}

// raySegmentIntersection checks if a ray intersects a line segment
// Returns: (intersects bool, distance float64, intersection point Point)
// The direction (dx, dy) must be a unit vector so the ray parameter is a distance.
func raySegmentIntersection(origin Point, dx, dy float64, seg Segment) (bool, float64, Point) {
	// Ray: P = origin + t * (dx, dy) for t >= 0
	// Segment: Q = seg.A + u * (seg.B - seg.A) for 0 <= u <= 1
	segDX := seg.B.X - seg.A.X
	segDY := seg.B.Y - seg.A.Y

	denominator := dx*segDY - dy*segDX
	if math.Abs(denominator) < parallelEpsilon {
		return false, 0, Point{}
	}

	diffX := seg.A.X - origin.X
	diffY := seg.A.Y - origin.Y

	u := (diffX*dy - diffY*dx) / denominator
	t := (diffX*segDY - diffY*segDX) / denominator

	if u < 0 || u > 1 || t < 0 {
		return false, 0, Point{}
	}

	return true, t, Point{
		X: origin.X + t*dx,
		Y: origin.Y + t*dy,
	}
}
