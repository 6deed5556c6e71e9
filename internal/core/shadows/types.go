package shadows

// Point represents a 2D point in world space
type Point struct {
	X, Y float64
}

// Pose is a viewer position plus facing angle in radians.
// The angle is unconstrained; callers never need to normalize it.
type Pose struct {
	X, Y  float64
	Angle float64
}

// Point returns the position part of the pose.
func (p Pose) Point() Point {
	return Point{X: p.X, Y: p.Y}
}

// Segment represents a wall edge that can block rays
type Segment struct {
	A, B Point
}

// Obstacle is a rectangular wall in world coordinates.
// Rotation is in radians around the rectangle centre; zero means axis-aligned.
type Obstacle struct {
	X, Y          float64
	Width, Height float64
	Rotation      float64
}

// RayHit is the result of casting a single ray.
// When Hit is false the ray ran to its maximum distance and Point is that endpoint.
type RayHit struct {
	Point
	Distance float64
	Hit      bool
}
