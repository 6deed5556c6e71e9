package shadows

import "math"

// Degenerate reports whether the obstacle has no area and therefore blocks nothing.
func (o Obstacle) Degenerate() bool {
	return o.Width <= 0 || o.Height <= 0
}

// Center returns the rectangle centre, which is also its rotation pivot.
func (o Obstacle) Center() Point {
	return Point{X: o.X + o.Width/2, Y: o.Y + o.Height/2}
}

// Corners returns the four corners in order top-left, top-right, bottom-right, bottom-left.
func (o Obstacle) Corners() [4]Point {
	corners := [4]Point{
		{o.X, o.Y},
		{o.X + o.Width, o.Y},
		{o.X + o.Width, o.Y + o.Height},
		{o.X, o.Y + o.Height},
	}
	if o.Rotation == 0 {
		return corners
	}

	c := o.Center()
	sin, cos := math.Sincos(o.Rotation)
	for i, p := range corners {
		dx := p.X - c.X
		dy := p.Y - c.Y
		corners[i] = Point{
			X: c.X + dx*cos - dy*sin,
			Y: c.Y + dx*sin + dy*cos,
		}
	}
	return corners
}

// Edges returns the boundary segments: top, right, bottom, left.
func (o Obstacle) Edges() [4]Segment {
	c := o.Corners()
	return [4]Segment{
		{A: c[0], B: c[1]},
		{A: c[1], B: c[2]},
		{A: c[2], B: c[3]},
		{A: c[3], B: c[0]},
	}
}

// Contains reports whether p lies inside the (possibly rotated) rectangle.
// The point is moved into obstacle-local space so the test stays axis-aligned.
func (o Obstacle) Contains(p Point) bool {
	if o.Degenerate() {
		return false
	}
	if o.Rotation != 0 {
		c := o.Center()
		sin, cos := math.Sincos(-o.Rotation)
		dx := p.X - c.X
		dy := p.Y - c.Y
		p = Point{
			X: c.X + dx*cos - dy*sin,
			Y: c.Y + dx*sin + dy*cos,
		}
	}
	return p.X >= o.X && p.X <= o.X+o.Width &&
		p.Y >= o.Y && p.Y <= o.Y+o.Height
}

// SegmentsFromObstacles flattens obstacles into their boundary edges.
// Degenerate obstacles contribute nothing.
func SegmentsFromObstacles(obstacles []Obstacle) []Segment {
	segments := make([]Segment, 0, len(obstacles)*4)
	for _, o := range obstacles {
		if o.Degenerate() {
			continue
		}
		edges := o.Edges()
		segments = append(segments, edges[:]...)
	}
	return segments
}
