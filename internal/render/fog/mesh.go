package fog

import (
	"math"

	"chosenoffset.com/pixelescape/internal/core/shadows"
	"chosenoffset.com/pixelescape/internal/core/vision"
	"chosenoffset.com/pixelescape/internal/render"
)

// maxMeshVertices is the most vertices a mesh can address with uint16 indices.
const maxMeshVertices = math.MaxUint16 + 1

// Camera is the world position drawn at the top-left corner of the screen.
type Camera struct {
	X, Y float64
}

// ToScreen converts a world position to screen pixels.
func (c Camera) ToScreen(p shadows.Point) shadows.Point {
	return shadows.Point{X: p.X - c.X, Y: p.Y - c.Y}
}

// ToWorld converts screen pixels to a world position.
func (c Camera) ToWorld(x, y float64) shadows.Point {
	return shadows.Point{X: x + c.X, Y: y + c.Y}
}

func vertex(p shadows.Point) render.Vertex {
	return render.Vertex{
		DstX:   float32(p.X),
		DstY:   float32(p.Y),
		SrcX:   1,
		SrcY:   1,
		ColorR: 1,
		ColorG: 1,
		ColorB: 1,
		ColorA: 1,
	}
}

// FanMesh triangulates the visibility polygon as a fan around the apex:
// triangle k is (apex, Polygon[k], Polygon[k+1]). It returns nil when the
// snapshot is insufficient or too large to index.
func FanMesh(vd *vision.VisibilityData, cam Camera) ([]render.Vertex, []uint16) {
	if !vd.Sufficient() || len(vd.Polygon) > maxMeshVertices {
		return nil, nil
	}

	vertices := make([]render.Vertex, len(vd.Polygon))
	for i, p := range vd.Polygon {
		vertices[i] = vertex(cam.ToScreen(p))
	}

	indices := make([]uint16, 0, 3*(len(vd.Polygon)-2))
	for i := 1; i < len(vd.Polygon)-1; i++ {
		indices = append(indices, 0, uint16(i), uint16(i+1))
	}
	return vertices, indices
}

// DiscMesh approximates a filled circle with a fan of segments triangles.
// segments below 3 are raised to 3.
func DiscMesh(centre shadows.Point, radius float64, segments int, cam Camera) ([]render.Vertex, []uint16) {
	if radius <= 0 {
		return nil, nil
	}
	if segments < 3 {
		segments = 3
	}
	if segments+1 > maxMeshVertices {
		segments = maxMeshVertices - 1
	}

	c := cam.ToScreen(centre)
	vertices := make([]render.Vertex, 0, segments+1)
	vertices = append(vertices, vertex(c))
	for i := 0; i < segments; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(segments))
		vertices = append(vertices, vertex(shadows.Point{X: c.X + radius*cos, Y: c.Y + radius*sin}))
	}

	indices := make([]uint16, 0, 3*segments)
	for i := 1; i <= segments; i++ {
		next := i + 1
		if next > segments {
			next = 1
		}
		indices = append(indices, 0, uint16(i), uint16(next))
	}
	return vertices, indices
}
