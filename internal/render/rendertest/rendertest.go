// Package rendertest provides in-memory render implementations for tests.
// Images record the operations drawn on them instead of rasterising.
package rendertest

import (
	"fmt"
	"image"
	"image/color"

	"chosenoffset.com/pixelescape/internal/render"
)

// Op is one recorded drawing operation.
type Op struct {
	Kind     string // "fill", "image", "triangles", "circle", "rect", "line", "text"
	Color    color.Color
	Text     string
	Vertices int
	Indices  int
	Blend    render.Blend
	Source   *Image
}

// Image is a recording render.Image.
type Image struct {
	Width, Height int
	Ops           []Op
	Disposed      bool
	parent        *Image
}

func (i *Image) record(op Op) {
	i.Ops = append(i.Ops, op)
}

// Count returns how many operations of kind were recorded.
func (i *Image) Count(kind string) int {
	n := 0
	for _, op := range i.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Texts returns every string drawn on the image, in order.
func (i *Image) Texts() []string {
	var texts []string
	for _, op := range i.Ops {
		if op.Kind == "text" {
			texts = append(texts, op.Text)
		}
	}
	return texts
}

func (i *Image) Size() (width, height int) { return i.Width, i.Height }

func (i *Image) SubImage(r image.Rectangle) render.Image {
	return &Image{Width: r.Dx(), Height: r.Dy(), parent: i}
}

func (i *Image) Fill(clr color.Color) { i.record(Op{Kind: "fill", Color: clr}) }
func (i *Image) Dispose()             { i.Disposed = true }

func (i *Image) DrawImage(src render.Image) {
	i.record(Op{Kind: "image", Source: src.(*Image)})
}

func (i *Image) DrawTriangles(vertices []render.Vertex, indices []uint16, img render.Image, opts *render.DrawTrianglesOptions) {
	for _, idx := range indices {
		if int(idx) >= len(vertices) {
			panic(fmt.Sprintf("rendertest: index %d out of range for %d vertices", idx, len(vertices)))
		}
	}
	op := Op{Kind: "triangles", Vertices: len(vertices), Indices: len(indices), Source: img.(*Image)}
	if opts != nil {
		op.Blend = opts.Blend
	}
	i.record(op)
}

// Renderer is a recording render.Renderer.
type Renderer struct {
	Images []*Image
}

func (r *Renderer) NewImage(width, height int) render.Image {
	img := &Image{Width: width, Height: height}
	r.Images = append(r.Images, img)
	return img
}

func (r *Renderer) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {
	dst.(*Image).record(Op{Kind: "circle", Color: clr})
}

func (r *Renderer) StrokeCircle(dst render.Image, x, y, radius float32, strokeWidth float32, clr color.Color) {
	dst.(*Image).record(Op{Kind: "circle", Color: clr})
}

func (r *Renderer) FillRect(dst render.Image, x, y, width, height float32, clr color.Color) {
	dst.(*Image).record(Op{Kind: "rect", Color: clr})
}

func (r *Renderer) StrokeLine(dst render.Image, x0, y0, x1, y1 float32, strokeWidth float32, clr color.Color) {
	dst.(*Image).record(Op{Kind: "line", Color: clr})
}

func (r *Renderer) DrawText(dst render.Image, text string, x, y int, clr color.Color, scale float64) {
	dst.(*Image).record(Op{Kind: "text", Text: text, Color: clr})
}

func (r *Renderer) MeasureText(text string, scale float64) (width, height int) {
	return int(float64(6*len(text)) * scale), int(16 * scale)
}

// Input is a scripted render.InputManager. Just-pressed keys are consumed
// when read.
type Input struct {
	Held        map[render.Key]bool
	JustPressed map[render.Key]bool
	CursorX     int
	CursorY     int
}

// NewInput returns an Input with no keys held.
func NewInput() *Input {
	return &Input{Held: map[render.Key]bool{}, JustPressed: map[render.Key]bool{}}
}

func (in *Input) IsKeyPressed(key render.Key) bool { return in.Held[key] }

func (in *Input) IsKeyJustPressed(key render.Key) bool {
	pressed := in.JustPressed[key]
	delete(in.JustPressed, key)
	return pressed
}

func (in *Input) GetCursorPosition() (x, y int) { return in.CursorX, in.CursorY }
