// Package ebiten implements the render interfaces on top of Ebitengine.
package ebiten

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"chosenoffset.com/pixelescape/internal/render"
)

// Debug font cell size in pixels.
const (
	glyphWidth  = 6.0
	glyphHeight = 16.0
)

// EbitenRenderer implements the Renderer interface using Ebiten.
type EbitenRenderer struct{}

// NewRenderer creates a new Ebiten-based renderer.
func NewRenderer() render.Renderer {
	return &EbitenRenderer{}
}

// unwrap returns the backing ebiten image of a render.Image created by this package.
func unwrap(img render.Image) *ebiten.Image {
	return img.(*EbitenImage).img
}

// NewImage creates a new image with the given dimensions.
func (r *EbitenRenderer) NewImage(width, height int) render.Image {
	return &EbitenImage{img: ebiten.NewImage(width, height)}
}

// FillCircle draws a filled circle on the destination image.
func (r *EbitenRenderer) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {
	vector.DrawFilledCircle(unwrap(dst), x, y, radius, clr, true)
}

// StrokeCircle draws a circle outline on the destination image.
func (r *EbitenRenderer) StrokeCircle(dst render.Image, x, y, radius float32, strokeWidth float32, clr color.Color) {
	vector.StrokeCircle(unwrap(dst), x, y, radius, strokeWidth, clr, true)
}

// FillRect draws an axis-aligned filled rectangle.
func (r *EbitenRenderer) FillRect(dst render.Image, x, y, width, height float32, clr color.Color) {
	vector.DrawFilledRect(unwrap(dst), x, y, width, height, clr, false)
}

// StrokeLine draws a line segment.
func (r *EbitenRenderer) StrokeLine(dst render.Image, x0, y0, x1, y1 float32, strokeWidth float32, clr color.Color) {
	vector.StrokeLine(unwrap(dst), x0, y0, x1, y1, strokeWidth, clr, true)
}

// DrawText draws text with the built-in debug font.
// Color and scale are ignored; the debug font is always white at a fixed size.
func (r *EbitenRenderer) DrawText(dst render.Image, str string, x, y int, clr color.Color, scale float64) {
	ebitenutil.DebugPrintAt(unwrap(dst), str, x, y)
}

// MeasureText approximates the size of str in the debug font.
func (r *EbitenRenderer) MeasureText(str string, scale float64) (width, height int) {
	return int(float64(len(str)) * glyphWidth * scale), int(glyphHeight * scale)
}

// EbitenImage wraps an ebiten.Image to implement the render.Image interface.
type EbitenImage struct {
	img *ebiten.Image
}

func (i *EbitenImage) Size() (width, height int) {
	b := i.img.Bounds()
	return b.Dx(), b.Dy()
}

func (i *EbitenImage) SubImage(r image.Rectangle) render.Image {
	return &EbitenImage{img: i.img.SubImage(r).(*ebiten.Image)}
}

func (i *EbitenImage) Fill(clr color.Color) {
	i.img.Fill(clr)
}

func (i *EbitenImage) Dispose() {
	if i.img != nil {
		i.img.Dispose()
	}
}

// DrawImage draws the source image onto this image.
func (i *EbitenImage) DrawImage(src render.Image) {
	i.img.DrawImage(unwrap(src), &ebiten.DrawImageOptions{})
}

// DrawTriangles draws triangles on this image using the provided vertices.
func (i *EbitenImage) DrawTriangles(vertices []render.Vertex, indices []uint16, img render.Image, opts *render.DrawTrianglesOptions) {
	ebitenVertices := make([]ebiten.Vertex, len(vertices))
	for j, v := range vertices {
		ebitenVertices[j] = ebiten.Vertex{
			DstX:   v.DstX,
			DstY:   v.DstY,
			SrcX:   v.SrcX,
			SrcY:   v.SrcY,
			ColorR: v.ColorR,
			ColorG: v.ColorG,
			ColorB: v.ColorB,
			ColorA: v.ColorA,
		}
	}

	ebitenOpts := &ebiten.DrawTrianglesOptions{}
	if opts != nil {
		ebitenOpts.AntiAlias = opts.AntiAlias
		ebitenOpts.Blend = toEbitenBlend(opts.Blend)
	}
	i.img.DrawTriangles(ebitenVertices, indices, unwrap(img), ebitenOpts)
}

func toEbitenBlend(b render.Blend) ebiten.Blend {
	switch b {
	case render.BlendClear:
		return ebiten.BlendClear
	default:
		return ebiten.BlendSourceOver
	}
}

// EbitenInputManager implements the InputManager interface using Ebiten.
type EbitenInputManager struct{}

// NewInputManager creates a new Ebiten-based input manager.
func NewInputManager() render.InputManager {
	return &EbitenInputManager{}
}

func (m *EbitenInputManager) IsKeyPressed(key render.Key) bool {
	k, ok := keyMap[key]
	return ok && ebiten.IsKeyPressed(k)
}

func (m *EbitenInputManager) IsKeyJustPressed(key render.Key) bool {
	k, ok := keyMap[key]
	return ok && inpututil.IsKeyJustPressed(k)
}

func (m *EbitenInputManager) GetCursorPosition() (x, y int) {
	return ebiten.CursorPosition()
}

var keyMap = map[render.Key]ebiten.Key{
	render.KeyW:      ebiten.KeyW,
	render.KeyA:      ebiten.KeyA,
	render.KeyS:      ebiten.KeyS,
	render.KeyD:      ebiten.KeyD,
	render.KeyV:      ebiten.KeyV,
	render.KeyF3:     ebiten.KeyF3,
	render.KeyUp:     ebiten.KeyArrowUp,
	render.KeyDown:   ebiten.KeyArrowDown,
	render.KeyLeft:   ebiten.KeyArrowLeft,
	render.KeyRight:  ebiten.KeyArrowRight,
	render.KeyShift:  ebiten.KeyShift,
	render.KeyEscape: ebiten.KeyEscape,
}

// EbitenEngine implements the Engine interface using Ebiten.
type EbitenEngine struct{}

// NewEngine creates a new Ebiten-based game engine.
func NewEngine() render.Engine {
	return &EbitenEngine{}
}

func (e *EbitenEngine) SetWindowSize(width, height int) {
	ebiten.SetWindowSize(width, height)
}

func (e *EbitenEngine) SetWindowTitle(title string) {
	ebiten.SetWindowTitle(title)
}

func (e *EbitenEngine) SetWindowResizable(resizable bool) {
	mode := ebiten.WindowResizingModeDisabled
	if resizable {
		mode = ebiten.WindowResizingModeEnabled
	}
	ebiten.SetWindowResizingMode(mode)
}

// RunGame blocks running the game loop until the window closes or Update fails.
func (e *EbitenEngine) RunGame(game render.Game) error {
	return ebiten.RunGame(&gameAdapter{game: game})
}

// gameAdapter adapts a render.Game to the ebiten.Game interface.
type gameAdapter struct {
	game render.Game
}

func (a *gameAdapter) Update() error {
	return a.game.Update()
}

func (a *gameAdapter) Draw(screen *ebiten.Image) {
	a.game.Draw(&EbitenImage{img: screen})
}

func (a *gameAdapter) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.game.Layout(outsideWidth, outsideHeight)
}
