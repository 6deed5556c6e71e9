package game

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"chosenoffset.com/pixelescape/internal/core/shadows"
	"chosenoffset.com/pixelescape/internal/core/vision"
	"chosenoffset.com/pixelescape/internal/render"
)

var (
	backgroundColor = color.RGBA{0x11, 0x11, 0x11, 0xff}
	wallColor       = color.RGBA{0x44, 0x44, 0x44, 0xff}
	playerColor     = color.RGBA{0x44, 0xaa, 0xff, 0xff}
	zoneFill        = color.RGBA{10, 41, 10, 51} // rgba(50, 205, 50, 0.2), premultiplied
	zoneStroke      = color.RGBA{40, 164, 40, 204}
	trunkColor      = color.RGBA{0x8b, 0x45, 0x13, 0xff}
	leafColor       = color.RGBA{0x22, 0x8b, 0x22, 0xff}
	rockColor       = color.RGBA{0x77, 0x77, 0x77, 0xff}
	textColor       = color.RGBA{255, 255, 255, 255}

	terrainColors = map[string]color.RGBA{
		"grass":    {0x2d, 0x4a, 0x1e, 0xff},
		"dirt":     {0x4a, 0x3b, 0x2a, 0xff},
		"concrete": {0x55, 0x55, 0x55, 0xff},
		"water":    {0x1e, 0x3a, 0x5f, 0xff},
	}

	lootColors = map[string]color.RGBA{
		"crate":      {0x8b, 0x5a, 0x2b, 0xff},
		"medkit":     {0xe0, 0x3c, 0x3c, 0xff},
		"ammo_box":   {0xd4, 0xaf, 0x37, 0xff},
		"weapon_box": {0x4f, 0x6d, 0x7a, 0xff},
	}
	defaultLootColor = color.RGBA{0xaa, 0xaa, 0xaa, 0xff}
)

const lootSize = 40.0

// Draw renders the game to the screen.
//
// World objects are drawn only when the oracle says they are visible; the fog
// overlay then darkens whatever lies outside the field of view. With fog off
// everything is drawn.
func (g *Game) Draw(screen render.Image) {
	vd := g.Visibility()
	seen := func(p shadows.Point) bool { return !g.Fog.Enabled() || vd.IsVisible(p) }

	screen.Fill(backgroundColor)
	g.drawTerrain(screen, vd)
	g.drawZones(screen, vd)
	g.drawWalls(screen, vd)
	g.drawDecorations(screen, seen)
	g.drawLoot(screen, seen)
	g.drawPlayer(screen)

	g.Fog.Apply(screen, vd, g.Camera)

	g.drawUI(screen)
	if g.ShowDebug {
		g.drawDebug(screen, vd)
	}
}

func (g *Game) drawTerrain(screen render.Image, vd *vision.VisibilityData) {
	for _, t := range g.Map.Data.Terrain {
		if g.Fog.Enabled() && !vision.IsRectVisible(t.X, t.Y, t.W, t.H, vd) {
			continue
		}
		clr, ok := terrainColors[t.Type]
		if t.Color != "" {
			clr = parseHexColor(t.Color, clr)
		} else if !ok {
			clr = color.RGBA{0x33, 0x33, 0x33, 0xff}
		}
		s := g.Camera.ToScreen(shadows.Point{X: t.X, Y: t.Y})
		g.Renderer.FillRect(screen, float32(s.X), float32(s.Y), float32(t.W), float32(t.H), clr)
	}
}

func (g *Game) drawZones(screen render.Image, vd *vision.VisibilityData) {
	for _, z := range g.Map.Data.ExtractionZones {
		centre := shadows.Point{X: z.X, Y: z.Y}
		if g.Fog.Enabled() && !vision.IsCircleVisible(centre, z.Radius, vd) {
			continue
		}
		s := g.Camera.ToScreen(centre)
		g.Renderer.FillCircle(screen, float32(s.X), float32(s.Y), float32(z.Radius), zoneFill)
		g.Renderer.StrokeCircle(screen, float32(s.X), float32(s.Y), float32(z.Radius), 2, zoneStroke)
		w, h := g.Renderer.MeasureText(z.Name, 1)
		g.Renderer.DrawText(screen, z.Name, int(s.X)-w/2, int(s.Y)-h/2, textColor, 1)
	}
}

func (g *Game) drawWalls(screen render.Image, vd *vision.VisibilityData) {
	for _, w := range g.Map.Data.Walls {
		o := w.Obstacle()
		if o.Degenerate() {
			continue
		}
		if g.Fog.Enabled() && !vision.IsObstacleVisible(o, vd) {
			continue
		}
		clr := wallColor
		if w.Color != "" {
			clr = parseHexColor(w.Color, wallColor)
		}
		corners := o.Corners()
		g.fillPolygon(screen, corners[:], clr)
	}
}

func (g *Game) drawDecorations(screen render.Image, seen func(shadows.Point) bool) {
	for _, d := range g.Map.Data.Decorations {
		p := shadows.Point{X: d.X, Y: d.Y}
		if !seen(p) {
			continue
		}
		s := g.Camera.ToScreen(p)
		size := d.Size
		if size <= 0 {
			size = 15
		}
		switch d.Type {
		case "tree":
			g.Renderer.FillRect(screen, float32(s.X-5), float32(s.Y-5), 10, 20, trunkColor)
			g.Renderer.FillCircle(screen, float32(s.X), float32(s.Y-15), float32(size), leafColor)
		case "rock":
			g.Renderer.FillCircle(screen, float32(s.X), float32(s.Y), float32(size), rockColor)
		}
	}
}

func (g *Game) drawLoot(screen render.Image, seen func(shadows.Point) bool) {
	for _, l := range g.Map.Data.Loot {
		if !seen(l.Position()) {
			continue
		}
		clr, ok := lootColors[l.Kind]
		if !ok {
			clr = defaultLootColor
		}
		s := g.Camera.ToScreen(l.Position())
		x, y := float32(s.X-lootSize/2), float32(s.Y-lootSize/2)
		g.Renderer.FillRect(screen, x, y, lootSize, lootSize, clr)
		g.strokeRect(screen, x, y, lootSize, lootSize, textColor)
	}
}

func (g *Game) drawPlayer(screen render.Image) {
	s := g.Camera.ToScreen(g.Player.Pose.Point())
	x, y := float32(s.X), float32(s.Y)
	r := float32(g.Player.Radius)
	g.Renderer.FillCircle(screen, x, y, r, playerColor)

	sin, cos := math.Sincos(g.Player.Pose.Angle)
	reach := g.Player.Radius * 1.5
	g.Renderer.StrokeLine(screen, x, y, float32(s.X+reach*cos), float32(s.Y+reach*sin), 2, textColor)
}

func (g *Game) drawUI(screen render.Image) {
	y := 20
	for _, msg := range g.Messages {
		alpha := uint8(255 * (msg.TimeLeft / msg.MaxTime))
		g.Renderer.DrawText(screen, msg.Text, 20, y, color.RGBA{255, 255, 255, alpha}, 1.0)
		y += 20
	}
}

func (g *Game) drawDebug(screen render.Image, vd *vision.VisibilityData) {
	cfg := g.Vision.Config()
	stats := g.Vision.Stats()
	lines := []string{
		fmt.Sprintf("pos %.0f,%.0f  angle %.2f", g.Player.Pose.X, g.Player.Pose.Y, g.Player.Pose.Angle),
		fmt.Sprintf("rays %d  mode %s  test %s", cfg.RayCount, cfg.RayMode, cfg.PointTest),
		fmt.Sprintf("fov builds %d  hits %d  invalidations %d", stats.Builds, stats.Hits, stats.Invalidations),
		fmt.Sprintf("visible loot %d/%d", len(g.VisibleLoot()), len(g.Map.Data.Loot)),
	}
	_, lineHeight := g.Renderer.MeasureText("M", 1)
	y := g.ScreenHeight - lineHeight*len(lines) - 10
	for _, line := range lines {
		g.Renderer.DrawText(screen, line, 10, y, textColor, 1)
		y += lineHeight
	}

	// Outline of the field-of-view polygon.
	for i := 1; i+1 < len(vd.Polygon); i++ {
		a := g.Camera.ToScreen(vd.Polygon[i])
		b := g.Camera.ToScreen(vd.Polygon[i+1])
		g.Renderer.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, zoneStroke)
	}
}

func (g *Game) strokeRect(screen render.Image, x, y, w, h float32, clr color.Color) {
	g.Renderer.StrokeLine(screen, x, y, x+w, y, 2, clr)
	g.Renderer.StrokeLine(screen, x+w, y, x+w, y+h, 2, clr)
	g.Renderer.StrokeLine(screen, x+w, y+h, x, y+h, 2, clr)
	g.Renderer.StrokeLine(screen, x, y+h, x, y, 2, clr)
}

// fillPolygon fills a convex world-space polygon as a triangle fan.
func (g *Game) fillPolygon(screen render.Image, pts []shadows.Point, clr color.RGBA) {
	if len(pts) < 3 {
		return
	}
	r, gr, b, a := float32(clr.R)/0xff, float32(clr.G)/0xff, float32(clr.B)/0xff, float32(clr.A)/0xff
	vertices := make([]render.Vertex, len(pts))
	for i, p := range pts {
		s := g.Camera.ToScreen(p)
		vertices[i] = render.Vertex{
			DstX: float32(s.X), DstY: float32(s.Y),
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: gr, ColorB: b, ColorA: a,
		}
	}
	indices := make([]uint16, 0, 3*(len(pts)-2))
	for i := 1; i+1 < len(pts); i++ {
		indices = append(indices, 0, uint16(i), uint16(i+1))
	}
	screen.DrawTriangles(vertices, indices, g.whiteImage(), &render.DrawTrianglesOptions{AntiAlias: true})
}

func (g *Game) whiteImage() render.Image {
	if g.white == nil {
		base := g.Renderer.NewImage(3, 3)
		base.Fill(color.White)
		g.white = base.SubImage(image.Rect(1, 1, 2, 2))
	}
	return g.white
}

// parseHexColor parses "#rgb" or "#rrggbb", returning fallback on failure.
func parseHexColor(s string, fallback color.RGBA) color.RGBA {
	var r, g, b uint8
	switch len(s) {
	case 7:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
			return fallback
		}
	case 4:
		if _, err := fmt.Sscanf(s, "#%1x%1x%1x", &r, &g, &b); err != nil {
			return fallback
		}
		r, g, b = r*17, g*17, b*17
	default:
		return fallback
	}
	return color.RGBA{r, g, b, 0xff}
}
