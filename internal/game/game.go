// Package game runs the top-down loop: movement, facing, camera and drawing,
// with every visibility decision delegated to the vision package.
package game

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/pixelescape/internal/core/shadows"
	"chosenoffset.com/pixelescape/internal/core/vision"
	"chosenoffset.com/pixelescape/internal/logger"
	"chosenoffset.com/pixelescape/internal/render"
	"chosenoffset.com/pixelescape/internal/render/fog"
	"chosenoffset.com/pixelescape/internal/world/maploader"
)

// Options are the dependencies of a Game.
type Options struct {
	Map          *maploader.Map
	Vision       *vision.Config // nil means vision.DefaultConfig()
	Renderer     render.Renderer
	Input        render.InputManager
	ScreenWidth  int
	ScreenHeight int
	Fog          bool
}

// Game holds all game state and logic.
type Game struct {
	ScreenWidth  int
	ScreenHeight int
	Map          *maploader.Map
	Player       Player
	Camera       fog.Camera
	Vision       *vision.Cache
	Fog          *fog.Overlay
	Renderer     render.Renderer
	InputMgr     render.InputManager

	// UI state
	Messages  []Message
	ShowDebug bool

	white render.Image
	log   *logrus.Entry
}

// NewGame validates the options and places the player at the map spawn.
func NewGame(opts Options) (*Game, error) {
	if opts.Map == nil {
		return nil, errors.New("game: map is required")
	}
	if opts.Renderer == nil || opts.Input == nil {
		return nil, errors.New("game: renderer and input are required")
	}
	if opts.ScreenWidth <= 0 || opts.ScreenHeight <= 0 {
		return nil, fmt.Errorf("game: invalid screen size %dx%d", opts.ScreenWidth, opts.ScreenHeight)
	}

	cfg := opts.Vision
	if cfg == nil {
		cfg = vision.DefaultConfig()
	}
	cache, err := vision.NewCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	overlay := fog.NewOverlay(opts.Renderer)
	overlay.SetEnabled(opts.Fog)

	spawn := opts.Map.Spawn()
	g := &Game{
		ScreenWidth:  opts.ScreenWidth,
		ScreenHeight: opts.ScreenHeight,
		Map:          opts.Map,
		Player: Player{
			Pose:   shadows.Pose{X: spawn.X, Y: spawn.Y},
			Speed:  DefaultPlayerSpeed,
			Radius: DefaultPlayerRadius,
		},
		Vision:   cache,
		Fog:      overlay,
		Renderer: opts.Renderer,
		InputMgr: opts.Input,
		log:      logger.Component("game"),
	}
	if g.Map.Collides(spawn.X, spawn.Y, g.Player.Radius) {
		g.log.WithFields(logrus.Fields{"x": spawn.X, "y": spawn.Y}).Warn("player spawn overlaps a wall")
	}
	g.UpdateCamera()
	return g, nil
}

// Update handles game logic updates.
func (g *Game) Update() error {
	// Delta time for timers (assuming 60 FPS)
	dt := 1.0 / 60.0
	g.updateMessages(dt)

	before := g.Player.Pose
	g.movePlayer()
	g.UpdateCamera()
	g.aimPlayer()

	// Movement owns invalidation: any change of position or facing drops the
	// cached field of view.
	if g.Player.Pose != before {
		g.Vision.Invalidate()
	}

	if g.InputMgr.IsKeyJustPressed(render.KeyV) {
		if g.Fog.Toggle() {
			g.ShowMessage("Fog of war on")
		} else {
			g.ShowMessage("Fog of war off")
		}
	}
	if g.InputMgr.IsKeyJustPressed(render.KeyF3) {
		g.ShowDebug = !g.ShowDebug
	}

	return nil
}

// movePlayer applies WASD movement, resolving each axis separately so the
// player slides along walls instead of sticking to them.
func (g *Game) movePlayer() {
	speed := g.Player.Speed
	if g.InputMgr.IsKeyPressed(render.KeyShift) {
		speed *= SprintMultiplier
	}

	var dx, dy float64
	if g.InputMgr.IsKeyPressed(render.KeyW) || g.InputMgr.IsKeyPressed(render.KeyUp) {
		dy -= speed
	}
	if g.InputMgr.IsKeyPressed(render.KeyS) || g.InputMgr.IsKeyPressed(render.KeyDown) {
		dy += speed
	}
	if g.InputMgr.IsKeyPressed(render.KeyA) || g.InputMgr.IsKeyPressed(render.KeyLeft) {
		dx -= speed
	}
	if g.InputMgr.IsKeyPressed(render.KeyD) || g.InputMgr.IsKeyPressed(render.KeyRight) {
		dx += speed
	}

	p := &g.Player.Pose
	if dx != 0 && g.canOccupy(p.X+dx, p.Y) {
		p.X += dx
	}
	if dy != 0 && g.canOccupy(p.X, p.Y+dy) {
		p.Y += dy
	}
}

// canOccupy reports whether the player circle fits at (x, y).
func (g *Game) canOccupy(x, y float64) bool {
	r := g.Player.Radius
	w, h := g.Map.Bounds()
	if x-r < 0 || y-r < 0 || x+r > w || y+r > h {
		return false
	}
	return !g.Map.Collides(x, y, r)
}

// aimPlayer turns the player toward the cursor. A cursor exactly on the
// player keeps the previous facing.
func (g *Game) aimPlayer() {
	cx, cy := g.InputMgr.GetCursorPosition()
	cursor := g.Camera.ToWorld(float64(cx), float64(cy))
	if cursor.X == g.Player.Pose.X && cursor.Y == g.Player.Pose.Y {
		return
	}
	g.Player.Pose.Angle = math.Atan2(cursor.Y-g.Player.Pose.Y, cursor.X-g.Player.Pose.X)
}

// Layout returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.ScreenWidth, g.ScreenHeight
}

// Resize changes the screen size and re-clamps the camera.
func (g *Game) Resize(width, height int) {
	g.ScreenWidth = width
	g.ScreenHeight = height
	g.UpdateCamera()
}

// Visibility returns the field of view for the player's current pose.
func (g *Game) Visibility() *vision.VisibilityData {
	return g.Vision.Visibility(&g.Player.Pose, g.Map)
}

// VisibleLoot returns the loot the player can currently see, in map order.
func (g *Game) VisibleLoot() []maploader.Loot {
	return vision.FilterVisible(g.Map.Data.Loot, maploader.Loot.Position, g.Visibility())
}

// UpdateCamera centres the camera on the player, clamped to the map.
func (g *Game) UpdateCamera() {
	mapWidth, mapHeight := g.Map.Bounds()
	g.Camera.X = clampCamera(g.Player.Pose.X-float64(g.ScreenWidth)/2, mapWidth-float64(g.ScreenWidth))
	g.Camera.Y = clampCamera(g.Player.Pose.Y-float64(g.ScreenHeight)/2, mapHeight-float64(g.ScreenHeight))
}

// clampCamera keeps v in [0, max]. A map smaller than the screen pins to 0.
func clampCamera(v, max float64) float64 {
	if v > max {
		v = max
	}
	if v < 0 {
		v = 0
	}
	return v
}

func (g *Game) updateMessages(dt float64) {
	var active []Message
	for _, msg := range g.Messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	g.Messages = active
}

// ShowMessage adds a new message to be displayed on screen.
func (g *Game) ShowMessage(text string) {
	g.Messages = append(g.Messages, Message{
		Text:     text,
		TimeLeft: 3.0,
		MaxTime:  3.0,
	})
	g.log.WithField("message", text).Info("message")
}
