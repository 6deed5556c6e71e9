package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/pixelescape/internal/core/vision"
	"chosenoffset.com/pixelescape/internal/render"
	"chosenoffset.com/pixelescape/internal/render/rendertest"
	"chosenoffset.com/pixelescape/internal/world/maploader"
)

func testMap(t *testing.T, walls ...maploader.Wall) *maploader.Map {
	t.Helper()
	m, err := maploader.NewMap(&maploader.MapData{
		Name:        "test",
		Width:       1000,
		Height:      1000,
		PlayerSpawn: maploader.SpawnPoint{X: 500, Y: 500},
		Walls:       walls,
		Loot: []maploader.Loot{
			{ID: "ahead", Kind: "crate", X: 560, Y: 500},
			{ID: "walled", Kind: "medkit", X: 700, Y: 500},
			{ID: "behind", Kind: "ammo_box", X: 300, Y: 500},
			{ID: "near", Kind: "crate", X: 480, Y: 510},
		},
	})
	require.NoError(t, err)
	return m
}

// newTestGame faces the player along +x: the cursor sits 300px right of the
// player's screen position.
func newTestGame(t *testing.T, m *maploader.Map, fogOn bool) (*Game, *rendertest.Input) {
	t.Helper()
	input := rendertest.NewInput()
	g, err := NewGame(Options{
		Map:          m,
		Renderer:     &rendertest.Renderer{},
		Input:        input,
		ScreenWidth:  800,
		ScreenHeight: 600,
		Fog:          fogOn,
	})
	require.NoError(t, err)
	input.CursorX, input.CursorY = 700, 300
	return g, input
}

func lootIDs(loot []maploader.Loot) []string {
	ids := make([]string, len(loot))
	for i, l := range loot {
		ids[i] = l.ID
	}
	return ids
}

func TestNewGameValidates(t *testing.T) {
	m := testMap(t)
	r := &rendertest.Renderer{}
	in := rendertest.NewInput()

	_, err := NewGame(Options{Renderer: r, Input: in, ScreenWidth: 800, ScreenHeight: 600})
	assert.Error(t, err)

	_, err = NewGame(Options{Map: m, Input: in, ScreenWidth: 800, ScreenHeight: 600})
	assert.Error(t, err)

	_, err = NewGame(Options{Map: m, Renderer: r, Input: in})
	assert.Error(t, err)

	bad := vision.DefaultConfig()
	bad.ConeAngle = 0
	_, err = NewGame(Options{Map: m, Vision: bad, Renderer: r, Input: in, ScreenWidth: 800, ScreenHeight: 600})
	assert.ErrorIs(t, err, vision.ErrInvalidConfig)
}

func TestNewGamePlacesPlayerAtSpawn(t *testing.T) {
	g, _ := newTestGame(t, testMap(t), true)
	assert.Equal(t, 500.0, g.Player.Pose.X)
	assert.Equal(t, 500.0, g.Player.Pose.Y)
	assert.Equal(t, 100.0, g.Camera.X)
	assert.Equal(t, 200.0, g.Camera.Y)
	assert.True(t, g.Fog.Enabled())
}

func TestMovementInvalidatesVision(t *testing.T) {
	g, input := newTestGame(t, testMap(t), true)

	require.NoError(t, g.Update())
	assert.Zero(t, g.Vision.Stats().Invalidations, "standing still keeps the cache")

	input.Held[render.KeyD] = true
	require.NoError(t, g.Update())
	assert.Equal(t, 505.0, g.Player.Pose.X)
	assert.Equal(t, 1, g.Vision.Stats().Invalidations)

	input.Held[render.KeyD] = false
	input.CursorX, input.CursorY = 400, 600
	require.NoError(t, g.Update())
	assert.InDelta(t, math.Pi/2, g.Player.Pose.Angle, 1e-9)
	assert.Equal(t, 2, g.Vision.Stats().Invalidations, "turning also invalidates")
}

func TestShiftSprints(t *testing.T) {
	g, input := newTestGame(t, testMap(t), true)

	input.Held[render.KeyShift] = true
	input.Held[render.KeyD] = true
	require.NoError(t, g.Update())
	assert.InDelta(t, 500+DefaultPlayerSpeed*SprintMultiplier, g.Player.Pose.X, 1e-9)

	input.Held[render.KeyShift] = false
	require.NoError(t, g.Update())
	assert.InDelta(t, 500+DefaultPlayerSpeed*SprintMultiplier+DefaultPlayerSpeed, g.Player.Pose.X, 1e-9)
}

func TestMovementSlidesAlongWalls(t *testing.T) {
	g, input := newTestGame(t, testMap(t, maploader.Wall{X: 517, Y: 0, W: 20, H: 1000}), true)

	input.Held[render.KeyD] = true
	input.Held[render.KeyS] = true
	require.NoError(t, g.Update())

	assert.Equal(t, 500.0, g.Player.Pose.X, "blocked by the wall")
	assert.Equal(t, 505.0, g.Player.Pose.Y, "still slides vertically")
}

func TestMovementStaysInsideMap(t *testing.T) {
	m, err := maploader.NewMap(&maploader.MapData{
		Width: 400, Height: 400, PlayerSpawn: maploader.SpawnPoint{X: 16, Y: 200},
	})
	require.NoError(t, err)
	g, input := newTestGame(t, m, false)

	input.Held[render.KeyA] = true
	require.NoError(t, g.Update())
	assert.Equal(t, 16.0, g.Player.Pose.X)
	assert.Zero(t, g.Camera.X, "small maps pin the camera to the origin")
}

func TestVisibleLoot(t *testing.T) {
	g, _ := newTestGame(t, testMap(t, maploader.Wall{X: 600, Y: 400, W: 20, H: 200}), true)

	assert.Equal(t, []string{"ahead", "near"}, lootIDs(g.VisibleLoot()))

	g.Player.Pose.Angle = math.Pi
	g.Vision.Invalidate()
	assert.Equal(t, []string{"behind", "near"}, lootIDs(g.VisibleLoot()))
}

func TestToggles(t *testing.T) {
	g, input := newTestGame(t, testMap(t), true)

	input.JustPressed[render.KeyV] = true
	input.JustPressed[render.KeyF3] = true
	require.NoError(t, g.Update())

	assert.False(t, g.Fog.Enabled())
	assert.True(t, g.ShowDebug)
	require.Len(t, g.Messages, 1)
	assert.Equal(t, "Fog of war off", g.Messages[0].Text)

	input.JustPressed[render.KeyV] = true
	require.NoError(t, g.Update())
	assert.True(t, g.Fog.Enabled())
}

func TestMessagesExpire(t *testing.T) {
	g, _ := newTestGame(t, testMap(t), true)
	g.ShowMessage("hello")
	for i := 0; i < 200; i++ {
		require.NoError(t, g.Update())
	}
	assert.Empty(t, g.Messages)
}

func TestDrawFiltersByVisibility(t *testing.T) {
	m := testMap(t, maploader.Wall{X: 600, Y: 400, W: 20, H: 200})

	t.Run("fog on", func(t *testing.T) {
		g, _ := newTestGame(t, m, true)
		screen := &rendertest.Image{Width: 800, Height: 600}
		g.Draw(screen)

		assert.Equal(t, 2, screen.Count("rect"), "only visible loot is drawn")
		assert.Equal(t, 1, screen.Count("image"), "fog overlay composited once")
	})

	t.Run("fog off", func(t *testing.T) {
		g, _ := newTestGame(t, m, false)
		screen := &rendertest.Image{Width: 800, Height: 600}
		g.Draw(screen)

		assert.Equal(t, 4, screen.Count("rect"))
		assert.Zero(t, screen.Count("image"))
		assert.Equal(t, 1, screen.Count("triangles"), "the wall")
	})
}

func TestDrawReusesSnapshot(t *testing.T) {
	g, _ := newTestGame(t, testMap(t), true)
	screen := &rendertest.Image{Width: 800, Height: 600}

	g.Draw(screen)
	g.Draw(screen)

	stats := g.Vision.Stats()
	assert.Equal(t, 1, stats.Builds)
	assert.Equal(t, 1, stats.Hits)
}

func TestDebugOverlay(t *testing.T) {
	g, _ := newTestGame(t, testMap(t), true)
	g.ShowDebug = true
	screen := &rendertest.Image{Width: 800, Height: 600}
	g.Draw(screen)

	assert.Contains(t, screen.Texts(), "visible loot 3/4")
}

func TestParseHexColor(t *testing.T) {
	fallback := wallColor
	assert.Equal(t, uint8(0x44), parseHexColor("#4af", fallback).R)
	assert.Equal(t, uint8(0xff), parseHexColor("#4af", fallback).B)
	assert.Equal(t, uint8(0x12), parseHexColor("#123456", fallback).R)
	assert.Equal(t, fallback, parseHexColor("red", fallback))
	assert.Equal(t, fallback, parseHexColor("#zzzzzz", fallback))
}

func TestManagerPause(t *testing.T) {
	r := &rendertest.Renderer{}
	input := rendertest.NewInput()
	mgr, err := LoadGame("", "", r, input, 800, 600, true)
	require.NoError(t, err)
	start := mgr.Game.Player.Pose

	input.JustPressed[render.KeyEscape] = true
	input.Held[render.KeyD] = true
	require.NoError(t, mgr.Update())
	assert.Equal(t, StatePaused, mgr.State)
	assert.Equal(t, start.X, mgr.Game.Player.Pose.X)

	screen := &rendertest.Image{Width: 800, Height: 600}
	mgr.Draw(screen)
	assert.Contains(t, screen.Texts(), "PAUSED (Esc to resume)")

	input.JustPressed[render.KeyEscape] = true
	require.NoError(t, mgr.Update())
	assert.Equal(t, StatePlaying, mgr.State)
	assert.NotEqual(t, start.X, mgr.Game.Player.Pose.X)
}

func TestManagerLayoutResizesGame(t *testing.T) {
	mgr, err := LoadGame("", "", &rendertest.Renderer{}, rendertest.NewInput(), 800, 600, true)
	require.NoError(t, err)

	w, h := mgr.Layout(1024, 768)
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
	assert.Equal(t, 1024, mgr.Game.ScreenWidth)
}

func TestLoadGameMissingMap(t *testing.T) {
	_, err := LoadGame("does/not/exist.json", "", &rendertest.Renderer{}, rendertest.NewInput(), 800, 600, true)
	assert.Error(t, err)
}
