package game

import (
	"image/color"

	"chosenoffset.com/pixelescape/internal/core/vision"
	"chosenoffset.com/pixelescape/internal/logger"
	"chosenoffset.com/pixelescape/internal/render"
	"chosenoffset.com/pixelescape/internal/world/maploader"
)

// State is the top-level mode of the running game.
type State int

const (
	StatePlaying State = iota
	StatePaused
)

// Manager is the render.Game handed to the engine. It owns the Game and
// the pause state, and forwards window resizes.
type Manager struct {
	ScreenWidth  int
	ScreenHeight int
	State        State
	Game         *Game
	Renderer     render.Renderer
	InputMgr     render.InputManager
}

// LoadGame resolves the map and vision config from disk and builds a Manager.
// An empty mapPath selects the bundled map; a missing config file means defaults.
func LoadGame(mapPath, configPath string, r render.Renderer, input render.InputManager, width, height int, fogOn bool) (*Manager, error) {
	log := logger.Component("game")

	var (
		gameMap *maploader.Map
		err     error
	)
	if mapPath == "" {
		gameMap, err = maploader.DefaultMap()
	} else {
		gameMap, err = maploader.LoadMap(mapPath)
	}
	if err != nil {
		return nil, err
	}

	cfg, err := vision.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	g, err := NewGame(Options{
		Map:          gameMap,
		Vision:       cfg,
		Renderer:     r,
		Input:        input,
		ScreenWidth:  width,
		ScreenHeight: height,
		Fog:          fogOn,
	})
	if err != nil {
		return nil, err
	}

	log.WithField("map", gameMap.Data.Name).
		WithField("walls", len(gameMap.Obstacles())).
		WithField("loot", len(gameMap.Data.Loot)).
		WithField("rays", cfg.RayCount).
		Info("game loaded")

	return &Manager{
		ScreenWidth:  width,
		ScreenHeight: height,
		State:        StatePlaying,
		Game:         g,
		Renderer:     r,
		InputMgr:     input,
	}, nil
}

// Update updates the game state.
func (m *Manager) Update() error {
	if m.InputMgr.IsKeyJustPressed(render.KeyEscape) {
		if m.State == StatePlaying {
			m.State = StatePaused
		} else {
			m.State = StatePlaying
		}
	}

	if m.State == StatePlaying {
		return m.Game.Update()
	}
	return nil
}

// Draw draws the current state.
func (m *Manager) Draw(screen render.Image) {
	m.Game.Draw(screen)
	if m.State == StatePaused {
		text := "PAUSED (Esc to resume)"
		w, h := m.Renderer.MeasureText(text, 1)
		m.Renderer.DrawText(screen, text, (m.ScreenWidth-w)/2, (m.ScreenHeight-h)/2, color.RGBA{255, 255, 255, 255}, 1)
	}
}

// Layout handles window resize.
func (m *Manager) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != m.ScreenWidth || outsideHeight != m.ScreenHeight {
		m.ScreenWidth = outsideWidth
		m.ScreenHeight = outsideHeight
		m.Game.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
