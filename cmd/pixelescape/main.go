package main

import (
	"flag"

	"chosenoffset.com/pixelescape/internal/game"
	"chosenoffset.com/pixelescape/internal/logger"
	ebitenrender "chosenoffset.com/pixelescape/internal/render/ebiten"
)

func main() {
	var (
		mapPath      string
		configPath   string
		screenWidth  int
		screenHeight int
		fogOn        bool
	)
	flag.StringVar(&mapPath, "map", "", "Map file (.json or .yaml); empty uses the bundled map")
	flag.StringVar(&configPath, "config", "vision.yaml", "Vision config file (.json or .yaml); missing means defaults")
	flag.IntVar(&screenWidth, "width", 1280, "Window width in pixels")
	flag.IntVar(&screenHeight, "height", 800, "Window height in pixels")
	flag.BoolVar(&fogOn, "fog", true, "Start with fog of war enabled")
	flag.Parse()

	logger.Init()

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	gameManager, err := game.LoadGame(mapPath, configPath, renderer, inputMgr, screenWidth, screenHeight, fogOn)
	if err != nil {
		logger.Log.Fatal("Failed to load game: ", err)
	}

	engine.SetWindowSize(screenWidth, screenHeight)
	engine.SetWindowTitle("PixelEscape")
	engine.SetWindowResizable(true)

	logger.Log.Info("Starting game (WASD move, Shift sprint, mouse aim, V fog, F3 debug, Esc pause)")
	if err := engine.RunGame(gameManager); err != nil {
		logger.Log.Fatal(err)
	}
}
