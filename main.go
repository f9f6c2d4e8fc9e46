package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"

	"starfield/internal/config"
	"starfield/internal/game"
)

func main() {
	cfgPath := flag.String("config", "starfield.json", "path to the configuration file")
	fullscreen := flag.Bool("fullscreen", false, "start in fullscreen")
	flag.Parse()

	cfg := config.Load(*cfgPath)

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Starfield - Tab: panel, Space: pause, O: soundtrack, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if *fullscreen {
		ebiten.SetFullscreen(true)
	}

	g := game.New(cfg, *cfgPath)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		// Startup/runtime failures surface in a native dialog rather than
		// dying silently in a detached terminal.
		_ = zenity.Error(err.Error(), zenity.Title("Starfield failed to start"))
		log.Fatalf("starfield: %v", err)
	}
	if err := g.Shutdown(); err != nil {
		log.Printf("starfield: saving config: %v", err)
	}
}
