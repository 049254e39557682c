package main

import (
	"flag"
	"log"

	"github.com/atimics/signal-sub000/assets"
	"github.com/atimics/signal-sub000/config"
	"github.com/atimics/signal-sub000/ecs"
	"github.com/atimics/signal-sub000/ecs/debugui"
	debugui_ebiten "github.com/atimics/signal-sub000/ecs/debugui/ebiten"
	"github.com/atimics/signal-sub000/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
)

func main() {
	configPath := flag.String("config", "", "Optional YAML engine config.")
	drones := flag.Int("drones", 12, "Number of AI drones.")
	asteroids := flag.Int("asteroids", 200, "Number of static asteroids.")
	seed := flag.Uint64("seed", 1, "Random seed for the scene layout.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	logger, err := cfg.Logger()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	registry := assets.NewRegistry()
	if err := loadAssets(registry); err != nil {
		log.Fatalf("Failed to load assets: %v", err)
	}

	world := ecs.NewWorld(cfg.WorldConfig(logger))
	scene, err := buildScene(world, registry, *seed, *drones, *asteroids)
	if err != nil {
		log.Fatalf("Failed to build scene: %v", err)
	}

	scheduler := ecs.NewScheduler(ecs.NewContext(registry, logger))
	if err := systems.RegisterDefaults(scheduler); err != nil {
		log.Fatalf("Failed to register systems: %v", err)
	}
	if err := cfg.ApplyScheduler(scheduler); err != nil {
		log.Fatalf("Failed to apply config: %v", err)
	}

	backend := debugui_ebiten.NewImguiBackend("Signal Sandbox", ScreenWidth, ScreenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game := &Game{
		World:     world,
		Scheduler: scheduler,
		Assets:    registry,
		Scene:     scene,
		UI:        debugui.New(),
		Backend:   backend,
		Zoom:      3,
	}
	game.UI.AddItem(game.controls)

	logger.Info("sandbox started", "entities", world.Len(), "assets", registry.Len())
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
	scheduler.LogStats(nil)
}
