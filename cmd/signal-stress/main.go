package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/atimics/signal-sub000/config"
	"github.com/atimics/signal-sub000/ecs"
	"github.com/atimics/signal-sub000/systems"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/profile"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 2000, "The initial number of entities to create.")
	churnRate := flag.Float64("churn", 0.01, "Fraction of the population destroyed and respawned each frame.")
	resetOnExhaust := flag.Bool("reset", false, "Clear the world when a component pool is exhausted.")
	seed := flag.Uint64("seed", 1, "Random seed for entity churn.")
	configPath := flag.String("config", "", "Optional YAML engine config.")
	profileMode := flag.String("profile", "", "Write a cpu or mem profile to the working directory.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		log.Fatalf("Unknown profile mode %q (want cpu or mem)", *profileMode)
	}

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

	log.Println("Starting stress test...")

	// 1. Setup World and Scheduler
	world := ecs.NewWorld(cfg.WorldConfig(logger))
	scheduler := ecs.NewScheduler(ecs.NewContext(nil, logger))
	if err := systems.RegisterDefaults(scheduler); err != nil {
		log.Fatalf("Failed to register systems: %v", err)
	}
	if err := cfg.ApplyScheduler(scheduler); err != nil {
		log.Fatalf("Failed to apply config: %v", err)
	}

	// 2. Populate the world
	const players = 4
	spawnPlayers(world, players)
	churner := NewChurner(world, *seed, *churnRate, *resetOnExhaust)
	churner.OnReset = func(w *ecs.World) { spawnPlayers(w, players) }
	log.Printf("Populating world with %d entities...\n", *entityCount)
	churner.Populate(*entityCount)
	log.Println("Population complete.")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		EntityCapacity: world.Capacity(),
		ChurnRate:      *churnRate,
		Systems:        int(ecs.SystemTypeCount),
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			churner.Step()
			scheduler.Tick(world, deltaTime.Seconds())
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	report.Churn = churner.Stats
	report.World = world.CollectStats()
	report.Scheduler = scheduler.GetStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}

// spawnPlayers adds n players spread on a ring for the AI to react to.
func spawnPlayers(w *ecs.World, n int) {
	for i := range n {
		id, err := w.CreateWith(ecs.KindTransform, ecs.KindPlayer, ecs.KindCollision)
		if err != nil {
			log.Printf("Failed to spawn player %d: %v", i, err)
			return
		}
		angle := float32(i) / float32(n) * 2 * math.Pi
		w.Transform(id).Position = mgl32.Rotate2D(angle).Mul2x1(mgl32.Vec2{100, 0}).Vec3(0)
		w.Player(id).Slot = i
	}
}
