package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mitosis/config"
	"github.com/pthm-cable/mitosis/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = simulation.seed from config, then time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	workers := flag.Int("workers", 0, "Worker goroutines (0 = parallel.workers from config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := game.Options{
		Seed:      *seed,
		OutputDir: *outputDir,
		LogStats:  *logStats,
		Workers:   *workers,
	}

	if *headless {
		runHeadless(cfg, opts, int32(*maxFrames))
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Mitosis")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGame(cfg, opts)
	defer func() {
		if err := g.Unload(); err != nil {
			slog.Error("failed to flush output", "error", err)
		}
	}()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxFrames > 0 && int(g.Frame()) >= *maxFrames {
			break
		}
	}
}

// runHeadless advances the simulation without a window until maxFrames (0 = forever).
func runHeadless(cfg *config.Config, opts game.Options, maxFrames int32) {
	sim := game.NewSimulation(cfg, opts)

	slog.Info("starting headless simulation",
		"seed", sim.RNGSeed(),
		"workers", sim.Workers(),
		"substeps", cfg.Simulation.Substeps,
		"max_population", cfg.Division.MaxPopulation,
		"max_frames", maxFrames,
	)

	for maxFrames <= 0 || sim.Frame() < maxFrames {
		sim.Advance()
	}

	slog.Info("max frames reached",
		"frame", sim.Frame(),
		"population", sim.Population(),
		"max_generation", sim.MaxGeneration(),
	)
	sim.Perf().LogStats()

	if err := sim.Close(); err != nil {
		slog.Error("failed to flush output", "error", err)
		os.Exit(1)
	}
}
