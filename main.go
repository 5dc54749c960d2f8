package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rockets/config"
	"github.com/pthm-cable/rockets/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output per-generation stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and hall of fame")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshots written on bookmarks")
	snapshotPath := flag.String("snapshot", "", "Seed generation 0 from a snapshot file")
	seedHall := flag.String("seed-hall", "", "Seed generation 0 from a hall_of_fame.json file")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxGenerations := flag.Int("max-generations", 0, "Stop after N generations (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster runs)")
	storeBackend := flag.String("store", "", "Run archive backend: memory or sqlite (empty = use config)")
	dbPath := flag.String("db-path", "", "SQLite database path (empty = use config)")

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
		Seed:           *seed,
		LogStats:       *logStats,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
		StoreBackend:   *storeBackend,
		StorePath:      *dbPath,
		SnapshotPath:   *snapshotPath,
		SeedHallPath:   *seedHall,
	}

	if *headless {
		os.Exit(runHeadless(opts, *maxGenerations))
	}

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Smart Rockets")
	rl.SetWindowState(rl.FlagWindowResizable)
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	code := runWindowed(opts, *maxGenerations)
	rl.CloseWindow()
	os.Exit(code)
}

// runHeadless steps the simulation without raylib and returns the exit code.
func runHeadless(opts game.Options, maxGenerations int) int {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return 1
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"max_generations", maxGenerations,
		"steps_per_update", opts.StepsPerUpdate,
	)

	for {
		if err := g.UpdateHeadless(); err != nil {
			slog.Error("simulation failed", "generation", g.Generation(), "tick", g.Tick(), "error", err)
			return 1
		}
		if maxGenerations > 0 && g.Generation() >= maxGenerations {
			slog.Info("max generations reached", "generation", g.Generation(), "tick", g.Tick())
			return 0
		}
	}
}

// runWindowed runs the graphical loop until the window closes.
func runWindowed(opts game.Options, maxGenerations int) int {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return 1
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		if err := g.Update(); err != nil {
			slog.Error("simulation failed", "generation", g.Generation(), "tick", g.Tick(), "error", err)
			return 1
		}
		if err := g.Draw(); err != nil {
			slog.Error("simulation failed", "generation", g.Generation(), "tick", g.Tick(), "error", err)
			return 1
		}
		if maxGenerations > 0 && g.Generation() >= maxGenerations {
			break
		}
	}
	return 0
}
