// Package game drives a rocket population frame by frame and wires it to
// telemetry, storage and the display layer.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/rockets/camera"
	"github.com/pthm-cable/rockets/config"
	"github.com/pthm-cable/rockets/genetics"
	"github.com/pthm-cable/rockets/renderer"
	"github.com/pthm-cable/rockets/sim"
	"github.com/pthm-cable/rockets/storage"
	"github.com/pthm-cable/rockets/systems"
	"github.com/pthm-cable/rockets/telemetry"
	"github.com/pthm-cable/rockets/ui"
)

// Game holds the complete driver state.
type Game struct {
	cfg  *config.Config
	opts Options

	rng        *rand.Rand
	population *sim.Population
	seedGenes  []*genetics.Chromosome // generation 0 source, reused on reset

	// Telemetry
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	bookmarks *telemetry.BookmarkDetector
	hall      *telemetry.HallOfFame
	output    *telemetry.OutputManager
	lastStats telemetry.GenerationStats
	hasStats  bool

	// Archive
	store storage.Store
	runID string

	// Display
	trails         *systems.TrailSystem
	camera         *camera.Camera
	background     *renderer.BackgroundRenderer
	rocketRenderer *renderer.RocketRenderer
	trailRenderer  *renderer.TrailRenderer
	hud            *ui.HUD
	perfPanel      *ui.PerfPanel
	chart          *ui.FitnessChart
	controls       *ui.ControlsPanel
	overlays       *ui.OverlayRegistry

	paused         bool
	stepsPerUpdate int
	screenWidth    float32
	screenHeight   float32
}

// NewGameWithOptions builds a game from opts.Config, or the global config
// when that is nil.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	return newGame(cfg, opts)
}

func newGame(cfg *config.Config, opts Options) (*Game, error) {
	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	g := &Game{
		cfg:            cfg,
		opts:           opts,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		collector:      telemetry.NewCollector(),
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarks:      telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, bookmarkThresholds(cfg)),
		hall:           telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize),
		runID:          storage.NewRunID(),
		stepsPerUpdate: opts.StepsPerUpdate,
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
	}

	seed, err := loadSeedChromosomes(opts, cfg.Population.RocketCount, g.rng)
	if err != nil {
		return nil, err
	}
	g.seedGenes = seed
	if err := g.resetPopulation(); err != nil {
		return nil, err
	}

	if g.output, err = telemetry.NewOutputManager(opts.OutputDir); err != nil {
		return nil, err
	}
	if err := g.output.WriteConfig(cfg); err != nil {
		g.output.Close()
		return nil, err
	}

	if err := g.openStore(); err != nil {
		g.output.Close()
		return nil, err
	}

	if cfg.Trails.Enabled && !opts.Headless {
		g.trails = systems.NewTrailSystem(cfg.Trails.MaxAge, cfg.Trails.EmitEvery)
	}
	if !opts.Headless {
		g.initDisplay()
	}

	slog.Info("run started",
		"run_id", g.runID,
		"seed", opts.Seed,
		"rockets", cfg.Population.RocketCount,
		"lifetime", cfg.Population.Lifetime,
		"seeded", len(g.seedGenes) > 0,
	)
	return g, nil
}

// Params builds population parameters from cfg.
func Params(cfg *config.Config) sim.Params {
	return sim.Params{
		RocketCount:       cfg.Population.RocketCount,
		Lifetime:          cfg.Population.Lifetime,
		Start:             r2.Vec{X: cfg.World.StartX, Y: cfg.World.StartY},
		Target:            r2.Vec{X: cfg.World.TargetX, Y: cfg.World.TargetY},
		RocketForce:       cfg.Rocket.Force,
		MutationChance:    cfg.Mutation.Chance,
		MutationForce:     cfg.Mutation.Force,
		ParallelThreshold: cfg.Parallel.Threshold,
	}
}

func bookmarkThresholds(cfg *config.Config) telemetry.BookmarkThresholds {
	return telemetry.BookmarkThresholds{
		BreakthroughMultiplier: cfg.Bookmarks.BreakthroughMultiplier,
		StagnationGenerations:  cfg.Bookmarks.StagnationGenerations,
		ConvergenceCV:          cfg.Bookmarks.ConvergenceCV,
		TargetRadius:           cfg.World.TargetRadius,
	}
}

// openStore creates and initializes the run archive, if one is configured.
func (g *Game) openStore() error {
	backend := g.opts.StoreBackend
	if backend == "" {
		backend = g.cfg.Storage.Backend
	}
	if backend == "" {
		return nil
	}
	path := g.opts.StorePath
	if path == "" {
		path = g.cfg.Storage.Path
	}

	store, err := storage.NewStore(backend, path)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("initializing %s store: %w", backend, err)
	}
	run := storage.Run{
		ID:             g.runID,
		Seed:           g.opts.Seed,
		StartedAt:      time.Now().UTC(),
		RocketCount:    g.cfg.Population.RocketCount,
		Lifetime:       g.cfg.Population.Lifetime,
		MutationChance: g.cfg.Mutation.Chance,
		MutationForce:  g.cfg.Mutation.Force,
	}
	if err := store.SaveRun(ctx, run); err != nil {
		storage.CloseIfSupported(store)
		return fmt.Errorf("saving run: %w", err)
	}
	g.store = store
	return nil
}

// initDisplay creates the camera, renderers and UI.
func (g *Game) initDisplay() {
	cfg := g.cfg
	g.camera = camera.New(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32, cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	g.background = renderer.NewBackgroundRenderer(cfg.Derived.WorldW32, cfg.Derived.WorldH32, 20, 20, 20)
	g.rocketRenderer = renderer.NewRocketRenderer(float32(cfg.Rocket.Width), float32(cfg.Rocket.Length))
	g.trailRenderer = renderer.NewTrailRenderer()
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(int32(cfg.Screen.Width)-250, 10)
	g.chart = ui.NewFitnessChart(200)
	g.controls = ui.NewControlsPanel(10, 120, 200)
	g.overlays = ui.NewOverlayRegistry()
	g.overlays.SetEnabled(ui.OverlayTrails, g.trails != nil)
}

// Unload releases all resources.
func (g *Game) Unload() {
	if err := g.output.WriteHallOfFame(g.hall); err != nil {
		slog.Warn("failed to write hall of fame", "error", err)
	}
	if err := g.output.Close(); err != nil {
		slog.Warn("failed to close output", "error", err)
	}
	if g.store != nil {
		if err := storage.CloseIfSupported(g.store); err != nil {
			slog.Warn("failed to close store", "error", err)
		}
	}
}

// Generation returns the number of the live generation.
func (g *Game) Generation() int {
	return g.population.Generation()
}

// Tick returns the total number of simulated ticks.
func (g *Game) Tick() int64 {
	return g.collector.Tick()
}

// RunID returns the run identifier used in the archive and snapshots.
func (g *Game) RunID() string {
	return g.runID
}

// Hall returns the run's hall of fame.
func (g *Game) Hall() *telemetry.HallOfFame {
	return g.hall
}

// Store returns the run archive, or nil when archiving is disabled.
func (g *Game) Store() storage.Store {
	return g.store
}
