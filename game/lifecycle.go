package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/rockets/genetics"
	"github.com/pthm-cable/rockets/sim"
	"github.com/pthm-cable/rockets/telemetry"
)

// loadSeedChromosomes reads the generation 0 source named by opts. It
// returns nil when generation 0 should be random. A snapshot is taken
// as-is; a hall of fame is sampled up to count rockets.
func loadSeedChromosomes(opts Options, count int, rng *rand.Rand) ([]*genetics.Chromosome, error) {
	switch {
	case opts.SnapshotPath != "" && opts.SeedHallPath != "":
		return nil, errors.New("snapshot and hall of fame seeding are mutually exclusive")
	case opts.SnapshotPath != "":
		snapshot, err := telemetry.LoadSnapshot(opts.SnapshotPath)
		if err != nil {
			return nil, err
		}
		slog.Info("seeding from snapshot",
			"path", opts.SnapshotPath,
			"run_id", snapshot.RunID,
			"generation", snapshot.Generation,
			"rockets", len(snapshot.Rockets),
		)
		return snapshot.Chromosomes()
	case opts.SeedHallPath != "":
		hall, err := telemetry.LoadHallOfFameFromFile(opts.SeedHallPath)
		if err != nil {
			return nil, err
		}
		if hall.Size() == 0 {
			return nil, fmt.Errorf("hall of fame %s is empty", opts.SeedHallPath)
		}
		slog.Info("seeding from hall of fame",
			"path", opts.SeedHallPath,
			"entries", hall.Size(),
			"top_fitness", hall.TopFitness(),
		)
		return sampleHall(hall, count, rng), nil
	}
	return nil, nil
}

// sampleHall draws n chromosomes from the hall by tournament.
func sampleHall(hall *telemetry.HallOfFame, n int, rng *rand.Rand) []*genetics.Chromosome {
	out := make([]*genetics.Chromosome, n)
	for i := range out {
		out[i] = hall.Sample(rng)
	}
	return out
}

// resetPopulation replaces the population with a fresh generation 0 and
// forgets per-run telemetry state that refers to the old one.
func (g *Game) resetPopulation() error {
	params := Params(g.cfg)

	var (
		pop *sim.Population
		err error
	)
	if len(g.seedGenes) > 0 {
		seed := make([]*genetics.Chromosome, len(g.seedGenes))
		for i, c := range g.seedGenes {
			seed[i] = c.Clone()
		}
		pop, err = sim.NewPopulationFrom(params, g.rng, seed)
	} else {
		pop, err = sim.NewPopulation(params, g.rng)
	}
	if err != nil {
		return fmt.Errorf("creating population: %w", err)
	}

	pop.OnGeneration(g.onGeneration)
	g.population = pop
	g.hasStats = false
	if g.trails != nil {
		g.trails.Clear()
	}
	if g.chart != nil {
		g.chart.Reset()
	}
	return nil
}

// Reset restarts evolution from generation 0. The hall of fame, archive
// and tick counter carry over.
func (g *Game) Reset() error {
	slog.Info("population reset", "generation", g.population.Generation(), "tick", g.Tick())
	g.bookmarks = telemetry.NewBookmarkDetector(g.cfg.Telemetry.BookmarkHistorySize, bookmarkThresholds(g.cfg))
	return g.resetPopulation()
}

// saveSnapshot writes the genomes of the live generation to the snapshot
// directory.
func (g *Game) saveSnapshot(bm *telemetry.Bookmark) {
	ids, chromosomes := g.population.Chromosomes()
	snapshot := &telemetry.Snapshot{
		Version:    telemetry.SnapshotVersion,
		RunID:      g.runID,
		RNGSeed:    g.opts.Seed,
		StartX:     g.cfg.World.StartX,
		StartY:     g.cfg.World.StartY,
		TargetX:    g.cfg.World.TargetX,
		TargetY:    g.cfg.World.TargetY,
		Generation: g.population.Generation(),
		Tick:       g.Tick(),
		Rockets:    telemetry.NewRocketStates(ids, chromosomes),
		Bookmark:   bm,
	}

	path, err := telemetry.SaveSnapshot(snapshot, g.opts.SnapshotDir)
	if err != nil {
		slog.Warn("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "generation", snapshot.Generation)
}
