package game

import (
	"context"
	"log/slog"

	"github.com/pthm-cable/rockets/sim"
	"github.com/pthm-cable/rockets/storage"
	"github.com/pthm-cable/rockets/telemetry"
)

// onGeneration records a finished generation: stats, CSV output,
// bookmarks and snapshots, the hall of fame and the archive. Failures are
// logged and never stop the simulation.
func (g *Game) onGeneration(result sim.GenerationResult) {
	g.perf.StartPhase(telemetry.PhaseTelemetry)

	stats := g.collector.Flush(result)
	g.lastStats = stats
	g.hasStats = true
	perfStats := g.perf.Stats()

	if g.chart != nil {
		g.chart.Add(stats)
	}
	if g.opts.StatsCallback != nil {
		g.opts.StatsCallback(stats)
	}

	every := g.cfg.Telemetry.StatsEvery
	if g.opts.LogStats && (every <= 1 || stats.Generation%every == 0) {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.output.WriteGeneration(stats); err != nil {
		slog.Warn("failed to write generation", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.Generation, stats.Tick); err != nil {
		slog.Warn("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarks.Check(stats) {
		if g.opts.LogStats {
			bm.LogBookmark()
		}
		if err := g.output.WriteBookmark(bm); err != nil {
			slog.Warn("failed to write bookmark", "error", err)
		}
		if g.opts.SnapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}

	hallChanged := g.hall.Consider(result)

	if g.store == nil {
		return
	}
	g.perf.StartPhase(telemetry.PhaseStore)
	ctx := context.Background()
	record := storage.GenerationRecord{
		RunID:        g.runID,
		Generation:   stats.Generation,
		BestFitness:  stats.BestFitness,
		MeanFitness:  stats.MeanFitness,
		BestDistance: stats.BestDistance,
		Undefined:    stats.Undefined,
		PoolSize:     stats.PoolSize,
	}
	if err := g.store.SaveGeneration(ctx, record); err != nil {
		slog.Warn("failed to archive generation", "generation", stats.Generation, "error", err)
	}
	if hallChanged {
		if err := g.store.SaveHallOfFame(ctx, g.runID, hallRecords(g.hall)); err != nil {
			slog.Warn("failed to archive hall of fame", "error", err)
		}
	}
}

// hallRecords converts the hall of fame to archive records, best first.
func hallRecords(hall *telemetry.HallOfFame) []storage.HallRecord {
	entries := hall.Entries()
	records := make([]storage.HallRecord, len(entries))
	for i, e := range entries {
		records[i] = storage.HallRecord{
			Rank:       i,
			Generation: e.Generation,
			RocketID:   e.RocketID,
			Fitness:    e.Fitness,
			Distance:   e.Distance,
			Genes:      e.Chromosome.Genes(),
		}
	}
	return records
}
