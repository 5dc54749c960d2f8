package game

import (
	"github.com/pthm-cable/rockets/telemetry"
)

// UpdateHeadless advances the simulation by StepsPerUpdate ticks without
// touching the window.
func (g *Game) UpdateHeadless() error {
	for i := 0; i < g.stepsPerUpdate; i++ {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

// step runs a single tick: every rocket moves once, and at the end of a
// lifetime the generation is replaced and reported through onGeneration.
func (g *Game) step() error {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseStep)
	g.collector.RecordTick()
	if err := g.population.Update(); err != nil {
		return err
	}

	if g.trails != nil {
		g.perf.StartPhase(telemetry.PhaseTrails)
		g.trails.Update()
		g.trails.Emit(g.population.Rockets(), g.population.TickIndex(), g.population.Generation())
	}

	g.perf.EndTick()
	return nil
}

// Paused reports whether stepping is suspended.
func (g *Game) Paused() bool {
	return g.paused
}

// SetPaused suspends or resumes stepping in the windowed loop.
func (g *Game) SetPaused(paused bool) {
	g.paused = paused
}

// StepsPerUpdate returns the ticks simulated per Update call.
func (g *Game) StepsPerUpdate() int {
	return g.stepsPerUpdate
}

// LastStats returns the stats of the most recently finished generation.
func (g *Game) LastStats() (telemetry.GenerationStats, bool) {
	return g.lastStats, g.hasStats
}
