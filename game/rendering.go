package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rockets/renderer"
	"github.com/pthm-cable/rockets/sim"
	"github.com/pthm-cable/rockets/ui"
)

const controlsLegend = "[Space] Pause  [</>] Speed  [R] Reset  [Tab] Controls  [T/L/C/F/P/H] Overlays  [Home] Camera"

// Update handles input and advances the simulation unless paused.
func (g *Game) Update() error {
	if err := g.handleInput(); err != nil {
		return err
	}
	if g.paused {
		return nil
	}
	if err := g.UpdateHeadless(); err != nil {
		return err
	}
	if g.overlays.IsEnabled(ui.OverlayFollowLeader) {
		if leader, ok := g.leader(); ok {
			g.camera.CenterOn(float32(leader.Position.X), float32(leader.Position.Y))
		}
	}
	return nil
}

// Draw renders the world, overlays and UI. The controls panel is drawn
// last so its clicks are returned for the next frame.
func (g *Game) Draw() error {
	g.perf.RecordFrame()

	rl.BeginDrawing()

	g.background.Draw(g.camera)

	if g.trails != nil && g.overlays.IsEnabled(ui.OverlayTrails) {
		g.trailRenderer.Draw(g.camera, g.trails)
	}

	renderer.DrawStart(g.camera, float32(g.cfg.World.StartX), float32(g.cfg.World.StartY))
	renderer.DrawTarget(g.camera, float32(g.cfg.World.TargetX), float32(g.cfg.World.TargetY), float32(g.cfg.World.TargetRadius))

	rockets := g.population.Rockets()
	g.rocketRenderer.Draw(g.camera, rockets)
	if g.overlays.IsEnabled(ui.OverlayHeadings) {
		g.rocketRenderer.DrawHeadings(g.camera, rockets)
	}
	if g.overlays.IsEnabled(ui.OverlayLeader) {
		if leader, ok := g.leader(); ok {
			g.rocketRenderer.DrawLeader(g.camera, leader)
		}
	}

	g.hud.Draw(g.hudData(len(rockets)))

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.perf.Stats())
	}
	if g.overlays.IsEnabled(ui.OverlayFitnessChart) {
		g.chart.Draw(int32(g.screenWidth)-310, 10, 300, 140)
	}

	actions := g.controls.Draw(g.overlays, g.paused, g.stepsPerUpdate)
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)

	rl.EndDrawing()

	return g.applyControls(actions)
}

func (g *Game) hudData(rockets int) ui.HUDData {
	data := ui.HUDData{
		Title:      "Smart Rockets",
		Generation: g.population.Generation(),
		TickIndex:  g.population.TickIndex(),
		Lifetime:   g.population.Lifetime(),
		Rockets:    rockets,
		Speed:      g.stepsPerUpdate,
		FPS:        rl.GetFPS(),
		Paused:     g.paused,
	}
	if stats, ok := g.LastStats(); ok {
		data.BestFitness = stats.BestFitness
		data.BestDistance = stats.BestDistance
	}
	if record, ok := g.collector.Record(); ok {
		data.RecordFitness = record
	}
	return data
}

// leader returns the live rocket currently closest to the target.
func (g *Game) leader() (sim.RocketView, bool) {
	return closestRocket(g.population.Rockets(), g.population.Field())
}

func closestRocket(rockets []sim.RocketView, field sim.FitnessField) (sim.RocketView, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i := range rockets {
		d := field.Distance(rockets[i].Position)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return sim.RocketView{}, false
	}
	return rockets[best], true
}
