package ui

import (
	"fmt"
	"sort"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rockets/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Generation    int
	TickIndex     int
	Lifetime      int
	Rockets       int
	BestFitness   float64
	RecordFitness float64
	BestDistance  float64
	Speed         int
	FPS           int32
	Paused        bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Generation: %d | Tick: %d/%d | Rockets: %d", data.Generation, data.TickIndex, data.Lifetime, data.Rockets),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Best: %.4f | Record: %.4f | Distance: %.1f", data.BestFitness, data.RecordFitness, data.BestDistance),
		10, 55, 16, rl.LightGray,
	)

	rl.DrawText(fmt.Sprintf("Speed: %dx | FPS: %d", data.Speed, data.FPS), 10, 75, 16, rl.LightGray)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 95, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the tick timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	phases := make([]telemetry.PhaseTiming, len(stats.Phases))
	copy(phases, stats.Phases)
	sort.Slice(phases, func(i, j int) bool {
		return phases[i].Avg > phases[j].Avg
	})

	height := int32(56 + 14*len(phases))
	p.renderer.DrawPanel(x-6, y-6, 250, height)

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(
		fmt.Sprintf("Avg: %s | %.0f ticks/s", stats.AvgTick.Round(time.Microsecond), stats.TicksPerSecond),
		x, y, 14, rl.Yellow,
	)
	y += 16

	for _, pt := range phases {
		color := rl.LightGray
		if pt.Pct > 50 {
			color = rl.Red
		} else if pt.Pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", pt.Phase, pt.Avg.Round(time.Microsecond), pt.Pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// FitnessChart plots best and record fitness over recent generations.
type FitnessChart struct {
	renderer *Renderer
	capacity int
	best     []float64
	record   []float64
}

// NewFitnessChart creates a chart that remembers the last capacity generations.
func NewFitnessChart(capacity int) *FitnessChart {
	if capacity < 2 {
		capacity = 2
	}
	return &FitnessChart{
		renderer: NewRenderer(),
		capacity: capacity,
	}
}

// Add appends one generation's stats.
func (c *FitnessChart) Add(stats telemetry.GenerationStats) {
	c.best = appendBounded(c.best, stats.BestFitness, c.capacity)
	c.record = appendBounded(c.record, stats.RecordFitness, c.capacity)
}

// Reset forgets all plotted generations.
func (c *FitnessChart) Reset() {
	c.best = c.best[:0]
	c.record = c.record[:0]
}

// Len returns the number of plotted generations.
func (c *FitnessChart) Len() int { return len(c.best) }

// Draw renders the chart panel.
func (c *FitnessChart) Draw(x, y, width, height int32) {
	r := c.renderer
	r.DrawPanel(x, y, width, height)
	rl.DrawText("Best Fitness", x+r.Theme.Padding, y+6, r.Theme.HeaderFontSize, r.Theme.SectionHeader)

	hi := 0.0
	for _, v := range c.record {
		if v > hi {
			hi = v
		}
	}

	plotX := x + r.Theme.Padding
	plotY := y + 26
	plotW := width - 2*r.Theme.Padding
	plotH := height - 36
	r.DrawSparkline(plotX, plotY, plotW, plotH, c.record, hi, r.Theme.ChartRecord)
	r.DrawSparkline(plotX, plotY, plotW, plotH, c.best, hi, r.Theme.ChartLine)

	if n := len(c.best); n > 0 {
		label := fmt.Sprintf("%.4f", c.best[n-1])
		w := rl.MeasureText(label, r.Theme.FontSize)
		rl.DrawText(label, x+width-r.Theme.Padding-w, y+6, r.Theme.FontSize, r.Theme.ValueColor)
	}
}

// appendBounded appends v and drops the oldest values beyond capacity.
func appendBounded(values []float64, v float64, capacity int) []float64 {
	values = append(values, v)
	if over := len(values) - capacity; over > 0 {
		values = append(values[:0], values[over:]...)
	}
	return values
}
