package telemetry

import (
	"log/slog"
	"math"
	"time"
)

// Phase is a timed section of a simulation tick.
type Phase int

const (
	PhaseStep Phase = iota
	PhaseTrails
	PhaseTelemetry
	PhaseStore
	numPhases
)

var phaseNames = [numPhases]string{"step", "trails", "telemetry", "store"}

func (ph Phase) String() string {
	if ph < 0 || ph >= numPhases {
		return "unknown"
	}
	return phaseNames[ph]
}

// tickTiming is the wall time of one tick split by phase.
type tickTiming struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

func (t *tickTiming) add(o tickTiming, sign time.Duration) {
	t.total += sign * o.total
	for i := range t.phases {
		t.phases[i] += sign * o.phases[i]
	}
}

// PerfCollector times the most recent ticks. The window keeps a running
// sum so Stats does not rescan it.
type PerfCollector struct {
	window []tickTiming
	next   int
	count  int
	sum    tickTiming

	current    tickTiming
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{window: make([]tickTiming, windowSize)}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = tickTiming{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing ph.
func (p *PerfCollector) StartPhase(ph Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase = ph
	p.phaseStart = now
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.phase >= 0 && p.phase < numPhases {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// EndTick finishes the current tick and pushes it into the window,
// evicting the oldest tick once the window is full.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.current.total = now.Sub(p.tickStart)

	if p.count == len(p.window) {
		p.sum.add(p.window[p.next], -1)
	} else {
		p.count++
	}
	p.window[p.next] = p.current
	p.sum.add(p.current, 1)
	p.next = (p.next + 1) % len(p.window)
}

// RecordFrame marks the end of a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PhaseTiming is the windowed average of one phase.
type PhaseTiming struct {
	Phase Phase
	Avg   time.Duration
	Pct   float64 // share of the average tick
}

// PerfStats summarizes the current window.
type PerfStats struct {
	AvgTick        time.Duration
	TicksPerSecond float64

	// Phases that took any time, in Phase order.
	Phases []PhaseTiming

	FrameDuration time.Duration
	FPS           float64
}

// Stats averages the ticks in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{FrameDuration: p.frame}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	n := time.Duration(p.count)
	s.AvgTick = p.sum.total / n
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		total := p.sum.phases[ph]
		if total <= 0 {
			continue
		}
		pt := PhaseTiming{Phase: ph, Avg: total / n}
		if p.sum.total > 0 {
			pt.Pct = float64(total) / float64(p.sum.total) * 100
		}
		s.Phases = append(s.Phases, pt)
	}
	return s
}

// Pct returns the share of tick time spent in ph, or 0 if it was not timed.
func (s PerfStats) Pct(ph Phase) float64 {
	for _, pt := range s.Phases {
		if pt.Phase == ph {
			return pt.Pct
		}
	}
	return 0
}

// LogStats logs the window summary.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTick.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, pt := range s.Phases {
		attrs = append(attrs, pt.Phase.String()+"_pct", math.Round(pt.Pct*10)/10)
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	Generation   int     `csv:"generation"`
	Tick         int64   `csv:"tick"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	StepPct      float64 `csv:"step_pct"`
	TrailsPct    float64 `csv:"trails_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
	StorePct     float64 `csv:"store_pct"`
}

// ToCSV flattens the stats into a perf.csv row.
func (s PerfStats) ToCSV(generation int, tick int64) PerfStatsCSV {
	return PerfStatsCSV{
		Generation:   generation,
		Tick:         tick,
		AvgTickUS:    s.AvgTick.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		StepPct:      s.Pct(PhaseStep),
		TrailsPct:    s.Pct(PhaseTrails),
		TelemetryPct: s.Pct(PhaseTelemetry),
		StorePct:     s.Pct(PhaseStore),
	}
}
