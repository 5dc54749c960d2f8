package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseStep)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseTrails)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTick <= 0 {
		t.Error("expected positive average tick duration")
	}
	if len(stats.Phases) != 2 || stats.Phases[0].Phase != PhaseStep || stats.Phases[1].Phase != PhaseTrails {
		t.Fatalf("phases = %+v, want step then trails", stats.Phases)
	}
	if stats.Pct(PhaseStore) != 0 {
		t.Error("store phase was never started and should not be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(3)

	// Slow ticks fall out of the window once three fast ones follow
	for i := 0; i < 3; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseStep)
		time.Sleep(5 * time.Millisecond)
		pc.EndTick()
	}
	slow := pc.Stats().AvgTick

	for i := 0; i < 3; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseTrails)
		pc.EndTick()
	}
	stats := pc.Stats()

	if stats.AvgTick >= slow {
		t.Errorf("avg tick %v after eviction, want below %v", stats.AvgTick, slow)
	}
	if got := stats.Pct(PhaseStep); got != 0 {
		t.Errorf("step pct = %v after its ticks were evicted, want 0", got)
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseTelemetry)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseStore)
		time.Sleep(2 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	fastPct := stats.Pct(PhaseTelemetry)
	slowPct := stats.Pct(PhaseStore)
	if slowPct <= fastPct {
		t.Errorf("expected store phase (%v%%) > telemetry phase (%v%%)", slowPct, fastPct)
	}
	if total := fastPct + slowPct; total > 100.0001 {
		t.Errorf("phase shares sum to %v%%, want at most 100", total)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgTick != 0 || stats.TicksPerSecond != 0 {
		t.Error("expected zero timings for empty collector")
	}
	if len(stats.Phases) != 0 {
		t.Errorf("phases = %+v, want none", stats.Phases)
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("FPS = %v, want in (0, 70] for a 16ms frame", stats.FPS)
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseStep, "step"},
		{PhaseStore, "store"},
		{Phase(-1), "unknown"},
		{numPhases, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTick:        1500 * time.Microsecond,
		TicksPerSecond: 666,
		Phases: []PhaseTiming{
			{Phase: PhaseStep, Pct: 80},
			{Phase: PhaseTrails, Pct: 15},
		},
	}

	row := stats.ToCSV(7, 2100)

	if row.Generation != 7 || row.Tick != 2100 {
		t.Errorf("row generation/tick = %d/%d, want 7/2100", row.Generation, row.Tick)
	}
	if row.AvgTickUS != 1500 {
		t.Errorf("row avg tick = %d, want 1500", row.AvgTickUS)
	}
	if row.StepPct != 80 || row.TrailsPct != 15 || row.StorePct != 0 {
		t.Errorf("row phases = step %v trails %v store %v", row.StepPct, row.TrailsPct, row.StorePct)
	}
}
