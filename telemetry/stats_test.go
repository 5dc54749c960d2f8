package telemetry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/rockets/genetics"
	"github.com/pthm-cable/rockets/sim"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 2.5},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.0},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.0},
		{"p25 interpolates", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.25, 2.5},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.0},
		{"below range clamps", []float64{1, 2, 3}, -0.5, 1.0},
		{"above range clamps", []float64{1, 2, 3}, 1.5, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeFitnessStats(t *testing.T) {
	values := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
	best, worst, mean, std, p10, p50, p90, undefined := ComputeFitnessStats(values)

	if best != 1.0 || worst != 0.1 {
		t.Errorf("best/worst = %v/%v, want 1.0/0.1", best, worst)
	}
	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}
	// Population std of 0.1..1.0
	if math.Abs(std-0.2872) > 0.001 {
		t.Errorf("std = %v, want ~0.2872", std)
	}
	if math.Abs(p10-0.1) > 0.01 || math.Abs(p50-0.5) > 0.01 || math.Abs(p90-0.9) > 0.01 {
		t.Errorf("percentiles = %v/%v/%v, want ~0.1/0.5/0.9", p10, p50, p90)
	}
	if undefined != 0 {
		t.Errorf("undefined = %d, want 0", undefined)
	}
}

func TestComputeFitnessStatsSkipsUndefined(t *testing.T) {
	values := []float64{math.NaN(), 0.2, math.Inf(1), 0.4}
	best, worst, mean, _, _, _, _, undefined := ComputeFitnessStats(values)

	if undefined != 2 {
		t.Errorf("undefined = %d, want 2", undefined)
	}
	if best != 0.4 || worst != 0.2 || math.Abs(mean-0.3) > 1e-12 {
		t.Errorf("best/worst/mean = %v/%v/%v, want 0.4/0.2/0.3", best, worst, mean)
	}
	// Input order is untouched
	if !math.IsNaN(values[0]) || values[1] != 0.2 {
		t.Errorf("input modified: %v", values)
	}
}

func TestComputeFitnessStatsEmpty(t *testing.T) {
	best, worst, mean, std, p10, p50, p90, undefined := ComputeFitnessStats(nil)
	if best != 0 || worst != 0 || mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 || undefined != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	if cv := (GenerationStats{MeanFitness: 2, StdFitness: 0.5}).CoefficientOfVariation(); cv != 0.25 {
		t.Errorf("cv = %v, want 0.25", cv)
	}
	if cv := (GenerationStats{}).CoefficientOfVariation(); !math.IsInf(cv, 1) {
		t.Errorf("cv with zero mean = %v, want +Inf", cv)
	}
}

func testResult(generation int, fitness, distance []float64) sim.GenerationResult {
	best := 0
	for i, f := range fitness {
		if f > fitness[best] {
			best = i
		}
	}
	c, _ := genetics.FromGenes([]float64{float64(generation) / 100})
	return sim.GenerationResult{
		Generation:   generation,
		Fitness:      fitness,
		Distance:     distance,
		BestIndex:    best,
		BestID:       uint32(100*generation + best),
		Best:         c,
		BestPosition: r2.Vec{},
		BestDistance: distance[best],
		PoolSize:     42,
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector()
	for i := 0; i < 300; i++ {
		c.RecordTick()
	}

	stats := c.Flush(testResult(0, []float64{0.01, 0.02, 0.04}, []float64{100, 50, 25}))

	if stats.Generation != 0 || stats.Tick != 300 || stats.Rockets != 3 {
		t.Errorf("generation/tick/rockets = %d/%d/%d, want 0/300/3", stats.Generation, stats.Tick, stats.Rockets)
	}
	if stats.BestFitness != 0.04 || stats.BestDistance != 25 {
		t.Errorf("best = %v at %v, want 0.04 at 25", stats.BestFitness, stats.BestDistance)
	}
	if math.Abs(stats.MeanDistance-175.0/3) > 1e-9 {
		t.Errorf("mean distance = %v, want %v", stats.MeanDistance, 175.0/3)
	}
	if stats.PoolSize != 42 {
		t.Errorf("pool size = %d, want 42", stats.PoolSize)
	}
	if stats.RecordFitness != 0.04 {
		t.Errorf("record = %v, want 0.04", stats.RecordFitness)
	}

	// A worse generation keeps the record
	stats = c.Flush(testResult(1, []float64{0.01, 0.03}, []float64{100, 33}))
	if stats.RecordFitness != 0.04 {
		t.Errorf("record after worse generation = %v, want 0.04", stats.RecordFitness)
	}
	if record, ok := c.Record(); !ok || record != 0.04 {
		t.Errorf("Record() = %v, %v, want 0.04, true", record, ok)
	}
}
