// Package telemetry tracks per-generation statistics and writes run output.
package telemetry

import (
	"github.com/pthm-cable/rockets/sim"
	"gonum.org/v1/gonum/stat"
)

// Collector counts ticks between generations and turns each
// GenerationResult into GenerationStats.
type Collector struct {
	tick int64

	record    float64
	hasRecord bool
}

// NewCollector creates a new stats collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordTick records one simulation tick.
func (c *Collector) RecordTick() {
	c.tick++
}

// Tick returns the number of ticks recorded so far.
func (c *Collector) Tick() int64 {
	return c.tick
}

// Record returns the best fitness seen so far and whether any generation
// has been flushed.
func (c *Collector) Record() (float64, bool) {
	return c.record, c.hasRecord
}

// Flush produces the stats for a finished generation.
func (c *Collector) Flush(result sim.GenerationResult) GenerationStats {
	best, worst, mean, std, p10, p50, p90, undefined := ComputeFitnessStats(result.Fitness)

	if !c.hasRecord || best > c.record {
		c.record = best
		c.hasRecord = true
	}

	var meanDist float64
	if dist := DefinedValues(result.Distance); len(dist) > 0 {
		meanDist = stat.Mean(dist, nil)
	}

	return GenerationStats{
		Generation: result.Generation,
		Tick:       c.tick,
		Rockets:    len(result.Fitness),
		Undefined:  undefined,

		BestFitness:  best,
		WorstFitness: worst,
		MeanFitness:  mean,
		StdFitness:   std,
		FitnessP10:   p10,
		FitnessP50:   p50,
		FitnessP90:   p90,

		BestDistance: result.BestDistance,
		MeanDistance: meanDist,

		PoolSize: result.PoolSize,

		RecordFitness: c.record,
	}
}
