package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/rockets/config"
	"github.com/pthm-cable/rockets/game"
	"github.com/pthm-cable/rockets/telemetry"
)

// FitnessEvaluator runs headless simulations and scores parameter vectors.
type FitnessEvaluator struct {
	params      *ParamVector
	generations int
	seeds       []int64
	baseConfig  *config.Config

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastReached    float64 // fraction of seeds that reached the target in the latest Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, generations int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		generations: generations,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastReached returns the fraction of seeds that reached the target in the
// most recent evaluation.
func (fe *FitnessEvaluator) LastReached() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastReached
}

// runResult holds the results from a single simulation run.
type runResult struct {
	stats      []telemetry.GenerationStats
	hallOfFame *telemetry.HallOfFame
	err        error
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	// Run all seeds in parallel
	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, reached float64
	bestSeedFitness := math.Inf(1)
	var bestSeedHallOfFame *telemetry.HallOfFame

	for _, r := range results {
		if r.err != nil {
			slog.Warn("evaluation run failed", "error", r.err)
			totalFitness += failedRunFitness
			continue
		}
		f := computeFitness(r.stats, cfg.World.TargetRadius)
		totalFitness += f
		if reachedAt(r.stats, cfg.World.TargetRadius) >= 0 {
			reached++
		}
		if f < bestSeedFitness {
			bestSeedFitness = f
			bestSeedHallOfFame = r.hallOfFame
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestHallOfFame = bestSeedHallOfFame
	}
	fe.lastReached = reached / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless run for the configured number of
// generations.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) *runResult {
	result := &runResult{}

	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: cfg.Population.Lifetime,
		Config:         cfg,
		StatsCallback: func(stats telemetry.GenerationStats) {
			result.stats = append(result.stats, stats)
		},
	})
	if err != nil {
		result.err = err
		return result
	}
	defer g.Unload()

	for g.Generation() < fe.generations {
		if err := g.UpdateHeadless(); err != nil {
			result.err = err
			return result
		}
	}
	result.hallOfFame = g.Hall()
	return result
}

// failedRunFitness scores a run that hit a simulation error.
const failedRunFitness = 1e9

// tailFraction is the share of final generations averaged by computeFitness.
const tailFraction = 0.25

// computeFitness scores one run (lower = better): the mean best distance
// over the final generations, scaled down by up to half when the target was
// reached early.
func computeFitness(stats []telemetry.GenerationStats, targetRadius float64) float64 {
	if len(stats) == 0 {
		return failedRunFitness
	}

	n := int(math.Ceil(float64(len(stats)) * tailFraction))
	tail := make([]float64, 0, n)
	for _, s := range stats[len(stats)-n:] {
		tail = append(tail, s.BestDistance)
	}
	distance := stat.Mean(tail, nil)

	if at := reachedAt(stats, targetRadius); at >= 0 {
		distance *= 0.5 + 0.5*float64(at)/float64(len(stats))
	}
	return distance
}

// reachedAt returns the index of the first generation whose best rocket
// ended within the target radius, or -1.
func reachedAt(stats []telemetry.GenerationStats, targetRadius float64) int {
	for i, s := range stats {
		if s.Rockets > s.Undefined && s.BestDistance <= targetRadius {
			return i
		}
	}
	return -1
}
