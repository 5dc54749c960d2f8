package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats holds aggregated statistics for one finished generation.
type GenerationStats struct {
	Generation int   `csv:"generation"`
	Tick       int64 `csv:"tick"`
	Rockets    int   `csv:"rockets"`
	Undefined  int   `csv:"undefined"`

	// Fitness distribution over defined values
	BestFitness  float64 `csv:"best_fitness"`
	WorstFitness float64 `csv:"worst_fitness"`
	MeanFitness  float64 `csv:"mean_fitness"`
	StdFitness   float64 `csv:"std_fitness"`
	FitnessP10   float64 `csv:"fitness_p10"`
	FitnessP50   float64 `csv:"fitness_p50"`
	FitnessP90   float64 `csv:"fitness_p90"`

	// Distance from target
	BestDistance float64 `csv:"best_distance"`
	MeanDistance float64 `csv:"mean_distance"`

	// Selection
	PoolSize int `csv:"pool_size"`

	// Best since the run started
	RecordFitness float64 `csv:"record_fitness"`
}

// Percentile returns the p-th quantile of a sorted slice, interpolating
// the empirical distribution. p is clamped to [0, 1]. Returns 0 if the
// slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(math.Max(0, math.Min(p, 1)), stat.LinInterp, sorted, nil)
}

// DefinedValues returns the finite values of xs in a new slice.
func DefinedValues(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}

// ComputeFitnessStats calculates the distribution of defined fitness values.
// Undefined values are skipped; undefined is how many were.
func ComputeFitnessStats(values []float64) (best, worst, mean, std, p10, p50, p90 float64, undefined int) {
	defined := DefinedValues(values)
	undefined = len(values) - len(defined)
	if len(defined) == 0 {
		return 0, 0, 0, 0, 0, 0, 0, undefined
	}

	best = floats.Max(defined)
	worst = floats.Min(defined)
	mean, std = stat.PopMeanStdDev(defined, nil)

	sort.Float64s(defined)
	p10 = Percentile(defined, 0.10)
	p50 = Percentile(defined, 0.50)
	p90 = Percentile(defined, 0.90)

	return best, worst, mean, std, p10, p50, p90, undefined
}

// CoefficientOfVariation returns std/mean, or +Inf when mean is zero.
func (s GenerationStats) CoefficientOfVariation() float64 {
	if s.MeanFitness == 0 {
		return math.Inf(1)
	}
	return s.StdFitness / s.MeanFitness
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int64("tick", s.Tick),
		slog.Int("rockets", s.Rockets),
		slog.Int("undefined", s.Undefined),
		slog.Float64("best_fitness", s.BestFitness),
		slog.Float64("worst_fitness", s.WorstFitness),
		slog.Float64("mean_fitness", s.MeanFitness),
		slog.Float64("std_fitness", s.StdFitness),
		slog.Float64("fitness_p10", s.FitnessP10),
		slog.Float64("fitness_p50", s.FitnessP50),
		slog.Float64("fitness_p90", s.FitnessP90),
		slog.Float64("best_distance", s.BestDistance),
		slog.Float64("mean_distance", s.MeanDistance),
		slog.Int("pool_size", s.PoolSize),
		slog.Float64("record_fitness", s.RecordFitness),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("stats",
		"generation", s.Generation,
		"tick", s.Tick,
		"rockets", s.Rockets,
		"undefined", s.Undefined,
		"best_fitness", s.BestFitness,
		"mean_fitness", s.MeanFitness,
		"std_fitness", s.StdFitness,
		"fitness_p50", s.FitnessP50,
		"best_distance", s.BestDistance,
		"mean_distance", s.MeanDistance,
		"pool_size", s.PoolSize,
		"record_fitness", s.RecordFitness,
	)
}
