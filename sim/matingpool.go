package sim

import (
	"errors"
	"math"
)

// Selection constants.
const (
	// NormalizationEpsilon keeps normalization defined when all fitnesses are equal.
	// It also keeps the normalized maximum strictly below 1.
	NormalizationEpsilon = 0.001
	// PoolScale is the number of extra pool entries a normalized fitness of 1 would earn.
	PoolScale = 100
)

// ErrNoFitness is returned when no rocket in a generation has a defined fitness.
var ErrNoFitness = errors.New("no rocket has a defined fitness")

// FitnessRange returns the minimum and maximum over the defined values in fitness.
// ok is false if there are none.
func FitnessRange(fitness []float64) (lo, hi float64, ok bool) {
	for _, f := range fitness {
		if !definedFitness(f) {
			continue
		}
		if !ok {
			lo, hi, ok = f, f, true
			continue
		}
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	return lo, hi, ok
}

// NormalizeFitness maps f into [0,1) relative to the generation's range.
func NormalizeFitness(f, lo, hi float64) float64 {
	return (f - lo) / (hi - lo + NormalizationEpsilon)
}

// PoolWeight returns how many mating pool entries a normalized fitness earns.
// Every rocket gets at least one entry.
func PoolWeight(norm float64) int {
	return 1 + int(math.Floor(norm*PoolScale))
}

// MatingPoolWeights computes the pool entry count for every rocket.
// Rockets with an undefined fitness get the minimum weight of one.
func MatingPoolWeights(fitness []float64) ([]int, error) {
	lo, hi, ok := FitnessRange(fitness)
	if !ok {
		return nil, ErrNoFitness
	}

	weights := make([]int, len(fitness))
	for i, f := range fitness {
		if !definedFitness(f) {
			weights[i] = 1
			continue
		}
		weights[i] = PoolWeight(NormalizeFitness(f, lo, hi))
	}
	return weights, nil
}

// BuildMatingPool expands weights into a multiset of rocket indices.
// Index i appears weights[i] times, in index order.
func BuildMatingPool(weights []int) []int {
	total := 0
	for _, w := range weights {
		total += w
	}
	pool := make([]int, 0, total)
	for i, w := range weights {
		for j := 0; j < w; j++ {
			pool = append(pool, i)
		}
	}
	return pool
}
