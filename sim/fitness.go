package sim

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// MinDistance is the floor applied to target distance before inversion.
// A rocket sitting exactly on the target scores 1/MinDistance.
const MinDistance = 1e-9

// FitnessField scores positions by their distance to a fixed target.
// It holds no mutable state.
type FitnessField struct {
	target r2.Vec
}

// NewFitnessField creates a field centred on target.
func NewFitnessField(target r2.Vec) FitnessField {
	return FitnessField{target: target}
}

// Target returns the target position.
func (f FitnessField) Target() r2.Vec {
	return f.target
}

// Distance returns the Euclidean distance from p to the target.
func (f FitnessField) Distance(p r2.Vec) float64 {
	return r2.Norm(r2.Sub(p, f.target))
}

// Fitness returns 1/distance, with the distance clamped to MinDistance.
func (f FitnessField) Fitness(p r2.Vec) float64 {
	return 1 / math.Max(f.Distance(p), MinDistance)
}

// definedFitness reports whether v can take part in normalization.
func definedFitness(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
