package sim

import (
	"errors"
	"math"
	"testing"
)

func TestMatingPoolWeights(t *testing.T) {
	tests := []struct {
		name    string
		fitness []float64
		want    []int
	}{
		{"all equal", []float64{0.2, 0.2, 0.2, 0.2}, []int{1, 1, 1, 1}},
		{"single rocket", []float64{0.5}, []int{1}},
		{"unit spread", []float64{0, 1}, []int{1, 100}},
		{"midpoint", []float64{0, 0.5, 1}, []int{1, 50, 100}},
		{"tiny spread", []float64{0.0100, 0.0101}, []int{1, 10}},
		{"undefined gets floor", []float64{0, math.NaN(), 1}, []int{1, 1, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatingPoolWeights(tt.fitness)
			if err != nil {
				t.Fatalf("MatingPoolWeights failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d weights, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("weight[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMatingPoolWeightBounds(t *testing.T) {
	fitness := []float64{1e-4, 3e-3, 0.02, 5, 1e6}
	weights, err := MatingPoolWeights(fitness)
	if err != nil {
		t.Fatal(err)
	}
	for i, w := range weights {
		if w < 1 || w > PoolScale+1 {
			t.Errorf("weight[%d] = %d, want in [1, %d]", i, w, PoolScale+1)
		}
	}
	if weights[0] != 1 {
		t.Errorf("minimum fitness weight = %d, want 1", weights[0])
	}
	if weights[len(weights)-1] != PoolScale {
		t.Errorf("maximum fitness weight = %d, want %d", weights[len(weights)-1], PoolScale)
	}
}

func TestNormalizeFitnessBelowOne(t *testing.T) {
	for _, spread := range []float64{0, 1e-6, 1, 1e9} {
		norm := NormalizeFitness(spread, 0, spread)
		if norm < 0 || norm >= 1 {
			t.Errorf("spread %v: normalized maximum = %v, want in [0,1)", spread, norm)
		}
	}
	if got := NormalizeFitness(3, 3, 3); got != 0 {
		t.Errorf("degenerate spread normalized = %v, want 0", got)
	}
}

func TestPoolWeight(t *testing.T) {
	tests := []struct {
		norm float64
		want int
	}{
		{0, 1},
		{0.009, 1},
		{0.01, 2},
		{0.5, 51},
		{0.999, 100},
		{1, 101},
	}
	for _, tt := range tests {
		if got := PoolWeight(tt.norm); got != tt.want {
			t.Errorf("PoolWeight(%v) = %d, want %d", tt.norm, got, tt.want)
		}
	}
}

func TestMatingPoolWeightsNoFitness(t *testing.T) {
	for _, fitness := range [][]float64{nil, {math.NaN()}, {math.Inf(1), math.NaN()}} {
		if _, err := MatingPoolWeights(fitness); !errors.Is(err, ErrNoFitness) {
			t.Errorf("MatingPoolWeights(%v) error = %v, want ErrNoFitness", fitness, err)
		}
	}
}

func TestBuildMatingPool(t *testing.T) {
	pool := BuildMatingPool([]int{1, 3, 2})
	want := []int{0, 1, 1, 1, 2, 2}
	if len(pool) != len(want) {
		t.Fatalf("pool = %v, want %v", pool, want)
	}
	for i := range want {
		if pool[i] != want[i] {
			t.Errorf("pool[%d] = %d, want %d", i, pool[i], want[i])
		}
	}
}

func TestFitnessRange(t *testing.T) {
	lo, hi, ok := FitnessRange([]float64{0.3, math.NaN(), 0.1, 0.7})
	if !ok || lo != 0.1 || hi != 0.7 {
		t.Errorf("FitnessRange = (%v, %v, %v), want (0.1, 0.7, true)", lo, hi, ok)
	}
	if _, _, ok := FitnessRange(nil); ok {
		t.Error("FitnessRange(nil) should report no values")
	}
}
