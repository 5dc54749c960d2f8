package genetics

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestNew(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c, err := New(300, rng)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c.Len() != 300 {
		t.Errorf("expected length 300, got %d", c.Len())
	}
	for i, g := range c.Genes() {
		if g < 0 || g >= 1 {
			t.Errorf("gene %d = %v, want in [0,1)", i, g)
		}
	}
}

func TestNewRejectsNonPositiveLength(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{0, -3} {
		if _, err := New(n, rng); !errors.Is(err, ErrEmptyChromosome) {
			t.Errorf("New(%d) error = %v, want ErrEmptyChromosome", n, err)
		}
	}
}

func TestNewIsReproducible(t *testing.T) {
	a, _ := New(50, rand.New(rand.NewSource(7)))
	b, _ := New(50, rand.New(rand.NewSource(7)))
	for i := 0; i < 50; i++ {
		if a.Gene(i) != b.Gene(i) {
			t.Fatalf("gene %d differs for same seed: %v vs %v", i, a.Gene(i), b.Gene(i))
		}
	}
}

func TestFromGenesCopies(t *testing.T) {
	src := []float64{0.1, 0.2, 0.3}
	c, err := FromGenes(src)
	if err != nil {
		t.Fatalf("FromGenes failed: %v", err)
	}
	src[0] = 99
	if c.Gene(0) != 0.1 {
		t.Errorf("chromosome aliases source slice: gene 0 = %v", c.Gene(0))
	}

	out := c.Genes()
	out[1] = 99
	if c.Gene(1) != 0.2 {
		t.Errorf("Genes() exposes internal storage: gene 1 = %v", c.Gene(1))
	}

	if _, err := FromGenes(nil); !errors.Is(err, ErrEmptyChromosome) {
		t.Errorf("FromGenes(nil) error = %v, want ErrEmptyChromosome", err)
	}
}

func TestCrossMidpoint(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want []float64
	}{
		{"zero and one", []float64{0.0}, []float64{1.0}, []float64{0.5}},
		{"identical", []float64{0.3, 0.7}, []float64{0.3, 0.7}, []float64{0.3, 0.7}},
		{"mixed", []float64{0.2, 0.4, 1.0}, []float64{0.6, 0.0, 0.5}, []float64{0.4, 0.2, 0.75}},
		{"beyond unit range", []float64{1.02}, []float64{0.98}, []float64{1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := FromGenes(tt.a)
			b, _ := FromGenes(tt.b)
			child, err := Cross(a, b)
			if err != nil {
				t.Fatalf("Cross failed: %v", err)
			}
			if child.Len() != len(tt.want) {
				t.Fatalf("child length = %d, want %d", child.Len(), len(tt.want))
			}
			for i, w := range tt.want {
				if math.Abs(child.Gene(i)-w) > 1e-12 {
					t.Errorf("gene %d = %v, want %v", i, child.Gene(i), w)
				}
			}
		})
	}
}

func TestCrossRandomParentsStayMidpoint(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 20; trial++ {
		n := 1 + rng.Intn(40)
		a, _ := New(n, rng)
		b, _ := New(n, rng)
		child, err := Cross(a, b)
		if err != nil {
			t.Fatalf("Cross failed: %v", err)
		}
		if child.Len() != n {
			t.Fatalf("child length = %d, want %d", child.Len(), n)
		}
		for i := 0; i < n; i++ {
			if child.Gene(i) != (a.Gene(i)+b.Gene(i))/2 {
				t.Errorf("trial %d gene %d is not the parent midpoint", trial, i)
			}
		}
	}
}

func TestCrossDoesNotModifyParents(t *testing.T) {
	a, _ := FromGenes([]float64{0.1, 0.9})
	b, _ := FromGenes([]float64{0.5, 0.5})
	child, _ := Cross(a, b)
	child.Mutate(rand.New(rand.NewSource(1)), 1, 1)

	if a.Gene(0) != 0.1 || a.Gene(1) != 0.9 || b.Gene(0) != 0.5 || b.Gene(1) != 0.5 {
		t.Error("mutating the child changed a parent")
	}
}

func TestCrossSelf(t *testing.T) {
	a, _ := FromGenes([]float64{0.25, 0.75})
	child, err := Cross(a, a)
	if err != nil {
		t.Fatalf("self-crossover failed: %v", err)
	}
	if child.Gene(0) != 0.25 || child.Gene(1) != 0.75 {
		t.Errorf("self-crossover should reproduce the parent, got %v", child.Genes())
	}
}

func TestCrossDimensionMismatch(t *testing.T) {
	a, _ := FromGenes([]float64{0.1, 0.2})
	b, _ := FromGenes([]float64{0.1, 0.2, 0.3})
	child, err := Cross(a, b)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("error = %v, want ErrDimensionMismatch", err)
	}
	if child != nil {
		t.Error("expected nil child on mismatch")
	}
}

func TestMutateZeroChanceIsNoop(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	c, _ := New(100, rng)
	before := c.Genes()

	c.Mutate(rng, 0, 123.0)

	for i, g := range c.Genes() {
		if g != before[i] {
			t.Errorf("gene %d changed from %v to %v with zero chance", i, before[i], g)
		}
	}
}

func TestMutateFullChanceBounded(t *testing.T) {
	tests := []struct {
		name  string
		force float64
	}{
		{"default force", DefaultMutationForce},
		{"large force", 0.5},
		{"zero force", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(11))
			c, _ := New(200, rng)
			before := c.Genes()

			c.Mutate(rng, 1, tt.force)

			for i, g := range c.Genes() {
				delta := g - before[i]
				if delta < 0 || delta > tt.force {
					t.Errorf("gene %d delta = %v, want in [0, %v]", i, delta, tt.force)
				}
			}
		})
	}
}

func TestMutateNeverDecreases(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	c, _ := New(500, rng)
	before := c.Genes()

	for round := 0; round < 10; round++ {
		c.Mutate(rng, DefaultMutationChance, DefaultMutationForce)
	}

	changed := 0
	for i, g := range c.Genes() {
		if g < before[i] {
			t.Fatalf("gene %d decreased: %v -> %v", i, before[i], g)
		}
		if g != before[i] {
			changed++
		}
	}
	if changed == 0 {
		t.Error("expected some genes to mutate over 10 rounds")
	}
}

func TestGeneToAngle(t *testing.T) {
	tests := []struct {
		gene float64
		want float64
	}{
		{0, -0.5},
		{0.5, 0},
		{1, 0.5},
		{0.25, -0.25},
		{1.02, 0.52},
	}
	for _, tt := range tests {
		if got := GeneToAngle(tt.gene); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("GeneToAngle(%v) = %v, want %v", tt.gene, got, tt.want)
		}
	}
}
