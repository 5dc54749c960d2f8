// Package genetics provides the real-valued chromosome that encodes a rocket's
// steering policy, together with its blend crossover and point mutation.
package genetics

import (
	"errors"
	"fmt"
	"math/rand"
)

// Mutation defaults.
const (
	DefaultMutationChance = 0.05 // Per-gene probability of mutation
	DefaultMutationForce  = 0.02 // Upper bound of the additive change
)

var (
	// ErrDimensionMismatch is returned when crossing chromosomes of different length.
	ErrDimensionMismatch = errors.New("chromosome dimension mismatch")
	// ErrEmptyChromosome is returned when a chromosome would have no genes.
	ErrEmptyChromosome = errors.New("chromosome length must be positive")
)

// Chromosome is a fixed-length vector of genes. Gene i is consumed at tick i.
// The length never changes after construction.
type Chromosome struct {
	genes []float64
}

// New creates a chromosome of the given length with genes drawn uniformly from [0,1).
func New(length int, rng *rand.Rand) (*Chromosome, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrEmptyChromosome, length)
	}
	genes := make([]float64, length)
	for i := range genes {
		genes[i] = rng.Float64()
	}
	return &Chromosome{genes: genes}, nil
}

// FromGenes creates a chromosome holding a copy of genes.
func FromGenes(genes []float64) (*Chromosome, error) {
	if len(genes) == 0 {
		return nil, ErrEmptyChromosome
	}
	c := &Chromosome{genes: make([]float64, len(genes))}
	copy(c.genes, genes)
	return c, nil
}

// Cross returns a new chromosome whose genes are the midpoints of the parents' genes.
// Both parents must have the same length. Neither parent is modified, and a
// and b may be the same chromosome.
func Cross(a, b *Chromosome) (*Chromosome, error) {
	if len(a.genes) != len(b.genes) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a.genes), len(b.genes))
	}
	child := &Chromosome{genes: make([]float64, len(a.genes))}
	for i := range child.genes {
		child.genes[i] = (a.genes[i] + b.genes[i]) / 2
	}
	return child, nil
}

// Mutate adds rng.Float64()*force to each gene with probability chance.
// Mutation only ever increases gene values.
func (c *Chromosome) Mutate(rng *rand.Rand, chance, force float64) {
	for i := range c.genes {
		if rng.Float64() < chance {
			c.genes[i] += rng.Float64() * force
		}
	}
}

// Len returns the number of genes.
func (c *Chromosome) Len() int {
	return len(c.genes)
}

// Gene returns the gene at index i.
func (c *Chromosome) Gene(i int) float64 {
	return c.genes[i]
}

// Genes returns a copy of all genes.
func (c *Chromosome) Genes() []float64 {
	out := make([]float64, len(c.genes))
	copy(out, c.genes)
	return out
}

// Clone returns a deep copy.
func (c *Chromosome) Clone() *Chromosome {
	return &Chromosome{genes: c.Genes()}
}

// GeneToAngle maps a gene to a turn angle in radians.
// Genes in [0,1] map to [-0.5, 0.5]; values outside extrapolate linearly.
func GeneToAngle(gene float64) float64 {
	return 0.5 * (gene*2 - 1)
}
