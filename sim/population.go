package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/rockets/genetics"
)

// ErrInvalidParams is returned by NewPopulation for unusable parameters.
var ErrInvalidParams = errors.New("invalid population parameters")

// Params configures a population. All values are fixed for a run.
type Params struct {
	RocketCount    int
	Lifetime       int // ticks per generation, and chromosome length
	Start          r2.Vec
	Target         r2.Vec
	RocketForce    float64 // per-tick step length
	MutationChance float64
	MutationForce  float64

	// ParallelThreshold is the rocket count at which ticks are stepped in
	// parallel. Zero disables parallel stepping.
	ParallelThreshold int
}

// DefaultParams returns the classic 640x640 setup.
func DefaultParams() Params {
	return Params{
		RocketCount:    100,
		Lifetime:       300,
		Start:          r2.Vec{X: 320, Y: 600},
		Target:         r2.Vec{X: 320, Y: 50},
		RocketForce:    5,
		MutationChance: genetics.DefaultMutationChance,
		MutationForce:  genetics.DefaultMutationForce,
	}
}

// Validate reports the first unusable parameter.
func (p Params) Validate() error {
	switch {
	case p.RocketCount <= 0:
		return fmt.Errorf("%w: rocket count %d", ErrInvalidParams, p.RocketCount)
	case p.Lifetime <= 0:
		return fmt.Errorf("%w: lifetime %d", ErrInvalidParams, p.Lifetime)
	case p.MutationChance < 0 || p.MutationChance > 1:
		return fmt.Errorf("%w: mutation chance %v", ErrInvalidParams, p.MutationChance)
	case p.MutationForce < 0:
		return fmt.Errorf("%w: mutation force %v", ErrInvalidParams, p.MutationForce)
	case !finiteVec(p.Start) || !finiteVec(p.Target):
		return fmt.Errorf("%w: start and target must be finite", ErrInvalidParams)
	case p.ParallelThreshold < 0:
		return fmt.Errorf("%w: parallel threshold %d", ErrInvalidParams, p.ParallelThreshold)
	}
	return nil
}

func finiteVec(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// GenerationResult summarises a generation at the moment it is replaced.
type GenerationResult struct {
	Generation   int       // number of the evaluated generation
	Fitness      []float64 // per-rocket fitness, in rocket order
	Distance     []float64 // per-rocket distance from the target, in rocket order
	MinFitness   float64
	MaxFitness   float64
	Undefined    int // rockets whose fitness could not be evaluated
	BestIndex    int
	BestID       uint32
	Best         *genetics.Chromosome // copy of the best rocket's chromosome
	BestPosition r2.Vec
	BestDistance float64
	PoolSize     int
}

// Population owns the live rockets and performs generational replacement.
// It is not safe for concurrent use.
type Population struct {
	params Params
	rng    *rand.Rand
	field  FitnessField

	rockets    []*Rocket
	tickIndex  int
	generation int
	nextID     uint32

	hooks []func(GenerationResult)
}

// NewPopulation creates generation 0 with RocketCount random rockets.
func NewPopulation(params Params, rng *rand.Rand) (*Population, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	seed := make([]*genetics.Chromosome, params.RocketCount)
	for i := range seed {
		c, err := genetics.New(params.Lifetime, rng)
		if err != nil {
			return nil, err
		}
		seed[i] = c
	}
	return newPopulation(params, rng, seed), nil
}

// NewPopulationFrom creates generation 0 from the given chromosomes.
// Generation 0 may differ in size from RocketCount; later generations do not.
// Every chromosome must have exactly Lifetime genes.
func NewPopulationFrom(params Params, rng *rand.Rand, seed []*genetics.Chromosome) (*Population, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(seed) == 0 {
		return nil, fmt.Errorf("%w: empty seed population", ErrInvalidParams)
	}
	for i, c := range seed {
		if c.Len() != params.Lifetime {
			return nil, fmt.Errorf("%w: seed %d has %d genes, lifetime is %d",
				genetics.ErrDimensionMismatch, i, c.Len(), params.Lifetime)
		}
	}
	return newPopulation(params, rng, seed), nil
}

func newPopulation(params Params, rng *rand.Rand, seed []*genetics.Chromosome) *Population {
	p := &Population{
		params: params,
		rng:    rng,
		field:  NewFitnessField(params.Target),
	}
	p.rockets = make([]*Rocket, len(seed))
	for i, c := range seed {
		p.rockets[i] = p.newRocket(c)
	}
	return p
}

func (p *Population) newRocket(c *genetics.Chromosome) *Rocket {
	r := NewRocket(p.nextID, c, p.params.Start, p.params.RocketForce)
	p.nextID++
	return r
}

// OnGeneration registers fn to be called after every generational replacement.
func (p *Population) OnGeneration(fn func(GenerationResult)) {
	p.hooks = append(p.hooks, fn)
}

// Update advances all rockets by one tick. When the tick index reaches the
// lifetime the generation is replaced before Update returns.
func (p *Population) Update() error {
	if p.tickIndex >= p.params.Lifetime {
		return fmt.Errorf("%w: population tick %d, lifetime %d",
			ErrLifetimeExceeded, p.tickIndex, p.params.Lifetime)
	}

	if err := p.stepRockets(); err != nil {
		return err
	}
	p.tickIndex++

	if p.tickIndex == p.params.Lifetime {
		if _, err := p.ReplaceGeneration(); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceGeneration scores the current rockets, builds the mating pool and
// breeds RocketCount children. On error the population is left unchanged.
func (p *Population) ReplaceGeneration() (GenerationResult, error) {
	fitness := make([]float64, len(p.rockets))
	for i, r := range p.rockets {
		fitness[i] = r.Fitness(p.field)
	}

	weights, err := MatingPoolWeights(fitness)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("generation %d: %w", p.generation, err)
	}
	pool := BuildMatingPool(weights)

	children := make([]*genetics.Chromosome, p.params.RocketCount)
	for i := range children {
		a := p.rockets[pool[p.rng.Intn(len(pool))]]
		b := p.rockets[pool[p.rng.Intn(len(pool))]]

		child, err := genetics.Cross(a.chromosome, b.chromosome)
		if err != nil {
			return GenerationResult{}, fmt.Errorf("generation %d: crossing rockets %d and %d: %w",
				p.generation, a.id, b.id, err)
		}
		child.Mutate(p.rng, p.params.MutationChance, p.params.MutationForce)
		children[i] = child
	}

	result := p.summarise(fitness, len(pool))

	next := make([]*Rocket, len(children))
	for i, c := range children {
		next[i] = p.newRocket(c)
	}
	p.rockets = next
	p.tickIndex = 0
	p.generation++

	for _, fn := range p.hooks {
		fn(result)
	}
	return result, nil
}

// summarise builds the GenerationResult for the current (outgoing) rockets.
func (p *Population) summarise(fitness []float64, poolSize int) GenerationResult {
	lo, hi, _ := FitnessRange(fitness)
	result := GenerationResult{
		Generation: p.generation,
		Fitness:    fitness,
		MinFitness: lo,
		MaxFitness: hi,
		PoolSize:   poolSize,
		BestIndex:  -1,
		Distance:   make([]float64, len(p.rockets)),
	}
	for i, r := range p.rockets {
		result.Distance[i] = p.field.Distance(r.position)
	}
	for i, f := range fitness {
		if !definedFitness(f) {
			result.Undefined++
			continue
		}
		if result.BestIndex < 0 || f > fitness[result.BestIndex] {
			result.BestIndex = i
		}
	}

	best := p.rockets[result.BestIndex]
	result.BestID = best.id
	result.Best = best.chromosome.Clone()
	result.BestPosition = best.position
	result.BestDistance = result.Distance[result.BestIndex]
	return result
}

// Rockets returns snapshots of the current rockets.
func (p *Population) Rockets() []RocketView {
	views := make([]RocketView, len(p.rockets))
	for i, r := range p.rockets {
		views[i] = r.View()
	}
	return views
}

// Chromosomes returns copies of the current rockets' chromosomes and their
// IDs, in rocket order.
func (p *Population) Chromosomes() ([]uint32, []*genetics.Chromosome) {
	ids := make([]uint32, len(p.rockets))
	out := make([]*genetics.Chromosome, len(p.rockets))
	for i, r := range p.rockets {
		ids[i] = r.id
		out[i] = r.chromosome.Clone()
	}
	return ids, out
}

// Size returns the number of live rockets.
func (p *Population) Size() int { return len(p.rockets) }

// Generation returns the number of completed replacements.
func (p *Population) Generation() int { return p.generation }

// TickIndex returns the ticks elapsed in the current generation.
func (p *Population) TickIndex() int { return p.tickIndex }

// Lifetime returns the ticks per generation.
func (p *Population) Lifetime() int { return p.params.Lifetime }

// Field returns the fitness field.
func (p *Population) Field() FitnessField { return p.field }

// Params returns the parameters the population was built with.
func (p *Population) Params() Params { return p.params }
