// Package sim runs the rocket population: per-tick kinematics driven by each
// rocket's chromosome, fitness evaluation against the target, and
// fitness-proportional generational replacement.
package sim

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/rockets/genetics"
)

// ErrLifetimeExceeded is returned when a rocket is ticked past its chromosome length.
var ErrLifetimeExceeded = errors.New("rocket lifetime exceeded")

// Rocket is one simulated agent. Each Update consumes exactly one gene.
type Rocket struct {
	id         uint32
	chromosome *genetics.Chromosome

	position r2.Vec
	heading  r2.Vec  // direction and per-tick step length
	rotation float64 // cumulative display rotation, radians
	age      int
}

// NewRocket creates a rocket at start pointing up with step length force.
// The rocket takes ownership of chromosome.
func NewRocket(id uint32, chromosome *genetics.Chromosome, start r2.Vec, force float64) *Rocket {
	return &Rocket{
		id:         id,
		chromosome: chromosome,
		position:   start,
		heading:    r2.Vec{X: 0, Y: -force},
	}
}

// Update advances the rocket by one tick: turn by the current gene's angle,
// then step along the new heading.
func (r *Rocket) Update() error {
	if r.age >= r.chromosome.Len() {
		return fmt.Errorf("%w: rocket %d at age %d with %d genes",
			ErrLifetimeExceeded, r.id, r.age, r.chromosome.Len())
	}

	r.rotate(genetics.GeneToAngle(r.chromosome.Gene(r.age)))
	r.move()
	r.age++
	return nil
}

// rotate turns the heading by angle radians. Positive angles turn clockwise
// on a y-down screen, so the display rotation is decremented.
func (r *Rocket) rotate(angle float64) {
	sin, cos := math.Sincos(angle)
	x, y := r.heading.X, r.heading.Y
	r.heading = r2.Vec{
		X: x*cos - y*sin,
		Y: x*sin + y*cos,
	}
	r.rotation -= angle
}

func (r *Rocket) move() {
	r.position = r2.Add(r.position, r.heading)
}

// Fitness scores the rocket's current position against field.
func (r *Rocket) Fitness(field FitnessField) float64 {
	return field.Fitness(r.position)
}

// ID returns the rocket's identifier, unique within a population.
func (r *Rocket) ID() uint32 { return r.id }

// Position returns the current position.
func (r *Rocket) Position() r2.Vec { return r.position }

// Heading returns the current heading vector.
func (r *Rocket) Heading() r2.Vec { return r.heading }

// Rotation returns the cumulative display rotation in radians.
func (r *Rocket) Rotation() float64 { return r.rotation }

// Age returns the number of ticks taken so far.
func (r *Rocket) Age() int { return r.age }

// Chromosome returns the rocket's chromosome. Callers must not mutate it.
func (r *Rocket) Chromosome() *genetics.Chromosome { return r.chromosome }

// RocketView is a read-only snapshot of a rocket for rendering.
type RocketView struct {
	ID       uint32
	Position r2.Vec
	Heading  r2.Vec
	Rotation float64
	Age      int
}

// View returns a snapshot of the rocket's kinematic state.
func (r *Rocket) View() RocketView {
	return RocketView{
		ID:       r.id,
		Position: r.position,
		Heading:  r.heading,
		Rotation: r.rotation,
		Age:      r.age,
	}
}
