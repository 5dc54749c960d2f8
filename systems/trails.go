package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rockets/components"
	"github.com/pthm-cable/rockets/sim"
)

// TrailSystem keeps fading exhaust points behind rockets as ECS entities.
type TrailSystem struct {
	world  *ecs.World
	mapper *ecs.Map2[components.Position, components.Trail]
	filter *ecs.Filter2[components.Position, components.Trail]

	maxAge    int32
	emitEvery int

	toRemove []ecs.Entity
}

// NewTrailSystem creates a trail system. Points live for maxAge ticks and
// are emitted every emitEvery ticks of a generation.
func NewTrailSystem(maxAge, emitEvery int) *TrailSystem {
	if maxAge < 1 {
		maxAge = 1
	}
	if emitEvery < 1 {
		emitEvery = 1
	}
	world := ecs.NewWorld()
	return &TrailSystem{
		world:     world,
		mapper:    ecs.NewMap2[components.Position, components.Trail](world),
		filter:    ecs.NewFilter2[components.Position, components.Trail](world),
		maxAge:    int32(maxAge),
		emitEvery: emitEvery,
	}
}

// Emit leaves one point at every rocket's position when tickIndex falls on
// the emission interval. Returns the number of points created.
func (s *TrailSystem) Emit(rockets []sim.RocketView, tickIndex, generation int) int {
	if tickIndex%s.emitEvery != 0 {
		return 0
	}
	for _, r := range rockets {
		pos := components.Position{X: float32(r.Position.X), Y: float32(r.Position.Y)}
		trail := components.Trail{
			RocketID:   r.ID,
			Generation: generation,
			MaxAge:     s.maxAge,
		}
		s.mapper.NewEntity(&pos, &trail)
	}
	return len(rockets)
}

// Update ages every point and removes expired ones.
func (s *TrailSystem) Update() {
	s.toRemove = s.toRemove[:0]

	query := s.filter.Query()
	for query.Next() {
		_, trail := query.Get()
		trail.Age++
		if trail.Age >= trail.MaxAge {
			s.toRemove = append(s.toRemove, query.Entity())
		}
	}

	// Remove after the query has finished
	for _, e := range s.toRemove {
		s.world.RemoveEntity(e)
	}
}

// Each calls fn for every live point.
func (s *TrailSystem) Each(fn func(pos components.Position, trail components.Trail)) {
	query := s.filter.Query()
	for query.Next() {
		pos, trail := query.Get()
		fn(*pos, *trail)
	}
}

// Count returns the number of live points.
func (s *TrailSystem) Count() int {
	n := 0
	query := s.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Clear removes every point.
func (s *TrailSystem) Clear() {
	s.toRemove = s.toRemove[:0]
	query := s.filter.Query()
	for query.Next() {
		s.toRemove = append(s.toRemove, query.Entity())
	}
	for _, e := range s.toRemove {
		s.world.RemoveEntity(e)
	}
}
