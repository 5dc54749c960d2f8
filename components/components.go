// Package components defines ECS components for the simulation.
package components

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}

// Trail marks an exhaust point left behind by a rocket.
type Trail struct {
	RocketID   uint32
	Generation int
	Age        int32 // ticks since emission
	MaxAge     int32 // point is removed once Age reaches this
}

// Fade returns the remaining opacity in [0, 1].
func (t *Trail) Fade() float32 {
	if t.MaxAge <= 0 {
		return 0
	}
	f := 1 - float32(t.Age)/float32(t.MaxAge)
	if f < 0 {
		return 0
	}
	return f
}
