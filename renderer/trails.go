package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rockets/camera"
	"github.com/pthm-cable/rockets/components"
	"github.com/pthm-cable/rockets/systems"
)

// TrailRenderer renders exhaust trail points.
type TrailRenderer struct {
	Size float32
}

// NewTrailRenderer creates a new trail renderer.
func NewTrailRenderer() *TrailRenderer {
	return &TrailRenderer{Size: 1.5}
}

// Draw renders all live trail points, fading with age.
func (r *TrailRenderer) Draw(cam *camera.Camera, trails *systems.TrailSystem) {
	trails.Each(func(pos components.Position, trail components.Trail) {
		if !cam.IsVisible(pos.X, pos.Y, r.Size) {
			return
		}
		fade := trail.Fade()
		color := rl.Color{
			R: 255,
			G: 150,
			B: 50,
			A: uint8(fade * 160),
		}

		size := r.Size * cam.Zoom
		if size < 0.5 {
			size = 0.5
		}
		sx, sy := cam.WorldToScreen(pos.X, pos.Y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, size, color)
	})
}
