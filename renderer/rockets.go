package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/rockets/camera"
	"github.com/pthm-cable/rockets/sim"
)

// RocketRenderer draws rockets as rotated rectangles.
type RocketRenderer struct {
	Width  float32
	Length float32
	Color  rl.Color
}

// NewRocketRenderer creates a rocket renderer for bodies of the given size.
func NewRocketRenderer(width, length float32) *RocketRenderer {
	return &RocketRenderer{
		Width:  width,
		Length: length,
		Color:  rl.Color{R: 50, G: 250, B: 90, A: 128},
	}
}

// Draw renders every rocket.
func (r *RocketRenderer) Draw(cam *camera.Camera, rockets []sim.RocketView) {
	for i := range rockets {
		r.drawBody(cam, &rockets[i], r.Color)
	}
}

// DrawHeadings renders a short line along each rocket's heading.
func (r *RocketRenderer) DrawHeadings(cam *camera.Camera, rockets []sim.RocketView) {
	color := rl.Color{R: 200, G: 200, B: 255, A: 160}
	for i := range rockets {
		rv := &rockets[i]
		x, y := float32(rv.Position.X), float32(rv.Position.Y)
		n := r2.Norm(rv.Heading)
		if n == 0 || !cam.IsVisible(x, y, r.Length) {
			continue
		}
		hx := x + float32(rv.Heading.X/n)*r.Length
		hy := y + float32(rv.Heading.Y/n)*r.Length
		sx0, sy0 := cam.WorldToScreen(x, y)
		sx1, sy1 := cam.WorldToScreen(hx, hy)
		rl.DrawLineV(rl.Vector2{X: sx0, Y: sy0}, rl.Vector2{X: sx1, Y: sy1}, color)
	}
}

// DrawLeader rings the given rocket.
func (r *RocketRenderer) DrawLeader(cam *camera.Camera, rv sim.RocketView) {
	x, y := cam.WorldToScreen(float32(rv.Position.X), float32(rv.Position.Y))
	rl.DrawCircleLines(int32(x), int32(y), r.Length*cam.Zoom, rl.Yellow)
	r.drawBody(cam, &rv, rl.Color{R: 255, G: 220, B: 80, A: 220})
}

// drawBody draws one rocket centered on its position. The body starts
// upright and is turned by the rocket's display rotation, which counts
// clockwise turns as negative.
func (r *RocketRenderer) drawBody(cam *camera.Camera, rv *sim.RocketView, color rl.Color) {
	x, y := float32(rv.Position.X), float32(rv.Position.Y)
	if !cam.IsVisible(x, y, r.Length) {
		return
	}
	sx, sy := cam.WorldToScreen(x, y)
	w := r.Width * cam.Zoom
	h := r.Length * cam.Zoom
	rl.DrawRectanglePro(
		rl.Rectangle{X: sx, Y: sy, Width: w, Height: h},
		rl.Vector2{X: w / 2, Y: h / 2},
		float32(-rv.Rotation*180/math.Pi),
		color,
	)
}

// DrawTarget renders the target disc.
func DrawTarget(cam *camera.Camera, x, y, radius float32) {
	sx, sy := cam.WorldToScreen(x, y)
	rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius*cam.Zoom, rl.Color{R: 230, G: 230, B: 230, A: 255})
}

// DrawStart renders a small marker at the launch point.
func DrawStart(cam *camera.Camera, x, y float32) {
	sx, sy := cam.WorldToScreen(x, y)
	rl.DrawCircleLines(int32(sx), int32(sy), 6*cam.Zoom, rl.Gray)
}
