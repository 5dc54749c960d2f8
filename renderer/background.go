// Package renderer draws the rocket world through the camera.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rockets/camera"
)

// BackgroundRenderer clears the screen and outlines the world bounds with a
// faint grid so the camera position stays readable at any zoom.
type BackgroundRenderer struct {
	baseColor  rl.Color
	gridColor  rl.Color
	edgeColor  rl.Color
	worldW     float32
	worldH     float32
	gridSpacer float32
}

// NewBackgroundRenderer creates a new background renderer.
func NewBackgroundRenderer(worldW, worldH float32, baseR, baseG, baseB uint8) *BackgroundRenderer {
	return &BackgroundRenderer{
		baseColor:  rl.Color{R: baseR, G: baseG, B: baseB, A: 255},
		gridColor:  rl.Color{R: baseR + 12, G: baseG + 12, B: baseB + 12, A: 255},
		edgeColor:  rl.Color{R: 60, G: 70, B: 80, A: 255},
		worldW:     worldW,
		worldH:     worldH,
		gridSpacer: 80,
	}
}

// Draw renders the background.
func (b *BackgroundRenderer) Draw(cam *camera.Camera) {
	rl.ClearBackground(b.baseColor)

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	startX := float32(int(minX/b.gridSpacer)) * b.gridSpacer
	startY := float32(int(minY/b.gridSpacer)) * b.gridSpacer

	for x := startX; x <= maxX; x += b.gridSpacer {
		sx0, sy0 := cam.WorldToScreen(x, minY)
		sx1, sy1 := cam.WorldToScreen(x, maxY)
		rl.DrawLineV(rl.Vector2{X: sx0, Y: sy0}, rl.Vector2{X: sx1, Y: sy1}, b.gridColor)
	}
	for y := startY; y <= maxY; y += b.gridSpacer {
		sx0, sy0 := cam.WorldToScreen(minX, y)
		sx1, sy1 := cam.WorldToScreen(maxX, y)
		rl.DrawLineV(rl.Vector2{X: sx0, Y: sy0}, rl.Vector2{X: sx1, Y: sy1}, b.gridColor)
	}

	x0, y0 := cam.WorldToScreen(0, 0)
	x1, y1 := cam.WorldToScreen(b.worldW, b.worldH)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, 1, b.edgeColor)
}
