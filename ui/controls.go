package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Speed slider bounds in simulation ticks per frame.
const (
	MinSpeed = 1
	MaxSpeed = 50
)

// ControlsPanel renders the left-side controls panel with overlay toggles
// and simulation buttons.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// ControlActions reports what the user clicked this frame.
type ControlActions struct {
	TogglePause bool
	Reset       bool
	ClearTrails bool
	Speed       int
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and returns the actions taken. Speed echoes the
// current speed when the slider was not moved.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry, paused bool, speed int) ControlActions {
	actions := ControlActions{Speed: speed}
	if !c.visible {
		return actions
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1
	}
	buttonsHeight := int32(3*24 + 8)
	panelHeight := int32(totalItems)*lineHeight + padding*4 + lineHeight + buttonsHeight

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	inner := float32(c.width - padding*2)
	left := float32(c.x + padding)

	pauseLabel := "Pause"
	if paused {
		pauseLabel = "Resume"
	}
	half := (inner - 4) / 2
	actions.TogglePause = gui.Button(rl.Rectangle{X: left, Y: float32(y), Width: half, Height: 20}, pauseLabel)
	actions.Reset = gui.Button(rl.Rectangle{X: left + half + 4, Y: float32(y), Width: half, Height: 20}, "Reset")
	y += 24

	actions.ClearTrails = gui.Button(rl.Rectangle{X: left, Y: float32(y), Width: inner, Height: 20}, "Clear Trails")
	y += 24

	value := gui.SliderBar(
		rl.Rectangle{X: left + 44, Y: float32(y), Width: inner - 80, Height: 16},
		"Speed", fmt.Sprintf("%dx", speed),
		float32(speed), MinSpeed, MaxSpeed,
	)
	actions.Speed = ClampSpeed(int(value + 0.5))
	y += 24 + 8

	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}

		y += 4
	}

	return actions
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Visual"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

// ClampSpeed bounds a speed to the slider range.
func ClampSpeed(speed int) int {
	if speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}
