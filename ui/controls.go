package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/molecules/scene"
)

const buttonHeight = 24

// ControlsPanel renders the left-side panel of sliders and run buttons.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
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

// Contains reports whether a screen point lies over the panel.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return x >= float32(c.x) && x <= float32(c.x+c.width) &&
		y >= float32(c.y) && y <= float32(c.y+c.height())
}

func (c *ControlsPanel) height() int32 {
	t := c.renderer.Theme
	return t.Padding*3 + t.LineHeight + 6 + int32(len(scene.Tunables))*(t.LineHeight+4) + buttonHeight
}

// Draw renders the panel, applies slider edits to settings and returns the
// button pressed this frame.
func (c *ControlsPanel) Draw(settings *scene.Settings, paused bool) Action {
	if !c.visible {
		return ActionNone
	}

	r := c.renderer
	padding := r.Theme.Padding
	inner := c.width - padding*2

	r.DrawPanel(c.x, c.y, c.width, c.height())

	y := c.y + padding
	rl.DrawText("Controls", c.x+padding, y, 16, rl.White)
	y += r.Theme.LineHeight + 6

	for _, t := range scene.Tunables {
		y = r.DrawTunable(c.x+padding, y, t, settings, inner)
	}
	y += padding

	third := float32(inner-2*padding) / 3
	bx := float32(c.x + padding)
	action := ActionNone

	label, toggle := "Pause", ActionPause
	if paused {
		label, toggle = "Resume", ActionResume
	}
	if gui.Button(rl.Rectangle{X: bx, Y: float32(y), Width: third, Height: buttonHeight}, label) {
		action = toggle
	}
	bx += third + float32(padding)
	if gui.Button(rl.Rectangle{X: bx, Y: float32(y), Width: third, Height: buttonHeight}, "Reset") {
		action = ActionReset
	}
	bx += third + float32(padding)
	if gui.Button(rl.Rectangle{X: bx, Y: float32(y), Width: third, Height: buttonHeight}, "Snapshot") {
		action = ActionSnapshot
	}
	return action
}
