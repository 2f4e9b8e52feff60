package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/molecules/camera"
)

// BackgroundRenderer fills the screen with a vertical gradient and a world-space
// reference grid.
type BackgroundRenderer struct {
	top, bottom rl.Color
	gridColor   rl.Color
	spacing     float32 // world units between grid lines
}

// NewBackgroundRenderer creates a background with the given base color.
func NewBackgroundRenderer(baseR, baseG, baseB uint8, spacing float32) *BackgroundRenderer {
	if spacing <= 0 {
		spacing = 1
	}
	return &BackgroundRenderer{
		top:       rl.Color{R: baseR, G: baseG, B: baseB, A: 255},
		bottom:    rl.Color{R: baseR / 2, G: baseG / 2, B: baseB / 2, A: 255},
		gridColor: rl.Color{R: 255, G: 255, B: 255, A: 18},
		spacing:   spacing,
	}
}

// Draw renders the gradient and the grid lines visible through cam.
func (b *BackgroundRenderer) Draw(cam *camera.Camera) {
	w := int32(cam.ViewportW)
	h := int32(cam.ViewportH)
	rl.DrawRectangleGradientV(0, 0, w, h, b.top, b.bottom)

	// Skip the grid when lines would be closer than a few pixels.
	if cam.Scale(b.spacing) < 6 {
		return
	}

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	for x := snap(minX, b.spacing); x <= maxX; x += b.spacing {
		sx, _ := cam.WorldToScreen(x, 0)
		rl.DrawLineV(rl.Vector2{X: sx, Y: 0}, rl.Vector2{X: sx, Y: float32(h)}, b.gridColor)
	}
	for y := snap(minY, b.spacing); y <= maxY; y += b.spacing {
		_, sy := cam.WorldToScreen(0, y)
		rl.DrawLineV(rl.Vector2{X: 0, Y: sy}, rl.Vector2{X: float32(w), Y: sy}, b.gridColor)
	}
}

// snap rounds v down to a multiple of step.
func snap(v, step float32) float32 {
	return float32(math.Floor(float64(v/step))) * step
}
