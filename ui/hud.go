package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/molecules/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Molecules int
	Frame     int64
	SimTime   float64
	Substeps  int
	Workers   int
	FPS       int32
	Paused    bool

	// From the last stats window
	DensityMean float64
	Outside     int
}

// HUD renders the status lines in the top-right corner.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD against the right edge of the screen.
func (h *HUD) Draw(data HUDData, screenWidth int32) {
	lines := []string{
		fmt.Sprintf("Molecules: %d | Workers: %d | Substeps: %d", data.Molecules, data.Workers, data.Substeps),
		fmt.Sprintf("Frame: %d | Sim: %.2fs | FPS: %d", data.Frame, data.SimTime, data.FPS),
		fmt.Sprintf("Density: %.1f | Outside: %d", data.DensityMean, data.Outside),
	}

	y := int32(10)
	for _, line := range lines {
		w := rl.MeasureText(line, 16)
		rl.DrawText(line, screenWidth-w-10, y, 16, rl.LightGray)
		y += 20
	}

	if data.Paused {
		w := rl.MeasureText("PAUSED", 20)
		rl.DrawText("PAUSED", screenWidth-w-10, y, 20, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the solver phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	padding := r.Theme.Padding
	height := padding*2 + r.Theme.LineHeight*3 + int32(len(telemetry.Phases))*(r.Theme.LineHeight+2)

	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + padding
	y := r.DrawSectionHeader(x, p.y+padding, "Solver")
	y = r.DrawLabelValue(x, y, "Update", fmt.Sprintf("%s avg, %s max",
		stats.AvgTickDuration.Round(time.Microsecond), stats.MaxTickDuration.Round(time.Microsecond)))
	y = r.DrawLabelValue(x, y, "Updates/s", fmt.Sprintf("%.0f", stats.TicksPerSecond))

	for _, phase := range telemetry.Phases {
		y = r.DrawBar(x, y, phase, stats.PhasePct[phase], 40, p.width-padding*2)
	}
}
