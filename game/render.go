package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/molecules/renderer"
	"github.com/pthm-cable/molecules/ui"
)

const controlsLegend = "[Space] Pause  [R] Reset  [S] Snapshot  [Tab] Controls  [P] Perf  [Arrows] Pan  [Wheel/+/-] Zoom  [Home] Recenter"

// Update handles input and advances the scene by the elapsed frame time.
func (g *Game) Update() {
	g.perfCollector.RecordFrame()
	g.handleInput()

	dt := rl.GetFrameTime()
	if maxDT := float32(g.cfg.Simulation.MaxFrameDT); maxDT > 0 && dt > maxDT {
		dt = maxDT
	}
	g.frame(dt)
}

// Draw renders the scene and the panels. Slider edits made here apply on the
// next Update.
func (g *Game) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	g.background.Draw(g.camera)

	settings := &g.scene.Settings
	if g.scene.Paused() {
		renderer.DrawStartBox(g.scene.StartBox(), g.camera, 2)
	}
	renderer.DrawContainer(g.scene.Container(), g.camera, 2)
	g.molecules.Draw(g.scene.Particles(), settings.MoleculeScale, g.camera)

	g.hud.Draw(ui.HUDData{
		Molecules:   g.scene.Len(),
		Frame:       g.collector.Frame(),
		SimTime:     g.collector.SimTime(),
		Substeps:    g.scene.Substeps(),
		Workers:     g.scene.Workers(),
		FPS:         rl.GetFPS(),
		Paused:      g.scene.Paused(),
		DensityMean: g.lastStats.DensityMean,
		Outside:     g.lastStats.Outside,
	}, int32(g.screenWidth))

	if g.showPerf {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	g.applyAction(g.controls.Draw(settings, g.scene.Paused()))
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)
}
