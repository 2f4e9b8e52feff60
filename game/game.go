// Package game wires a fluid scene to telemetry, input and drawing.
package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/molecules/camera"
	"github.com/pthm-cable/molecules/config"
	"github.com/pthm-cable/molecules/palette"
	"github.com/pthm-cable/molecules/renderer"
	"github.com/pthm-cable/molecules/scene"
	"github.com/pthm-cable/molecules/telemetry"
	"github.com/pthm-cable/molecules/ui"
)

// Options configures game behavior.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	SnapshotDir    string
	OutputDir      string
	Headless       bool
	Workers        int            // overrides the configured worker count when > 0
	Config         *config.Config // nil uses config.Cfg()
	StatsCallback  func(telemetry.WindowStats)
}

// Game holds the complete application state.
type Game struct {
	cfg   *config.Config
	scene *scene.Scene

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	snapshotDir   string
	statsCallback func(telemetry.WindowStats)
	lastStats     telemetry.WindowStats

	// Rendering, nil when headless
	camera     *camera.Camera
	background *renderer.BackgroundRenderer
	molecules  *renderer.MoleculeRenderer
	controls   *ui.ControlsPanel
	hud        *ui.HUD
	perfPanel  *ui.PerfPanel
	showPerf   bool

	headless                  bool
	screenWidth, screenHeight float32
}

// NewGame creates a windowed game from the global config.
func NewGame() *Game {
	return NewGameWithOptions(Options{})
}

// runInfo describes the run for the output directory.
func (g *Game) runInfo() telemetry.RunInfo {
	return telemetry.RunInfo{
		Seed:          g.scene.Seed(),
		Molecules:     g.scene.Len(),
		Substeps:      g.scene.Substeps(),
		Workers:       g.scene.Workers(),
		CollisionMode: g.scene.Settings.CollisionMode,
		Headless:      g.headless,
		Started:       time.Now(),
	}
}

// NewGameWithOptions creates a new game with the specified options.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	sceneOpts := scene.OptionsFromConfig(cfg, opts.Seed)
	if opts.Workers > 0 {
		sceneOpts.Workers = opts.Workers
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		cfg:           cfg,
		scene:         scene.New(sceneOpts),
		collector:     telemetry.NewCollector(statsWindow),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:      opts.LogStats,
		snapshotDir:   opts.SnapshotDir,
		statsCallback: opts.StatsCallback,
		headless:      opts.Headless,
		screenWidth:   cfg.Derived.ScreenW32,
		screenHeight:  cfg.Derived.ScreenH32,
	}
	g.scene.SetRecorder(g.perfCollector)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
			if err := om.WriteRun(g.runInfo()); err != nil {
				slog.Error("failed to write run info", "error", err)
			}
		}
	}

	if !opts.Headless {
		g.initRendering()
	} else {
		// Nothing to press Resume on.
		g.scene.SetPaused(false)
	}

	slog.Info("game created",
		"seed", g.scene.Seed(),
		"molecules", g.scene.Len(),
		"substeps", g.scene.Substeps(),
		"workers", g.scene.Workers(),
		"headless", opts.Headless,
	)
	return g
}

// initRendering sets up the camera, renderers and panels.
func (g *Game) initRendering() {
	cfg := g.cfg
	g.camera = camera.New(g.screenWidth, g.screenHeight, float32(cfg.Render.PixelsPerUnit))
	if cfg.Render.PixelsPerUnit <= 0 {
		s := g.scene.Settings
		g.camera.Fit(s.ContainerPosition[0], s.ContainerPosition[1], s.ContainerScale[0], s.ContainerScale[1], 0.05)
	}
	g.background = renderer.NewBackgroundRenderer(18, 24, 36, 1)
	g.molecules = renderer.NewMoleculeRenderer(palette.Default, cfg.Derived.SpeedColorMax)
	g.controls = ui.NewControlsPanel(10, 10, 340)
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-330, 80, 320)
}

// frame advances the scene by dt and feeds telemetry.
func (g *Game) frame(dt float32) {
	substeps := g.scene.Frame(dt)
	if substeps == 0 {
		return
	}
	g.collector.RecordFrame(substeps, float64(dt))
	g.flushTelemetry()
}

// UpdateHeadless runs one frame at the configured fixed timestep.
func (g *Game) UpdateHeadless() {
	g.frame(g.cfg.Derived.DT32)
}

// Scene returns the simulated scene.
func (g *Game) Scene() *scene.Scene {
	return g.scene
}

// Frame returns the number of frames simulated.
func (g *Game) Frame() int64 {
	return g.collector.Frame()
}

// SimTime returns the simulated seconds elapsed.
func (g *Game) SimTime() float64 {
	return g.collector.SimTime()
}

// Restore replaces the scene state with a snapshot.
func (g *Game) Restore(snap *telemetry.Snapshot) error {
	if err := g.scene.Restore(snap); err != nil {
		return err
	}
	slog.Info("snapshot restored", "frame", snap.Frame, "molecules", len(snap.Molecules))
	if g.headless {
		g.scene.SetPaused(false)
	}
	return nil
}

// Unload releases all resources.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output files", "error", err)
		}
		g.outputManager = nil
	}
	g.scene.Close()
}
