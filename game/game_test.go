package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/molecules/config"
	"github.com/pthm-cable/molecules/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Simulation.NumMolecules = 128
	cfg.Simulation.Substeps = 2
	cfg.Telemetry.StatsWindow = 0.045
	return cfg
}

func newHeadless(t *testing.T, opts Options) *Game {
	t.Helper()
	opts.Headless = true
	if opts.Config == nil {
		opts.Config = testConfig(t)
	}
	if opts.Seed == 0 {
		opts.Seed = 3
	}
	g := NewGameWithOptions(opts)
	t.Cleanup(g.Unload)
	return g
}

func TestHeadless_StartsRunning(t *testing.T) {
	g := newHeadless(t, Options{Workers: 2})

	assert.False(t, g.Scene().Paused())
	assert.Equal(t, 128, g.Scene().Len())
	assert.Equal(t, 2, g.Scene().Workers())
	assert.Equal(t, int64(3), g.Scene().Seed())
}

func TestUpdateHeadless_AdvancesFrames(t *testing.T) {
	g := newHeadless(t, Options{})

	for i := 0; i < 10; i++ {
		g.UpdateHeadless()
	}
	assert.Equal(t, int64(10), g.Frame())
	assert.InDelta(t, 10*float64(g.cfg.Derived.DT32), g.SimTime(), 1e-6)
}

func TestUpdateHeadless_PausedDoesNotCount(t *testing.T) {
	g := newHeadless(t, Options{})
	g.Scene().SetPaused(true)

	g.UpdateHeadless()
	assert.Equal(t, int64(0), g.Frame())
}

func TestStatsCallback(t *testing.T) {
	var windows []telemetry.WindowStats
	g := newHeadless(t, Options{
		StatsCallback: func(s telemetry.WindowStats) { windows = append(windows, s) },
	})

	// 0.045s windows at 1/60s frames flush every third frame.
	for i := 0; i < 9; i++ {
		g.UpdateHeadless()
	}
	require.Len(t, windows, 3)
	for _, w := range windows {
		assert.Equal(t, 128, w.Molecules)
		assert.Equal(t, 3, w.Frames)
		assert.Equal(t, 6, w.Substeps)
	}
}

func TestOutputDir_WritesCSV(t *testing.T) {
	dir := t.TempDir()
	g := newHeadless(t, Options{OutputDir: dir})

	for i := 0; i < 6; i++ {
		g.UpdateHeadless()
	}
	g.Unload()

	for _, name := range []string{telemetry.ConfigFile, telemetry.RunFile, telemetry.TelemetryFile, telemetry.PerfFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}

	run, err := telemetry.LoadRun(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(3), run.Seed)
	assert.Equal(t, 128, run.Molecules)
	assert.Equal(t, 2, run.Substeps)
	assert.True(t, run.Headless)
}

func TestSnapshot_SaveAndRestore(t *testing.T) {
	dir := t.TempDir()
	g := newHeadless(t, Options{SnapshotDir: dir})
	for i := 0; i < 5; i++ {
		g.UpdateHeadless()
	}

	path, err := g.saveSnapshot()
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	snap, err := telemetry.LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), snap.Frame)

	other := newHeadless(t, Options{Seed: 11})
	require.NoError(t, other.Restore(snap))
	assert.False(t, other.Scene().Paused())

	want := g.Scene().Particles()
	for i, p := range other.Scene().Particles() {
		assert.Equal(t, want[i].Position, p.Position, "molecule %d", i)
	}
}

func TestRestore_RejectsWrongCount(t *testing.T) {
	g := newHeadless(t, Options{})
	snap := g.Scene().Snapshot(0, 0)
	snap.Molecules = snap.Molecules[:10]

	assert.Error(t, g.Restore(snap))
}
