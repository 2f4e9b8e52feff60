package game

import (
	"log/slog"

	"github.com/pthm-cable/molecules/telemetry"
)

// flushTelemetry closes the stats window once it has covered its duration.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush() {
		return
	}

	stats := g.collector.Flush(g.scene.Particles(), g.scene.Container())
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// saveSnapshot writes the current scene state to the snapshot directory.
func (g *Game) saveSnapshot() (string, error) {
	dir := g.snapshotDir
	if dir == "" {
		dir = "."
	}

	snapshot := g.scene.Snapshot(g.collector.Frame(), g.collector.SimTime())
	path, err := telemetry.SaveSnapshot(snapshot, dir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return "", err
	}

	slog.Info("snapshot saved", "path", path, "frame", snapshot.Frame)
	return path, nil
}
