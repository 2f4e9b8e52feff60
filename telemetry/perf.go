package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/molecules/sph"
)

// Phases of one solver update, in execution order.
var Phases = []string{
	sph.PhasePredict,
	sph.PhaseSpatialHash,
	sph.PhaseDensity,
	sph.PhaseForces,
	sph.PhaseCommit,
}

// PerfSample holds timing data for a single solver update.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector keeps the last windowSize solver updates in a ring and
// reports their timing split by phase. It implements sph.PhaseRecorder.
type PerfCollector struct {
	ring    []PerfSample
	next    int
	filled  int
	current PerfSample

	tickStart  time.Time
	phaseStart time.Time
	phase      string

	lastFrame     time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize updates.
// Values below 1 fall back to 60.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	ring := make([]PerfSample, windowSize)
	for i := range ring {
		ring[i].Phases = make(map[string]time.Duration, len(Phases))
	}
	return &PerfCollector{
		ring:    ring,
		current: PerfSample{Phases: make(map[string]time.Duration, len(Phases))},
	}
}

// StartTick begins timing a new solver update.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	clear(p.current.Phases)
	p.phase = ""
}

// StartPhase begins timing phase, closing the one before it.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
}

// EndTick closes the running phase and stores the update in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)

	slot := &p.ring[p.next]
	slot.TickDuration = now.Sub(p.tickStart)
	clear(slot.Phases)
	for phase, d := range p.current.Phases {
		slot.Phases[phase] = d
	}

	p.next = (p.next + 1) % len(p.ring)
	if p.filled < len(p.ring) {
		p.filled++
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.current.Phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// RecordFrame measures the time since the previous call. Called once per
// rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// Average duration and share of the update per phase
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the updates currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		stats.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.filled == 0 {
		return stats
	}

	ticks := make([]float64, p.filled)
	phaseSum := make(map[string]float64)
	for i, s := range p.ring[:p.filled] {
		ticks[i] = float64(s.TickDuration)
		for phase, d := range s.Phases {
			phaseSum[phase] += float64(d)
		}
	}

	avg := stat.Mean(ticks, nil)
	stats.AvgTickDuration = time.Duration(avg)
	stats.MinTickDuration = time.Duration(floats.Min(ticks))
	stats.MaxTickDuration = time.Duration(floats.Max(ticks))
	sort.Float64s(ticks)
	stats.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil))

	n := float64(p.filled)
	for phase, sum := range phaseSum {
		stats.PhaseAvg[phase] = time.Duration(sum / n)
		if avg > 0 {
			stats.PhasePct[phase] = sum / n / avg * 100
		}
	}
	if avg > 0 {
		stats.TicksPerSecond = float64(time.Second) / avg
	}
	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"p95_tick_us", s.P95TickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Frame          int64   `csv:"frame"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	P95TickUS      int64   `csv:"p95_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	PredictPct     float64 `csv:"predict_pct"`
	SpatialHashPct float64 `csv:"spatial_hash_pct"`
	DensityPct     float64 `csv:"density_pct"`
	ForcesPct      float64 `csv:"forces_pct"`
	CommitPct      float64 `csv:"commit_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(frame int64) PerfStatsCSV {
	return PerfStatsCSV{
		Frame:          frame,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		P95TickUS:      s.P95TickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		PredictPct:     s.PhasePct[sph.PhasePredict],
		SpatialHashPct: s.PhasePct[sph.PhaseSpatialHash],
		DensityPct:     s.PhasePct[sph.PhaseDensity],
		ForcesPct:      s.PhasePct[sph.PhaseForces],
		CommitPct:      s.PhasePct[sph.PhaseCommit],
	}
}
