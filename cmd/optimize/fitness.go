package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/molecules/config"
	"github.com/pthm-cable/molecules/game"
	"github.com/pthm-cable/molecules/telemetry"
)

// Fitness component weights.
const (
	weightCompression = 1.0  // density std / mean within a window
	weightDrift       = 0.5  // variation of mean density across windows
	weightMotion      = 0.1  // mean speed
	weightEscape      = 10.0 // fraction of molecules outside the container

	fitnessWarmupWindows = 3 // skip first N windows while the fluid settles

	// failedFitness scores runs that produced no usable window.
	failedFitness = 1e3
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxFrames   int64
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64
	workers     int // solver workers per run

	mu          sync.Mutex
	bestFitness float64
	lastScores  scores // from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxFrames int64, seeds []int64, baseCfg *config.Config, workers int) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxFrames:   maxFrames,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 1.0,
		workers:     workers,
		bestFitness: math.Inf(1),
	}
}

// LastScores returns the averaged components from the most recent evaluation.
func (fe *FitnessEvaluator) LastScores() scores {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastScores
}

// scores are the unweighted fitness components of one run.
type scores struct {
	compression float64
	drift       float64
	motion      float64
	escape      float64
}

func (s scores) fitness() float64 {
	return weightCompression*s.compression +
		weightDrift*s.drift +
		weightMotion*s.motion +
		weightEscape*s.escape
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]scores, len(fe.seeds))
	ok := make([]bool, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows := fe.runSimulation(x, s)
			results[idx], ok[idx] = computeScores(windows)
		}(i, seed)
	}
	wg.Wait()

	var total scores
	var fitness float64
	for i, r := range results {
		if !ok[i] {
			fitness += failedFitness
			continue
		}
		fitness += r.fitness()
		total.compression += r.compression
		total.drift += r.drift
		total.motion += r.motion
		total.escape += r.escape
	}

	n := float64(len(fe.seeds))
	avgFitness := fitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
	}
	fe.lastScores = scores{
		compression: total.compression / n,
		drift:       total.drift / n,
		motion:      total.motion / n,
		escape:      total.escape / n,
	}
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless run and returns its stats windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) []telemetry.WindowStats {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	var windows []telemetry.WindowStats
	g := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		Workers:        fe.workers,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	defer g.Unload()

	for g.Frame() < fe.maxFrames {
		g.UpdateHeadless()
	}
	return windows
}

// copyConfig returns a copy of the base config that runs can modify.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeScores reduces the windows after warmup to fitness components.
// It reports false when no window is usable.
func computeScores(windows []telemetry.WindowStats) (scores, bool) {
	if len(windows) <= fitnessWarmupWindows {
		return scores{}, false
	}
	valid := windows[fitnessWarmupWindows:]

	compression := make([]float64, 0, len(valid))
	densities := make([]float64, 0, len(valid))
	speeds := make([]float64, 0, len(valid))
	escapes := make([]float64, 0, len(valid))

	for _, w := range valid {
		if w.Molecules == 0 {
			continue
		}
		c := 1.0
		if w.DensityMean > 0 {
			c = w.DensityStd / w.DensityMean
		}
		compression = append(compression, c)
		densities = append(densities, w.DensityMean)
		speeds = append(speeds, w.SpeedMean)
		escapes = append(escapes, float64(w.Outside)/float64(w.Molecules))
	}
	if len(compression) == 0 {
		return scores{}, false
	}

	return scores{
		compression: stat.Mean(compression, nil),
		drift:       cv(densities),
		motion:      stat.Mean(speeds, nil),
		escape:      stat.Mean(escapes, nil),
	}, true
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
