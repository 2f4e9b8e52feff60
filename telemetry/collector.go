package telemetry

import (
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/molecules/sph"
)

// Region reports whether a world position lies inside it. sph.Container
// satisfies it.
type Region interface {
	Contains(pos mgl32.Vec3) bool
}

// Collector accumulates frame counts within windows of simulated time and
// produces WindowStats.
type Collector struct {
	windowDurationSec float64

	simTime          float64
	frame            int64
	windowStartTime  float64
	windowStartFrame int64

	// Counters for current window
	frames   int
	substeps int

	// Scratch reused between flushes
	densities     []float64
	nearDensities []float64
	pressures     []float64
	speeds        []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 1
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// RecordFrame records one frame that advanced the simulation by dt seconds
// in the given number of substeps.
func (c *Collector) RecordFrame(substeps int, dt float64) {
	c.frame++
	c.frames++
	c.substeps += substeps
	c.simTime += dt
}

// SimTime returns the total simulated seconds recorded.
func (c *Collector) SimTime() float64 {
	return c.simTime
}

// Frame returns the number of frames recorded.
func (c *Collector) Frame() int64 {
	return c.frame
}

// ShouldFlush returns true once the current window has covered its duration.
func (c *Collector) ShouldFlush() bool {
	return c.simTime-c.windowStartTime >= c.windowDurationSec
}

// Flush samples the molecules, produces a WindowStats and starts a new window.
// A nil region skips the outside count.
func (c *Collector) Flush(particles []sph.Particle, region Region) WindowStats {
	n := len(particles)
	c.densities = c.densities[:0]
	c.nearDensities = c.nearDensities[:0]
	c.pressures = c.pressures[:0]
	c.speeds = c.speeds[:0]

	var kinetic float64
	var outside int
	for i := range particles {
		p := &particles[i]
		speed := float64(p.Velocity.Len())
		c.densities = append(c.densities, float64(p.Density))
		c.nearDensities = append(c.nearDensities, float64(p.NearDensity))
		c.pressures = append(c.pressures, float64(p.Pressure))
		c.speeds = append(c.speeds, speed)
		kinetic += 0.5 * sph.Mass * speed * speed
		if region != nil && !region.Contains(p.Position) {
			outside++
		}
	}

	density := ComputeDistribution(c.densities)
	speed := ComputeDistribution(c.speeds)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   c.frame,
		SimTimeSec:       c.simTime,
		Frames:           c.frames,
		Substeps:         c.substeps,
		Molecules:        n,
		Outside:          outside,
		DensityMean:      density.Mean,
		DensityStd:       density.Std,
		DensityP10:       density.P10,
		DensityP50:       density.P50,
		DensityP90:       density.P90,
		SpeedMean:        speed.Mean,
		SpeedMax:         speed.Max,
		KineticEnergy:    kinetic,
	}
	if n > 0 {
		stats.NearDensityMean = floats.Sum(c.nearDensities) / float64(n)
		stats.PressureMean = floats.Sum(c.pressures) / float64(n)
	}

	// Reset for next window
	c.windowStartTime = c.simTime
	c.windowStartFrame = c.frame
	c.frames = 0
	c.substeps = 0

	return stats
}
