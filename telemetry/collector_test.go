package telemetry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/molecules/sph"
)

type halfPlane struct{}

// Contains accepts x <= 0.
func (halfPlane) Contains(pos mgl32.Vec3) bool {
	return pos[0] <= 0
}

func TestCollector_ShouldFlush(t *testing.T) {
	c := NewCollector(0.11)

	for i := 0; i < 4; i++ {
		c.RecordFrame(7, 0.025)
		if c.ShouldFlush() {
			t.Fatalf("flushed early after %d frames", i+1)
		}
	}
	c.RecordFrame(7, 0.025)
	if !c.ShouldFlush() {
		t.Fatal("expected flush after covering the window")
	}

	stats := c.Flush(nil, nil)
	if stats.Frames != 5 || stats.Substeps != 35 {
		t.Errorf("frames/substeps = %d/%d, want 5/35", stats.Frames, stats.Substeps)
	}
	if stats.WindowStartFrame != 0 || stats.WindowEndFrame != 5 {
		t.Errorf("window = [%d, %d], want [0, 5]", stats.WindowStartFrame, stats.WindowEndFrame)
	}
	if c.ShouldFlush() {
		t.Error("expected a fresh window after flush")
	}

	c.RecordFrame(7, 0.025)
	next := c.Flush(nil, nil)
	if next.WindowStartFrame != 5 || next.Frames != 1 {
		t.Errorf("second window start/frames = %d/%d, want 5/1", next.WindowStartFrame, next.Frames)
	}
}

func TestCollector_FlushSamplesMolecules(t *testing.T) {
	particles := []sph.Particle{
		{Position: mgl32.Vec3{-1, 0, 0}, Velocity: mgl32.Vec3{3, 4, 0}, Density: 10, NearDensity: 2, Pressure: -300},
		{Position: mgl32.Vec3{-2, 0, 0}, Velocity: mgl32.Vec3{0, 0, 0}, Density: 20, NearDensity: 4, Pressure: -150},
		{Position: mgl32.Vec3{5, 0, 0}, Velocity: mgl32.Vec3{0, -1, 0}, Density: 30, NearDensity: 6, Pressure: 0},
	}

	c := NewCollector(1)
	c.RecordFrame(7, 0.5)
	stats := c.Flush(particles, halfPlane{})

	if stats.Molecules != 3 {
		t.Errorf("molecules = %d, want 3", stats.Molecules)
	}
	if stats.Outside != 1 {
		t.Errorf("outside = %d, want 1", stats.Outside)
	}
	if math.Abs(stats.DensityMean-20) > 1e-9 {
		t.Errorf("density mean = %v, want 20", stats.DensityMean)
	}
	if stats.DensityP50 != 20 {
		t.Errorf("density p50 = %v, want 20", stats.DensityP50)
	}
	if math.Abs(stats.NearDensityMean-4) > 1e-9 {
		t.Errorf("near density mean = %v, want 4", stats.NearDensityMean)
	}
	if math.Abs(stats.PressureMean+150) > 1e-9 {
		t.Errorf("pressure mean = %v, want -150", stats.PressureMean)
	}
	if math.Abs(stats.SpeedMax-5) > 1e-6 {
		t.Errorf("speed max = %v, want 5", stats.SpeedMax)
	}
	if math.Abs(stats.SpeedMean-2) > 1e-6 {
		t.Errorf("speed mean = %v, want 2", stats.SpeedMean)
	}
	// 0.5·(25 + 0 + 1)
	if math.Abs(stats.KineticEnergy-13) > 1e-6 {
		t.Errorf("kinetic energy = %v, want 13", stats.KineticEnergy)
	}
}
