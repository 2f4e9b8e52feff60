package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/molecules/telemetry"
)

// Snapshot captures the container placement and every molecule's kinematic state.
func (s *Scene) Snapshot(frame int64, simTime float64) *telemetry.Snapshot {
	st := &s.Settings
	snap := &telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		Seed:    s.seed,
		Frame:   frame,
		SimTime: simTime,
		Container: telemetry.ContainerState{
			X:        st.ContainerPosition[0],
			Y:        st.ContainerPosition[1],
			Rotation: st.ContainerRotation,
			ScaleX:   st.ContainerScale[0],
			ScaleY:   st.ContainerScale[1],
		},
		Molecules: make([]telemetry.MoleculeState, 0, s.solver.Len()),
	}

	for _, p := range s.solver.Particles() {
		snap.Molecules = append(snap.Molecules, telemetry.MoleculeState{
			X:    p.Position[0],
			Y:    p.Position[1],
			VelX: p.Velocity[0],
			VelY: p.Velocity[1],
		})
	}
	return snap
}

// Restore loads a snapshot taken from a scene with the same molecule count.
// The scene is left paused.
func (s *Scene) Restore(snap *telemetry.Snapshot) error {
	if len(snap.Molecules) != s.solver.Len() {
		return fmt.Errorf("snapshot has %d molecules, scene has %d", len(snap.Molecules), s.solver.Len())
	}

	c := snap.Container
	s.Settings.ContainerPosition = mgl32.Vec2{c.X, c.Y}
	s.Settings.ContainerRotation = c.Rotation
	s.Settings.ContainerScale = mgl32.Vec2{c.ScaleX, c.ScaleY}

	for i, m := range snap.Molecules {
		s.solver.Place(i, mgl32.Vec2{m.X, m.Y}, mgl32.Vec2{m.VelX, m.VelY})
	}
	s.paused = true
	return nil
}
