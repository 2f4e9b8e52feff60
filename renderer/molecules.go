package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/molecules/camera"
	"github.com/pthm-cable/molecules/palette"
	"github.com/pthm-cable/molecules/sph"
)

// minRadiusPx keeps molecules visible when zoomed far out.
const minRadiusPx = 1.0

// MoleculeRenderer draws molecules as discs colored by speed.
type MoleculeRenderer struct {
	ramp     *palette.Ramp
	speedMax float32
}

// NewMoleculeRenderer creates a renderer mapping speedMax to the hot end of ramp.
func NewMoleculeRenderer(ramp *palette.Ramp, speedMax float32) *MoleculeRenderer {
	return &MoleculeRenderer{ramp: ramp, speedMax: speedMax}
}

// Draw renders every visible molecule with diameter scale in world units.
func (r *MoleculeRenderer) Draw(particles []sph.Particle, scale float32, cam *camera.Camera) {
	radius := scale * 0.5
	radiusPx := cam.Scale(radius)
	if radiusPx < minRadiusPx {
		radiusPx = minRadiusPx
	}

	for i := range particles {
		p := &particles[i]
		if !cam.IsVisible(p.Position[0], p.Position[1], radius) {
			continue
		}
		sx, sy := cam.WorldToScreen(p.Position[0], p.Position[1])
		c := r.ramp.Speed(p.Velocity.Len(), r.speedMax)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radiusPx, rl.Color{R: c.R, G: c.G, B: c.B, A: 255})
	}
}
