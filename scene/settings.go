package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/molecules/config"
)

// Settings are the live tunables of a scene. The controls panel edits them
// between frames; they take effect on the next substep.
type Settings struct {
	ContainerPosition mgl32.Vec2
	ContainerRotation float32 // degrees
	ContainerScale    mgl32.Vec2

	BoxPosition mgl32.Vec2
	BoxScale    mgl32.Vec2

	MoleculeScale   float32
	InfluenceRadius float32
	Viscosity       float32
	RestDensity     float32

	CollisionMode string
}

// SettingsFromConfig copies the configured starting values.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		ContainerPosition: vec2(cfg.Container.Position),
		ContainerRotation: float32(cfg.Container.Rotation),
		ContainerScale:    vec2(cfg.Container.Scale),
		BoxPosition:       vec2(cfg.StartBox.Position),
		BoxScale:          vec2(cfg.StartBox.Scale),
		MoleculeScale:     float32(cfg.Molecule.Scale),
		InfluenceRadius:   float32(cfg.Molecule.InfluenceRadius),
		Viscosity:         float32(cfg.Molecule.Viscosity),
		RestDensity:       float32(cfg.Molecule.RestDensity),
		CollisionMode:     cfg.Collision.Mode,
	}
}

func vec2(v [2]float64) mgl32.Vec2 {
	return mgl32.Vec2{float32(v[0]), float32(v[1])}
}
