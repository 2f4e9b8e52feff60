package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/molecules/camera"
	"github.com/pthm-cable/molecules/sph"
)

var (
	// ContainerColor outlines the collision container.
	ContainerColor = rl.Color{R: 220, G: 220, B: 230, A: 255}
	// StartBoxColor outlines the region molecules spawn in.
	StartBoxColor = rl.Color{R: 90, G: 200, B: 120, A: 200}
)

// DrawContainer outlines the container. Singular containers are skipped.
func DrawContainer(c sph.Container, cam *camera.Camera, thickness float32) {
	if c.Singular() {
		return
	}
	drawQuad(c.Corners(), cam, thickness, ContainerColor)
}

// DrawStartBox outlines the spawn region.
func DrawStartBox(b sph.Box, cam *camera.Camera, thickness float32) {
	half := b.Size.Mul(0.5)
	corners := [4]mgl32.Vec2{
		b.Center.Sub(half),
		{b.Center[0] + half[0], b.Center[1] - half[1]},
		b.Center.Add(half),
		{b.Center[0] - half[0], b.Center[1] + half[1]},
	}
	drawQuad(corners, cam, thickness, StartBoxColor)
}

func drawQuad(corners [4]mgl32.Vec2, cam *camera.Camera, thickness float32, color rl.Color) {
	for i := range corners {
		a := corners[i]
		b := corners[(i+1)%len(corners)]
		ax, ay := cam.WorldToScreen(a[0], a[1])
		bx, by := cam.WorldToScreen(b[0], b[1])
		rl.DrawLineEx(rl.Vector2{X: ax, Y: ay}, rl.Vector2{X: bx, Y: by}, thickness, color)
	}
}
