// Kernel preview tool - plots the smoothing kernels and the density of a
// packed fluid for a chosen influence radius.
//
// Usage: go run ./cmd/kernelpreview
package main

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	windowWidth  = 1000
	windowHeight = 620
	plotX        = 40
	plotY        = 40
	plotW        = 560
	plotH        = 500
	panelX       = plotX + plotW + 40
	panelWidth   = windowWidth - panelX - 20
	samples      = 200
)

var curveColors = []rl.Color{rl.SkyBlue, rl.Blue, rl.Orange, rl.Brown, rl.DarkGreen}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Kernel Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	h := float32(0.5)
	spacing := float32(0.2)

	for !rl.WindowShouldClose() {
		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawPlot(h)

		y := float32(plotY)
		rl.DrawText("Kernel Parameters", panelX, int32(y), 20, rl.DarkGray)
		y += 35

		rl.DrawText("Influence radius", panelX, int32(y), 14, rl.Gray)
		y += 18
		h = gui.SliderBar(rl.Rectangle{X: panelX, Y: y, Width: panelWidth - 70, Height: 20}, "", "", h, 0.1, 2)
		rl.DrawText(fmt.Sprintf("%.2f", h), int32(panelX+panelWidth-60), int32(y+2), 16, rl.DarkGray)
		y += 35

		rl.DrawText("Molecule spacing", panelX, int32(y), 14, rl.Gray)
		y += 18
		spacing = gui.SliderBar(rl.Rectangle{X: panelX, Y: y, Width: panelWidth - 70, Height: 20}, "", "", spacing, 0.02, 1)
		rl.DrawText(fmt.Sprintf("%.3f", spacing), int32(panelX+panelWidth-60), int32(y+2), 16, rl.DarkGray)
		y += 45

		rest := latticeDensity(spacing, h)
		rl.DrawText(fmt.Sprintf("Packed density: %.2f", rest), panelX, int32(y), 16, rl.DarkGray)
		y += 22
		rl.DrawText("Use as rest_density to keep this spacing", panelX, int32(y), 12, rl.Gray)
		y += 40

		for i, c := range curves {
			rl.DrawRectangle(panelX, int32(y)+3, 10, 10, curveColors[i])
			rl.DrawText(c.name, panelX+16, int32(y), 14, rl.DarkGray)
			y += 20
		}

		rl.DrawText("Press C to copy YAML to clipboard", panelX, windowHeight-30, 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(fmt.Sprintf("molecule:\n  influence_radius: %.2f\n  rest_density: %.1f", h, rest))
		}

		rl.EndDrawing()
	}
}

// drawPlot draws every curve normalized to its own peak over [0, 1.1h].
func drawPlot(h float32) {
	rl.DrawRectangleLines(plotX, plotY, plotW, plotH, rl.DarkGray)
	zeroY := float32(plotY + plotH/2)
	rl.DrawLine(plotX, int32(zeroY), plotX+plotW, int32(zeroY), rl.LightGray)

	maxD := h * 1.1
	radiusX := float32(plotX) + plotW*h/maxD
	rl.DrawLine(int32(radiusX), plotY, int32(radiusX), plotY+plotH, rl.LightGray)
	rl.DrawText("h", int32(radiusX)+4, plotY+4, 14, rl.Gray)

	for i, c := range curves {
		values, peak := sample(c.fn, h, maxD, samples)
		if peak == 0 {
			continue
		}
		prev := rl.Vector2{}
		for j, v := range values {
			pt := rl.Vector2{
				X: float32(plotX) + plotW*float32(j+1)/samples,
				Y: zeroY - (v/peak)*(plotH/2-4),
			}
			if j > 0 {
				rl.DrawLineEx(prev, pt, 2, curveColors[i])
			}
			prev = pt
		}
	}

	rl.DrawText(fmt.Sprintf("distance 0 .. %.2f", maxD), plotX, plotY+plotH+8, 14, rl.Gray)
}
