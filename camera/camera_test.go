package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 0.01
}

func TestNew(t *testing.T) {
	cam := New(1600, 900, 30)

	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected camera at origin, got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1600, 900, 30)

	sx, sy := cam.WorldToScreen(0, 0)
	if !near(sx, 800) || !near(sy, 450) {
		t.Errorf("expected screen center (800, 450), got (%f, %f)", sx, sy)
	}
}

func TestWorldToScreenYUp(t *testing.T) {
	cam := New(1600, 900, 30)

	// One unit up in the world is 30 pixels up the screen.
	sx, sy := cam.WorldToScreen(2, 1)
	if !near(sx, 860) || !near(sy, 420) {
		t.Errorf("expected (860, 420), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 25)
	cam.X, cam.Y = -3, 4
	cam.SetZoom(1.7)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPan(t *testing.T) {
	cam := New(1600, 900, 20)

	cam.Pan(40, 60)

	if !near(cam.X, 2) || !near(cam.Y, -3) {
		t.Errorf("expected camera at (2, -3), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 30)

	cam.SetZoom(0.01)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestFit(t *testing.T) {
	cam := New(1600, 900, 1)

	// 41x23 container with a 10% margin: min(1280/41, 720/23)
	cam.Fit(1, -1, 41, 23, 0.1)

	want := float32(math.Min(1280.0/41, 720.0/23))
	if !near(cam.PixelsPerUnit, want) {
		t.Errorf("expected %f pixels per unit, got %f", want, cam.PixelsPerUnit)
	}
	if cam.X != 1 || cam.Y != -1 {
		t.Errorf("expected camera at fit center, got (%f, %f)", cam.X, cam.Y)
	}

	cam.Pan(300, 300)
	cam.SetZoom(3)
	cam.Reset()
	if cam.X != 1 || cam.Y != -1 || cam.Zoom != 1 {
		t.Errorf("reset did not return to fit view: (%f, %f) zoom %f", cam.X, cam.Y, cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 10)

	// Visible range in world coords: (-64, -36) to (64, 36)
	if !cam.IsVisible(0, 0, 1) {
		t.Error("center should be visible")
	}

	if cam.IsVisible(100, 50, 1) {
		t.Error("far point should not be visible")
	}

	if !cam.IsVisible(66, 0, 3) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestScale(t *testing.T) {
	cam := New(1280, 720, 30)
	cam.SetZoom(2)

	if !near(cam.Scale(0.5), 30) {
		t.Errorf("expected 0.5 units to be 30 pixels, got %f", cam.Scale(0.5))
	}
}
