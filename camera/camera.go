// Package camera provides a 2D camera system for viewport control.
package camera

// Camera maps the y-up simulation world onto a y-down screen.
// Supports pan and zoom around a home view.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom is a multiplier on PixelsPerUnit (1.0 = home scale)
	Zoom float32

	// PixelsPerUnit is the screen size of one world unit at zoom 1
	PixelsPerUnit float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	homeX, homeY float32
}

// New creates a camera centered on the world origin at zoom 1.
func New(viewportW, viewportH, pixelsPerUnit float32) *Camera {
	if pixelsPerUnit <= 0 {
		pixelsPerUnit = 1
	}
	return &Camera{
		Zoom:          1.0,
		PixelsPerUnit: pixelsPerUnit,
		ViewportW:     viewportW,
		ViewportH:     viewportH,
		MinZoom:       0.1,
		MaxZoom:       8.0,
	}
}

// scale returns the current pixels per world unit.
func (c *Camera) scale() float32 {
	return c.PixelsPerUnit * c.Zoom
}

// Scale converts a world length to screen pixels.
func (c *Camera) Scale(length float32) float32 {
	return length * c.scale()
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	s := c.scale()
	sx = c.ViewportW/2 + (wx-c.X)*s
	sy = c.ViewportH/2 - (wy-c.Y)*s
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	s := c.scale()
	wx = c.X + (sx-c.ViewportW/2)/s
	wy = c.Y - (sy-c.ViewportH/2)/s
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	return wx+radius >= minX && wx-radius <= maxX &&
		wy+radius >= minY && wy-radius <= maxY
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels.
// A positive dy moves the view down the screen.
func (c *Camera) Pan(dx, dy float32) {
	s := c.scale()
	c.X += dx / s
	c.Y -= dy / s
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Fit sets the home view so a world rectangle of the given size around
// (cx, cy) fills the viewport with a margin fraction left on each side.
// The camera moves to the new home view.
func (c *Camera) Fit(cx, cy, w, h, margin float32) {
	if w <= 0 || h <= 0 {
		return
	}
	usableW := c.ViewportW * (1 - 2*margin)
	usableH := c.ViewportH * (1 - 2*margin)
	c.PixelsPerUnit = min(usableW/w, usableH/h)
	c.homeX, c.homeY = cx, cy
	c.Reset()
}

// Reset returns the camera to the home position and zoom.
func (c *Camera) Reset() {
	c.X = c.homeX
	c.Y = c.homeY
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
// Returns (minX, minY, maxX, maxY) in world coordinates.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	s := c.scale()
	halfW := c.ViewportW / (2 * s)
	halfH := c.ViewportH / (2 * s)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
