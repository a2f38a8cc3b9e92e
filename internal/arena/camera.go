package arena

import "github.com/vovakirdan/tui-arena/internal/core"

// Camera eases a viewport toward the local player and keeps it inside the world.
type Camera struct {
	origin    core.Vec
	viewW     float64
	viewH     float64
	world     core.Rect
	smoothing float64
}

// NewCamera creates a camera at the world origin.
func NewCamera(world core.Rect, viewW, viewH, smoothing float64) *Camera {
	return &Camera{world: world, viewW: viewW, viewH: viewH, smoothing: smoothing}
}

// Origin returns the top-left corner of the viewport in world units.
func (c *Camera) Origin() core.Vec {
	return c.origin
}

// Viewport returns the viewport size in world units.
func (c *Camera) Viewport() (float64, float64) {
	return c.viewW, c.viewH
}

// SetViewport resizes the viewport and re-clamps the origin.
func (c *Camera) SetViewport(w, h float64) {
	c.viewW, c.viewH = w, h
	c.origin = c.clamp(c.origin)
}

// Target returns the origin that centres the viewport on focus, clamped.
func (c *Camera) Target(focus core.Vec) core.Vec {
	return c.clamp(core.Vec{X: focus.X - c.viewW/2, Y: focus.Y - c.viewH/2})
}

// Follow moves the origin a smoothing fraction of the way toward focus.
func (c *Camera) Follow(focus core.Vec) {
	target := core.Vec{X: focus.X - c.viewW/2, Y: focus.Y - c.viewH/2}
	c.origin = c.clamp(c.origin.Add(target.Sub(c.origin).Scale(c.smoothing)))
}

// Snap jumps straight to focus.
func (c *Camera) Snap(focus core.Vec) {
	c.origin = c.Target(focus)
}

// ScreenToWorld converts a viewport-relative point to world coordinates.
func (c *Camera) ScreenToWorld(p core.Vec) core.Vec {
	return c.origin.Add(p)
}

// WorldToScreen converts a world point to viewport-relative coordinates.
func (c *Camera) WorldToScreen(p core.Vec) core.Vec {
	return p.Sub(c.origin)
}

func (c *Camera) clamp(o core.Vec) core.Vec {
	maxX := c.world.Right() - c.viewW
	maxY := c.world.Bottom() - c.viewH
	o.X = core.ClampF(o.X, c.world.X, max(c.world.X, maxX))
	o.Y = core.ClampF(o.Y, c.world.Y, max(c.world.Y, maxY))
	return o
}
