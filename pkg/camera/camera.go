// Package camera maps between screen and world coordinates for the circuit
// canvas. A Camera is a plain value; the editor owns one and mutates it in
// response to pan, zoom and reset gestures.
package camera

import (
	"math"

	"github.com/chazu/logica/pkg/circuit"
)

// Default scale limits.
const (
	DefaultMinScale = 0.1
	DefaultMaxScale = 5.0
)

// Camera holds the view transform.
//
//	world  = (screen - Origin) / Scale - Offset
//	screen = (world + Offset) * Scale + Origin
type Camera struct {
	Scale    float64       `json:"scale"`
	Offset   circuit.Point `json:"offset"`
	Origin   circuit.Point `json:"origin"`
	MinScale float64       `json:"min_scale"`
	MaxScale float64       `json:"max_scale"`
}

// New returns a camera at scale 1 with no offset and the default limits.
func New() Camera {
	return Camera{Scale: 1, MinScale: DefaultMinScale, MaxScale: DefaultMaxScale}
}

// WithLimits returns a copy of c using the given scale limits. Invalid limits
// (non-positive or min > max) fall back to the defaults. The current scale is
// clamped into the new range.
func (c Camera) WithLimits(minScale, maxScale float64) Camera {
	if minScale <= 0 || maxScale <= 0 || minScale > maxScale {
		minScale, maxScale = DefaultMinScale, DefaultMaxScale
	}
	c.MinScale, c.MaxScale = minScale, maxScale
	c.Scale = c.clamp(c.Scale)
	return c
}

// ScreenToWorld converts a screen position into world coordinates.
func (c *Camera) ScreenToWorld(p circuit.Point) circuit.Point {
	s := c.scale()
	return circuit.Point{
		X: (p.X-c.Origin.X)/s - c.Offset.X,
		Y: (p.Y-c.Origin.Y)/s - c.Offset.Y,
	}
}

// WorldToScreen converts a world position into screen coordinates.
func (c *Camera) WorldToScreen(w circuit.Point) circuit.Point {
	s := c.scale()
	return circuit.Point{
		X: (w.X+c.Offset.X)*s + c.Origin.X,
		Y: (w.Y+c.Offset.Y)*s + c.Origin.Y,
	}
}

// Pan moves the view by a screen-space delta: the world point under the
// pointer stays under the pointer.
func (c *Camera) Pan(dx, dy float64) {
	s := c.scale()
	c.Offset.X += dx / s
	c.Offset.Y += dy / s
}

// Zoom multiplies the scale by factor, clamped to the limits. The offset is
// unchanged, so the zoom is anchored at the screen origin.
func (c *Camera) Zoom(factor float64) {
	c.SetScale(c.scale() * factor)
}

// ZoomAt zooms by factor keeping the world point under anchor (a screen
// position) fixed.
func (c *Camera) ZoomAt(factor float64, anchor circuit.Point) {
	before := c.ScreenToWorld(anchor)
	c.Zoom(factor)
	after := c.ScreenToWorld(anchor)
	c.Offset.X += after.X - before.X
	c.Offset.Y += after.Y - before.Y
}

// SetScale sets the scale, clamped to the limits. NaN and infinities are
// ignored.
func (c *Camera) SetScale(s float64) {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return
	}
	c.Scale = c.clamp(s)
}

// Reset restores scale 1 and a zero offset. Origin and limits are kept.
func (c *Camera) Reset() {
	c.Scale = c.clamp(1)
	c.Offset = circuit.Point{}
}

// Visible returns the world-space rectangle covered by a viewport of the
// given screen size.
func (c *Camera) Visible(width, height float64) circuit.Rect {
	tl := c.ScreenToWorld(c.Origin)
	s := c.scale()
	return circuit.Rect{X: tl.X, Y: tl.Y, W: width / s, H: height / s}
}

func (c *Camera) clamp(s float64) float64 {
	lo, hi := c.MinScale, c.MaxScale
	if lo <= 0 {
		lo = DefaultMinScale
	}
	if hi <= 0 {
		hi = DefaultMaxScale
	}
	return math.Max(lo, math.Min(hi, s))
}

// scale guards the zero value: a Camera{} behaves as scale 1.
func (c *Camera) scale() float64 {
	if c.Scale <= 0 {
		return 1
	}
	return c.Scale
}
