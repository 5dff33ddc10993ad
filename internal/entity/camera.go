// Package entity provides the viewer's camera.
package entity

import "github.com/go-gl/mathgl/mgl64"

// Camera is the pannable viewpoint the visible window follows.
// While panning is disabled, keyboard moves and pointer drags are ignored.
type Camera struct {
	Position   mgl64.Vec2 // World-space position
	Speed      float64    // World units per keyboard step
	panEnabled bool
}

// NewCamera creates a camera at pos with panning enabled.
func NewCamera(pos mgl64.Vec2, speed float64) *Camera {
	return &Camera{
		Position:   pos,
		Speed:      speed,
		panEnabled: true,
	}
}

// Move steps the camera by (dx, dy) keyboard steps. Returns false if panning is disabled.
func (c *Camera) Move(dx, dy int) bool {
	if !c.panEnabled {
		return false
	}
	c.Position = c.Position.Add(mgl64.Vec2{float64(dx), float64(dy)}.Mul(c.Speed))
	return true
}

// Drag moves the camera against a pointer drag of delta world units, so the
// world follows the pointer. Returns false if panning is disabled.
func (c *Camera) Drag(delta mgl64.Vec2) bool {
	if !c.panEnabled {
		return false
	}
	c.Position = c.Position.Sub(delta)
	return true
}

// SetPanEnabled turns keyboard and drag panning on or off.
func (c *Camera) SetPanEnabled(enabled bool) {
	c.panEnabled = enabled
}

// PanEnabled reports whether panning is on.
func (c *Camera) PanEnabled() bool {
	return c.panEnabled
}

// Viewpoint returns the camera position. A nil camera reports no viewpoint.
func (c *Camera) Viewpoint() (mgl64.Vec2, bool) {
	if c == nil {
		return mgl64.Vec2{}, false
	}
	return c.Position, true
}
