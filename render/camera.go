package render

import "math"

// Camera interaction constants. Sensitivities are fixed; the UI layer can
// still scale the deltas it feeds in if a preference knob is wanted.
const (
	DefaultFOV = 46.8 * math.Pi / 180 // ~50mm full-frame equivalent
	MinFOV     = 0.1
	MaxFOV     = 3.0

	DragSensitivity = 0.003                 // radians per pixel of pointer drag
	ZoomSensitivity = 2.5 * math.Pi / 180.0 // radians of FOV per wheel step

	// Architectural mode takes tan(pitch); keep pitch clear of ±π/2.
	pitchLimit = math.Pi/2 - 0.002
)

// Camera holds the viewing state for one open panorama: orientation, zoom
// and the active projection mode. Angles are radians. The zero value is not
// useful; use NewCamera.
//
// The camera lives on the frame loop: the interaction controller is its only
// writer and the projection engine reads it within the same frame step, so
// no locking is involved.
type Camera struct {
	Yaw   float64 // wrapped into [-π, π)
	Pitch float64 // clamped into [-pitchLimit, pitchLimit]
	FOV   float64 // vertical field of view, clamped into [MinFOV, MaxFOV]
	Mode  ProjectionMode
}

func NewCamera() *Camera {
	return &Camera{FOV: DefaultFOV, Mode: Rectilinear}
}

// Rotate pans the view by a pointer delta. Dragging right increases yaw so
// the view appears to pan left.
func (c *Camera) Rotate(dx, dy, sensitivity float64) {
	c.Yaw = wrapAngle(c.Yaw + dx*sensitivity)
	c.Pitch = clamp(c.Pitch+dy*sensitivity, -pitchLimit, pitchLimit)
}

// Zoom narrows the field of view on a forward wheel delta.
func (c *Camera) Zoom(delta, sensitivity float64) {
	c.FOV = clamp(c.FOV-delta*sensitivity, MinFOV, MaxFOV)
}

// Reset restores the default orientation and zoom. The projection mode is
// kept.
func (c *Camera) Reset() {
	c.Yaw = 0
	c.Pitch = 0
	c.FOV = DefaultFOV
}

// SetMode switches the projection model. Orientation and zoom carry over
// unchanged.
func (c *Camera) SetMode(m ProjectionMode) {
	c.Mode = m
}

// Set places the camera at an explicit pose, applying the same wrap and
// clamps as the interactive mutations. Used by headless callers.
func (c *Camera) Set(yaw, pitch, fov float64) {
	c.Yaw = wrapAngle(yaw)
	c.Pitch = clamp(pitch, -pitchLimit, pitchLimit)
	c.FOV = clamp(fov, MinFOV, MaxFOV)
}

// wrapAngle wraps a into [-π, π).
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
