package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Every ray-casting mode must put the forward axis at image center — this is
// what the 0.75 azimuth offset calibrates.
func TestForwardAxisCalibration(t *testing.T) {
	modes := []ProjectionMode{Rectilinear, Equidistant, Stereographic, Pannini, Architectural}

	for _, m := range modes {
		t.Run(m.String(), func(t *testing.T) {
			cam := NewCamera()
			cam.SetMode(m)

			u, v := Project(cam, 0, 0)
			assert.InDelta(t, 0.5, u, 1e-9)
			assert.InDelta(t, 0.5, v, 1e-9)
		})
	}
}

func TestRectilinearEdgeAt90Degrees(t *testing.T) {
	cam := NewCamera()
	cam.Set(0, 0, math.Pi/2)

	// With fov=90° and aspect 1, the screen edge x=1 is exactly 45° off
	// the forward axis: u = 0.5 + 45/360.
	u, v := Project(cam, 1, 0)
	assert.InDelta(t, 0.625, u, 1e-9)
	assert.InDelta(t, 0.5, v, 1e-9)
}

func TestEquidistantIsLinearInRadius(t *testing.T) {
	cam := NewCamera()
	cam.SetMode(Equidistant)
	cam.FOV = math.Pi // direct write: 180° sits above the interactive clamp

	// θ = r·fov/2, so r=1 at fov=180° lands exactly 90° right of forward.
	u, _ := Project(cam, 1, 0)
	assert.InDelta(t, 0.75, u, 1e-9)

	// Half the radius, half the angle.
	u, _ = Project(cam, 0.5, 0)
	assert.InDelta(t, 0.625, u, 1e-9)
}

func TestStereographicEdge(t *testing.T) {
	cam := NewCamera()
	cam.SetMode(Stereographic)
	cam.FOV = math.Pi // direct write: 180° sits above the interactive clamp

	// θ = 2·atan(r·tan(fov/4)): r=1, fov=180° → 2·atan(1) = 90°.
	u, _ := Project(cam, 1, 0)
	assert.InDelta(t, 0.75, u, 1e-9)
}

func TestPanniniHorizontalAngle(t *testing.T) {
	cam := NewCamera()
	cam.SetMode(Pannini)
	cam.Set(0, 0, math.Pi/2) // f = 1

	// Cylindrical: horizontal angle is x/f, so x=π/4 is 45° right.
	u, v := Project(cam, math.Pi/4, 0)
	assert.InDelta(t, 0.625, u, 1e-9)
	assert.InDelta(t, 0.5, v, 1e-9)
}

func TestYawPansAllModesConsistently(t *testing.T) {
	const yaw = 0.3
	modes := []ProjectionMode{Rectilinear, Equidistant, Stereographic, Pannini, Architectural, Equirectangular}

	// A yaw of +0.3 shifts the sampled azimuth by -0.3/2π in every mode,
	// including the flat view.
	for _, m := range modes {
		t.Run(m.String(), func(t *testing.T) {
			cam := NewCamera()
			cam.SetMode(m)
			cam.Set(yaw, 0, DefaultFOV)

			u, _ := Project(cam, 0, 0)
			assert.InDelta(t, fract(0.5-yaw/(2*math.Pi)), u, 1e-9)
		})
	}
}

func TestPitchMovesElevation(t *testing.T) {
	const pitch = 0.4
	cam := NewCamera()
	cam.Set(0, pitch, DefaultFOV)

	// Looking up by pitch puts the screen center at elevation θ=pitch.
	_, v := Project(cam, 0, 0)
	assert.InDelta(t, 0.5-pitch/math.Pi, v, 1e-9)
}

func TestArchitecturalKeepsVerticalsParallel(t *testing.T) {
	cam := NewCamera()
	cam.SetMode(Architectural)
	cam.Set(0.7, 0.5, DefaultFOV)

	// Points on the same screen vertical must sample the same azimuth:
	// pitch acts as a lens shift, never as a rotation.
	u1, _ := Project(cam, 0.3, -0.8)
	u2, _ := Project(cam, 0.3, 0.0)
	u3, _ := Project(cam, 0.3, 0.8)
	assert.InDelta(t, u1, u2, 1e-9)
	assert.InDelta(t, u2, u3, 1e-9)

	// Rectilinear with the same pose keystones: the azimuths differ.
	cam.SetMode(Rectilinear)
	r1, _ := Project(cam, 0.3, -0.8)
	r2, _ := Project(cam, 0.3, 0.8)
	assert.Greater(t, math.Abs(r1-r2), 1e-3)
}

func TestEquirectangularIgnoresPitchAndFOV(t *testing.T) {
	cam := NewCamera()
	cam.SetMode(Equirectangular)
	cam.Set(1.0, 0, DefaultFOV)
	u0, v0 := Project(cam, 0.25, -0.5)

	cam.Set(1.0, 0.8, DefaultFOV)
	u1, v1 := Project(cam, 0.25, -0.5)
	assert.Equal(t, u0, u1, "pitch must not pan the flat view")
	assert.Equal(t, v0, v1)

	cam.Set(1.0, 0, 2.5)
	u2, v2 := Project(cam, 0.25, -0.5)
	assert.Equal(t, u0, u2, "fov must not zoom the flat view")
	assert.Equal(t, v0, v2)
}

func TestEquirectangularWrapsNearPi(t *testing.T) {
	cam := NewCamera()
	cam.SetMode(Equirectangular)

	for _, yaw := range []float64{-math.Pi, -math.Pi + 1e-6, -1, 0, 1, math.Pi - 1e-6} {
		cam.Set(yaw, 0, DefaultFOV)
		for _, x := range []float64{-1, -0.5, 0, 0.999, 1} {
			u, v := Project(cam, x, 0)
			if u < 0 || u >= 1 {
				t.Fatalf("u=%v out of [0,1) at yaw=%v x=%v", u, yaw, x)
			}
			assert.InDelta(t, 0.5, v, 1e-9)
		}
	}
}

// The mapping must be total: no NaN/Inf for any screen point at any legal
// camera pose, including the clamp boundaries.
func TestProjectIsTotal(t *testing.T) {
	modes := []ProjectionMode{Rectilinear, Equidistant, Stereographic, Pannini, Equirectangular, Architectural}
	poses := []struct{ yaw, pitch, fov float64 }{
		{0, 0, MinFOV},
		{0, 0, MaxFOV},
		{-math.Pi, pitchLimit, DefaultFOV},
		{math.Pi - 1e-9, -pitchLimit, MaxFOV},
	}
	points := []struct{ x, y float64 }{
		{0, 0}, {1e-12, -1e-12}, {-1.78, 1}, {1.78, -1}, {0, 1}, {-1, 0},
	}

	for _, m := range modes {
		for _, p := range poses {
			cam := NewCamera()
			cam.SetMode(m)
			cam.Set(p.yaw, p.pitch, p.fov)
			for _, pt := range points {
				u, v := Project(cam, pt.x, pt.y)
				if math.IsNaN(u) || math.IsInf(u, 0) || math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("mode %v pose %+v point %+v: non-finite (u,v)=(%v,%v)", m, p, pt, u, v)
				}
				if u < 0 || u >= 1 {
					t.Fatalf("mode %v: u=%v out of [0,1)", m, u)
				}
			}
		}
	}
}

func TestParseProjectionMode(t *testing.T) {
	cases := []struct {
		in   string
		want ProjectionMode
	}{
		{"rectilinear", Rectilinear},
		{"Fisheye", Equidistant},
		{"littleplanet", Stereographic},
		{"PANNINI", Pannini},
		{"flat", Equirectangular},
		{"architectural", Architectural},
	}
	for _, c := range cases {
		got, err := ParseProjectionMode(c.in)
		assert.NoError(t, err)
		assert.Equal(t, c.want, got, "parse %q", c.in)
	}

	_, err := ParseProjectionMode("mercator")
	assert.Error(t, err)
}
