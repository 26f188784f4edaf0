package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/patchescamerababy/panorama-viewer/vectors"
)

// ProjectionMode selects the ray-generation model. The set is closed; Project
// switches over it exhaustively.
type ProjectionMode int

const (
	// Rectilinear is standard perspective: straight lines stay straight.
	Rectilinear ProjectionMode = iota
	// Equidistant is a fisheye: angle from the view axis is linear in
	// radial screen distance.
	Equidistant
	// Stereographic is the "little planet" projection.
	Stereographic
	// Pannini is approximated as a cylindrical projection here, not the
	// exact Pannini formula. Intentional; do not "fix" without revisiting
	// the product behavior.
	Pannini
	// Equirectangular shows the raw unwrapped source panned by yaw.
	Equirectangular
	// Architectural is Rectilinear with pitch folded into a vertical lens
	// shift so vertical lines stay parallel.
	Architectural
)

func (m ProjectionMode) String() string {
	switch m {
	case Rectilinear:
		return "rectilinear"
	case Equidistant:
		return "equidistant"
	case Stereographic:
		return "stereographic"
	case Pannini:
		return "pannini"
	case Equirectangular:
		return "equirectangular"
	case Architectural:
		return "architectural"
	default:
		return fmt.Sprintf("ProjectionMode(%d)", int(m))
	}
}

// ParseProjectionMode resolves a mode name from the CLI or a menu. A few
// colloquial aliases are accepted.
func ParseProjectionMode(s string) (ProjectionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rectilinear", "perspective":
		return Rectilinear, nil
	case "equidistant", "fisheye":
		return Equidistant, nil
	case "stereographic", "littleplanet", "little-planet":
		return Stereographic, nil
	case "pannini", "cylindrical":
		return Pannini, nil
	case "equirectangular", "equirect", "flat":
		return Equirectangular, nil
	case "architectural", "shift":
		return Architectural, nil
	}
	return Rectilinear, fmt.Errorf("unknown projection mode %q", s)
}

// centerEpsilon guards the r≈0 singularity of the radial modes.
const centerEpsilon = 1e-9

// Project maps a normalized, aspect-corrected screen coordinate (x right,
// y up, roughly [-1,1] on the short axis) to equirectangular texture
// coordinates (u,v) ∈ [0,1]² under the camera's pose and mode.
//
// The mapping is total: every input yields a valid sample coordinate.
func Project(cam *Camera, x, y float64) (u, v float64) {
	if cam.Mode == Equirectangular {
		// Flat view of the unwrapped source, panned horizontally by yaw.
		// Pitch and FOV are not geometrically applied in this mode.
		u = fract(x*0.5 + 0.5 - cam.Yaw/(2*math.Pi))
		v = 1.0 - (y*0.5 + 0.5)
		return u, v
	}

	dir := cameraRay(cam, x, y)
	if cam.Mode == Architectural {
		// Pitch was folded into the lens shift; only yaw rotates the view.
		dir = dir.RotateY(cam.Yaw)
	} else {
		dir = dir.RotateX(cam.Pitch).RotateY(cam.Yaw)
	}
	return sphereUV(dir)
}

// cameraRay produces the camera-space viewing ray for one screen coordinate.
// Camera space: +X right, +Y up, -Z forward.
func cameraRay(cam *Camera, x, y float64) vectors.Vec3 {
	switch cam.Mode {
	case Rectilinear:
		f := 1.0 / math.Tan(cam.FOV/2)
		return vectors.Vec3{X: x, Y: y, Z: -f}.Normalize()

	case Equidistant:
		r := math.Hypot(x, y)
		if r < centerEpsilon {
			return vectors.Vec3{Z: -1}
		}
		theta := r * cam.FOV / 2
		s := math.Sin(theta)
		return vectors.Vec3{X: x / r * s, Y: y / r * s, Z: -math.Cos(theta)}

	case Stereographic:
		r := math.Hypot(x, y)
		if r < centerEpsilon {
			return vectors.Vec3{Z: -1}
		}
		theta := 2 * math.Atan(r*math.Tan(cam.FOV/4))
		s := math.Sin(theta)
		return vectors.Vec3{X: x / r * s, Y: y / r * s, Z: -math.Cos(theta)}

	case Pannini:
		f := 1.0 / math.Tan(cam.FOV/2)
		theta := x / f
		return vectors.Vec3{X: math.Sin(theta), Y: y / f, Z: -math.Cos(theta)}.Normalize()

	case Architectural:
		f := 1.0 / math.Tan(cam.FOV/2)
		shift := -math.Tan(cam.Pitch)
		return vectors.Vec3{X: x, Y: y + shift*f, Z: -f}.Normalize()

	default:
		return vectors.Vec3{Z: -1}
	}
}

// sphereUV maps a world-space direction to equirectangular coordinates.
// The 0.75 azimuth offset is the calibration that puts the forward axis
// (-Z) at u=0.5, so screen center lands on image center.
func sphereUV(dir vectors.Vec3) (u, v float64) {
	d := dir.Normalize()
	phi := math.Atan2(d.Z, d.X)
	theta := math.Asin(clamp(d.Y, -1, 1))

	u = fract(phi/(2*math.Pi) + 0.75)
	v = 0.5 - theta/math.Pi
	return u, v
}

// fract returns the fractional part of x in [0,1).
func fract(x float64) float64 {
	f := x - math.Floor(x)
	if f >= 1 { // guard against rounding at the seam
		f = 0
	}
	return f
}
