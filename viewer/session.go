// Package viewer ties the panorama core together for a frame-driven front
// end: one camera, one controller, one active canvas, and a background
// decode handoff polled once per frame.
package viewer

import (
	"image"
	"log/slog"

	"github.com/patchescamerababy/panorama-viewer/render"
	"github.com/patchescamerababy/panorama-viewer/texture"
)

type loadResult struct {
	gen    uint64
	path   string
	canvas *texture.Canvas
	err    error
}

// Session owns the per-frame state of one open panorama.
//
// All methods must be called from the frame loop goroutine; only the decode
// work runs in the background. Loads are last-request-wins: results from a
// superseded request are discarded when they arrive, and a failed or stale
// load never touches the active canvas.
type Session struct {
	Camera *render.Camera

	// Render quality knobs, safe to adjust between frames.
	Supersample int
	Workers     int

	ctrl    *render.Controller
	canvas  *texture.Canvas
	maxDim  int
	gen     uint64 // bumped on the frame loop only
	results chan loadResult
}

// NewSession creates an idle session. maxDim is the rendering backend's
// maximum texture dimension, applied when canvases are prepared.
func NewSession(maxDim int) *Session {
	s := &Session{
		Camera:      render.NewCamera(),
		Supersample: 1,
		maxDim:      maxDim,
		results:     make(chan loadResult, 4),
	}
	s.ctrl = render.NewController(s.Camera, s.Load)
	return s
}

// Handle feeds one input event through the interaction controller. Dropped
// files start a background load.
func (s *Session) Handle(ev render.Event) {
	s.ctrl.Handle(ev)
}

// Load starts decoding and preparing path on a background goroutine,
// superseding any load still in flight.
func (s *Session) Load(path string) {
	s.gen++
	gen := s.gen
	go func() {
		img, err := texture.Load(path)
		var canvas *texture.Canvas
		if err == nil {
			canvas, err = texture.Prepare(img, s.maxDim)
		}
		s.results <- loadResult{gen: gen, path: path, canvas: canvas, err: err}
	}()
}

// Poll drains any finished loads without blocking and swaps in the newest
// canvas, if one completed. Call once per frame. Reports whether the active
// canvas changed.
func (s *Session) Poll() bool {
	swapped := false
	for {
		select {
		case r := <-s.results:
			if r.gen != s.gen {
				continue // a newer load superseded this one
			}
			if r.err != nil {
				slog.Warn("failed to load panorama", "path", r.path, "error", r.err)
				continue
			}
			s.canvas = r.canvas
			swapped = true
		default:
			return swapped
		}
	}
}

// Canvas returns the active canvas, or nil before the first successful load.
func (s *Session) Canvas() *texture.Canvas {
	return s.canvas
}

// Render draws the current frame. Before the first load completes it
// returns a plain dark frame so the front end always has something to
// present.
func (s *Session) Render(width, height int) (*image.NRGBA, error) {
	if s.canvas == nil {
		return placeholderFrame(width, height), nil
	}
	return render.RenderView(s.canvas, s.Camera, width, height, s.Supersample, s.Workers)
}

func placeholderFrame(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0x1a
		img.Pix[i+1] = 0x1a
		img.Pix[i+2] = 0x1a
		img.Pix[i+3] = 0xff
	}
	return img
}
