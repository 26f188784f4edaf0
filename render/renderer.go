package render

import (
	"fmt"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/patchescamerababy/panorama-viewer/colors"
	"github.com/patchescamerababy/panorama-viewer/texture"
)

// supersampleOffsets returns n×n offsets in [-0.5, +0.5] with pixel-center
// spacing, as (dx, dy) pairs.
func supersampleOffsets(n int) [][2]float64 {
	if n <= 0 {
		n = 1
	}
	step := 1.0 / float64(n)
	out := make([][2]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dx := (float64(i)+0.5)*step - 0.5
			dy := (float64(j)+0.5)*step - 0.5
			out = append(out, [2]float64{dx, dy})
		}
	}
	return out
}

// RenderView renders one frame of the canvas under the camera's projection.
// Rows are distributed over numWorkers goroutines; supersampling is n×n per
// pixel. numWorkers <= 0 means GOMAXPROCS.
func RenderView(canvas *texture.Canvas, cam *Camera, width, height, supersample, numWorkers int) (*image.NRGBA, error) {
	if canvas == nil {
		return nil, fmt.Errorf("no canvas to render")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	offsets := supersampleOffsets(supersample)
	invN := 1.0 / float64(len(offsets))
	aspect := float64(width) / float64(height)

	// The camera is read-only during the frame; copy it so a caller
	// mutating between Wait and return can't tear a row.
	camCopy := *cam

	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	var g errgroup.Group
	rowsPerBand := (height + numWorkers - 1) / numWorkers
	for band := 0; band < numWorkers; band++ {
		y0 := band * rowsPerBand
		y1 := min(y0+rowsPerBand, height)
		if y0 >= y1 {
			break
		}
		g.Go(func() error {
			renderRows(img, canvas, &camCopy, offsets, invN, aspect, width, height, y0, y1)
			return nil
		})
	}
	return img, g.Wait()
}

func renderRows(img *image.NRGBA, canvas *texture.Canvas, cam *Camera, offsets [][2]float64, invN, aspect float64, width, height, y0, y1 int) {
	halfW := (float64(width) - 1) / 2.0
	halfH := (float64(height) - 1) / 2.0
	if halfW == 0 { // degenerate 1px-wide frame
		halfW = 0.5
	}
	if halfH == 0 {
		halfH = 0.5
	}

	for y := y0; y < y1; y++ {
		for x := 0; x < width; x++ {
			acc := colors.Color4{}
			for _, off := range offsets {
				// NDC centered in [-1,1], +y up, x stretched by aspect.
				xn := (float64(x) + off[0] - halfW) / halfW * aspect
				yn := -(float64(y) + off[1] - halfH) / halfH

				u, v := Project(cam, xn, yn)
				acc = acc.Add(canvas.Sample(u, v))
			}
			img.SetNRGBA(x, y, acc.Scale(invN).Clamp01().ToNRGBA())
		}
	}
}
