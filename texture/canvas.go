package texture

import (
	"errors"
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/patchescamerababy/panorama-viewer/colors"
)

// ErrInvalidImage reports a zero-area source image. The caller keeps the
// previously displayed canvas when this is returned.
var ErrInvalidImage = errors.New("invalid image: zero-area pixel buffer")

// Canvas is the render-ready equirectangular pixel buffer: downscaled to the
// hardware texture ceiling and padded with opaque black to an exact 2:1
// aspect. Width/Height == 2 always holds after Prepare.
type Canvas struct {
	Width  int
	Height int
	Pix    []uint8 // RGBA, row-major, tightly packed (stride = 4*Width)

	// Placement of the source content inside the padded canvas, after any
	// downscale. Lets a flat (unwrapped) view crop away the padding bands.
	ContentX, ContentY int
	ContentW, ContentH int
}

// Prepare builds a Canvas from a decoded image.
//
// The source is first downscaled uniformly so both dimensions fit under
// maxDim (the downscale must precede padding so the 2:1 decision operates on
// the final working size), then centered on an opaque black 2:1 canvas.
func Prepare(img image.Image, maxDim int) (*Canvas, error) {
	if img == nil {
		return nil, ErrInvalidImage
	}
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW <= 0 || srcH <= 0 {
		return nil, ErrInvalidImage
	}
	if maxDim <= 0 {
		return nil, fmt.Errorf("invalid max texture dimension %d", maxDim)
	}

	// Uniform downscale to the texture ceiling, preserving aspect ratio.
	w, h := srcW, srcH
	if w > maxDim || h > maxDim {
		scale := float64(maxDim) / float64(max(w, h))
		w = max(1, int(float64(w)*scale))
		h = max(1, int(float64(h)*scale))
	}

	// Pad whichever axis is short until the canvas is exactly 2:1,
	// with the content centered.
	canvasH := max(h, (w+1)/2)
	canvasW := 2 * canvasH
	offX := (canvasW - w) / 2
	offY := (canvasH - h) / 2

	dst := image.NewNRGBA(image.Rect(0, 0, canvasW, canvasH))
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff // opaque black background
	}

	content := image.Rect(offX, offY, offX+w, offY+h)
	if w == srcW && h == srcH {
		xdraw.Draw(dst, content, img, b.Min, xdraw.Src)
	} else {
		xdraw.CatmullRom.Scale(dst, content, img, b, xdraw.Src, nil)
	}

	return &Canvas{
		Width:    canvasW,
		Height:   canvasH,
		Pix:      dst.Pix,
		ContentX: offX,
		ContentY: offY,
		ContentW: w,
		ContentH: h,
	}, nil
}

// Sample returns the bilinearly filtered color at texture coordinates
// (u,v) in [0,1]², wrapping horizontally (seamless 360° azimuth) and
// clamping vertically.
func (c *Canvas) Sample(u, v float64) colors.Color4 {
	fx := u*float64(c.Width) - 0.5
	fy := v*float64(c.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := c.texel(x0, y0)
	c10 := c.texel(x0+1, y0)
	c01 := c.texel(x0, y0+1)
	c11 := c.texel(x0+1, y0+1)

	top := c00.Mix(c10, tx)
	bottom := c01.Mix(c11, tx)
	return top.Mix(bottom, ty)
}

// texel reads one pixel with wrap-x / clamp-y addressing.
func (c *Canvas) texel(x, y int) colors.Color4 {
	x %= c.Width
	if x < 0 {
		x += c.Width
	}
	if y < 0 {
		y = 0
	} else if y >= c.Height {
		y = c.Height - 1
	}

	i := (y*c.Width + x) * 4
	return colors.From8BitRgb(c.Pix[i], c.Pix[i+1], c.Pix[i+2], c.Pix[i+3])
}

// Image exposes the canvas as a stdlib image, e.g. for GPU upload or tests.
func (c *Canvas) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    c.Pix,
		Stride: 4 * c.Width,
		Rect:   image.Rect(0, 0, c.Width, c.Height),
	}
}
