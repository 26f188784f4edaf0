package texture

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

var white = color.NRGBA{255, 255, 255, 255}

func TestPrepareDownscalesToCeiling(t *testing.T) {
	canvas, err := Prepare(solidImage(4000, 1000, white), 2048)
	require.NoError(t, err)

	assert.LessOrEqual(t, canvas.Width, 2048)
	assert.Equal(t, canvas.Width, 2*canvas.Height, "canvas must be exactly 2:1")
	assert.Equal(t, 2048, canvas.Width)
	assert.Equal(t, 1024, canvas.Height)

	// The 4:1 content is letterboxed vertically, centered.
	assert.Equal(t, 2048, canvas.ContentW)
	assert.Equal(t, 512, canvas.ContentH)
	assert.Equal(t, 0, canvas.ContentX)
	assert.Equal(t, 256, canvas.ContentY)
}

func TestPreparePadsSquareImage(t *testing.T) {
	canvas, err := Prepare(solidImage(1000, 1000, white), 2048)
	require.NoError(t, err)

	assert.Equal(t, 2000, canvas.Width)
	assert.Equal(t, 1000, canvas.Height)
	assert.Equal(t, 500, canvas.ContentX)
	assert.Equal(t, 0, canvas.ContentY)

	// Pillarbox bands are opaque black; the content survives.
	left := canvas.Image().NRGBAAt(10, 500)
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, left)
	center := canvas.Image().NRGBAAt(1000, 500)
	assert.Equal(t, white, center)
	right := canvas.Image().NRGBAAt(1990, 500)
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, right)
}

func TestPrepareKeepsTrueEquirect(t *testing.T) {
	canvas, err := Prepare(solidImage(512, 256, white), 4096)
	require.NoError(t, err)

	assert.Equal(t, 512, canvas.Width)
	assert.Equal(t, 256, canvas.Height)
	assert.Equal(t, 0, canvas.ContentX)
	assert.Equal(t, 0, canvas.ContentY)
	assert.Equal(t, 512, canvas.ContentW)
	assert.Equal(t, 256, canvas.ContentH)
}

func TestPrepareDownscaleBeforePadding(t *testing.T) {
	// A tall 1000×3000 source: the downscale to height 2048 must happen
	// first, then the width is padded out to 2:1 of the final height.
	canvas, err := Prepare(solidImage(1000, 3000, white), 2048)
	require.NoError(t, err)

	assert.Equal(t, 2048, canvas.Height)
	assert.Equal(t, 4096, canvas.Width)
	assert.LessOrEqual(t, canvas.ContentW, 2048)
}

func TestPrepareRejectsZeroArea(t *testing.T) {
	_, err := Prepare(image.NewNRGBA(image.Rect(0, 0, 0, 10)), 2048)
	assert.True(t, errors.Is(err, ErrInvalidImage))

	_, err = Prepare(nil, 2048)
	assert.True(t, errors.Is(err, ErrInvalidImage))

	_, err = Prepare(solidImage(10, 10, white), 0)
	assert.Error(t, err)
}

func TestSampleWrapsHorizontally(t *testing.T) {
	// 4×2 canvas: left half black, right half white.
	canvas := &Canvas{Width: 4, Height: 2, Pix: make([]uint8, 4*2*4)}
	for y := 0; y < 2; y++ {
		for x := 2; x < 4; x++ {
			i := (y*4 + x) * 4
			canvas.Pix[i], canvas.Pix[i+1], canvas.Pix[i+2] = 255, 255, 255
		}
	}
	for i := 3; i < len(canvas.Pix); i += 4 {
		canvas.Pix[i] = 255
	}

	// Texel centers avoid filtering: u=0.125 is texel 0 (black), u=0.625
	// is texel 2 (white); u-1 must sample identically to u.
	assert.InDelta(t, 0, canvas.Sample(0.125, 0.25).R, 1e-9)
	assert.InDelta(t, 1, canvas.Sample(0.625, 0.25).R, 1e-9)
	assert.InDelta(t, canvas.Sample(0.625, 0.25).R, canvas.Sample(-0.375, 0.25).R, 1e-9)

	// Vertical addressing clamps instead of wrapping.
	assert.InDelta(t, canvas.Sample(0.125, 0).R, canvas.Sample(0.125, -5).R, 1e-9)
	assert.InDelta(t, canvas.Sample(0.125, 1).R, canvas.Sample(0.125, 7).R, 1e-9)
}

func TestSampleBilinearBlend(t *testing.T) {
	// 2×1... the smallest legal canvas is 2:1; blend midway between a
	// black and a white texel must be 50% gray.
	canvas := &Canvas{Width: 2, Height: 1, Pix: []uint8{
		0, 0, 0, 255,
		255, 255, 255, 255,
	}}

	mid := canvas.Sample(0.5, 0.5)
	assert.InDelta(t, 0.5, mid.R, 1e-6)
	assert.InDelta(t, 0.5, mid.G, 1e-6)
}
