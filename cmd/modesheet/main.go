// modesheet renders one panorama under all six projection modes and
// composites the views into a 3×2 contact-sheet PNG.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"math"
	"os"

	"github.com/patchescamerababy/panorama-viewer/render"
	"github.com/patchescamerababy/panorama-viewer/texture"
)

var sheetModes = []render.ProjectionMode{
	render.Rectilinear,
	render.Equidistant,
	render.Stereographic,
	render.Pannini,
	render.Equirectangular,
	render.Architectural,
}

func main() {
	in := flag.String("in", "", "Input panorama image")
	out := flag.String("out", "modes.png", "Output contact-sheet PNG")
	cell := flag.Int("cell", 480, "Width of each view cell in pixels (height is 9/16 of this)")
	yaw := flag.Float64("yaw", 0.0, "Camera yaw in degrees")
	pitch := flag.Float64("pitch", 0.0, "Camera pitch in degrees")
	fov := flag.Float64("fov", 46.8, "Vertical field of view in degrees")
	maxDim := flag.Int("maxdim", 8192, "Maximum texture dimension")
	flag.Parse()

	if *in == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -in photo.jpg [-out modes.png]\n", os.Args[0])
		os.Exit(2)
	}

	src, err := texture.Load(*in)
	if err != nil {
		log.Fatalf("load %s: %v", *in, err)
	}
	canvas, err := texture.Prepare(src, *maxDim)
	if err != nil {
		log.Fatal(err)
	}

	const cols, rows = 3, 2
	cellW := *cell
	cellH := cellW * 9 / 16
	sheet := image.NewNRGBA(image.Rect(0, 0, cols*cellW, rows*cellH))

	cam := render.NewCamera()
	cam.Set(*yaw*math.Pi/180, *pitch*math.Pi/180, *fov*math.Pi/180)

	for i, mode := range sheetModes {
		cam.SetMode(mode)
		view, err := render.RenderView(canvas, cam, cellW, cellH, 2, 0)
		if err != nil {
			log.Fatalf("render %s: %v", mode, err)
		}

		x := (i % cols) * cellW
		y := (i / cols) * cellH
		dst := image.Rect(x, y, x+cellW, y+cellH)
		draw.Draw(sheet, dst, view, image.Point{}, draw.Src)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(f, sheet); err != nil {
		log.Fatal(err)
	}
}
