package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"math"
	"os"

	"github.com/patchescamerababy/panorama-viewer/render"
	"github.com/patchescamerababy/panorama-viewer/texture"
)

type config struct {
	in, out          *string
	mode             *string
	yaw, pitch, fov  *float64
	width, height    *int
	supersample      *int
	maxDim           *int
	workers          *int
	showHelp         *bool
}

func defineFlags() config {
	return config{
		in:   flag.String("in", "", "Input panorama image (TIFF/JPEG/PNG, equirectangular)"),
		out:  flag.String("out", "view.png", "Output PNG file path"),
		mode: flag.String("mode", "rectilinear", "Projection mode: rectilinear|equidistant|stereographic|pannini|equirectangular|architectural"),

		yaw:   flag.Float64("yaw", 0.0, "Camera yaw in degrees"),
		pitch: flag.Float64("pitch", 0.0, "Camera pitch in degrees"),
		fov:   flag.Float64("fov", 46.8, "Vertical field of view in degrees"),

		width:       flag.Int("width", 1280, "Output frame width in pixels"),
		height:      flag.Int("height", 720, "Output frame height in pixels"),
		supersample: flag.Int("supersample", 2, "Supersampling factor (higher is slower but smoother)"),
		maxDim:      flag.Int("maxdim", 8192, "Maximum texture dimension (hardware ceiling)"),
		workers:     flag.Int("workers", 0, "Render worker goroutines (0 = all CPUs)"),

		showHelp: flag.Bool("h", false, "Show this help message"),
	}
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `Panorama Viewer - Projection Snapshot Tool

Usage:
  %[1]s -in photo.jpg [options]

`, os.Args[0])

	printGroup("Input/Output", []string{"in", "out"})
	printGroup("Camera Options", []string{"mode", "yaw", "pitch", "fov"})
	printGroup("Rendering Options", []string{"width", "height", "supersample", "maxdim", "workers"})
	printGroup("Misc", []string{"h"})
}

func printGroup(title string, keys []string) {
	fmt.Fprintf(os.Stderr, "%s:\n", title)
	for _, name := range keys {
		if f := flag.Lookup(name); f != nil {
			fmt.Fprintf(os.Stderr, "  -%-12s %s (default %q)\n", f.Name, f.Usage, f.DefValue)
		}
	}
	fmt.Fprintln(os.Stderr)
}

func main() {
	cfg := defineFlags()
	flag.Usage = printHelp
	flag.Parse()

	if *cfg.showHelp || *cfg.in == "" {
		printHelp()
		if *cfg.in == "" {
			os.Exit(2)
		}
		return
	}

	img, err := run(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := writePNG(*cfg.out, img); err != nil {
		log.Fatalf("Failed to write PNG: %v", err)
	}
}

// run loads and prepares the panorama, then renders one view of it.
func run(cfg config) (image.Image, error) {
	src, err := texture.Load(*cfg.in)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", *cfg.in, err)
	}

	canvas, err := texture.Prepare(src, *cfg.maxDim)
	if err != nil {
		return nil, err
	}

	mode, err := render.ParseProjectionMode(*cfg.mode)
	if err != nil {
		return nil, err
	}

	cam := render.NewCamera()
	cam.SetMode(mode)
	cam.Set(
		*cfg.yaw*math.Pi/180,
		*cfg.pitch*math.Pi/180,
		*cfg.fov*math.Pi/180,
	)

	return render.RenderView(canvas, cam, *cfg.width, *cfg.height, *cfg.supersample, *cfg.workers)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(f, img)
}
