package texture

import (
	"image"
	"log/slog"
	"os"

	_ "image/jpeg" // register JPEG format with image.Decode
	_ "image/png"  // register PNG format with image.Decode

	etiff "github.com/echoflaresat/tiff"

	"github.com/patchescamerababy/panorama-viewer/texture/tiff"
)

// Load decodes the panorama at path.
//
// Large panoramas are commonly stored as uncompressed or DEFLATE TIFF; those
// are served by the mmap-backed strip/tile readers so the file is never
// pulled into memory whole. Everything else falls back to the generic TIFF
// decoder and then to the stdlib codecs (JPEG/PNG).
func Load(path string) (image.Image, error) {
	img, err := tiff.LoadStriped(path)
	if err == nil {
		return img, nil
	}
	if !tiff.IsInvalidHeader(err) {
		slog.Warn("failed to load striped TIFF", "path", path, "error", err)
	}

	img, err = tiff.LoadTiled(path)
	if err == nil {
		return img, nil
	}
	if !tiff.IsInvalidHeader(err) {
		slog.Warn("failed to load tiled TIFF", "path", path, "error", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if img, err := etiff.Decode(f); err == nil {
		return img, nil
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}

	img, _, err = image.Decode(f)
	return img, err
}
