package tiff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Header holds the subset of the first IFD this package cares about.
type Header struct {
	ByteOrder       binary.ByteOrder
	Width, Height   int
	SamplesPerPixel int
	BitsPerSample   []int
	Photometric     int
	Compression     int
	PlanarConfig    int

	// Strip layout
	RowsPerStrip    int
	StripOffsets    []int
	StripByteCounts []int

	// Tile layout
	TileWidth      int
	TileHeight     int
	TileOffsets    []int
	TileByteCounts []int
}

// Baseline TIFF tags, per the TIFF 6.0 spec.
// https://www.loc.gov/preservation/digital/formats/content/tiff_tags.shtml
const (
	tagImageWidth                = 256
	tagImageLength               = 257
	tagBitsPerSample             = 258
	tagCompression               = 259
	tagPhotometricInterpretation = 262
	tagStripOffsets              = 273
	tagSamplesPerPixel           = 277
	tagRowsPerStrip              = 278
	tagStripByteCounts           = 279
	tagPlanarConfiguration       = 284
	tagTileWidth                 = 322
	tagTileLength                = 323
	tagTileOffsets               = 324
	tagTileByteCounts            = 325
)

const (
	compressionNone    = 1
	compressionDeflate = 8

	photometricBlackIsZero = 1
	photometricRGB         = 2
)

// ErrInvalidHeader marks a file that is not a TIFF at all (wrong magic or
// byte-order mark), as opposed to a TIFF this package cannot serve.
var ErrInvalidHeader = errors.New("invalid TIFF header")

// IsInvalidHeader reports whether err means "not a TIFF". Callers use it to
// decide between falling through silently and warning about a real problem.
func IsInvalidHeader(err error) bool {
	return errors.Is(err, ErrInvalidHeader)
}

func parseHeader(r io.ReaderAt) (Header, error) {
	read := func(offset int64, size int) ([]byte, error) {
		buf := make([]byte, size)
		_, err := r.ReadAt(buf, offset)
		return buf, err
	}

	magic, err := read(0, 8)
	if err != nil {
		return Header{}, err
	}

	var bo binary.ByteOrder
	switch string(magic[0:2]) {
	case "II":
		bo = binary.LittleEndian
	case "MM":
		bo = binary.BigEndian
	default:
		return Header{}, ErrInvalidHeader
	}
	if bo.Uint16(magic[2:4]) != 42 {
		return Header{}, ErrInvalidHeader
	}
	ifdOffset := int64(bo.Uint32(magic[4:8]))

	countRaw, err := read(ifdOffset, 2)
	if err != nil {
		return Header{}, err
	}
	numEntries := int(bo.Uint16(countRaw))
	entries, err := read(ifdOffset+2, numEntries*12)
	if err != nil {
		return Header{}, err
	}

	hdr := Header{
		ByteOrder:       bo,
		SamplesPerPixel: -1,
		Photometric:     -1,
		Compression:     -1,
		PlanarConfig:    1, // default
	}

	for i := 0; i < numEntries; i++ {
		entry := entries[i*12 : (i+1)*12]
		tag := bo.Uint16(entry[0:2])
		count := bo.Uint32(entry[4:8])
		valOffset := int64(bo.Uint32(entry[8:12]))

		shorts := func() ([]int, error) {
			if count == 1 {
				return []int{int(bo.Uint16(entry[8:10]))}, nil
			}
			buf, err := read(valOffset, int(count*2))
			if err != nil {
				return nil, err
			}
			out := make([]int, count)
			for i := range out {
				out[i] = int(bo.Uint16(buf[i*2:]))
			}
			return out, nil
		}
		longs := func() ([]int, error) {
			if count == 1 {
				return []int{int(valOffset)}, nil
			}
			buf, err := read(valOffset, int(count*4))
			if err != nil {
				return nil, err
			}
			out := make([]int, count)
			for i := range out {
				out[i] = int(bo.Uint32(buf[i*4:]))
			}
			return out, nil
		}

		switch tag {
		case tagImageWidth:
			hdr.Width = int(valOffset)
		case tagImageLength:
			hdr.Height = int(valOffset)
		case tagBitsPerSample:
			if hdr.BitsPerSample, err = shorts(); err != nil {
				return Header{}, err
			}
		case tagCompression:
			hdr.Compression = int(bo.Uint16(entry[8:10]))
		case tagPhotometricInterpretation:
			hdr.Photometric = int(bo.Uint16(entry[8:10]))
		case tagStripOffsets:
			if hdr.StripOffsets, err = longs(); err != nil {
				return Header{}, err
			}
		case tagSamplesPerPixel:
			hdr.SamplesPerPixel = int(bo.Uint16(entry[8:10]))
		case tagRowsPerStrip:
			hdr.RowsPerStrip = int(valOffset)
		case tagStripByteCounts:
			if hdr.StripByteCounts, err = longs(); err != nil {
				return Header{}, err
			}
		case tagPlanarConfiguration:
			hdr.PlanarConfig = int(bo.Uint16(entry[8:10]))
		case tagTileWidth:
			hdr.TileWidth = int(valOffset)
		case tagTileLength:
			hdr.TileHeight = int(valOffset)
		case tagTileOffsets:
			if hdr.TileOffsets, err = longs(); err != nil {
				return Header{}, err
			}
		case tagTileByteCounts:
			if hdr.TileByteCounts, err = longs(); err != nil {
				return Header{}, err
			}
		}
	}

	return hdr, nil
}

// checkPixelFormat verifies the 8-bit grayscale/RGB layouts this package
// can sample directly from the mapped file.
func checkPixelFormat(h Header) error {
	switch h.Photometric {
	case photometricBlackIsZero:
		if h.SamplesPerPixel != 1 || len(h.BitsPerSample) < 1 || h.BitsPerSample[0] != 8 {
			return fmt.Errorf("unsupported grayscale format")
		}
	case photometricRGB:
		if h.SamplesPerPixel != 3 || len(h.BitsPerSample) < 1 || h.BitsPerSample[0] != 8 {
			return fmt.Errorf("unsupported RGB format")
		}
	default:
		return fmt.Errorf("unsupported photometric interpretation: %d", h.Photometric)
	}
	return nil
}
