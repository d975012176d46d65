// Package raster provides the owned pixel buffer every algorithm reads from
// and writes to.
//
// A Buffer stores packed 0xAARRGGBB pixels row-major in a slice it owns
// exclusively. Its Format is fixed at construction and decides how writes are
// normalized: RGB forces opaque alpha, Gray and Binary reduce the written
// color with the weighted luma. Algorithms never mutate their input; they
// allocate a result with New or Copy.
package raster

import (
	"fmt"

	"github.com/MeKo-Tech/rasterlab/internal/pixel"
)

// Format is the pixel layout of a Buffer.
type Format int

const (
	FormatRGB Format = iota
	FormatARGB
	FormatGray
	FormatBinary
)

func (f Format) String() string {
	switch f {
	case FormatRGB:
		return "rgb"
	case FormatARGB:
		return "argb"
	case FormatGray:
		return "gray"
	case FormatBinary:
		return "binary"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// HasAlpha reports whether the format keeps the alpha channel.
func (f Format) HasAlpha() bool { return f == FormatARGB }

// normalize applies the write rule of f to p.
func (f Format) normalize(p uint32) uint32 {
	switch f {
	case FormatARGB:
		return p
	case FormatGray:
		return pixel.GrayPixel(uint8(intensity(p)))
	case FormatBinary:
		if intensity(p) >= 128 {
			return pixel.White
		}
		return pixel.Black
	default:
		return pixel.Opaque(p)
	}
}

// intensity is the weighted luma, except that neutral grays keep their level
// so copying a gray image into a gray buffer is lossless.
func intensity(p uint32) int {
	if r := pixel.R(p); r == pixel.G(p) && r == pixel.B(p) {
		return int(r)
	}
	return pixel.Luma(p)
}

// Buffer is a mutable 2D raster.
type Buffer struct {
	width  int
	height int
	format Format
	pix    []uint32
}

// New allocates a black (RGB, Gray, Binary) or transparent (ARGB) buffer.
func New(width, height int, format Format) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, Validationf("raster.New", "dimensions must be positive, got %dx%d", width, height)
	}
	if format < FormatRGB || format > FormatBinary {
		return nil, Validationf("raster.New", "unknown format %d", int(format))
	}
	b := &Buffer{width: width, height: height, format: format, pix: make([]uint32, width*height)}
	if format != FormatARGB {
		for i := range b.pix {
			b.pix[i] = pixel.Black
		}
	}
	return b, nil
}

// MustNew is New for dimensions already known to be valid.
func MustNew(width, height int, format Format) *Buffer {
	b, err := New(width, height, format)
	if err != nil {
		panic(err)
	}
	return b
}

// FromPixels builds a buffer from row-major packed pixels, normalizing them
// to format. The slice is copied.
func FromPixels(width, height int, format Format, pix []uint32) (*Buffer, error) {
	b, err := New(width, height, format)
	if err != nil {
		return nil, err
	}
	if len(pix) != width*height {
		return nil, Validationf("raster.FromPixels", "expected %d pixels, got %d", width*height, len(pix))
	}
	for i, p := range pix {
		b.pix[i] = format.normalize(p)
	}
	return b, nil
}

func (b *Buffer) Width() int     { return b.width }
func (b *Buffer) Height() int    { return b.height }
func (b *Buffer) Format() Format { return b.format }

// Len returns the number of pixels.
func (b *Buffer) Len() int { return len(b.pix) }

// Pix exposes the backing row-major slice. Writes through it bypass the
// format's normalization; callers must store values already valid for the
// format.
func (b *Buffer) Pix() []uint32 { return b.pix }

// InBounds reports whether (x, y) addresses a pixel.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

func (b *Buffer) index(x, y int) int {
	if !b.InBounds(x, y) {
		panic(fmt.Sprintf("raster: coordinate (%d,%d) outside %dx%d buffer", x, y, b.width, b.height))
	}
	return y*b.width + x
}

// At returns the packed pixel at (x, y). It panics when out of bounds.
func (b *Buffer) At(x, y int) uint32 {
	return b.pix[b.index(x, y)]
}

// Set stores p at (x, y) after applying the format's write rule. It panics
// when out of bounds.
func (b *Buffer) Set(x, y int, p uint32) {
	b.pix[b.index(x, y)] = b.format.normalize(p)
}

// Copy allocates a new buffer of the given format and copies every pixel
// through that format's write rule.
func (b *Buffer) Copy(format Format) *Buffer {
	out := MustNew(b.width, b.height, format)
	for i, p := range b.pix {
		out.pix[i] = format.normalize(p)
	}
	return out
}

// Clone copies the buffer keeping its format.
func (b *Buffer) Clone() *Buffer {
	return b.Copy(b.format)
}

// SameShape reports whether o has the same width, height and format.
func (b *Buffer) SameShape(o *Buffer) bool {
	return o != nil && b.width == o.width && b.height == o.height && b.format == o.format
}
