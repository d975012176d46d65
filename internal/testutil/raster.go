package testutil

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// Solid returns a w×h buffer filled with p.
func Solid(w, h int, format raster.Format, p uint32) *raster.Buffer {
	b := raster.MustNew(w, h, format)
	for y := range h {
		for x := range w {
			b.Set(x, y, p)
		}
	}
	return b
}

// Split returns an RGB image whose left half is black and right half white.
// For odd widths the extra column is white.
func Split(w, h int) *raster.Buffer {
	b := raster.MustNew(w, h, raster.FormatRGB)
	for y := range h {
		for x := range w {
			if x >= w/2 {
				b.Set(x, y, pixel.White)
			}
		}
	}
	return b
}

// HorizontalRamp returns a gray ramp running from 0 at the left edge to 255
// at the right edge.
func HorizontalRamp(w, h int) *raster.Buffer {
	b := raster.MustNew(w, h, raster.FormatRGB)
	for y := range h {
		for x := range w {
			v := 0
			if w > 1 {
				v = x * 255 / (w - 1)
			}
			b.Set(x, y, pixel.GrayPixel(uint8(v)))
		}
	}
	return b
}

// Checkerboard alternates black and white cells of the given size.
func Checkerboard(w, h, cell int) *raster.Buffer {
	b := raster.MustNew(w, h, raster.FormatRGB)
	for y := range h {
		for x := range w {
			if (x/cell+y/cell)%2 == 1 {
				b.Set(x, y, pixel.White)
			}
		}
	}
	return b
}

// Noise returns an image of random colors. The same seed yields the same
// image; with alpha set, the alpha channel is random too.
func Noise(w, h int, seed uint64, alpha bool) *raster.Buffer {
	format := raster.FormatRGB
	if alpha {
		format = raster.FormatARGB
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	b := raster.MustNew(w, h, format)
	for i := range b.Pix() {
		p := rng.Uint32()
		if !alpha {
			p = pixel.Opaque(p)
		}
		b.Pix()[i] = p
	}
	return b
}

// AllLevels returns a 256×rows RGB image in which every column holds one gray
// level, so each intensity occurs exactly rows times.
func AllLevels(rows int) *raster.Buffer {
	b := raster.MustNew(256, rows, raster.FormatRGB)
	for y := range rows {
		for x := range 256 {
			b.Set(x, y, pixel.GrayPixel(uint8(x)))
		}
	}
	return b
}

// AssertNoAlias fails when a and b share backing storage.
func AssertNoAlias(t *testing.T, a, b *raster.Buffer) {
	t.Helper()
	require.NotSame(t, &a.Pix()[0], &b.Pix()[0], "buffers share pixel storage")
}

// AllPixels reports whether every pixel of b equals p.
func AllPixels(b *raster.Buffer, p uint32) bool {
	for _, v := range b.Pix() {
		if v != p {
			return false
		}
	}
	return true
}

// WriteImage saves b under dir with imaging, picking the encoder from the
// extension of name, and returns the full path.
func WriteImage(t *testing.T, dir, name string, b *raster.Buffer) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0o750))
	path := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(b.Image(), path), "saving %s", path)
	return path
}
