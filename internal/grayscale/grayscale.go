// Package grayscale converts images to weighted-luma gray.
package grayscale

import (
	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// Filter is the "Gray" color filter.
type Filter struct{}

func (Filter) String() string { return "Gray" }

// Apply returns an opaque ARGB copy of src with every pixel replaced by its
// weighted luma. It reports no progress.
func (Filter) Apply(src *raster.Buffer) (*raster.Buffer, error) {
	if err := raster.RequireSource("grayscale", src); err != nil {
		return nil, err
	}
	out := src.Copy(raster.FormatARGB)
	pix := out.Pix()
	for i, p := range pix {
		pix[i] = pixel.GrayPixel(uint8(pixel.Luma(p)))
	}
	return out, nil
}
