// Package histogram builds intensity histograms and equalizes images with
// them, either globally per channel or adaptively per tile (CLAHE).
package histogram

import (
	"math"

	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// Levels is the number of intensity levels of an 8-bit channel.
const Levels = 256

// Compute counts the red, green, blue and gray intensities of src.
func Compute(src *raster.Buffer, bins int) pixel.Histograms {
	return pixel.CountIntensities(src.Pix(), bins)
}

// Normalize divides every bin by total.
func Normalize(hist []int, total int) []float64 {
	out := make([]float64, len(hist))
	for i, n := range hist {
		out[i] = float64(n) / float64(total)
	}
	return out
}

// CDF returns the running sum of a normalized histogram.
func CDF(normalized []float64) []float64 {
	cdf := make([]float64, len(normalized))
	if len(normalized) == 0 {
		return cdf
	}
	cdf[0] = normalized[0]
	for i := 1; i < len(normalized); i++ {
		cdf[i] = cdf[i-1] + normalized[i]
	}
	return cdf
}

// NormalizedCDF normalizes hist by its own total and accumulates it. The
// last element is 1 up to rounding for any non-empty histogram.
func NormalizedCDF(hist []int) []float64 {
	total := 0
	for _, n := range hist {
		total += n
	}
	if total == 0 {
		return make([]float64, len(hist))
	}
	return CDF(Normalize(hist, total))
}

// Mapping turns a CDF into a lookup table of round(cdf*255) clamped to a byte.
func Mapping(cdf []float64) []uint8 {
	lut := make([]uint8, len(cdf))
	for i, c := range cdf {
		lut[i] = pixel.Clamp(int(math.Round(c * 255)))
	}
	return lut
}
