package blur

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
	"github.com/MeKo-Tech/rasterlab/internal/testutil"
)

// TestKernel_SumsToOne verifies normalization for any odd size and positive sigma.
func TestKernel_SumsToOne(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("gaussian kernel weights sum to 1", prop.ForAll(
		func(half int, sigma float64) bool {
			k, err := Kernel(2*half+1, sigma)
			if err != nil {
				return false
			}
			var sum float64
			for _, v := range k {
				sum += v
			}
			return math.Abs(sum-1) < 1e-9
		},
		gen.IntRange(0, 12),
		gen.Float64Range(0.05, 50),
	))

	properties.TestingRun(t)
}

// TestBlur_PreservesDimensions verifies every filter keeps width and height for odd sizes
// and rejects even ones.
func TestBlur_PreservesDimensions(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("odd kernels keep dimensions, even kernels fail", prop.ForAll(
		func(w, h, k int, kind Kind, seed uint64) bool {
			f, err := New(kind, Options{Workers: 2})
			if err != nil {
				return false
			}
			src := testutil.Noise(w, h, seed, false)
			out, err := f.Apply(src, k, nil)
			if k%2 == 0 && kind != KindIdentity {
				return out == nil && errors.Is(err, raster.ErrValidation)
			}
			return err == nil && out.Width() == w && out.Height() == h
		},
		gen.IntRange(1, 24),
		gen.IntRange(1, 24),
		gen.IntRange(1, 9),
		gen.OneConstOf(KindBox, KindGaussian, KindMedian, KindIdentity),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

// TestBox_UniformImageIsFixedPoint verifies box blur leaves a constant image unchanged.
func TestBox_UniformImageIsFixedPoint(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("box blur of a uniform image is the same image", prop.ForAll(
		func(w, h, half int, r, g, b uint8) bool {
			color := pixel.PackRGB(r, g, b)
			src := testutil.Solid(w, h, raster.FormatRGB, color)
			out, err := Box{}.Apply(src, 2*half+1, nil)
			return err == nil && testutil.AllPixels(out, color)
		},
		gen.IntRange(1, 20),
		gen.IntRange(1, 20),
		gen.IntRange(0, 4),
		gen.UInt8(),
		gen.UInt8(),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}
