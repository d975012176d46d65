package cluster

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// bruteForceThreshold evaluates every candidate independently from prefix sums.
func bruteForceThreshold(probs []float64) int {
	var total float64
	for i, p := range probs {
		total += float64(float64(i) * p)
	}
	best, bestVar := 0, 0.0
	for t := range probs {
		var wB, sumB float64
		for i := 0; i <= t; i++ {
			wB += probs[i]
			sumB += float64(float64(i) * probs[i])
		}
		wF := 1 - wB
		if wB == 0 || wF == 0 {
			continue
		}
		d := sumB/wB - (total-sumB)/wF
		v := float64(float64(wB*wF) * float64(d*d))
		if v > bestVar {
			best, bestVar = t, v
		}
	}
	return best
}

// TestOtsu_MatchesBruteForce verifies the chosen threshold against an independent rescan.
func TestOtsu_MatchesBruteForce(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("otsu threshold equals brute-force rescan", prop.ForAll(
		func(levels []uint8) bool {
			if len(levels) == 0 {
				return true
			}
			pix := make([]uint32, len(levels))
			hist := make([]int, 256)
			for i, v := range levels {
				p := pixel.PackRGB(v, v/2, 255-v)
				pix[i] = p
				hist[pixel.Luma(p)]++
			}
			src, err := raster.FromPixels(len(pix), 1, raster.FormatRGB, pix)
			if err != nil {
				return false
			}
			_, threshold, err := Otsu{}.Binarize(src, nil)
			if err != nil {
				return false
			}
			return threshold == bruteForceThreshold(Probabilities(hist, len(pix)))
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}
