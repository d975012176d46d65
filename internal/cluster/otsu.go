package cluster

import (
	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/progress"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// Otsu binarizes the weighted-luma image at the threshold that maximizes the
// between-class variance. Pixels at or above the threshold become white.
type Otsu struct{}

func (Otsu) Kind() Kind { return KindOtsu }

// Apply reports five steps: grayscale, histogram, probabilities, threshold
// and binarization.
func (o Otsu) Apply(src *raster.Buffer, r progress.Reporter) (*raster.Buffer, error) {
	out, _, err := o.Binarize(src, r)
	return out, err
}

// Binarize is Apply that also returns the chosen threshold.
func (Otsu) Binarize(src *raster.Buffer, r progress.Reporter) (*raster.Buffer, int, error) {
	if err := raster.RequireSource("cluster.Otsu", src); err != nil {
		return nil, 0, err
	}
	r = progress.OrNop(r)
	r.Start(5)

	gray := make([]uint32, src.Len())
	for i, p := range src.Pix() {
		gray[i] = pixel.GrayPixel(uint8(pixel.Luma(p)))
	}
	r.Advance()

	hist := pixel.CountIntensities(gray, 256)[pixel.ChannelGray]
	r.Advance()

	probs := Probabilities(hist, len(gray))
	r.Advance()

	threshold := Threshold(probs)
	r.Advance()

	out := raster.MustNew(src.Width(), src.Height(), raster.FormatBinary)
	dst := out.Pix()
	for i, p := range gray {
		if int(pixel.R(p)) >= threshold {
			dst[i] = pixel.White
		}
	}
	r.Advance()

	return out, threshold, nil
}

// Probabilities divides every histogram bin by total.
func Probabilities(hist []int, total int) []float64 {
	probs := make([]float64, len(hist))
	for i, n := range hist {
		probs[i] = float64(n) / float64(total)
	}
	return probs
}

// Threshold returns the bin index maximizing wB·wF·(mB−mF)². The first
// maximum wins. Bins where either class is empty are skipped.
func Threshold(probs []float64) int {
	var sum float64
	for i, p := range probs {
		sum += float64(float64(i) * p)
	}

	var sumB, wB, maxVariance float64
	threshold := 0
	for i, p := range probs {
		wB += p
		wF := 1 - wB
		if wB == 0 || wF == 0 {
			continue
		}
		sumB += float64(float64(i) * p)
		mB := sumB / wB
		mF := (sum - sumB) / wF
		d := mB - mF
		variance := float64(float64(wB*wF) * float64(d*d))
		if variance > maxVariance {
			maxVariance = variance
			threshold = i
		}
	}
	return threshold
}
