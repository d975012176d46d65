package blur

import (
	"math"

	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/progress"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// DefaultSigma is the standard deviation used when none is configured.
const DefaultSigma = 1.0

// Gaussian convolves all four channels with a normalized Gaussian kernel.
// Samples outside the image are skipped and the remaining weights are not
// renormalized, so borders come out darker and more transparent. The result
// is ARGB.
type Gaussian struct {
	Sigma float64
}

func (Gaussian) Kind() Kind { return KindGaussian }

func (g Gaussian) sigma() float64 {
	if g.Sigma == 0 {
		return DefaultSigma
	}
	return g.Sigma
}

// Apply reports a single step for the whole image.
func (g Gaussian) Apply(src *raster.Buffer, kernelSize int, r progress.Reporter) (*raster.Buffer, error) {
	if err := checkInput("blur.Gaussian", src, kernelSize); err != nil {
		return nil, err
	}
	kernel, err := Kernel(kernelSize, g.sigma())
	if err != nil {
		return nil, err
	}
	r = progress.OrNop(r)
	r.Start(1)

	w, h := src.Width(), src.Height()
	in := src.Pix()
	out := raster.MustNew(w, h, raster.FormatARGB)
	dst := out.Pix()
	radius := kernelSize / 2

	for x := range w {
		for y := range h {
			var a, cr, cg, cb float64
			for kx := -radius; kx <= radius; kx++ {
				px := x + kx
				if px < 0 || px >= w {
					continue
				}
				for ky := -radius; ky <= radius; ky++ {
					py := y + ky
					if py < 0 || py >= h {
						continue
					}
					p := in[py*w+px]
					k := kernel[(ky+radius)*kernelSize+kx+radius]
					// Conversions block FMA fusion.
					a += float64(float64(pixel.A(p)) * k)
					cr += float64(float64(pixel.R(p)) * k)
					cg += float64(float64(pixel.G(p)) * k)
					cb += float64(float64(pixel.B(p)) * k)
				}
			}
			dst[y*w+x] = pixel.Pack(
				pixel.Clamp(int(a)), pixel.Clamp(int(cr)), pixel.Clamp(int(cg)), pixel.Clamp(int(cb)))
		}
	}

	r.Advance()
	return out, nil
}

// Kernel builds a size×size row-major Gaussian kernel whose weights sum to 1.
func Kernel(size int, sigma float64) ([]float64, error) {
	if err := ValidateKernelSize(size); err != nil {
		return nil, err
	}
	if !(sigma > 0) || math.IsInf(sigma, 1) {
		return nil, raster.Validationf("blur.Kernel", "sigma must be positive and finite, got %g", sigma)
	}

	kernel := make([]float64, size*size)
	radius := size / 2
	denom := 2 * sigma * sigma
	if denom == 0 {
		return nil, raster.Validationf("blur.Kernel", "sigma %g is too small", sigma)
	}
	var sum float64
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			v := math.Exp(-float64(x*x+y*y) / denom)
			kernel[(y+radius)*size+x+radius] = v
			sum += v
		}
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel, nil
}
