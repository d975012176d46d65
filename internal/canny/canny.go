// Package canny runs the Canny edge detector as a fixed sequence of stages:
// grayscale, blur, gradient, non-maximum suppression, double threshold and
// hysteresis.
package canny

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/rasterlab/internal/blur"
	"github.com/MeKo-Tech/rasterlab/internal/edge"
	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/progress"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// Stage is one step of the pipeline. Stages run strictly in order.
type Stage int

const (
	StageGrayscale Stage = iota
	StageBlur
	StageGradient
	StageNonMaxSuppression
	StageDoubleThreshold
	StageHysteresis
	StageDone
)

// NumStages is the number of progress steps Detect reports.
const NumStages = int(StageDone)

func (s Stage) String() string {
	switch s {
	case StageGrayscale:
		return "grayscale"
	case StageBlur:
		return "blur"
	case StageGradient:
		return "gradient"
	case StageNonMaxSuppression:
		return "non-max suppression"
	case StageDoubleThreshold:
		return "double threshold"
	case StageHysteresis:
		return "hysteresis"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Params configures one run.
type Params struct {
	// Low must lie in [0, 255).
	Low int
	// High marks strong edges. It is not validated.
	High int
	// Blur smooths the grayscale image. Nil means no smoothing.
	Blur blur.Filter
	// KernelSize is passed to Blur and must be positive and odd unless Blur
	// is nil or the identity.
	KernelSize int
	// Operator computes the gradient. Required.
	Operator edge.Operator
}

// Validate checks the parameters without touching any image.
func (p Params) Validate() error {
	if p.Low < 0 || p.Low >= 255 {
		return raster.Validationf("canny", "low threshold must be in [0, 255), got %d", p.Low)
	}
	if p.Blur != nil && p.Blur.Kind() != blur.KindIdentity {
		if err := blur.ValidateKernelSize(p.KernelSize); err != nil {
			return err
		}
	}
	if p.Operator == nil {
		return &raster.PreconditionError{Op: "canny", Msg: "edge operator is nil"}
	}
	return nil
}

type state struct {
	params    Params
	img       *raster.Buffer
	field     *edge.GradientField
	magnitude []int
}

// Detect runs all six stages and reports one progress step per stage. The
// blur and the operator report to progress.Nop. The result is an RGB image
// holding only black and white pixels.
func Detect(src *raster.Buffer, p Params, r progress.Reporter) (*raster.Buffer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := raster.RequireSource("canny", src); err != nil {
		return nil, err
	}
	if p.Blur == nil {
		p.Blur = blur.Identity{}
	}
	r = progress.OrNop(r)
	r.Start(NumStages)

	s := &state{params: p, img: src}
	for stage := StageGrayscale; stage < StageDone; stage++ {
		if err := s.run(stage); err != nil {
			return nil, fmt.Errorf("canny %s: %w", stage, err)
		}
		r.Advance()
	}
	return s.img, nil
}

func (s *state) run(stage Stage) error {
	switch stage {
	case StageGrayscale:
		s.img = grayscale(s.img)
	case StageBlur:
		out, err := s.params.Blur.Apply(s.img, s.params.KernelSize, progress.Nop)
		if err != nil {
			return err
		}
		s.img = out
	case StageGradient:
		out, field, err := s.params.Operator.Apply(s.img, progress.Nop)
		if err != nil {
			return err
		}
		s.img, s.field = out, field
	case StageNonMaxSuppression:
		s.magnitude = suppressNonMaxima(s.img, s.field)
	case StageDoubleThreshold:
		s.img = doubleThreshold(s.magnitude, s.img.Width(), s.img.Height(), s.params.Low, s.params.High)
	case StageHysteresis:
		s.img = hysteresis(s.img)
	}
	return nil
}

// grayscale copies src to RGB and replaces every pixel with its weighted luma.
func grayscale(src *raster.Buffer) *raster.Buffer {
	out := src.Copy(raster.FormatRGB)
	pix := out.Pix()
	for i, p := range pix {
		pix[i] = pixel.GrayPixel(uint8(pixel.Luma(p)))
	}
	return out
}

// suppressNonMaxima thins the magnitudes in place, column by column. A pixel
// is compared against neighbours that may already have been suppressed
// earlier in the scan.
func suppressNonMaxima(img *raster.Buffer, field *edge.GradientField) []int {
	w, h := img.Width(), img.Height()
	mag := make([]int, w*h)
	for i, p := range img.Pix() {
		mag[i] = pixel.Gradient(p)
	}

	at := func(x, y int) int { return mag[y*w+x] }
	for x := 1; x < w-1; x++ {
		for y := 1; y < h-1; y++ {
			current := at(x, y)
			angle := math.Mod(field.At(x, y)*(180/math.Pi), 180)
			angle = math.Mod(angle+180, 180)

			var n1, n2 int
			switch {
			case (angle >= 0 && angle < 22.5) || (angle >= 157.5 && angle <= 180):
				n1, n2 = at(x-1, y), at(x+1, y)
			case angle >= 22.5 && angle < 67.5:
				n1, n2 = at(x-1, y-1), at(x+1, y+1)
			case angle >= 67.5 && angle < 112.5:
				n1, n2 = at(x, y-1), at(x, y+1)
			case angle >= 112.5 && angle < 157.5:
				n1, n2 = at(x-1, y+1), at(x+1, y-1)
			}
			// NaN directions (Roberts on flat areas) match no band and keep their magnitude.
			if current < n1 || current < n2 {
				mag[y*w+x] = 0
			}
		}
	}
	return mag
}

// doubleThreshold classifies magnitudes: strong edges become white, weak
// edges red, everything else black.
func doubleThreshold(magnitude []int, w, h, low, high int) *raster.Buffer {
	out := raster.MustNew(w, h, raster.FormatRGB)
	pix := out.Pix()
	for i, m := range magnitude {
		switch {
		case m >= high:
			pix[i] = pixel.White
		case m >= low:
			pix[i] = pixel.Red
		default:
			pix[i] = pixel.Black
		}
	}
	return out
}

// hysteresis keeps strong edges and promotes a weak edge only when one of its
// eight neighbours was strong after thresholding. Weak edges do not promote
// each other.
func hysteresis(labels *raster.Buffer) *raster.Buffer {
	w, h := labels.Width(), labels.Height()
	in := labels.Pix()
	out := raster.MustNew(w, h, raster.FormatRGB)
	pix := out.Pix()
	for y := range h {
		for x := range w {
			switch in[y*w+x] {
			case pixel.White:
				pix[y*w+x] = pixel.White
			case pixel.Red:
				if hasStrongNeighbor(in, w, h, x, y) {
					pix[y*w+x] = pixel.White
				}
			}
		}
	}
	return out
}

func hasStrongNeighbor(labels []uint32, w, h, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if nx >= 0 && ny >= 0 && nx < w && ny < h && labels[ny*w+nx] == pixel.White {
				return true
			}
		}
	}
	return false
}
