// Package blur implements the smoothing filters: box, Gaussian, median and
// the identity filter used as the no-op choice in composite pipelines.
package blur

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/rasterlab/internal/progress"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// Filter smooths an image with a square window of kernelSize pixels.
type Filter interface {
	Apply(src *raster.Buffer, kernelSize int, r progress.Reporter) (*raster.Buffer, error)
	Kind() Kind
}

// Kind enumerates the available filters.
type Kind int

const (
	KindIdentity Kind = iota
	KindBox
	KindGaussian
	KindMedian
)

// Kinds lists every filter in display order.
var Kinds = []Kind{KindBox, KindGaussian, KindMedian, KindIdentity}

func (k Kind) String() string {
	switch k {
	case KindIdentity:
		return "None"
	case KindBox:
		return "Box blur"
	case KindGaussian:
		return "Gaussian blur"
	case KindMedian:
		return "Median blur"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Name returns the short lowercase identifier used in config files and flags.
func (k Kind) Name() string {
	switch k {
	case KindIdentity:
		return "none"
	case KindBox:
		return "box"
	case KindGaussian:
		return "gaussian"
	case KindMedian:
		return "median"
	default:
		return ""
	}
}

// ParseKind accepts a short name ("box", "gaussian", "median", "none") or a
// display name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "identity":
		return KindIdentity, nil
	case "gauss":
		return KindGaussian, nil
	}
	for _, k := range Kinds {
		if v == k.Name() || v == strings.ToLower(k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown blur filter %q", s)
}

// Options carries the parameters only some filters use.
type Options struct {
	// Sigma is the Gaussian standard deviation. Zero selects DefaultSigma.
	Sigma float64
	// Workers bounds the median worker pool. Zero means one per CPU.
	Workers int
}

// New constructs the filter for kind.
func New(kind Kind, opts Options) (Filter, error) {
	switch kind {
	case KindIdentity:
		return Identity{}, nil
	case KindBox:
		return Box{}, nil
	case KindGaussian:
		sigma := opts.Sigma
		if sigma == 0 {
			sigma = DefaultSigma
		}
		if sigma < 0 {
			return nil, raster.Validationf("blur.New", "sigma must be positive, got %g", sigma)
		}
		return Gaussian{Sigma: sigma}, nil
	case KindMedian:
		if opts.Workers < 0 {
			return nil, raster.Validationf("blur.New", "workers must not be negative, got %d", opts.Workers)
		}
		return Median{Workers: opts.Workers}, nil
	default:
		return nil, raster.Validationf("blur.New", "unknown filter kind %d", int(kind))
	}
}

// ValidateKernelSize rejects sizes that are not positive and odd.
func ValidateKernelSize(k int) error {
	if k <= 0 || k%2 == 0 {
		return raster.Validationf("blur", "kernel size must be a positive odd number, got %d", k)
	}
	return nil
}

func checkInput(op string, src *raster.Buffer, kernelSize int) error {
	if err := ValidateKernelSize(kernelSize); err != nil {
		return err
	}
	return raster.RequireSource(op, src)
}

// Identity returns a copy of its input. It is the "None" choice of the
// Canny pipeline.
type Identity struct{}

func (Identity) Kind() Kind { return KindIdentity }

// Apply ignores kernelSize.
func (Identity) Apply(src *raster.Buffer, _ int, r progress.Reporter) (*raster.Buffer, error) {
	if err := raster.RequireSource("blur.Identity", src); err != nil {
		return nil, err
	}
	r = progress.OrNop(r)
	r.Start(1)
	out := src.Clone()
	r.Advance()
	return out, nil
}
