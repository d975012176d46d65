// Package edge computes gradient magnitude and direction with the Sobel,
// Prewitt and Roberts-Cross operators.
//
// Operators read the unweighted channel average of each pixel and only
// visit interior pixels; the one-pixel border of the magnitude image stays
// black and its directions stay zero.
package edge

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/rasterlab/internal/progress"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// Operator produces a magnitude image and the matching direction field.
type Operator interface {
	Apply(src *raster.Buffer, r progress.Reporter) (*raster.Buffer, *GradientField, error)
	Kind() Kind
}

// Kind enumerates the operators.
type Kind int

const (
	KindSobel Kind = iota
	KindPrewitt
	KindRoberts
)

// Kinds lists every operator in display order.
var Kinds = []Kind{KindSobel, KindPrewitt, KindRoberts}

func (k Kind) String() string {
	switch k {
	case KindSobel:
		return "Sobel"
	case KindPrewitt:
		return "Prewitt"
	case KindRoberts:
		return "Roberts"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind matches an operator name case-insensitively. "roberts-cross"
// is accepted as an alias.
func ParseKind(s string) (Kind, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "roberts-cross" || v == "robertscross" {
		return KindRoberts, nil
	}
	for _, k := range Kinds {
		if v == strings.ToLower(k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown edge operator %q", s)
}

// New returns the operator for kind.
func New(kind Kind) (Operator, error) {
	switch kind {
	case KindSobel:
		return Sobel(), nil
	case KindPrewitt:
		return Prewitt(), nil
	case KindRoberts:
		return Roberts{}, nil
	default:
		return nil, raster.Validationf("edge.New", "unknown operator kind %d", int(kind))
	}
}

// GradientField holds per-pixel gradient directions in radians, row-major.
type GradientField struct {
	Width     int
	Height    int
	Direction []float64
}

func newGradientField(w, h int) *GradientField {
	return &GradientField{Width: w, Height: h, Direction: make([]float64, w*h)}
}

// At returns the direction at (x, y).
func (g *GradientField) At(x, y int) float64 {
	return g.Direction[y*g.Width+x]
}

func (g *GradientField) set(x, y int, v float64) {
	g.Direction[y*g.Width+x] = v
}
