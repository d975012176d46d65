package edge

import (
	"math"

	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/progress"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// mask3 is indexed [dx+1][dy+1].
type mask3 [3][3]int

// Convolution3 is a 3×3 operator. Direction is atan2(px, py).
type Convolution3 struct {
	kind   Kind
	gx, gy mask3
	format raster.Format
}

// Sobel returns the Sobel operator. Its magnitude image is FormatGray.
func Sobel() Convolution3 {
	return Convolution3{
		kind:   KindSobel,
		gx:     mask3{{1, 0, -1}, {2, 0, -2}, {1, 0, -1}},
		gy:     mask3{{1, 2, 1}, {0, 0, 0}, {-1, -2, -1}},
		format: raster.FormatGray,
	}
}

// Prewitt returns the Prewitt operator. Its magnitude image is FormatRGB.
func Prewitt() Convolution3 {
	return Convolution3{
		kind:   KindPrewitt,
		gx:     mask3{{1, 0, -1}, {1, 0, -1}, {1, 0, -1}},
		gy:     mask3{{1, 1, 1}, {0, 0, 0}, {-1, -1, -1}},
		format: raster.FormatRGB,
	}
}

func (c Convolution3) Kind() Kind { return c.kind }

// Apply reports one step per interior column.
func (c Convolution3) Apply(src *raster.Buffer, r progress.Reporter) (*raster.Buffer, *GradientField, error) {
	op := "edge." + c.kind.String()
	if err := raster.RequireSource(op, src); err != nil {
		return nil, nil, err
	}
	r = progress.OrNop(r)

	w, h := src.Width(), src.Height()
	in := src.Pix()
	out := raster.MustNew(w, h, c.format)
	dst := out.Pix()
	field := newGradientField(w, h)

	r.Start(max(0, w-2))
	for x := 1; x < w-1; x++ {
		for y := 1; y < h-1; y++ {
			var px, py int
			for i := -1; i <= 1; i++ {
				for j := -1; j <= 1; j++ {
					v := pixel.Gradient(in[(y+j)*w+x+i])
					px += c.gx[i+1][j+1] * v
					py += c.gy[i+1][j+1] * v
				}
			}
			mag := int(math.Min(255, math.Hypot(float64(px), float64(py))))
			dst[y*w+x] = pixel.GrayPixel(uint8(mag))
			field.set(x, y, math.Atan2(float64(px), float64(py)))
		}
		r.Advance()
	}
	return out, field, nil
}
