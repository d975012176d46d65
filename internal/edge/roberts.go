package edge

import (
	"math"

	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/progress"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

var (
	robertsGX = [2][2]float64{{1, 0}, {0, -1}}
	robertsGY = [2][2]float64{{0, 1}, {-1, 0}}
)

// Roberts is the 2×2 Roberts-Cross operator anchored at (x-1, y-1). Its
// direction is atan(py/px) - 3π/4, which is NaN where both gradients vanish.
// The magnitude image is FormatRGB.
type Roberts struct{}

func (Roberts) Kind() Kind { return KindRoberts }

// Apply reports one step per interior column.
func (Roberts) Apply(src *raster.Buffer, r progress.Reporter) (*raster.Buffer, *GradientField, error) {
	if err := raster.RequireSource("edge.Roberts", src); err != nil {
		return nil, nil, err
	}
	r = progress.OrNop(r)

	w, h := src.Width(), src.Height()
	in := src.Pix()
	out := raster.MustNew(w, h, raster.FormatRGB)
	dst := out.Pix()
	field := newGradientField(w, h)

	r.Start(max(0, w-2))
	for x := 1; x < w-1; x++ {
		for y := 1; y < h-1; y++ {
			var px, py float64
			for nx := range 2 {
				for ny := range 2 {
					v := float64(pixel.Gradient(in[(y+ny-1)*w+x+nx-1]))
					px += v * robertsGX[nx][ny]
					py += v * robertsGY[nx][ny]
				}
			}
			mag := min(255, int(math.Sqrt(px*px+py*py)))
			dst[y*w+x] = pixel.GrayPixel(uint8(mag))
			field.set(x, y, math.Atan(py/px)-3*math.Pi/4)
		}
		r.Advance()
	}
	return out, field, nil
}
