package edge

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// Visualize renders the field as an RGB image: the hue encodes the
// direction and the value encodes the gray level of magnitude. Undefined
// directions render black.
func (g *GradientField) Visualize(magnitude *raster.Buffer) (*raster.Buffer, error) {
	if err := raster.RequireSource("edge.Visualize", magnitude); err != nil {
		return nil, err
	}
	if magnitude.Width() != g.Width || magnitude.Height() != g.Height {
		return nil, raster.Validationf("edge.Visualize", "magnitude is %dx%d, field is %dx%d",
			magnitude.Width(), magnitude.Height(), g.Width, g.Height)
	}

	out := raster.MustNew(g.Width, g.Height, raster.FormatRGB)
	dst := out.Pix()
	for i, theta := range g.Direction {
		if math.IsNaN(theta) {
			continue
		}
		hue := math.Mod(theta*180/math.Pi, 360)
		if hue < 0 {
			hue += 360
		}
		v := float64(pixel.R(magnitude.Pix()[i])) / 255
		r, gr, b := colorful.Hsv(hue, 1, v).Clamped().RGB255()
		dst[i] = pixel.PackRGB(r, gr, b)
	}
	return out, nil
}
