package blur

import (
	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/progress"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// Box averages red, green and blue over the window. Window coordinates past
// the border are clamped to the nearest edge pixel. The result is RGB.
type Box struct{}

func (Box) Kind() Kind { return KindBox }

func (Box) Apply(src *raster.Buffer, kernelSize int, r progress.Reporter) (*raster.Buffer, error) {
	if err := checkInput("blur.Box", src, kernelSize); err != nil {
		return nil, err
	}
	r = progress.OrNop(r)

	w, h := src.Width(), src.Height()
	in := src.Pix()
	out := raster.MustNew(w, h, raster.FormatRGB)
	dst := out.Pix()
	radius := kernelSize / 2
	count := kernelSize * kernelSize

	r.Start(h)
	for y := range h {
		for x := range w {
			var sr, sg, sb int
			for ky := -radius; ky <= radius; ky++ {
				py := min(max(y+ky, 0), h-1)
				row := in[py*w : py*w+w]
				for kx := -radius; kx <= radius; kx++ {
					p := row[min(max(x+kx, 0), w-1)]
					sr += int(pixel.R(p))
					sg += int(pixel.G(p))
					sb += int(pixel.B(p))
				}
			}
			dst[y*w+x] = pixel.PackRGB(uint8(sr/count), uint8(sg/count), uint8(sb/count))
		}
		r.Advance()
	}
	return out, nil
}
