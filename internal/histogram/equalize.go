package histogram

import (
	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/progress"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// Channels selects the channels to equalize. Gray is computed when set but
// never written back, since the output keeps separate color channels.
type Channels struct {
	Red   bool
	Green bool
	Blue  bool
	Gray  bool
}

// AllColors selects red, green and blue.
var AllColors = Channels{Red: true, Green: true, Blue: true}

func (c Channels) selected() [pixel.NumChannels]bool {
	return [pixel.NumChannels]bool{c.Red, c.Green, c.Blue, c.Gray}
}

// Equalize remaps each selected channel through its own CDF. Unselected
// channels and alpha pass through. The result has the format of src.
// It reports five steps: histogram, normalization, CDF, mapping and output.
func Equalize(src *raster.Buffer, ch Channels, r progress.Reporter) (*raster.Buffer, error) {
	if err := raster.RequireSource("histogram.Equalize", src); err != nil {
		return nil, err
	}
	r = progress.OrNop(r)
	r.Start(5)

	selected := ch.selected()
	total := src.Len()

	hists := Compute(src, Levels)
	r.Advance()

	var normalized [pixel.NumChannels][]float64
	for c := range selected {
		if selected[c] {
			normalized[c] = Normalize(hists[c], total)
		}
	}
	r.Advance()

	var cdfs [pixel.NumChannels][]float64
	for c := range selected {
		if selected[c] {
			cdfs[c] = CDF(normalized[c])
		}
	}
	r.Advance()

	var luts [pixel.NumChannels][]uint8
	for c := range selected {
		if selected[c] {
			luts[c] = Mapping(cdfs[c])
		}
	}
	r.Advance()

	w := src.Width()
	out := raster.MustNew(w, src.Height(), src.Format())
	for i, p := range src.Pix() {
		red, green, blue := pixel.R(p), pixel.G(p), pixel.B(p)
		if ch.Red {
			red = luts[pixel.ChannelRed][red]
		}
		if ch.Green {
			green = luts[pixel.ChannelGreen][green]
		}
		if ch.Blue {
			blue = luts[pixel.ChannelBlue][blue]
		}
		out.Set(i%w, i/w, pixel.Pack(pixel.A(p), red, green, blue))
	}
	r.Advance()

	return out, nil
}
