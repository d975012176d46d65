package histogram

import (
	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/progress"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// CLAHEParams configures contrast-limited adaptive equalization.
type CLAHEParams struct {
	// TileSize is the edge length of a tile in pixels. The last row and
	// column of tiles may be smaller.
	TileSize int
	// ClipLimit caps every histogram bin; it is truncated to an integer.
	ClipLimit float64
	// CDFBlur is the moving-average window applied to each tile's CDF.
	CDFBlur int
}

// DefaultCLAHEParams returns the parameters the CLI starts from.
func DefaultCLAHEParams() CLAHEParams {
	return CLAHEParams{TileSize: 8, ClipLimit: 4, CDFBlur: 1}
}

// Validate rejects parameters that would divide by zero.
func (p CLAHEParams) Validate() error {
	if p.TileSize <= 0 {
		return raster.Validationf("histogram.CLAHE", "tile size must be positive, got %d", p.TileSize)
	}
	if p.CDFBlur < 0 {
		return raster.Validationf("histogram.CLAHE", "cdf blur must not be negative, got %d", p.CDFBlur)
	}
	return nil
}

type tileGrid struct {
	size   int
	nx, ny int
	cdfs   [][]int
}

func (g *tileGrid) cdf(tx, ty int) []int {
	return g.cdfs[ty*g.nx+tx]
}

// CLAHE equalizes the weighted luma of src tile by tile and blends the four
// surrounding tile mappings bilinearly. Where a right or bottom neighbour
// tile does not exist, the current tile's mapping stands in. The result is
// gray, stored in the format of src. It reports four steps: histograms,
// clipping, CDFs and interpolation.
func CLAHE(src *raster.Buffer, p CLAHEParams, r progress.Reporter) (*raster.Buffer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := raster.RequireSource("histogram.CLAHE", src); err != nil {
		return nil, err
	}
	r = progress.OrNop(r)

	w, h := src.Width(), src.Height()
	luma := make([]int, src.Len())
	for i, px := range src.Pix() {
		luma[i] = pixel.Luma(px)
	}
	grid := &tileGrid{
		size: p.TileSize,
		nx:   (w + p.TileSize - 1) / p.TileSize,
		ny:   (h + p.TileSize - 1) / p.TileSize,
	}

	r.Start(4)

	hists := tileHistograms(luma, w, h, grid)
	r.Advance()

	for _, hist := range hists {
		clip(hist, p.ClipLimit)
	}
	r.Advance()

	grid.cdfs = make([][]int, len(hists))
	for i, hist := range hists {
		grid.cdfs[i] = movingAverage(scaledCDF(hist), p.CDFBlur)
	}
	r.Advance()

	out := raster.MustNew(w, h, src.Format())
	for y := range h {
		for x := range w {
			v := grid.interpolate(x, y, luma[y*w+x])
			out.Set(x, y, pixel.GrayPixel(pixel.Clamp(v)))
		}
	}
	r.Advance()

	return out, nil
}

func tileHistograms(luma []int, w, h int, g *tileGrid) [][]int {
	hists := make([][]int, g.nx*g.ny)
	for ty := range g.ny {
		for tx := range g.nx {
			hist := make([]int, Levels)
			for y := ty * g.size; y < min((ty+1)*g.size, h); y++ {
				for x := tx * g.size; x < min((tx+1)*g.size, w); x++ {
					hist[luma[y*w+x]]++
				}
			}
			hists[ty*g.nx+tx] = hist
		}
	}
	return hists
}

// clip caps every bin at int(limit) and spreads the excess evenly; the
// remainder of the division goes to the lowest bins.
func clip(hist []int, limit float64) {
	capped := int(limit)
	excess := 0
	for i, n := range hist {
		if float64(n) > limit {
			excess += n - capped
			hist[i] = capped
		}
	}
	increment := excess / len(hist)
	remainder := excess % len(hist)
	for i := range hist {
		hist[i] += increment
	}
	for i := range remainder {
		hist[i]++
	}
}

// scaledCDF accumulates hist and rescales it to [0, 255]. The first entry is
// left unscaled.
func scaledCDF(hist []int) []int {
	cdf := make([]int, len(hist))
	cdf[0] = hist[0]
	for j := 1; j < len(hist); j++ {
		cdf[j] = cdf[j-1] + hist[j]
	}
	top := float64(cdf[len(cdf)-1])
	for j := 1; j < len(cdf); j++ {
		cdf[j] = int(float64(cdf[j]) * 255.0 / top)
	}
	return cdf
}

// movingAverage smooths cdf with a centred window of window/2 entries on
// each side, shrinking at the ends.
func movingAverage(cdf []int, window int) []int {
	half := window / 2
	out := make([]int, len(cdf))
	for i := range cdf {
		lo, hi := max(0, i-half), min(len(cdf)-1, i+half)
		sum := 0
		for j := lo; j <= hi; j++ {
			sum += cdf[j]
		}
		out[i] = sum / (hi - lo + 1)
	}
	return out
}

func (g *tileGrid) interpolate(x, y, v int) int {
	tx := min(x/g.size, g.nx-1)
	ty := min(y/g.size, g.ny-1)

	tl := g.cdf(tx, ty)[v]
	tr, bl, br := tl, tl, tl
	if tx+1 < g.nx {
		tr = g.cdf(tx+1, ty)[v]
	}
	if ty+1 < g.ny {
		bl = g.cdf(tx, ty+1)[v]
	}
	if tx+1 < g.nx && ty+1 < g.ny {
		br = g.cdf(tx+1, ty+1)[v]
	}

	dx := float64(x%g.size) / float64(g.size)
	dy := float64(y%g.size) / float64(g.size)
	// Each term is rounded on its own so no FMA changes the truncation.
	return int(float64(float64(tl)*(1-dx)*(1-dy)) +
		float64(float64(tr)*dx*(1-dy)) +
		float64(float64(bl)*(1-dx)*dy) +
		float64(float64(br)*dx*dy))
}
