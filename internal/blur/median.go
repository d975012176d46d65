package blur

import (
	"fmt"
	"runtime"
	"slices"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/progress"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// Median replaces every interior pixel with the median of its window. The
// median is taken over whole packed pixels sorted as signed integers, not per
// channel. A border of kernelSize/2 pixels keeps the source colors.
//
// Work is split into one task per interior column and run on a bounded pool.
// Each task writes only its own column of the result.
type Median struct {
	// Workers bounds the pool; zero means runtime.NumCPU().
	Workers int
}

func (Median) Kind() Kind { return KindMedian }

// Apply reports one step per completed column. Advance is called from the
// worker goroutines.
func (m Median) Apply(src *raster.Buffer, kernelSize int, r progress.Reporter) (*raster.Buffer, error) {
	if err := checkInput("blur.Median", src, kernelSize); err != nil {
		return nil, err
	}
	r = progress.OrNop(r)

	workers := m.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	w, h := src.Width(), src.Height()
	out := src.Copy(raster.FormatRGB)
	offset := kernelSize / 2
	firstCol, lastCol := offset, w-offset
	tasks := max(0, lastCol-firstCol)
	r.Start(tasks)
	if tasks == 0 {
		return out, nil
	}

	in := src.Pix()
	dst := out.Pix()

	var g errgroup.Group
	g.SetLimit(workers)
	for x := firstCol; x < lastCol; x++ {
		g.Go(func() (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = errors.WithStack(fmt.Errorf("column %d: %v", x, rec))
				}
			}()
			filterColumn(in, dst, w, h, kernelSize, x)
			r.Advance()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &raster.ComputationFault{Op: "blur.Median", Err: err}
	}
	return out, nil
}

// filterColumn is swapped out by tests to simulate a failing task.
var filterColumn = medianColumn

// medianColumn fills rows [offset, h-offset) of column x in dst.
func medianColumn(in, dst []uint32, w, h, size, x int) {
	offset := size / 2
	window := make([]int32, size*size)
	for y := offset; y < h-offset; y++ {
		i := 0
		for dx := range size {
			nx := x + dx - offset
			for dy := range size {
				ny := y + dy - offset
				window[i] = int32(in[ny*w+nx])
				i++
			}
		}
		slices.Sort(window)
		dst[y*w+x] = pixel.Opaque(uint32(window[len(window)/2]))
	}
}
