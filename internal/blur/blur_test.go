package blur

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/progress"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
	"github.com/MeKo-Tech/rasterlab/internal/testutil"
)

func allFilters() []Filter {
	return []Filter{Identity{}, Box{}, Gaussian{}, Median{Workers: 2}}
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"box":           KindBox,
		"Box blur":      KindBox,
		"GAUSSIAN":      KindGaussian,
		"gauss":         KindGaussian,
		"median":        KindMedian,
		"none":          KindIdentity,
		"identity":      KindIdentity,
		" Median blur ": KindMedian,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("bilateral")
	assert.Error(t, err)
}

func TestKind_Names(t *testing.T) {
	assert.Equal(t, "Box blur", KindBox.String())
	assert.Equal(t, "Gaussian blur", KindGaussian.String())
	assert.Equal(t, "Median blur", KindMedian.String())
	assert.Equal(t, "None", KindIdentity.String())
	for _, k := range Kinds {
		f, err := New(k, Options{})
		require.NoError(t, err)
		assert.Equal(t, k, f.Kind())
	}
}

func TestNew_RejectsBadOptions(t *testing.T) {
	_, err := New(KindGaussian, Options{Sigma: -1})
	assert.True(t, errors.Is(err, raster.ErrValidation))
	_, err = New(KindMedian, Options{Workers: -1})
	assert.True(t, errors.Is(err, raster.ErrValidation))
	_, err = New(Kind(42), Options{})
	assert.Error(t, err)

	f, err := New(KindGaussian, Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultSigma, f.(Gaussian).Sigma)
}

func TestApply_RejectsInvalidKernelSizes(t *testing.T) {
	src := testutil.Noise(8, 8, 1, false)
	for _, f := range []Filter{Box{}, Gaussian{}, Median{}} {
		for _, k := range []int{0, -1, -3, 2, 4} {
			counter := progress.NewCounter()
			out, err := f.Apply(src, k, counter)
			require.Error(t, err, "%v k=%d", f.Kind(), k)
			assert.True(t, errors.Is(err, raster.ErrValidation))
			assert.Nil(t, out)
			assert.Equal(t, 0, counter.Starts(), "validation happens before any progress")
		}
	}
}

func TestApply_NilSource(t *testing.T) {
	for _, f := range allFilters() {
		_, err := f.Apply(nil, 3, progress.Nop)
		assert.True(t, errors.Is(err, raster.ErrPrecondition), f.Kind().String())
	}
}

func TestApply_PreservesDimensionsAndDoesNotAlias(t *testing.T) {
	src := testutil.Noise(13, 7, 3, true)
	before := src.Clone()
	for _, f := range allFilters() {
		out, err := f.Apply(src, 3, nil)
		require.NoError(t, err)
		assert.Equal(t, src.Width(), out.Width())
		assert.Equal(t, src.Height(), out.Height())
		testutil.AssertNoAlias(t, src, out)
		assert.Equal(t, before.Pix(), src.Pix(), "%s mutated its input", f.Kind())
	}
}

func TestApply_ProgressContract(t *testing.T) {
	src := testutil.Noise(11, 6, 5, false)
	tests := []struct {
		filter Filter
		k      int
		steps  int
	}{
		{Box{}, 3, 6},
		{Gaussian{}, 5, 1},
		{Median{Workers: 3}, 3, 9},
		{Median{Workers: 3}, 5, 7},
		{Median{}, 13, 0},
		{Identity{}, 7, 1},
	}
	for _, tt := range tests {
		t.Run(tt.filter.Kind().String(), func(t *testing.T) {
			counter := progress.NewCounter()
			_, err := tt.filter.Apply(src, tt.k, counter)
			require.NoError(t, err)
			assert.Equal(t, tt.steps, counter.Total())
			assert.True(t, counter.Complete())
		})
	}
}

func TestOutputFormats(t *testing.T) {
	src := testutil.Noise(5, 5, 9, true)
	formats := map[Kind]raster.Format{
		KindBox:      raster.FormatRGB,
		KindGaussian: raster.FormatARGB,
		KindMedian:   raster.FormatRGB,
		KindIdentity: raster.FormatARGB,
	}
	for _, f := range allFilters() {
		out, err := f.Apply(src, 3, nil)
		require.NoError(t, err)
		assert.Equal(t, formats[f.Kind()], out.Format(), f.Kind().String())
	}
}

func TestBox_AveragesWithReplicatedBorder(t *testing.T) {
	// 3x1 row: 0, 90, 180. Clamped windows of size 3.
	src, err := raster.FromPixels(3, 1, raster.FormatRGB, []uint32{
		pixel.GrayPixel(0), pixel.GrayPixel(90), pixel.GrayPixel(180),
	})
	require.NoError(t, err)

	out, err := Box{}.Apply(src, 3, nil)
	require.NoError(t, err)
	// (0+0+90)*3/9, (0+90+180)*3/9, (90+180+180)*3/9
	assert.Equal(t, []uint32{pixel.GrayPixel(30), pixel.GrayPixel(90), pixel.GrayPixel(150)}, out.Pix())
}

func TestBox_KernelOneIsIdentityOnRGB(t *testing.T) {
	src := testutil.Noise(9, 4, 2, false)
	out, err := Box{}.Apply(src, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, src.Pix(), out.Pix())
}

func TestKernel_Shape(t *testing.T) {
	k, err := Kernel(3, 1.0)
	require.NoError(t, err)
	require.Len(t, k, 9)
	center := k[4]
	for i, v := range k {
		assert.LessOrEqual(t, v, center, "index %d", i)
	}
	assert.InDelta(t, k[0], k[8], 1e-15)
	assert.InDelta(t, k[1], k[3], 1e-15)

	one, err := Kernel(1, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, one)

	_, err = Kernel(3, 0)
	assert.True(t, errors.Is(err, raster.ErrValidation))
	_, err = Kernel(3, math.NaN())
	assert.True(t, errors.Is(err, raster.ErrValidation))
	_, err = Kernel(4, 1)
	assert.True(t, errors.Is(err, raster.ErrValidation))
}

func TestGaussian_DimsBordersWithoutRenormalizing(t *testing.T) {
	src := testutil.Solid(9, 9, raster.FormatARGB, pixel.White)
	out, err := Gaussian{Sigma: 1}.Apply(src, 5, nil)
	require.NoError(t, err)

	// Full kernel support in the middle.
	assert.Equal(t, uint8(254), pixel.R(out.At(4, 4))&0xFE)
	// A corner sees only a quarter of the kernel plus the centre row/column.
	corner := out.At(0, 0)
	assert.Less(t, pixel.R(corner), uint8(200))
	assert.Less(t, pixel.A(corner), uint8(200))
	assert.Equal(t, pixel.R(corner), pixel.A(corner))
}

func TestMedian_RemovesSaltNoise(t *testing.T) {
	src := testutil.Solid(7, 7, raster.FormatRGB, pixel.GrayPixel(40))
	src.Set(3, 3, pixel.White)
	out, err := Median{Workers: 2}.Apply(src, 3, nil)
	require.NoError(t, err)
	assert.True(t, testutil.AllPixels(out, pixel.GrayPixel(40)))
}

func TestMedian_BorderKeepsSource(t *testing.T) {
	src := testutil.Noise(10, 8, 11, false)
	out, err := Median{}.Apply(src, 5, nil)
	require.NoError(t, err)
	for y := range 8 {
		for x := range 10 {
			if x < 2 || x >= 8 || y < 2 || y >= 6 {
				assert.Equal(t, src.At(x, y), out.At(x, y), "(%d,%d)", x, y)
			}
		}
	}
}

func TestMedian_SortsPackedValuesAsSignedIntegers(t *testing.T) {
	// Alpha 0x7F sorts above alpha 0xFF when compared as int32.
	low := pixel.Pack(0x7F, 0, 0, 0)
	high := pixel.Pack(0xFF, 0xFF, 0xFF, 0xFF)
	pix := make([]uint32, 9)
	for i := range pix {
		if i < 5 {
			pix[i] = low
		} else {
			pix[i] = high
		}
	}
	src, err := raster.FromPixels(3, 3, raster.FormatARGB, pix)
	require.NoError(t, err)

	out, err := Median{Workers: 1}.Apply(src, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, pixel.Opaque(low), out.At(1, 1))
}

func TestMedian_WorkerCountDoesNotChangeResult(t *testing.T) {
	src := testutil.Noise(31, 17, 42, false)
	single, err := Median{Workers: 1}.Apply(src, 5, nil)
	require.NoError(t, err)
	for _, workers := range []int{2, 4, 8, 0} {
		multi, err := Median{Workers: workers}.Apply(src, 5, nil)
		require.NoError(t, err)
		assert.Equal(t, single.Pix(), multi.Pix(), "workers=%d", workers)
	}
}

func TestMedian_TaskFailureIsFatal(t *testing.T) {
	orig := filterColumn
	t.Cleanup(func() { filterColumn = orig })
	filterColumn = func(in, dst []uint32, w, h, size, x int) {
		if x == 4 {
			panic("worker lost")
		}
		orig(in, dst, w, h, size, x)
	}

	out, err := Median{Workers: 2}.Apply(testutil.Noise(9, 9, 1, false), 3, nil)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, raster.ErrComputation))
	assert.Contains(t, err.Error(), "worker lost")
}

func TestIdentity_CopiesPixels(t *testing.T) {
	src := testutil.Noise(4, 4, 8, true)
	out, err := Identity{}.Apply(src, 4, nil)
	require.NoError(t, err, "identity ignores the kernel size")
	assert.Equal(t, src.Pix(), out.Pix())
	testutil.AssertNoAlias(t, src, out)
}
