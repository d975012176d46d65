package edge

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

func TestGradientField_Visualize(t *testing.T) {
	field := newGradientField(4, 1)
	field.set(0, 0, 0)
	field.set(1, 0, math.Pi)
	field.set(2, 0, math.NaN())
	field.set(3, 0, -math.Pi)

	mag, err := raster.FromPixels(4, 1, raster.FormatGray, []uint32{
		pixel.White, pixel.White, pixel.White, pixel.Black,
	})
	require.NoError(t, err)

	out, err := field.Visualize(mag)
	require.NoError(t, err)
	assert.Equal(t, raster.FormatRGB, out.Format())
	assert.Equal(t, []uint32{
		pixel.PackRGB(255, 0, 0),
		pixel.PackRGB(0, 255, 255),
		pixel.Black,
		pixel.Black,
	}, out.Pix())
}

func TestGradientField_VisualizeRejectsMismatch(t *testing.T) {
	field := newGradientField(3, 3)

	_, err := field.Visualize(raster.MustNew(2, 3, raster.FormatGray))
	assert.True(t, errors.Is(err, raster.ErrValidation))

	_, err = field.Visualize(nil)
	assert.True(t, errors.Is(err, raster.ErrPrecondition))
}
