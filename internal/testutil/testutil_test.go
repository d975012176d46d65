package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

func TestProjectRoot(t *testing.T) {
	root, err := ProjectRoot()
	require.NoError(t, err)
	assert.True(t, FileExists(filepath.Join(root, "go.mod")))
	assert.True(t, FileExists(filepath.Join(root, "internal", "testutil")))
	assert.False(t, FileExists(filepath.Join(root, "no", "such", "file")))
}

func TestGenerators(t *testing.T) {
	split := Split(4, 2)
	assert.Equal(t, pixel.Black, split.At(1, 1))
	assert.Equal(t, pixel.White, split.At(2, 0))

	ramp := HorizontalRamp(3, 1)
	assert.Equal(t, []uint32{pixel.GrayPixel(0), pixel.GrayPixel(127), pixel.GrayPixel(255)}, ramp.Pix())

	board := Checkerboard(4, 4, 2)
	assert.Equal(t, pixel.Black, board.At(0, 0))
	assert.Equal(t, pixel.White, board.At(2, 0))
	assert.Equal(t, pixel.Black, board.At(2, 2))

	assert.Equal(t, Noise(5, 5, 9, true).Pix(), Noise(5, 5, 9, true).Pix())
	assert.NotEqual(t, Noise(5, 5, 9, false).Pix(), Noise(5, 5, 10, false).Pix())
	assert.Equal(t, raster.FormatARGB, Noise(2, 2, 1, true).Format())

	levels := AllLevels(2)
	assert.Equal(t, pixel.GrayPixel(200), levels.At(200, 1))
	assert.True(t, AllPixels(Solid(3, 3, raster.FormatRGB, pixel.Black), pixel.Black))
}

func TestWriteImage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path := WriteImage(t, dir, "split.png", Split(2, 2))
	assert.True(t, FileExists(path))
}
