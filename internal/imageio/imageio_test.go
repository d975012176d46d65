package imageio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
	"github.com/MeKo-Tech/rasterlab/internal/testutil"
)

func TestIsSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.png", true},
		{"a.JPG", true},
		{"dir/a.tiff", true},
		{"a.bmp", true},
		{"a.webp", false},
		{"noext", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSupported(tt.path), tt.path)
	}
}

func TestSaveLoad_LosslessFormats(t *testing.T) {
	src := testutil.Noise(9, 5, 7, false)
	dir := t.TempDir()

	for _, ext := range []string{".png", ".bmp", ".tif"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "noise"+ext)
			require.NoError(t, Save(path, src))

			got, meta, err := LoadBuffer(path, raster.FormatRGB)
			require.NoError(t, err)
			assert.Equal(t, 9, meta.Width)
			assert.Equal(t, 5, meta.Height)
			assert.Positive(t, meta.SizeBytes)
			assert.InDelta(t, 1.8, meta.AspectRatio, 1e-9)
			assert.Equal(t, src.Pix(), got.Pix())
		})
	}
}

func TestSave_BinaryAndGray(t *testing.T) {
	dir := t.TempDir()

	bin := testutil.Split(4, 2).Copy(raster.FormatBinary)
	path := filepath.Join(dir, "nested", "bin.png")
	require.NoError(t, Save(path, bin))
	got, _, err := LoadBuffer(path, raster.FormatBinary)
	require.NoError(t, err)
	assert.Equal(t, bin.Pix(), got.Pix())

	gray := testutil.AllLevels(1).Copy(raster.FormatGray)
	path = filepath.Join(dir, "gray.png")
	require.NoError(t, Save(path, gray))
	got, meta, err := LoadBuffer(path, raster.FormatGray)
	require.NoError(t, err)
	assert.Equal(t, "png", meta.Format)
	assert.Equal(t, pixel.GrayPixel(200), got.At(200, 0))
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := Load("")
	var ioErr *Error
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "load", ioErr.Operation)

	_, _, err = Load(filepath.Join(dir, "a.webp"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, _, err = Load(filepath.Join(dir, "missing.png"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o600))
	_, _, err = Load(garbage)
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "decode", ioErr.Operation)
	assert.Contains(t, err.Error(), garbage)
}

func TestSave_Errors(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, errors.Is(Save(filepath.Join(dir, "a.webp"), testutil.Split(2, 2)), ErrUnsupportedFormat))

	var ioErr *Error
	require.ErrorAs(t, Save(filepath.Join(dir, "a.png"), nil), &ioErr)
	assert.Equal(t, "save", ioErr.Operation)
}
