// Package imageio loads and saves raster files for the command line.
package imageio

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// ErrUnsupportedFormat is returned for paths whose extension has no codec.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// SupportedExtensions lists the file extensions that can be read and written.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff"}

// IsSupported reports whether path has a supported image extension.
func IsSupported(path string) bool {
	return slices.Contains(SupportedExtensions, strings.ToLower(filepath.Ext(path)))
}

// Error wraps a failure of a file operation.
type Error struct {
	Operation string
	Path      string
	Err       error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Metadata captures file and pixel information of a loaded image.
type Metadata struct {
	Path        string
	Format      string
	SizeBytes   int64
	Width       int
	Height      int
	AspectRatio float64
}

// Load opens and decodes an image file.
func Load(path string) (image.Image, Metadata, error) {
	if path == "" {
		return nil, Metadata{}, &Error{Operation: "load", Err: errors.New("empty path")}
	}
	if !IsSupported(path) {
		return nil, Metadata{}, &Error{Operation: "load", Path: path,
			Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))}
	}

	f, err := os.Open(path) //nolint:gosec // G304: reading a user-provided path is the purpose
	if err != nil {
		return nil, Metadata{}, &Error{Operation: "load", Path: path, Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("closing image file", "path", path, "error", err)
		}
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, Metadata{}, &Error{Operation: "load", Path: path, Err: err}
	}

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, Metadata{}, &Error{Operation: "decode", Path: path, Err: err}
	}

	b := img.Bounds()
	meta := Metadata{
		Path:        path,
		Format:      format,
		SizeBytes:   fi.Size(),
		Width:       b.Dx(),
		Height:      b.Dy(),
		AspectRatio: float64(b.Dx()) / float64(b.Dy()),
	}
	return img, meta, nil
}

// LoadBuffer loads path and converts it into a Buffer of the given format.
func LoadBuffer(path string, format raster.Format) (*raster.Buffer, Metadata, error) {
	img, meta, err := Load(path)
	if err != nil {
		return nil, meta, err
	}
	buf, err := raster.FromImage(img, format)
	if err != nil {
		return nil, meta, &Error{Operation: "convert", Path: path, Err: err}
	}
	return buf, meta, nil
}

// Save encodes buf to path. The encoder is chosen from the extension.
func Save(path string, buf *raster.Buffer) error {
	if buf == nil {
		return &Error{Operation: "save", Path: path, Err: errors.New("nil image")}
	}
	if !IsSupported(path) {
		return &Error{Operation: "save", Path: path,
			Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return &Error{Operation: "save", Path: path, Err: err}
		}
	}
	if err := imaging.Save(buf.Image(), path); err != nil {
		return &Error{Operation: "encode", Path: path, Err: err}
	}
	return nil
}
