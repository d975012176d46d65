package raster

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/rasterlab/internal/pixel"
)

// FromImage converts any decoded image into a Buffer of the given format.
func FromImage(img image.Image, format Format) (*Buffer, error) {
	if img == nil {
		return nil, &PreconditionError{Op: "raster.FromImage", Msg: "source image is nil"}
	}
	nrgba := imaging.Clone(img)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	b, err := New(w, h, format)
	if err != nil {
		return nil, err
	}
	for y := range h {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := range w {
			o := x * 4
			p := pixel.Pack(row[o+3], row[o], row[o+1], row[o+2])
			b.pix[y*w+x] = format.normalize(p)
		}
	}
	return b, nil
}

var binaryPalette = color.Palette{color.Black, color.White}

// Image returns a standard library image holding a copy of the pixels:
// *image.NRGBA for RGB and ARGB, *image.Gray for Gray and a two-color
// *image.Paletted for Binary.
func (b *Buffer) Image() image.Image {
	rect := image.Rect(0, 0, b.width, b.height)
	switch b.format {
	case FormatGray:
		img := image.NewGray(rect)
		for i, p := range b.pix {
			img.Pix[i] = pixel.R(p)
		}
		return img
	case FormatBinary:
		img := image.NewPaletted(rect, binaryPalette)
		for i, p := range b.pix {
			if p == pixel.White {
				img.Pix[i] = 1
			}
		}
		return img
	default:
		img := image.NewNRGBA(rect)
		for i, p := range b.pix {
			o := i * 4
			img.Pix[o] = pixel.R(p)
			img.Pix[o+1] = pixel.G(p)
			img.Pix[o+2] = pixel.B(p)
			img.Pix[o+3] = pixel.A(p)
		}
		return img
	}
}
