// Package pixel holds the packed-color helpers shared by every algorithm.
//
// Pixels are packed as 0xAARRGGBB in a uint32. Two luminance formulas live
// here and they are not interchangeable: Luma is the weighted ITU-R BT.601
// conversion used for "true" grayscale, Gradient is the plain channel average
// used by the edge operators, Canny's intermediate stages and the statistics.
package pixel

const (
	// Black is opaque black.
	Black uint32 = 0xFF000000
	// White is opaque white.
	White uint32 = 0xFFFFFFFF
	// Red is opaque red. Canny uses it to mark weak edges.
	Red uint32 = 0xFFFF0000

	alphaMask uint32 = 0xFF000000
)

// A returns the alpha byte of p.
func A(p uint32) uint8 { return uint8(p >> 24) }

// R returns the red byte of p.
func R(p uint32) uint8 { return uint8(p >> 16) }

// G returns the green byte of p.
func G(p uint32) uint8 { return uint8(p >> 8) }

// B returns the blue byte of p.
func B(p uint32) uint8 { return uint8(p) }

// Pack composes a pixel from its four channels.
func Pack(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// PackRGB composes an opaque pixel.
func PackRGB(r, g, b uint8) uint32 {
	return Pack(0xFF, r, g, b)
}

// GrayPixel returns the opaque gray pixel with all channels set to v.
func GrayPixel(v uint8) uint32 {
	return PackRGB(v, v, v)
}

// Opaque forces the alpha channel of p to 0xFF.
func Opaque(p uint32) uint32 {
	return p | alphaMask
}

// Luma returns the weighted luminance 0.299R + 0.587G + 0.114B, truncated.
func Luma(p uint32) int {
	// Explicit conversions keep the products from being fused into FMAs,
	// so the truncation lands identically on every architecture.
	r := float64(0.299 * float64(R(p)))
	g := float64(0.587 * float64(G(p)))
	b := float64(0.114 * float64(B(p)))
	return int(r + g + b)
}

// Gradient returns the unweighted channel average (R+G+B)/3.
func Gradient(p uint32) int {
	return (int(R(p)) + int(G(p)) + int(B(p))) / 3
}

// Clamp limits v to the byte range.
func Clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
