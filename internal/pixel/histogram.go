package pixel

// Channel indexes a Histograms value.
type Channel int

const (
	ChannelRed Channel = iota
	ChannelGreen
	ChannelBlue
	// ChannelGray is the unweighted channel average, see Gradient.
	ChannelGray
)

// NumChannels is the number of histograms computed together.
const NumChannels = 4

// Histograms holds one count slice per Channel.
type Histograms [NumChannels][]int

// CountIntensities counts red, green, blue and gray intensities of pix into
// bins buckets each. A value v lands in bucket v*bins/256.
func CountIntensities(pix []uint32, bins int) Histograms {
	var h Histograms
	for c := range h {
		h[c] = make([]int, bins)
	}
	for _, p := range pix {
		h[ChannelRed][binOf(int(R(p)), bins)]++
		h[ChannelGreen][binOf(int(G(p)), bins)]++
		h[ChannelBlue][binOf(int(B(p)), bins)]++
		h[ChannelGray][binOf(Gradient(p), bins)]++
	}
	return h
}

func binOf(v, bins int) int {
	return v * bins / 256
}
