// Package stats summarizes the intensity distribution of an image.
package stats

import (
	"math"

	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// Statistics describes the channel-average intensity of every pixel.
type Statistics struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`

	Mean float64 `json:"mean" yaml:"mean"`
	// Variance is the population variance.
	Variance float64 `json:"variance" yaml:"variance"`
	StdDev   float64 `json:"std_dev" yaml:"std_dev"`
	// Entropy is the Shannon entropy of the 256-bin histogram, in bits.
	Entropy float64 `json:"entropy" yaml:"entropy"`
	// Energy is the mean of the squared intensities scaled to [0, 1].
	Energy float64 `json:"energy" yaml:"energy"`

	Min      int `json:"min" yaml:"min"`
	Max      int `json:"max" yaml:"max"`
	Contrast int `json:"contrast" yaml:"contrast"`
}

// Calculate computes the statistics of src in a few passes over its pixels.
func Calculate(src *raster.Buffer) (Statistics, error) {
	if err := raster.RequireSource("stats", src); err != nil {
		return Statistics{}, err
	}

	values := make([]int, src.Len())
	for i, p := range src.Pix() {
		values[i] = pixel.Gradient(p)
	}
	n := float64(len(values))

	s := Statistics{Width: src.Width(), Height: src.Height(), Min: values[0], Max: values[0]}

	sum := 0
	hist := make([]int, 256)
	for _, v := range values {
		sum += v
		hist[v]++
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
	}
	s.Mean = float64(sum) / n
	s.Contrast = s.Max - s.Min

	var sq, energy float64
	for _, v := range values {
		d := float64(v) - s.Mean
		sq += d * d
		e := float64(v) / 255.0
		energy += e * e
	}
	s.Variance = sq / n
	s.StdDev = math.Sqrt(s.Variance)
	s.Energy = energy / n

	for _, count := range hist {
		if count == 0 {
			continue
		}
		p := float64(count) / n
		s.Entropy -= p * (math.Log(p) / math.Ln2)
	}
	return s, nil
}
