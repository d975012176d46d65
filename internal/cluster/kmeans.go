package cluster

import (
	"math/rand/v2"

	"github.com/MeKo-Tech/rasterlab/internal/pixel"
	"github.com/MeKo-Tech/rasterlab/internal/progress"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// Centroid is the mean color of a cluster.
type Centroid struct {
	R, G, B int
}

// Pixel returns the centroid as an opaque packed color.
func (c Centroid) Pixel() uint32 {
	return pixel.PackRGB(uint8(c.R), uint8(c.G), uint8(c.B))
}

func (c Centroid) distance2(p uint32) int {
	dr := int(pixel.R(p)) - c.R
	dg := int(pixel.G(p)) - c.G
	db := int(pixel.B(p)) - c.B
	return dr*dr + dg*dg + db*db
}

// KMeans clusters pixels by RGB color.
type KMeans struct {
	// K is the number of clusters and must be positive.
	K int
	// MaxIterations caps the assign/update loop. Zero iterates until the
	// centroids stop changing, which may never happen on degenerate input.
	MaxIterations int
	// Rand picks the initial centroids. Nil uses a randomly seeded source.
	Rand *rand.Rand
}

func (KMeans) Kind() Kind { return KindKMeans }

func (km KMeans) validate() error {
	if km.K <= 0 {
		return raster.Validationf("cluster.KMeans", "k must be positive, got %d", km.K)
	}
	if km.MaxIterations < 0 {
		return raster.Validationf("cluster.KMeans", "max iterations must not be negative, got %d", km.MaxIterations)
	}
	return nil
}

// Segmentation is the full outcome of a K-means run.
type Segmentation struct {
	Image     *raster.Buffer
	Centroids []Centroid
	// Labels holds the cluster index of every pixel, row-major.
	Labels     []int
	Iterations int
	Converged  bool
}

// Apply recolors every pixel with its cluster's centroid.
func (km KMeans) Apply(src *raster.Buffer, r progress.Reporter) (*raster.Buffer, error) {
	seg, err := km.Segment(src, r)
	if err != nil {
		return nil, err
	}
	return seg.Image, nil
}

// Segment runs K-means and reports three steps: initialization, convergence
// and recoloring.
func (km KMeans) Segment(src *raster.Buffer, r progress.Reporter) (*Segmentation, error) {
	if err := km.validate(); err != nil {
		return nil, err
	}
	if err := raster.RequireSource("cluster.KMeans", src); err != nil {
		return nil, err
	}
	r = progress.OrNop(r)
	rng := km.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	w, h := src.Width(), src.Height()
	pix := src.Pix()
	r.Start(3)

	centroids := make([]Centroid, km.K)
	for i := range centroids {
		x, y := rng.IntN(w), rng.IntN(h)
		p := pix[y*w+x]
		centroids[i] = Centroid{R: int(pixel.R(p)), G: int(pixel.G(p)), B: int(pixel.B(p))}
	}
	r.Advance()

	labels := make([]int, len(pix))
	seg := &Segmentation{}
	for {
		assign(pix, centroids, labels)
		next := update(pix, labels, km.K)
		seg.Iterations++
		converged := equal(centroids, next)
		centroids = next
		if converged {
			seg.Converged = true
			break
		}
		if km.MaxIterations > 0 && seg.Iterations >= km.MaxIterations {
			break
		}
	}
	r.Advance()

	out := raster.MustNew(w, h, raster.FormatRGB)
	dst := out.Pix()
	for i, l := range labels {
		dst[i] = centroids[l].Pixel()
	}
	r.Advance()

	seg.Image = out
	seg.Centroids = centroids
	seg.Labels = labels
	return seg, nil
}

// assign labels every pixel with its nearest centroid; the lowest index wins
// ties.
func assign(pix []uint32, centroids []Centroid, labels []int) {
	for i, p := range pix {
		best, bestDist := 0, -1
		for c, centroid := range centroids {
			d := centroid.distance2(p)
			if bestDist < 0 || d < bestDist {
				best, bestDist = c, d
			}
		}
		labels[i] = best
	}
}

// update returns the integer channel means; an empty cluster gets a zero
// centroid.
func update(pix []uint32, labels []int, k int) []Centroid {
	sums := make([]Centroid, k)
	counts := make([]int, k)
	for i, p := range pix {
		l := labels[i]
		sums[l].R += int(pixel.R(p))
		sums[l].G += int(pixel.G(p))
		sums[l].B += int(pixel.B(p))
		counts[l]++
	}
	next := make([]Centroid, k)
	for i, n := range counts {
		if n > 0 {
			next[i] = Centroid{R: sums[i].R / n, G: sums[i].G / n, B: sums[i].B / n}
		}
	}
	return next
}

func equal(a, b []Centroid) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
