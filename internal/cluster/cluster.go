// Package cluster segments images by color (K-means) or by a global
// intensity threshold (Otsu).
package cluster

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/rasterlab/internal/progress"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// Algorithm is a segmentation strategy.
type Algorithm interface {
	Apply(src *raster.Buffer, r progress.Reporter) (*raster.Buffer, error)
	Kind() Kind
}

// Kind enumerates the algorithms.
type Kind int

const (
	KindKMeans Kind = iota
	KindOtsu
)

// Kinds lists every algorithm in display order.
var Kinds = []Kind{KindKMeans, KindOtsu}

func (k Kind) String() string {
	switch k {
	case KindKMeans:
		return "K-Means"
	case KindOtsu:
		return "Otsu"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts "kmeans", "k-means" or "otsu" in any case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kmeans", "k-means":
		return KindKMeans, nil
	case "otsu":
		return KindOtsu, nil
	}
	return 0, fmt.Errorf("unknown clustering algorithm %q", s)
}

// New returns the algorithm for kind. km configures K-means and is ignored
// for Otsu.
func New(kind Kind, km KMeans) (Algorithm, error) {
	switch kind {
	case KindKMeans:
		if err := km.validate(); err != nil {
			return nil, err
		}
		return km, nil
	case KindOtsu:
		return Otsu{}, nil
	default:
		return nil, raster.Validationf("cluster.New", "unknown algorithm kind %d", int(kind))
	}
}
