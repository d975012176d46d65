package cmd

import (
	"fmt"
	"io"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/rasterlab/internal/cluster"
	"github.com/MeKo-Tech/rasterlab/internal/progress"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

func (a *app) newClusterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster <image>",
		Short: "Segment an image with K-means or Otsu thresholding",
		Long: `Segment an image.

kmeans recolors every pixel with the centroid of its color cluster and prints
the centroids. otsu binarizes the image at the automatically chosen threshold
and prints it.

Examples:
  rasterlab cluster photo.png --k 4 --seed 7
  rasterlab cluster scan.png --algorithm otsu`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("algorithm")
			kind, err := cluster.ParseKind(name)
			if err != nil {
				return err
			}
			if _, err := cluster.New(kind, a.cfg.KMeansParams()); err != nil {
				return err
			}

			switch kind {
			case cluster.KindOtsu:
				threshold := 0
				err = a.process(cmd, args[0], "otsu", "otsu",
					func(src *raster.Buffer, r progress.Reporter) (*raster.Buffer, error) {
						out, t, err := cluster.Otsu{}.Binarize(src, r)
						threshold = t
						return out, err
					})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Threshold: %d\n", threshold)
				return err
			default:
				km := a.cfg.KMeansParams()
				var seg *cluster.Segmentation
				err = a.process(cmd, args[0], "kmeans", fmt.Sprintf("kmeans%d", km.K),
					func(src *raster.Buffer, r progress.Reporter) (*raster.Buffer, error) {
						s, err := km.Segment(src, r)
						if err != nil {
							return nil, err
						}
						seg = s
						return s.Image, nil
					})
				if err != nil {
					return err
				}
				return printSegmentation(cmd.OutOrStdout(), seg)
			}
		},
	}

	f := cmd.Flags()
	f.String("algorithm", "kmeans", "segmentation algorithm (kmeans, otsu)")
	f.Int("k", 3, "number of K-means clusters")
	f.Int("max-iterations", 0, "cap on K-means iterations (0 = until convergence)")
	f.Uint64("seed", 0, "K-means random seed (0 = random)")
	addOutputFlag(cmd)

	a.bind("kmeans.k", f.Lookup("k"))
	a.bind("kmeans.max_iterations", f.Lookup("max-iterations"))
	a.bind("kmeans.seed", f.Lookup("seed"))
	return cmd
}

// printSegmentation lists every centroid as hex and HSL with its pixel share.
func printSegmentation(w io.Writer, seg *cluster.Segmentation) error {
	counts := make([]int, len(seg.Centroids))
	for _, l := range seg.Labels {
		counts[l]++
	}

	state := "converged"
	if !seg.Converged {
		state = "stopped"
	}
	if _, err := fmt.Fprintf(w, "K-Means %s after %d iteration(s)\n", state, seg.Iterations); err != nil {
		return err
	}
	for i, c := range seg.Centroids {
		col := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
		h, s, l := col.Hsl()
		share := 100 * float64(counts[i]) / float64(len(seg.Labels))
		if _, err := fmt.Fprintf(w, "  %d: %s  hsl(%.0f, %.0f%%, %.0f%%)  %5.1f%%\n",
			i, col.Hex(), h, s*100, l*100, share); err != nil {
			return err
		}
	}
	return nil
}
