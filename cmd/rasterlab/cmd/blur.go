package cmd

import (
	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/rasterlab/internal/grayscale"
	"github.com/MeKo-Tech/rasterlab/internal/progress"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

func (a *app) newBlurCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blur <image>",
		Short: "Smooth an image with a box, Gaussian or median filter",
		Long: `Smooth an image with a square window.

Filters: box, gaussian, median, none

Examples:
  rasterlab blur photo.png
  rasterlab blur photo.png --kind median --kernel-size 3 --workers 4
  rasterlab blur photo.png --kind gaussian --sigma 1.5 -o soft.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := a.cfg.BlurFilter()
			if err != nil {
				return err
			}
			kind := filter.Kind()
			return a.process(cmd, args[0], "blur_"+kind.Name(), kind.Name(),
				func(src *raster.Buffer, r progress.Reporter) (*raster.Buffer, error) {
					return filter.Apply(src, a.cfg.Blur.KernelSize, r)
				})
		},
	}

	f := cmd.Flags()
	f.String("kind", "gaussian", "filter (box, gaussian, median, none)")
	f.IntP("kernel-size", "k", 5, "window size, a positive odd number")
	f.Float64("sigma", 2.5, "Gaussian standard deviation")
	f.Int("workers", 0, "median worker goroutines (0 = one per CPU)")
	addOutputFlag(cmd)

	a.bind("blur.kind", f.Lookup("kind"))
	a.bind("blur.kernel_size", f.Lookup("kernel-size"))
	a.bind("blur.sigma", f.Lookup("sigma"))
	a.bind("blur.workers", f.Lookup("workers"))
	return cmd
}

func (a *app) newGrayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gray <image>",
		Short: "Convert an image to weighted-luma grayscale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter grayscale.Filter
			return a.process(cmd, args[0], "gray", "gray",
				func(src *raster.Buffer, _ progress.Reporter) (*raster.Buffer, error) {
					return filter.Apply(src)
				})
		},
	}
	addOutputFlag(cmd)
	return cmd
}
