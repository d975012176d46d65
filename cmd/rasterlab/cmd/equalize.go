package cmd

import (
	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/rasterlab/internal/histogram"
	"github.com/MeKo-Tech/rasterlab/internal/progress"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

func (a *app) newEqualizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "equalize <image>",
		Short: "Equalize the histogram of selected channels",
		Long: `Remap the selected channels through their normalized cumulative histogram.

Examples:
  rasterlab equalize photo.png
  rasterlab equalize photo.png --green=false --blue=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch := a.cfg.Channels()
			return a.process(cmd, args[0], "equalize", "equalized",
				func(src *raster.Buffer, r progress.Reporter) (*raster.Buffer, error) {
					return histogram.Equalize(src, ch, r)
				})
		},
	}

	f := cmd.Flags()
	f.Bool("red", true, "equalize the red channel")
	f.Bool("green", true, "equalize the green channel")
	f.Bool("blue", true, "equalize the blue channel")
	f.Bool("gray", false, "also equalize the channel-average histogram (computed, never written back)")
	addOutputFlag(cmd)

	a.bind("equalize.red", f.Lookup("red"))
	a.bind("equalize.green", f.Lookup("green"))
	a.bind("equalize.blue", f.Lookup("blue"))
	a.bind("equalize.gray", f.Lookup("gray"))
	return cmd
}

func (a *app) newCLAHECommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clahe <image>",
		Short: "Contrast-limited adaptive histogram equalization",
		Long: `Equalize the weighted-luma image tile by tile with clipped histograms and
bilinear interpolation between neighboring tiles. The output is gray.

Examples:
  rasterlab clahe scan.png
  rasterlab clahe scan.png --tile-size 16 --clip-limit 2 --cdf-blur 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := a.cfg.CLAHEParams()
			return a.process(cmd, args[0], "clahe", "clahe",
				func(src *raster.Buffer, r progress.Reporter) (*raster.Buffer, error) {
					return histogram.CLAHE(src, params, r)
				})
		},
	}

	f := cmd.Flags()
	f.Int("tile-size", 8, "tile edge length in pixels")
	f.Float64("clip-limit", 4, "histogram clip limit as a multiple of the mean bin count")
	f.Int("cdf-blur", 1, "moving average window applied to each tile CDF")
	addOutputFlag(cmd)

	a.bind("clahe.tile_size", f.Lookup("tile-size"))
	a.bind("clahe.clip_limit", f.Lookup("clip-limit"))
	a.bind("clahe.cdf_blur", f.Lookup("cdf-blur"))
	return cmd
}
