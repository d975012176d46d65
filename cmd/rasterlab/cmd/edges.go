package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/rasterlab/internal/canny"
	"github.com/MeKo-Tech/rasterlab/internal/edge"
	"github.com/MeKo-Tech/rasterlab/internal/progress"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

func (a *app) newEdgesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edges <image>",
		Short: "Compute the gradient magnitude with Sobel, Prewitt or Roberts-Cross",
		Long: `Compute the gradient magnitude of an image.

The magnitude image is written to --output. With --direction the gradient
direction is also rendered as a color wheel image (hue = direction,
brightness = magnitude).

Examples:
  rasterlab edges photo.png
  rasterlab edges photo.png --operator roberts --direction dir.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("operator")
			kind, err := edge.ParseKind(name)
			if err != nil {
				return err
			}
			op, err := edge.New(kind)
			if err != nil {
				return err
			}
			dirPath, _ := cmd.Flags().GetString("direction")

			src, err := a.load(args[0])
			if err != nil {
				return err
			}
			label := strings.ToLower(kind.String())

			var field *edge.GradientField
			mag, err := a.run(cmd, "edges_"+label, src, func(r progress.Reporter) (*raster.Buffer, error) {
				m, f, err := op.Apply(src, r)
				field = f
				return m, err
			})
			if err != nil {
				return err
			}
			if err := a.save(cmd, outputPath(cmd, args[0], label), mag); err != nil {
				return err
			}

			if dirPath != "" {
				vis, err := field.Visualize(mag)
				if err != nil {
					return err
				}
				if err := a.save(cmd, dirPath, vis); err != nil {
					return err
				}
			}
			return a.finish(cmd)
		},
	}

	cmd.Flags().String("operator", "sobel", "gradient operator (sobel, prewitt, roberts)")
	cmd.Flags().String("direction", "", "also write the direction field as a color image to this path")
	addOutputFlag(cmd)
	return cmd
}

func (a *app) newCannyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canny <image>",
		Short: "Detect edges with the Canny pipeline",
		Long: `Detect edges with the six-stage Canny pipeline: grayscale, blur, gradient,
non-maximum suppression, double threshold and hysteresis.

Examples:
  rasterlab canny photo.png
  rasterlab canny photo.png --low 30 --high 90 --blur median --operator prewitt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := a.cfg.CannyParams()
			if err != nil {
				return err
			}
			return a.process(cmd, args[0], "canny", "canny",
				func(src *raster.Buffer, r progress.Reporter) (*raster.Buffer, error) {
					return canny.Detect(src, params, r)
				})
		},
	}

	f := cmd.Flags()
	f.Int("low", 50, "low threshold, in [0, 255)")
	f.Int("high", 80, "high threshold")
	f.String("blur", "gaussian", "smoothing filter (box, gaussian, median, none)")
	f.IntP("kernel-size", "k", 5, "smoothing window size")
	f.Float64("sigma", 1.0, "Gaussian standard deviation")
	f.String("operator", "sobel", "gradient operator (sobel, prewitt, roberts)")
	addOutputFlag(cmd)

	a.bind("canny.low", f.Lookup("low"))
	a.bind("canny.high", f.Lookup("high"))
	a.bind("canny.blur", f.Lookup("blur"))
	a.bind("canny.kernel_size", f.Lookup("kernel-size"))
	a.bind("canny.sigma", f.Lookup("sigma"))
	a.bind("canny.operator", f.Lookup("operator"))
	return cmd
}
