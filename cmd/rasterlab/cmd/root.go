// Package cmd implements the rasterlab command line.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/rasterlab/internal/config"
	"github.com/MeKo-Tech/rasterlab/internal/metrics"
	"github.com/MeKo-Tech/rasterlab/internal/version"
)

// app carries the state shared by the commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string

	loader  *config.Loader
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCommand builds the full command tree with its own configuration
// state, so tests can execute it repeatedly.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), metrics: metrics.NewRecorder()}

	root := &cobra.Command{
		Use:   "rasterlab",
		Short: "Raster image processing algorithms",
		Long: `rasterlab applies classic image processing algorithms to a single image file.

It provides:
- Box, Gaussian and median blur
- Sobel, Prewitt and Roberts-Cross gradients
- Canny edge detection
- K-means and Otsu segmentation
- Global histogram equalization and CLAHE
- Grayscale conversion and image statistics

Examples:
  rasterlab blur photo.png --kind median --kernel-size 5
  rasterlab canny photo.png --low 40 --high 90 -o edges.png
  rasterlab stats photo.png --format json`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "",
		"config file (default is rasterlab.yaml searched in ., $HOME, $HOME/.config/rasterlab, /etc/rasterlab)")
	pf.BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("progress", "bar", "progress display (bar, log, none)")
	pf.Bool("metrics", false, "print Prometheus metrics of the run to stderr")

	a.bind("verbose", pf.Lookup("verbose"))
	a.bind("log_level", pf.Lookup("log-level"))
	a.bind("output.progress", pf.Lookup("progress"))
	a.bind("output.metrics", pf.Lookup("metrics"))

	root.AddCommand(
		a.newBlurCommand(),
		a.newGrayCommand(),
		a.newEdgesCommand(),
		a.newCannyCommand(),
		a.newClusterCommand(),
		a.newEqualizeCommand(),
		a.newCLAHECommand(),
		a.newStatsCommand(),
		a.newConfigCommand(),
		a.newVersionCommand(),
	)
	return root
}

// init loads the configuration and installs the logger.
func (a *app) init(cmd *cobra.Command) error {
	a.loader = config.NewLoaderWithViper(a.v)
	cfg, err := a.loader.LoadWithFile(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	a.cfg = cfg

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	} else {
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	a.logger = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
	a.logger.Debug("configuration loaded", "file", a.loader.ConfigFileUsed())
	return nil
}
