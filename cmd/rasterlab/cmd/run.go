package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/MeKo-Tech/rasterlab/internal/imageio"
	"github.com/MeKo-Tech/rasterlab/internal/progress"
	"github.com/MeKo-Tech/rasterlab/internal/raster"
)

// logSteps bounds how many progress lines the log reporter emits per run.
const logSteps = 10

func (a *app) bind(key string, f *pflag.Flag) {
	if err := a.v.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}

// load reads the single input image as ARGB.
func (a *app) load(path string) (*raster.Buffer, error) {
	buf, meta, err := imageio.LoadBuffer(path, raster.FormatARGB)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("image loaded", "path", meta.Path, "format", meta.Format,
		"width", meta.Width, "height", meta.Height, "bytes", meta.SizeBytes)
	return buf, nil
}

// outputPath returns the --output flag or input_<suffix>.<ext> next to the
// input file.
func outputPath(cmd *cobra.Command, input, suffix string) string {
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		return out
	}
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_" + suffix + ext
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "output image path (default: <input>_<suffix>.<ext>)")
}

// reporter builds the configured progress display for one algorithm.
func (a *app) reporter(cmd *cobra.Command, name string) progress.Reporter {
	switch a.cfg.Output.Progress {
	case "bar":
		return progress.NewConsole(cmd.ErrOrStderr(), name+" ").WithETA(true)
	case "log":
		return progress.NewThrottled(progress.NewLog(a.logger, slog.LevelInfo, name), logSteps)
	default:
		return progress.Nop
	}
}

// run times fn, feeds its progress to the configured reporter and the
// metrics recorder, and logs the outcome.
func (a *app) run(cmd *cobra.Command, name string, src *raster.Buffer,
	fn func(r progress.Reporter) (*raster.Buffer, error),
) (*raster.Buffer, error) {
	rec := a.metrics.StartRun(name, src.Len())
	out, err := fn(rec.Reporter(a.reporter(cmd, name)))
	elapsed := rec.Stop(err)

	if err != nil {
		a.logger.Error("algorithm failed", "algorithm", name, "error", err)
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	a.logger.Info("algorithm finished", "algorithm", name,
		"width", src.Width(), "height", src.Height(), "elapsed", elapsed.Round(time.Microsecond))
	return out, nil
}

// save writes out and reports the path on stdout.
func (a *app) save(cmd *cobra.Command, path string, out *raster.Buffer) error {
	if err := imageio.Save(path, out); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d %s)\n",
		path, out.Width(), out.Height(), out.Format()); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}

// finish dumps the metrics when requested.
func (a *app) finish(cmd *cobra.Command) error {
	if !a.cfg.Output.Metrics {
		return nil
	}
	return a.metrics.WriteText(cmd.ErrOrStderr())
}

// process is the common load, run, save sequence of the image commands.
func (a *app) process(cmd *cobra.Command, input, name, suffix string,
	fn func(src *raster.Buffer, r progress.Reporter) (*raster.Buffer, error),
) error {
	src, err := a.load(input)
	if err != nil {
		return err
	}
	out, err := a.run(cmd, name, src, func(r progress.Reporter) (*raster.Buffer, error) {
		return fn(src, r)
	})
	if err != nil {
		return err
	}
	if err := a.save(cmd, outputPath(cmd, input, suffix), out); err != nil {
		return err
	}
	return a.finish(cmd)
}
