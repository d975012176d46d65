package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/rasterlab/internal/stats"
)

const (
	outputFormatText = "text"
	outputFormatJSON = "json"
	outputFormatYAML = "yaml"
)

func (a *app) newStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <image>",
		Short: "Print intensity statistics of an image",
		Long: `Print mean, variance, standard deviation, entropy, energy and contrast of the
channel-average intensity of every pixel.

Examples:
  rasterlab stats photo.png
  rasterlab stats photo.png --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			switch format {
			case outputFormatText, outputFormatJSON, outputFormatYAML:
			default:
				return fmt.Errorf("invalid output format: %s (must be one of: text, json, yaml)", format)
			}

			src, err := a.load(args[0])
			if err != nil {
				return err
			}
			run := a.metrics.StartRun("stats", src.Len())
			s, err := stats.Calculate(src)
			run.Stop(err)
			if err != nil {
				return err
			}
			if err := writeStats(cmd.OutOrStdout(), format, s); err != nil {
				return err
			}
			return a.finish(cmd)
		},
	}
	cmd.Flags().StringP("format", "f", outputFormatText, "output format (text, json, yaml)")
	return cmd
}

func writeStats(w io.Writer, format string, s stats.Statistics) error {
	switch format {
	case outputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case outputFormatYAML:
		return yaml.NewEncoder(w).Encode(s)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := []struct {
		name  string
		value any
	}{
		{"Size", fmt.Sprintf("%dx%d", s.Width, s.Height)},
		{"Mean", fmt.Sprintf("%.4f", s.Mean)},
		{"Variance", fmt.Sprintf("%.4f", s.Variance)},
		{"Std. deviation", fmt.Sprintf("%.4f", s.StdDev)},
		{"Entropy", fmt.Sprintf("%.4f bits", s.Entropy)},
		{"Energy", fmt.Sprintf("%.6f", s.Energy)},
		{"Contrast", fmt.Sprintf("%d (%d..%d)", s.Contrast, s.Min, s.Max)},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s:\t%v\n", r.name, r.value); err != nil {
			return err
		}
	}
	return tw.Flush()
}

