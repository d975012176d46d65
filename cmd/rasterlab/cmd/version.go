package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/rasterlab/internal/version"
)

func (a *app) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, commit, date := version.Info()
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "rasterlab version %s\nCommit: %s\nDate: %s\n", v, commit, date)
			return err
		},
	}
}
