package app

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/prefsnap/internal/pipeline"
	"github.com/stacklok/prefsnap/internal/prefs"
)

func newStatsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print export statistics without saving",
		Long: `Run the export pipeline with the same sources, configuration and filters as
export, and print the collected statistics as a table. Nothing is written.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, st, err := prepare(v)
			if err != nil {
				return err
			}

			result, err := pipeline.Run(cmd.Context(), st, cfg)
			if err != nil {
				return err
			}
			return renderStats(cmd.OutOrStdout(), result.Stats)
		},
	}
}

// renderStats prints every counter of stats in order, N/A for disabled ones
func renderStats(w io.Writer, stats *prefs.Snapshot) error {
	table := tablewriter.NewWriter(w)
	table.Header("Stat", "Value")
	for _, s := range stats.Entries() {
		if err := table.Append([]string{s.Name, s.Value}); err != nil {
			return fmt.Errorf("failed to add stats row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render stats: %w", err)
	}
	return nil
}
