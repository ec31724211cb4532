package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/bufwords/internal/ui"
)

func newBuffersCmd() *cobra.Command {
	var jsonOutput bool
	var showStats bool

	cmd := &cobra.Command{
		Use:   "buffers",
		Short: "List open buffers and their word counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			idx, err := openIndex(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = idx.Close() }()

			ctx := cmd.Context()
			out := ui.NewRenderer(cmd.OutOrStdout())

			if showStats {
				stats, err := idx.Stats(ctx)
				if err != nil {
					return err
				}
				if jsonOutput {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(stats)
				}
				out.Stats(stats)
				return nil
			}

			buffers, err := idx.ListBuffers(ctx)
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(buffers)
			}
			out.Buffers(buffers)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&showStats, "stats", false, "Show index-wide statistics instead of the listing")

	return cmd
}
