package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/bufwords/internal/ui"
)

func newCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <buffer-id>...",
		Short: "Close buffers and drop their words",
		Long: `Close one or more buffers, removing all of their indexed words.

Closing a buffer that is not open is a no-op.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil || id <= 0 {
					return fmt.Errorf("invalid buffer id %q", arg)
				}
				if err := idx.CloseBuffer(ctx, id); err != nil {
					return err
				}
			}
			out.Successf("closed %d buffer(s)", len(args))
			return nil
		},
	}
}
