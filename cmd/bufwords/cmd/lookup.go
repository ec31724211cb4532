package cmd

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/bufwords/internal/errors"
	"github.com/Aman-CERP/bufwords/internal/store"
	"github.com/Aman-CERP/bufwords/internal/ui"
)

// lookupOptions holds CLI flags for lookup.
type lookupOptions struct {
	exact  bool
	limit  int
	format string // "text", "json"
}

func newLookupCmd() *cobra.Command {
	var opts lookupOptions

	cmd := &cobra.Command{
		Use:   "lookup <word-or-prefix>",
		Short: "Look up indexed words",
		Long: `Look up words across all open buffers.

Prefix matching (the default) is case-insensitive. Exact matching is
case-sensitive and matches the word as it appeared in the buffer.

Examples:
  bufwords lookup hand
  bufwords lookup HandleRequest --exact
  bufwords lookup ret --limit 5 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd.Context(), cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.exact, "exact", "e", false, "Exact, case-sensitive match")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of rows (default: from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runLookup(ctx context.Context, cmd *cobra.Command, query string, opts lookupOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	idx, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	limit := cfg.Database.LookupLimit
	if opts.limit > 0 {
		limit = opts.limit
	}

	var rows []store.WordRow
	if opts.exact {
		rows, err = idx.LookupExact(ctx, query, limit)
	} else {
		rows, err = idx.LookupPrefix(ctx, query, limit)
	}
	if err != nil {
		ui.NewRenderer(cmd.ErrOrStderr()).Errorf("%s", errors.FormatForCLI(err))
		return err
	}

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	ui.NewRenderer(cmd.OutOrStdout()).WordRows(rows)
	return nil
}
