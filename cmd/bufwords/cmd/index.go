package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/bufwords/internal/errors"
	"github.com/Aman-CERP/bufwords/internal/ingest"
	"github.com/Aman-CERP/bufwords/internal/store"
	"github.com/Aman-CERP/bufwords/internal/ui"
)

// indexOptions holds CLI flags for index.
type indexOptions struct {
	dir      string
	workers  int
	bufferID int64
	filetype string
}

func newIndexCmd() *cobra.Command {
	var opts indexOptions

	cmd := &cobra.Command{
		Use:   "index [file...]",
		Short: "Ingest token files into the word index",
		Long: `Ingest token files (JSONL, one {"word":...,"kind":...} per line).

File names carry the buffer identity: <bufferID>.<filetype>.tokens.jsonl.
With --dir, every token file in the directory is ingested; otherwise the
named files are. Pass "-" to read one buffer's tokens from stdin, in
which case --buffer and --filetype supply the identity the file name
would normally carry.

Examples:
  bufwords index 12.python.tokens.jsonl
  bufwords index --dir ~/.cache/nvim/bufwords-tokens
  tokenizer | bufwords index --buffer 12 --filetype python -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dir == "" && len(args) == 0 {
				return fmt.Errorf("provide token files or --dir")
			}
			return runIndex(cmd.Context(), cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "Ingest every token file in this directory")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Parallel file workers (default: from config)")
	cmd.Flags().Int64Var(&opts.bufferID, "buffer", 0, "Buffer ID for stdin ingestion")
	cmd.Flags().StringVar(&opts.filetype, "filetype", "", "Filetype for stdin ingestion")

	return cmd
}

func runIndex(ctx context.Context, cmd *cobra.Command, files []string, opts indexOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := ui.NewRenderer(cmd.OutOrStdout())

	// One bulk ingester at a time per index.
	lock := store.NewIngestLock(cfg.Database.Path)
	acquired, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !acquired {
		out.Errorf("another bufwords ingest is running against this index")
		return fmt.Errorf("ingest lock held by another process")
	}
	defer func() { _ = lock.Unlock() }()

	idx, err := openIndex(cfg)
	if err != nil {
		return fmt.Errorf("%s", errors.FormatForCLI(err))
	}
	defer func() { _ = idx.Close() }()

	workers := cfg.Ingest.Workers
	if opts.workers > 0 {
		workers = opts.workers
	}
	runner := ingest.NewRunner(idx, workers, nil)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.dir != "" {
		sum, err := runner.IngestDir(ctx, opts.dir)
		if err != nil {
			return err
		}
		out.Successf("ingested %d file(s), %d token(s)", sum.Files, sum.Tokens)
		if sum.Failed > 0 {
			out.Errorf("%d file(s) failed; see logs", sum.Failed)
		}
		return nil
	}

	total := 0
	for _, file := range files {
		var n int
		if file == "-" {
			if opts.bufferID <= 0 || opts.filetype == "" {
				return fmt.Errorf("reading from stdin requires --buffer and --filetype")
			}
			n, err = runner.IngestReader(ctx, cmd.InOrStdin(), opts.bufferID, opts.filetype)
		} else {
			n, err = runner.IngestFile(ctx, file)
		}
		if err != nil {
			out.Errorf("%s", errors.FormatForCLI(err))
			return err
		}
		total += n
	}
	out.Successf("ingested %d file(s), %d token(s)", len(files), total)
	return nil
}
