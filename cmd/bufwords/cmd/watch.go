package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/bufwords/internal/ingest"
	"github.com/Aman-CERP/bufwords/internal/store"
	"github.com/Aman-CERP/bufwords/internal/ui"
	"github.com/Aman-CERP/bufwords/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a token directory and keep the index current",
		Long: `Watch a token directory and ingest token files as they change.

On startup every existing token file is ingested, then file events keep
the index current: a new or rewritten file reindexes its buffer, a
deleted file closes it. Runs until interrupted.

Examples:
  bufwords watch --dir ~/.cache/nvim/bufwords-tokens`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), cmd, dir)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Token directory to watch (default: from config)")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, dir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if dir == "" {
		dir = cfg.Ingest.TokenDir
	}
	if dir == "" {
		return fmt.Errorf("no token directory: set --dir or ingest.token_dir in config")
	}

	out := ui.NewRenderer(cmd.OutOrStdout())

	lock := store.NewIngestLock(cfg.Database.Path)
	acquired, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("ingest lock held by another process")
	}
	defer func() { _ = lock.Unlock() }()

	idx, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	runner := ingest.NewRunner(idx, cfg.Ingest.Workers, nil)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Catch up on whatever is already there before watching.
	sum, err := runner.IngestDir(ctx, dir)
	if err != nil {
		return err
	}
	out.Successf("initial ingest: %d file(s), %d token(s)", sum.Files, sum.Tokens)

	w, err := watcher.New(watcher.Options{
		DebounceWindow: cfg.Ingest.WatchDebounceDuration(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- w.Start(ctx, dir)
	}()

	out.Successf("watching %s", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-watchErr:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			slog.Warn("watch_error", slog.String("error", err.Error()))
		case batch, ok := <-w.Events():
			if !ok {
				return nil
			}
			handleBatch(ctx, runner, idx, dir, batch)
		}
	}
}

// handleBatch applies a debounced batch of token file events.
func handleBatch(ctx context.Context, runner *ingest.Runner, idx store.Index, dir string, batch []watcher.Event) {
	for _, ev := range batch {
		switch ev.Op {
		case watcher.OpCreate, watcher.OpModify:
			if _, err := runner.IngestFile(ctx, filepath.Join(dir, ev.Name)); err != nil {
				slog.Warn("token_file_failed",
					slog.String("file", ev.Name),
					slog.String("error", err.Error()))
			}
		case watcher.OpDelete:
			bufferID, _, err := ingest.ParseFileName(ev.Name)
			if err != nil {
				continue
			}
			if err := idx.CloseBuffer(ctx, bufferID); err != nil {
				slog.Warn("buffer_close_failed",
					slog.Int64("buffer_id", bufferID),
					slog.String("error", err.Error()))
			}
		}
	}
}
