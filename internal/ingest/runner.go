package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/bufwords/internal/store"
)

// Runner ingests token files into the index. Files are parsed in
// parallel; writes serialize on the store's single connection.
type Runner struct {
	index   store.Index
	workers int
	log     *slog.Logger
}

// Summary reports the outcome of a directory ingestion run.
type Summary struct {
	Files  int // files ingested successfully
	Tokens int // tokens written across all files
	Failed int // files skipped due to errors
}

// NewRunner creates a Runner. workers <= 0 defaults to NumCPU.
func NewRunner(index store.Index, workers int, log *slog.Logger) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{index: index, workers: workers, log: log}
}

// IngestFile loads a single token file. The buffer is opened (or its
// filetype refreshed) before the words are written, so a token file is
// self-contained: no prior open_buffer call is required.
func (r *Runner) IngestFile(ctx context.Context, path string) (int, error) {
	bufferID, filetype, err := ParseFileName(filepath.Base(path))
	if err != nil {
		return 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	tokens, err := ReadTokens(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	if err := r.index.OpenBuffer(ctx, bufferID, filetype); err != nil {
		return 0, err
	}
	if err := r.index.IndexWords(ctx, bufferID, tokens); err != nil {
		return 0, err
	}

	r.log.Debug("token_file_ingested",
		slog.String("file", filepath.Base(path)),
		slog.Int64("buffer_id", bufferID),
		slog.String("filetype", filetype),
		slog.Int("tokens", len(tokens)))
	return len(tokens), nil
}

// IngestReader ingests a token stream for one explicitly identified
// buffer. This is the stdin path: there is no file name to derive the
// buffer identity from, so the caller supplies it.
func (r *Runner) IngestReader(ctx context.Context, in io.Reader, bufferID int64, filetype string) (int, error) {
	tokens, err := ReadTokens(in)
	if err != nil {
		return 0, err
	}

	if err := r.index.OpenBuffer(ctx, bufferID, filetype); err != nil {
		return 0, err
	}
	if err := r.index.IndexWords(ctx, bufferID, tokens); err != nil {
		return 0, err
	}

	r.log.Debug("token_stream_ingested",
		slog.Int64("buffer_id", bufferID),
		slog.String("filetype", filetype),
		slog.Int("tokens", len(tokens)))
	return len(tokens), nil
}

// IngestDir ingests every token file in dir. Individual file failures
// are logged and counted but do not abort the run; only a cancelled
// context stops it early.
func (r *Runner) IngestDir(ctx context.Context, dir string) (Summary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Summary{}, fmt.Errorf("read token directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsTokenFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, r.workers)

	var mu sync.Mutex
	var sum Summary

	for _, path := range paths {
		path := path
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}

			n, err := r.IngestFile(gctx, path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				sum.Failed++
				r.log.Warn("token_file_failed",
					slog.String("file", filepath.Base(path)),
					slog.String("error", err.Error()))
				return nil
			}
			sum.Files++
			sum.Tokens += n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return sum, err
	}

	r.log.Info("ingest_complete",
		slog.String("dir", dir),
		slog.Int("files", sum.Files),
		slog.Int("tokens", sum.Tokens),
		slog.Int("failed", sum.Failed))
	return sum, nil
}

// IsTokenFile reports whether name follows the token file convention.
func IsTokenFile(name string) bool {
	_, _, err := ParseFileName(name)
	return err == nil
}
