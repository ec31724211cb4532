package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/Aman-CERP/bufwords/internal/ingest"
)

// TokenDirWatcher watches a flat token directory with fsnotify. Only
// files following the token naming convention are reported; editors and
// tokenizers drop scratch files in the same directory.
type TokenDirWatcher struct {
	opts      Options
	fsw       *fsnotify.Watcher
	debouncer *debouncer
	errors    chan error

	stopOnce sync.Once
	stopCh   chan struct{}

	mu      sync.Mutex
	stopped bool
}

var _ Watcher = (*TokenDirWatcher)(nil)

// New creates a token directory watcher.
func New(opts Options) (*TokenDirWatcher, error) {
	opts = opts.withDefaults()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &TokenDirWatcher{
		opts:      opts,
		fsw:       fsw,
		debouncer: newDebouncer(opts.DebounceWindow),
		errors:    make(chan error, opts.ErrorBufferSize),
		stopCh:    make(chan struct{}),
	}, nil
}

// Start watches dir until the context is cancelled or Stop is called.
// It blocks; run it in a goroutine and consume Events.
func (w *TokenDirWatcher) Start(ctx context.Context, dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch token directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.emitError(err)
		}
	}
}

func (w *TokenDirWatcher) handle(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if !ingest.IsTokenFile(name) {
		return
	}

	var op Op
	switch {
	case event.Op&fsnotify.Create != 0:
		op = OpCreate
	case event.Op&fsnotify.Write != 0:
		op = OpModify
	case event.Op&fsnotify.Remove != 0:
		op = OpDelete
	case event.Op&fsnotify.Rename != 0:
		// A renamed-away file is gone from the token directory.
		op = OpDelete
	default:
		return
	}

	w.debouncer.add(Event{Name: name, Op: op})
}

// emitError forwards a non-fatal error if there is room. The mutex
// orders the send against Stop closing the channel: Start may still be
// draining a pending fsnotify error when the consumer calls Stop.
func (w *TokenDirWatcher) emitError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	select {
	case w.errors <- err:
	default:
	}
}

// Events returns batches of debounced token file events.
func (w *TokenDirWatcher) Events() <-chan []Event {
	return w.debouncer.output
}

// Errors returns non-fatal watcher errors.
func (w *TokenDirWatcher) Errors() <-chan error {
	return w.errors
}

// Stop stops watching. Safe to call multiple times.
func (w *TokenDirWatcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		err = w.fsw.Close()
		w.debouncer.stop()

		w.mu.Lock()
		w.stopped = true
		close(w.errors)
		w.mu.Unlock()
	})
	return err
}
