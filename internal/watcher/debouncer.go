package watcher

import (
	"log/slog"
	"sync"
	"time"
)

// debouncer coalesces rapid events per file name before emitting them
// as a batch. Merge rules for a file seen twice inside the window:
//
//	CREATE + MODIFY = CREATE   (file is still new)
//	CREATE + DELETE = nothing  (file never really existed)
//	MODIFY + DELETE = DELETE
//	DELETE + CREATE = MODIFY   (file was replaced)
type debouncer struct {
	window time.Duration

	mu      sync.Mutex
	pending map[string]Op
	timer   *time.Timer
	output  chan []Event
	stopped bool
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		window:  window,
		pending: make(map[string]Op),
		output:  make(chan []Event, 8),
	}
}

func (d *debouncer) add(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	prev, seen := d.pending[ev.Name]
	if !seen {
		d.pending[ev.Name] = ev.Op
	} else {
		op, keep := coalesce(prev, ev.Op)
		if keep {
			d.pending[ev.Name] = op
		} else {
			delete(d.pending, ev.Name)
		}
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

// coalesce merges two operations on the same file. keep=false means the
// operations cancelled out.
func coalesce(first, second Op) (op Op, keep bool) {
	switch {
	case first == OpCreate && second == OpModify:
		return OpCreate, true
	case first == OpCreate && second == OpDelete:
		return 0, false
	case first == OpDelete && second == OpCreate:
		return OpModify, true
	default:
		return second, true
	}
}

func (d *debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || len(d.pending) == 0 {
		return
	}

	batch := make([]Event, 0, len(d.pending))
	for name, op := range d.pending {
		batch = append(batch, Event{Name: name, Op: op})
	}
	d.pending = make(map[string]Op)

	select {
	case d.output <- batch:
	default:
		slog.Warn("watch_batch_dropped", slog.Int("batch_size", len(batch)))
	}
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.output)
}
