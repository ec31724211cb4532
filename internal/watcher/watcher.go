// Package watcher observes a token directory and reports which token
// files changed, coalescing bursts so the ingester reindexes each
// buffer once per editing pause instead of once per write syscall.
package watcher

import (
	"context"
	"time"
)

// Op is the kind of change seen on a token file.
type Op int

const (
	OpCreate Op = iota
	OpModify
	OpDelete
)

func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpModify:
		return "MODIFY"
	case OpDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// Event is a change to a single token file.
type Event struct {
	// Name is the file name within the token directory.
	Name string
	Op   Op
}

// Watcher reports batches of coalesced token file events.
type Watcher interface {
	// Start watches dir until ctx is cancelled or Stop is called.
	Start(ctx context.Context, dir string) error

	// Stop releases resources. Safe to call multiple times.
	Stop() error

	// Events returns batches of debounced events. Closed on stop.
	Events() <-chan []Event

	// Errors returns non-fatal watcher errors. Closed on stop.
	Errors() <-chan error
}

// Options configures a token directory watcher.
type Options struct {
	// DebounceWindow is how long to wait for a burst to settle before
	// emitting a batch. Default: 500ms.
	DebounceWindow time.Duration

	// ErrorBufferSize is the error channel buffer. Default: 16.
	ErrorBufferSize int
}

func (o Options) withDefaults() Options {
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = 500 * time.Millisecond
	}
	if o.ErrorBufferSize <= 0 {
		o.ErrorBufferSize = 16
	}
	return o
}
