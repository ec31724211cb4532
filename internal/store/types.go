// Package store persists per-buffer word context in SQLite.
// This is the persistence layer behind completion lookups: each tracked
// editor buffer owns a set of words, and every word carries the word and
// kind that preceded it (pword/pkind) and the one before that
// (gpword/gpkind), so completion frontends can rank candidates by
// n-gram context.
package store

import (
	"context"
)

// Token is a single lexical token produced by an external tokenizer.
type Token struct {
	// Word is the token text with its original casing.
	Word string `json:"word"`
	// Kind is the lexical category, e.g. "kw" or "id".
	Kind string `json:"kind"`
}

// Buffer is a tracked editor buffer.
type Buffer struct {
	// ID is the caller-assigned buffer handle.
	ID int64 `json:"id"`
	// Filetype is the buffer's filetype, e.g. "python".
	Filetype string `json:"filetype"`
	// WordCount is the number of distinct words indexed for the buffer.
	WordCount int `json:"word_count"`
}

// WordRow is one row of the flattened buffer+word projection.
// Context fields are empty strings at the head of a token sequence,
// where no predecessor exists.
type WordRow struct {
	BufferID int64  `json:"buffer_id"`
	Filetype string `json:"filetype"`
	Word     string `json:"word"`
	LWord    string `json:"lword"`
	Kind     string `json:"kind"`
	PWord    string `json:"pword,omitempty"`
	PKind    string `json:"pkind,omitempty"`
	GPWord   string `json:"gpword,omitempty"`
	GPKind   string `json:"gpkind,omitempty"`
}

// Stats summarizes index contents.
type Stats struct {
	BufferCount int   `json:"buffer_count"`
	WordCount   int   `json:"word_count"`
	SizeBytes   int64 `json:"size_bytes"`
}

// Index is the word-context index consumed by the CLI, the ingest
// pipeline, and the MCP server.
type Index interface {
	// OpenBuffer registers a buffer, replacing its filetype if it is
	// already open. Idempotent for the same id.
	OpenBuffer(ctx context.Context, id int64, filetype string) error

	// CloseBuffer removes a buffer and all of its words atomically.
	// Closing an unknown buffer is a no-op.
	CloseBuffer(ctx context.Context, id int64) error

	// IndexWords upserts the token sequence for a buffer. For each token
	// the previous and grandparent token become its context; repeated
	// words keep only the newest occurrence's context.
	IndexWords(ctx context.Context, bufferID int64, tokens []Token) error

	// LookupPrefix returns rows whose lowercased word starts with the
	// case-folded prefix. Row order is not guaranteed.
	LookupPrefix(ctx context.Context, prefix string, limit int) ([]WordRow, error)

	// LookupExact returns rows matching word exactly (case-sensitive)
	// across all buffers.
	LookupExact(ctx context.Context, word string, limit int) ([]WordRow, error)

	// ListBuffers returns all open buffers with word counts.
	ListBuffers(ctx context.Context) ([]Buffer, error)

	// Stats returns index-wide statistics.
	Stats(ctx context.Context) (Stats, error)

	// Close releases the underlying database.
	Close() error
}
