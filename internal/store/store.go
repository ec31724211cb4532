package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver (no CGO)

	bwerrors "github.com/Aman-CERP/bufwords/internal/errors"
)

// Options configures a Store.
type Options struct {
	// Path is the database file. ":memory:" opens a throwaway index.
	Path string

	// CacheSizeMB is the SQLite page cache size in MB (default 64).
	CacheSizeMB int

	// BusyTimeout is how long a connection waits on a locked database
	// (default 5s).
	BusyTimeout time.Duration

	// PrefixCacheSize is the LRU capacity for prefix lookups.
	// Zero disables the cache.
	PrefixCacheSize int
}

func (o Options) withDefaults() Options {
	if o.CacheSizeMB <= 0 {
		o.CacheSizeMB = 64
	}
	if o.BusyTimeout <= 0 {
		o.BusyTimeout = 5 * time.Second
	}
	return o
}

// Store is the SQLite-backed word index.
type Store struct {
	db    *sql.DB
	path  string
	cache *prefixCache
}

// Compile-time interface check.
var _ Index = (*Store)(nil)

// validateIntegrity checks an existing database before opening it.
// Returns nil if the file is missing (it will be created) or healthy.
func validateIntegrity(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("cannot open for validation: %w", err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("database corrupted: %s", result)
	}
	return nil
}

// Open opens (or creates) the word index at opts.Path.
//
// A corrupted database is removed and recreated: the index holds only
// ephemeral editor state and every open buffer will be re-indexed by its
// tokenizer on the next attach.
func Open(opts Options) (*Store, error) {
	opts = opts.withDefaults()

	memory := opts.Path == ":memory:"
	if !memory {
		dir := filepath.Dir(opts.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, bwerrors.Wrap(bwerrors.ErrCodeFilePermission,
				fmt.Errorf("create database directory %s: %w", dir, err))
		}

		if validErr := validateIntegrity(opts.Path); validErr != nil {
			slog.Warn("word_index_corrupted",
				slog.String("path", opts.Path),
				slog.String("error", validErr.Error()))

			if removeErr := os.Remove(opts.Path); removeErr != nil && !os.IsNotExist(removeErr) {
				return nil, bwerrors.New(bwerrors.ErrCodeDatabaseCorrupt,
					fmt.Sprintf("word index corrupted at %s and cannot remove: %v (original error: %v)",
						opts.Path, removeErr, validErr), validErr)
			}
			_ = os.Remove(opts.Path + "-wal")
			_ = os.Remove(opts.Path + "-shm")

			slog.Info("word_index_cleared",
				slog.String("path", opts.Path),
				slog.String("reason", "corruption detected, buffers will re-index on attach"))
		}
	}

	db, err := sql.Open("sqlite", opts.Path)
	if err != nil {
		return nil, bwerrors.StorageError("open database", err)
	}

	// Single connection: SQLite allows one writer, and a pool of one
	// also keeps session pragmas (foreign_keys) on every statement.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA foreign_keys = ON", // cascades and referential checks
		fmt.Sprintf("PRAGMA busy_timeout = %d", opts.BusyTimeout.Milliseconds()),
		fmt.Sprintf("PRAGMA cache_size = %d", -1024*opts.CacheSizeMB), // negative = KB
		"PRAGMA temp_store = MEMORY",
	}
	if !memory {
		pragmas = append(pragmas,
			"PRAGMA journal_mode = WAL", // concurrent readers across processes
			"PRAGMA synchronous = NORMAL",
		)
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, bwerrors.StorageError("set pragma", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, bwerrors.StorageError("create schema", err)
	}

	s := &Store{
		db:    db,
		path:  opts.Path,
		cache: newPrefixCache(opts.PrefixCacheSize),
	}

	slog.Debug("word_index_opened",
		slog.String("path", opts.Path),
		slog.Int("prefix_cache_size", opts.PrefixCacheSize))

	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Stats returns index-wide statistics.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM buffers`).Scan(&st.BufferCount); err != nil {
		return Stats{}, bwerrors.StorageError("count buffers", err)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM words`).Scan(&st.WordCount); err != nil {
		return Stats{}, bwerrors.StorageError("count words", err)
	}

	if s.path != ":memory:" {
		if info, err := os.Stat(s.path); err == nil {
			st.SizeBytes = info.Size()
		}
	}
	return st, nil
}
