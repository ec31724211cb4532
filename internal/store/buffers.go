package store

import (
	"context"
	"fmt"

	bwerrors "github.com/Aman-CERP/bufwords/internal/errors"
)

// OpenBuffer registers a buffer under its caller-assigned handle.
// Re-opening an existing buffer replaces its filetype and keeps its
// words: editors reuse buffer numbers when a file's type changes.
func (s *Store) OpenBuffer(ctx context.Context, id int64, filetype string) error {
	if id <= 0 {
		return bwerrors.New(bwerrors.ErrCodeInvalidBufferID,
			fmt.Sprintf("buffer id must be positive, got %d", id), nil)
	}
	if filetype == "" {
		return bwerrors.ValidationError("filetype must not be empty")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO buffers (id, filetype) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET filetype = excluded.filetype
	`, id, filetype)
	if err != nil {
		return bwerrors.StorageError("open buffer", err)
	}

	// Filetype shows up in lookup rows, so cached results are stale now.
	s.cache.invalidate()
	return nil
}

// CloseBuffer deletes a buffer; the foreign key cascades to its words.
// Closing a buffer that was never opened is a no-op.
func (s *Store) CloseBuffer(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM buffers WHERE id = ?`, id)
	if err != nil {
		return bwerrors.StorageError("close buffer", err)
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.cache.invalidate()
	}
	return nil
}

// ListBuffers returns all open buffers with their distinct word counts.
func (s *Store) ListBuffers(ctx context.Context) ([]Buffer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.filetype, COUNT(w.word)
		FROM buffers b
		LEFT JOIN words w ON w.buffer_id = b.id
		GROUP BY b.id, b.filetype
		ORDER BY b.id
	`)
	if err != nil {
		return nil, bwerrors.StorageError("list buffers", err)
	}
	defer rows.Close()

	var buffers []Buffer
	for rows.Next() {
		var b Buffer
		if err := rows.Scan(&b.ID, &b.Filetype, &b.WordCount); err != nil {
			return nil, bwerrors.StorageError("scan buffer", err)
		}
		buffers = append(buffers, b)
	}
	if err := rows.Err(); err != nil {
		return nil, bwerrors.StorageError("iterate buffers", err)
	}
	return buffers, nil
}
