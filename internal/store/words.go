package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	bwerrors "github.com/Aman-CERP/bufwords/internal/errors"
)

const upsertWordSQL = `
INSERT INTO words (buffer_id, word, lword, kind, pword, pkind, gpword, gpkind)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(buffer_id, word) DO UPDATE SET
	lword  = excluded.lword,
	kind   = excluded.kind,
	pword  = excluded.pword,
	pkind  = excluded.pkind,
	gpword = excluded.gpword,
	gpkind = excluded.gpkind
`

const lookupColumns = `buffer_id, word, lword, kind, pword, pkind, gpword, gpkind, filetype`

// IndexWords records a buffer's token sequence in one transaction.
//
// Token i gets token i-1 as its previous context and token i-2 as its
// grandparent context; the first tokens get NULLs. A word repeated in
// the sequence (or already present from an earlier pass) keeps only the
// newest occurrence's context: completion cares about how a word is
// being used now, not how it was used first.
func (s *Store) IndexWords(ctx context.Context, bufferID int64, tokens []Token) error {
	for i, tok := range tokens {
		if tok.Word == "" {
			return bwerrors.New(bwerrors.ErrCodeEmptyWord,
				fmt.Sprintf("token %d has an empty word", i), nil)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return bwerrors.New(bwerrors.ErrCodeTransactionFailed, "begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	// The words table enforces the foreign key too, but checking here
	// turns a generic constraint failure into a referential error the
	// caller can match on.
	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM buffers WHERE id = ?`, bufferID).Scan(&one)
	if err == sql.ErrNoRows {
		return bwerrors.BufferNotFound(bufferID)
	}
	if err != nil {
		return bwerrors.StorageError("check buffer", err)
	}

	stmt, err := tx.PrepareContext(ctx, upsertWordSQL)
	if err != nil {
		return bwerrors.StorageError("prepare upsert", err)
	}
	defer stmt.Close()

	for i, tok := range tokens {
		var pword, pkind, gpword, gpkind any
		if i >= 1 {
			pword, pkind = tokens[i-1].Word, tokens[i-1].Kind
		}
		if i >= 2 {
			gpword, gpkind = tokens[i-2].Word, tokens[i-2].Kind
		}

		_, err := stmt.ExecContext(ctx, bufferID, tok.Word,
			strings.ToLower(tok.Word), tok.Kind,
			pword, pkind, gpword, gpkind)
		if err != nil {
			return bwerrors.StorageError("upsert word", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return bwerrors.New(bwerrors.ErrCodeTransactionFailed, "commit transaction", err)
	}

	s.cache.invalidate()
	return nil
}

// LookupPrefix returns rows whose lword starts with the case-folded
// prefix. An empty prefix matches every row. Results are cached until
// the next write.
func (s *Store) LookupPrefix(ctx context.Context, prefix string, limit int) ([]WordRow, error) {
	lprefix := strings.ToLower(prefix)

	if rows, ok := s.cache.get(lprefix, limit); ok {
		return rows, nil
	}

	// Read the generation before the query: if a write commits while the
	// SELECT runs, the rows are already stale and must not be cached.
	gen := s.cache.generation()

	query := `SELECT ` + lookupColumns + ` FROM words_view WHERE lword LIKE ? ESCAPE '\'`
	args := []any{escapeLike(lprefix) + "%"}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.queryRows(ctx, "lookup prefix", query, args...)
	if err != nil {
		return nil, err
	}

	s.cache.putAt(gen, lprefix, limit, rows)
	return rows, nil
}

// LookupExact returns rows matching word exactly, case-sensitively,
// across all buffers.
func (s *Store) LookupExact(ctx context.Context, word string, limit int) ([]WordRow, error) {
	query := `SELECT ` + lookupColumns + ` FROM words_view WHERE word = ?`
	args := []any{word}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryRows(ctx, "lookup exact", query, args...)
}

func (s *Store) queryRows(ctx context.Context, op, query string, args ...any) ([]WordRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, bwerrors.StorageError(op, err)
	}
	defer rows.Close()

	var out []WordRow
	for rows.Next() {
		var r WordRow
		var pword, pkind, gpword, gpkind sql.NullString
		if err := rows.Scan(&r.BufferID, &r.Word, &r.LWord, &r.Kind,
			&pword, &pkind, &gpword, &gpkind, &r.Filetype); err != nil {
			return nil, bwerrors.StorageError("scan word row", err)
		}
		r.PWord, r.PKind = pword.String, pkind.String
		r.GPWord, r.GPKind = gpword.String, gpkind.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, bwerrors.StorageError(op, err)
	}
	return out, nil
}

// escapeLike escapes LIKE metacharacters so a prefix containing % or _
// matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
