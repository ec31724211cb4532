// Package ingest loads token files produced by editor-side tokenizers
// into the word index. Tokenization itself happens outside bufwords;
// this package only consumes the resulting JSONL batches.
package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	bwerrors "github.com/Aman-CERP/bufwords/internal/errors"
	"github.com/Aman-CERP/bufwords/internal/store"
)

// TokenFileSuffix is the required extension for token batch files.
const TokenFileSuffix = ".tokens.jsonl"

// maxTokenLine bounds a single JSONL line. Words longer than this are a
// tokenizer bug, not data we want to index.
const maxTokenLine = 64 * 1024

// ReadTokens parses a JSONL token stream, one object per line:
//
//	{"word":"def","kind":"kw"}
//
// Blank lines are skipped. A malformed line fails the whole batch with
// its line number; a partial batch would leave the buffer's context
// half-updated.
func ReadTokens(r io.Reader) ([]store.Token, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxTokenLine)

	var tokens []store.Token
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var tok store.Token
		if err := json.Unmarshal([]byte(line), &tok); err != nil {
			return nil, bwerrors.New(bwerrors.ErrCodeTokenSyntax,
				fmt.Sprintf("line %d: invalid token", lineNo), err)
		}
		if tok.Word == "" {
			return nil, bwerrors.New(bwerrors.ErrCodeTokenSyntax,
				fmt.Sprintf("line %d: token has no word", lineNo), nil)
		}
		tokens = append(tokens, tok)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read token stream: %w", err)
	}
	return tokens, nil
}

// ParseFileName extracts the buffer identity from a token file name of
// the form <bufferID>.<filetype>.tokens.jsonl, e.g. "12.python.tokens.jsonl".
func ParseFileName(name string) (bufferID int64, filetype string, err error) {
	base, ok := strings.CutSuffix(name, TokenFileSuffix)
	if !ok {
		return 0, "", bwerrors.New(bwerrors.ErrCodeInvalidInput,
			fmt.Sprintf("%s: not a %s file", name, TokenFileSuffix), nil)
	}

	idStr, filetype, ok := strings.Cut(base, ".")
	if !ok || filetype == "" {
		return 0, "", bwerrors.New(bwerrors.ErrCodeInvalidInput,
			fmt.Sprintf("%s: expected <bufferID>.<filetype>%s", name, TokenFileSuffix), nil)
	}

	bufferID, perr := strconv.ParseInt(idStr, 10, 64)
	if perr != nil || bufferID <= 0 {
		return 0, "", bwerrors.New(bwerrors.ErrCodeInvalidBufferID,
			fmt.Sprintf("%s: buffer id %q is not a positive integer", name, idStr), nil)
	}
	return bufferID, filetype, nil
}
