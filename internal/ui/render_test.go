package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Aman-CERP/bufwords/internal/store"
)

func TestWordRows_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewPlainRenderer(&buf)

	r.WordRows([]store.WordRow{
		{BufferID: 1, Filetype: "python", Word: "return", Kind: "kw", PWord: "foo", GPWord: "def"},
		{BufferID: 2, Filetype: "go", Word: "ret", Kind: "id"},
	})

	out := buf.String()
	assert.Contains(t, out, "return [kw] buffer=1 (python)  after: def foo")
	assert.Contains(t, out, "ret [id] buffer=2 (go)")
	assert.NotContains(t, out, "\x1b[", "plain renderer must not emit ANSI codes")
}

func TestWordRows_NoMatches(t *testing.T) {
	var buf bytes.Buffer
	NewPlainRenderer(&buf).WordRows(nil)

	assert.Contains(t, buf.String(), "no matches")
}

func TestWordRows_ContextWithOnlyPrevious(t *testing.T) {
	var buf bytes.Buffer
	NewPlainRenderer(&buf).WordRows([]store.WordRow{
		{BufferID: 1, Filetype: "go", Word: "foo", Kind: "id", PWord: "func"},
	})

	assert.Contains(t, buf.String(), "after: func")
}

func TestBuffers_RendersTable(t *testing.T) {
	var buf bytes.Buffer
	NewPlainRenderer(&buf).Buffers([]store.Buffer{
		{ID: 1, Filetype: "python", WordCount: 42},
		{ID: 7, Filetype: "go", WordCount: 3},
	})

	out := buf.String()
	assert.Contains(t, out, "BUFFER")
	assert.Contains(t, out, "python")
	assert.Contains(t, out, "42")
}

func TestStats_FormatsSizes(t *testing.T) {
	var buf bytes.Buffer
	NewPlainRenderer(&buf).Stats(store.Stats{
		BufferCount: 2,
		WordCount:   100,
		SizeBytes:   2048,
	})

	out := buf.String()
	assert.Contains(t, out, "buffers: 2")
	assert.Contains(t, out, "2.0 KB")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "3.0 MB", formatBytes(3<<20))
}

func TestIsTTY_FalseForBuffer(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}
