package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/bufwords/internal/store"
)

func TestReadTokens_ParsesLines(t *testing.T) {
	input := `{"word":"def","kind":"kw"}
{"word":"foo","kind":"id"}

{"word":"return","kind":"kw"}
`
	tokens, err := ReadTokens(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []store.Token{
		{Word: "def", Kind: "kw"},
		{Word: "foo", Kind: "id"},
		{Word: "return", Kind: "kw"},
	}, tokens)
}

func TestReadTokens_EmptyStream(t *testing.T) {
	tokens, err := ReadTokens(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestReadTokens_ReportsLineNumber(t *testing.T) {
	input := `{"word":"ok","kind":"id"}
{not json}
`
	_, err := ReadTokens(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadTokens_RejectsWordlessToken(t *testing.T) {
	_, err := ReadTokens(strings.NewReader(`{"kind":"id"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no word")
}

func TestParseFileName(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		wantID   int64
		wantType string
		wantErr  bool
	}{
		{"simple", "12.python.tokens.jsonl", 12, "python", false},
		{"dotted filetype", "3.tar.gz.tokens.jsonl", 3, "tar.gz", false},
		{"wrong suffix", "12.python.txt", 0, "", true},
		{"missing filetype", "12.tokens.jsonl", 0, "", true},
		{"non-numeric id", "abc.python.tokens.jsonl", 0, "", true},
		{"zero id", "0.python.tokens.jsonl", 0, "", true},
		{"negative id", "-4.python.tokens.jsonl", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ft, err := ParseFileName(tt.file)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantType, ft)
		})
	}
}

func TestIsTokenFile(t *testing.T) {
	assert.True(t, IsTokenFile("7.go.tokens.jsonl"))
	assert.False(t, IsTokenFile("notes.md"))
	assert.False(t, IsTokenFile(".ingest.lock"))
}
