package mcp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/bufwords/internal/store"
	"github.com/Aman-CERP/bufwords/internal/telemetry"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	idx, err := store.Open(store.Options{
		Path: filepath.Join(t.TempDir(), "words.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	s, err := NewServer(idx, 50)
	require.NoError(t, err)
	return s
}

func TestNewServer_RequiresIndex(t *testing.T) {
	_, err := NewServer(nil, 10)
	assert.Error(t, err)
}

func TestOpenBufferHandler(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, out, err := s.mcpOpenBufferHandler(ctx, nil, OpenBufferInput{BufferID: 1, Filetype: "python"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.BufferID)
}

func TestOpenBufferHandler_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input OpenBufferInput
	}{
		{"zero buffer id", OpenBufferInput{BufferID: 0, Filetype: "go"}},
		{"missing filetype", OpenBufferInput{BufferID: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.mcpOpenBufferHandler(ctx, nil, tt.input)
			require.Error(t, err)

			var mcpErr *MCPError
			require.ErrorAs(t, err, &mcpErr)
			assert.Equal(t, ErrCodeInvalidParams, mcpErr.Code)
		})
	}
}

func TestIndexWordsHandler_UnknownBuffer(t *testing.T) {
	s := newTestServer(t)

	_, _, err := s.mcpIndexWordsHandler(context.Background(), nil, IndexWordsInput{
		BufferID: 42,
		Tokens:   []TokenInput{{Word: "x", Kind: "id"}},
	})
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrCodeBufferNotFound, mcpErr.Code)
}

func TestLookupHandler_PrefixAndExact(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, _, err := s.mcpOpenBufferHandler(ctx, nil, OpenBufferInput{BufferID: 1, Filetype: "python"})
	require.NoError(t, err)

	_, indexed, err := s.mcpIndexWordsHandler(ctx, nil, IndexWordsInput{
		BufferID: 1,
		Tokens: []TokenInput{
			{Word: "def", Kind: "kw"},
			{Word: "Foo", Kind: "id"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, indexed.Indexed)

	_, out, err := s.mcpLookupHandler(ctx, nil, LookupInput{Query: "FO", Match: "prefix"})
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "Foo", out.Rows[0].Word)
	assert.Equal(t, "def", out.Rows[0].PWord)

	_, out, err = s.mcpLookupHandler(ctx, nil, LookupInput{Query: "foo", Match: "exact"})
	require.NoError(t, err)
	assert.Empty(t, out.Rows, "exact match is case-sensitive")
}

func TestLookupHandler_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, _, err := s.mcpLookupHandler(ctx, nil, LookupInput{})
	assert.Error(t, err)

	_, _, err = s.mcpLookupHandler(ctx, nil, LookupInput{Query: "x", Match: "fuzzy"})
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrCodeInvalidParams, mcpErr.Code)
}

func TestCloseBufferHandler_UnknownIsNoOp(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.mcpCloseBufferHandler(context.Background(), nil, CloseBufferInput{BufferID: 9})
	require.NoError(t, err)
	assert.True(t, out.Closed)
}

func TestIndexStatusHandler(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, _, err := s.mcpOpenBufferHandler(ctx, nil, OpenBufferInput{BufferID: 1, Filetype: "go"})
	require.NoError(t, err)
	_, _, err = s.mcpIndexWordsHandler(ctx, nil, IndexWordsInput{
		BufferID: 1,
		Tokens:   []TokenInput{{Word: "main", Kind: "id"}},
	})
	require.NoError(t, err)

	_, out, err := s.mcpIndexStatusHandler(ctx, nil, IndexStatusInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Buffers)
	assert.Equal(t, 1, out.Words)
	assert.Greater(t, out.SizeBytes, int64(0))
}

func TestIndexStatusHandler_IncludesLookupTelemetry(t *testing.T) {
	s := newTestServer(t)
	s.SetMetrics(telemetry.NewLookupMetrics())
	ctx := context.Background()

	_, _, err := s.mcpLookupHandler(ctx, nil, LookupInput{Query: "nothing"})
	require.NoError(t, err)

	_, out, err := s.mcpIndexStatusHandler(ctx, nil, IndexStatusInput{})
	require.NoError(t, err)

	require.NotNil(t, out.Lookups)
	assert.Equal(t, int64(1), out.Lookups.TotalLookups)
	assert.Equal(t, int64(1), out.Lookups.ZeroResults)
	assert.Equal(t, []string{"nothing"}, out.Lookups.RecentMisses)
}

func TestServe_RejectsUnknownTransport(t *testing.T) {
	s := newTestServer(t)

	err := s.Serve(context.Background(), "sse")
	assert.Error(t, err)
}
