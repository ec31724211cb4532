package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/bufwords/internal/store"
	"github.com/Aman-CERP/bufwords/internal/telemetry"
	"github.com/Aman-CERP/bufwords/pkg/version"
)

// Server is the MCP server for bufwords. It bridges AI clients with the
// buffer word index over JSON-RPC.
type Server struct {
	mcp    *mcp.Server
	index  store.Index
	logger *slog.Logger

	defaultLimit int

	mu      sync.RWMutex
	metrics *telemetry.LookupMetrics
}

// OpenBufferInput defines the input schema for the open_buffer tool.
type OpenBufferInput struct {
	BufferID int64  `json:"buffer_id" jsonschema:"editor buffer identifier, positive integer"`
	Filetype string `json:"filetype" jsonschema:"buffer filetype, e.g. python or go"`
}

// OpenBufferOutput defines the output schema for the open_buffer tool.
type OpenBufferOutput struct {
	BufferID int64 `json:"buffer_id" jsonschema:"the registered buffer identifier"`
}

// CloseBufferInput defines the input schema for the close_buffer tool.
type CloseBufferInput struct {
	BufferID int64 `json:"buffer_id" jsonschema:"buffer identifier to close"`
}

// CloseBufferOutput defines the output schema for the close_buffer tool.
type CloseBufferOutput struct {
	Closed bool `json:"closed" jsonschema:"always true; closing an unknown buffer is a no-op"`
}

// TokenInput is one token in an index_words call.
type TokenInput struct {
	Word string `json:"word" jsonschema:"the word text, non-empty"`
	Kind string `json:"kind,omitempty" jsonschema:"syntactic kind tag, e.g. kw or id"`
}

// IndexWordsInput defines the input schema for the index_words tool.
type IndexWordsInput struct {
	BufferID int64        `json:"buffer_id" jsonschema:"buffer the tokens belong to; must be open"`
	Tokens   []TokenInput `json:"tokens" jsonschema:"token sequence in buffer order"`
}

// IndexWordsOutput defines the output schema for the index_words tool.
type IndexWordsOutput struct {
	Indexed int `json:"indexed" jsonschema:"number of tokens written"`
}

// LookupInput defines the input schema for the lookup_words tool.
type LookupInput struct {
	Query string `json:"query" jsonschema:"the word or prefix to look up"`
	Match string `json:"match,omitempty" jsonschema:"prefix (case-insensitive, default) or exact (case-sensitive)"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of rows, default from server config"`
}

// LookupOutput defines the output schema for the lookup_words tool.
type LookupOutput struct {
	Rows []WordRowOutput `json:"rows" jsonschema:"matching words with their trigram context"`
}

// WordRowOutput is a single lookup result.
type WordRowOutput struct {
	BufferID int64  `json:"buffer_id" jsonschema:"buffer the word was seen in"`
	Filetype string `json:"filetype" jsonschema:"filetype of that buffer"`
	Word     string `json:"word" jsonschema:"the word as it appeared"`
	Kind     string `json:"kind,omitempty" jsonschema:"syntactic kind tag"`
	PWord    string `json:"pword,omitempty" jsonschema:"word immediately before this one"`
	PKind    string `json:"pkind,omitempty" jsonschema:"kind of the preceding word"`
	GPWord   string `json:"gpword,omitempty" jsonschema:"word two positions before"`
	GPKind   string `json:"gpkind,omitempty" jsonschema:"kind of that word"`
}

// IndexStatusInput defines the input schema for the index_status tool.
type IndexStatusInput struct{}

// IndexStatusOutput defines the output schema for the index_status tool.
type IndexStatusOutput struct {
	Buffers   int    `json:"buffers" jsonschema:"number of open buffers"`
	Words     int    `json:"words" jsonschema:"number of indexed words"`
	SizeBytes int64  `json:"size_bytes" jsonschema:"on-disk size of the index"`
	Version   string `json:"version" jsonschema:"bufwords version"`

	Lookups *telemetry.Summary `json:"lookups,omitempty" jsonschema:"lookup telemetry since the server started"`
}

// NewServer creates a new MCP server over the given index.
func NewServer(index store.Index, defaultLimit int) (*Server, error) {
	if index == nil {
		return nil, errors.New("word index is required")
	}
	if defaultLimit <= 0 {
		defaultLimit = 50
	}

	s := &Server{
		index:        index,
		logger:       slog.Default(),
		defaultLimit: defaultLimit,
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "bufwords",
			Version: version.Version,
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// SetMetrics enables lookup telemetry. Recorded lookups surface in the
// index_status tool output.
func (s *Server) SetMetrics(m *telemetry.LookupMetrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = m
}

func (s *Server) recordLookup(ev telemetry.LookupEvent) {
	s.mu.RLock()
	m := s.metrics
	s.mu.RUnlock()
	if m != nil {
		m.Record(ev)
	}
}

// registerTools registers all tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "open_buffer",
		Description: "Register an editor buffer before indexing its words. Re-opening an existing buffer updates its filetype and keeps its words.",
	}, s.mcpOpenBufferHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "close_buffer",
		Description: "Close a buffer and drop all of its indexed words. Closing an unknown buffer is a harmless no-op.",
	}, s.mcpCloseBufferHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "index_words",
		Description: "Write a buffer's token sequence into the index. Each word is stored with its two preceding tokens as context; re-indexing overwrites previous context.",
	}, s.mcpIndexWordsHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "lookup_words",
		Description: "Look up indexed words across all buffers. Prefix matching is case-insensitive; exact matching is case-sensitive.",
	}, s.mcpLookupHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "index_status",
		Description: "Report how many buffers and words are indexed and how large the index is on disk.",
	}, s.mcpIndexStatusHandler)

	s.logger.Info("mcp_tools_registered", slog.Int("count", 5))
}

func (s *Server) mcpOpenBufferHandler(ctx context.Context, req *mcp.CallToolRequest, input OpenBufferInput) (
	*mcp.CallToolResult,
	OpenBufferOutput,
	error,
) {
	if input.BufferID <= 0 {
		return nil, OpenBufferOutput{}, NewInvalidParamsError("buffer_id must be a positive integer")
	}
	if input.Filetype == "" {
		return nil, OpenBufferOutput{}, NewInvalidParamsError("filetype is required")
	}

	if err := s.index.OpenBuffer(ctx, input.BufferID, input.Filetype); err != nil {
		return nil, OpenBufferOutput{}, MapError(err)
	}
	return nil, OpenBufferOutput{BufferID: input.BufferID}, nil
}

func (s *Server) mcpCloseBufferHandler(ctx context.Context, req *mcp.CallToolRequest, input CloseBufferInput) (
	*mcp.CallToolResult,
	CloseBufferOutput,
	error,
) {
	if input.BufferID <= 0 {
		return nil, CloseBufferOutput{}, NewInvalidParamsError("buffer_id must be a positive integer")
	}

	if err := s.index.CloseBuffer(ctx, input.BufferID); err != nil {
		return nil, CloseBufferOutput{}, MapError(err)
	}
	return nil, CloseBufferOutput{Closed: true}, nil
}

func (s *Server) mcpIndexWordsHandler(ctx context.Context, req *mcp.CallToolRequest, input IndexWordsInput) (
	*mcp.CallToolResult,
	IndexWordsOutput,
	error,
) {
	if input.BufferID <= 0 {
		return nil, IndexWordsOutput{}, NewInvalidParamsError("buffer_id must be a positive integer")
	}

	tokens := make([]store.Token, len(input.Tokens))
	for i, t := range input.Tokens {
		tokens[i] = store.Token{Word: t.Word, Kind: t.Kind}
	}

	if err := s.index.IndexWords(ctx, input.BufferID, tokens); err != nil {
		return nil, IndexWordsOutput{}, MapError(err)
	}
	return nil, IndexWordsOutput{Indexed: len(tokens)}, nil
}

func (s *Server) mcpLookupHandler(ctx context.Context, req *mcp.CallToolRequest, input LookupInput) (
	*mcp.CallToolResult,
	LookupOutput,
	error,
) {
	if input.Query == "" {
		return nil, LookupOutput{}, NewInvalidParamsError("query parameter is required")
	}

	limit := s.defaultLimit
	if input.Limit > 0 {
		limit = input.Limit
	}

	var rows []store.WordRow
	var err error
	mode := telemetry.MatchPrefix
	started := time.Now()
	switch input.Match {
	case "", "prefix":
		rows, err = s.index.LookupPrefix(ctx, input.Query, limit)
	case "exact":
		mode = telemetry.MatchExact
		rows, err = s.index.LookupExact(ctx, input.Query, limit)
	default:
		return nil, LookupOutput{}, NewInvalidParamsError(
			fmt.Sprintf("unknown match mode %q (supported: prefix, exact)", input.Match))
	}
	if err != nil {
		return nil, LookupOutput{}, MapError(err)
	}

	s.recordLookup(telemetry.LookupEvent{
		Query:       input.Query,
		Mode:        mode,
		ResultCount: len(rows),
		Latency:     time.Since(started),
	})

	output := LookupOutput{Rows: make([]WordRowOutput, 0, len(rows))}
	for _, r := range rows {
		output.Rows = append(output.Rows, WordRowOutput{
			BufferID: r.BufferID,
			Filetype: r.Filetype,
			Word:     r.Word,
			Kind:     r.Kind,
			PWord:    r.PWord,
			PKind:    r.PKind,
			GPWord:   r.GPWord,
			GPKind:   r.GPKind,
		})
	}
	return nil, output, nil
}

func (s *Server) mcpIndexStatusHandler(ctx context.Context, req *mcp.CallToolRequest, input IndexStatusInput) (
	*mcp.CallToolResult,
	IndexStatusOutput,
	error,
) {
	stats, err := s.index.Stats(ctx)
	if err != nil {
		return nil, IndexStatusOutput{}, MapError(err)
	}

	out := IndexStatusOutput{
		Buffers:   stats.BufferCount,
		Words:     stats.WordCount,
		SizeBytes: stats.SizeBytes,
		Version:   version.Version,
	}

	s.mu.RLock()
	if s.metrics != nil {
		summary := s.metrics.Snapshot()
		out.Lookups = &summary
	}
	s.mu.RUnlock()

	return nil, out, nil
}

// Serve starts the server with the specified transport.
func (s *Server) Serve(ctx context.Context, transport string) error {
	s.logger.Info("mcp_server_starting", slog.String("transport", transport))

	switch transport {
	case "stdio":
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("mcp_server_stopped", slog.String("error", err.Error()))
		} else {
			s.logger.Info("mcp_server_stopped")
		}
		return err
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio)", transport)
	}
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}
