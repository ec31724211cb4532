package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bwerrors "github.com/Aman-CERP/bufwords/internal/errors"
)

func TestMapError_Nil(t *testing.T) {
	assert.Nil(t, MapError(nil))
}

func TestMapError_Categories(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"buffer not found", bwerrors.BufferNotFound(7), ErrCodeBufferNotFound},
		{"validation", bwerrors.ValidationError("word must not be empty"), ErrCodeInvalidParams},
		{"storage", bwerrors.StorageError("query", errors.New("disk full")), ErrCodeStorageFailed},
		{"deadline", context.DeadlineExceeded, ErrCodeTimeout},
		{"canceled", context.Canceled, ErrCodeTimeout},
		{"wrapped canceled", fmt.Errorf("run: %w", context.Canceled), ErrCodeTimeout},
		{"unknown", errors.New("boom"), ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mcpErr := MapError(tt.err)
			require.NotNil(t, mcpErr)
			assert.Equal(t, tt.wantCode, mcpErr.Code)
		})
	}
}

func TestMapError_IncludesSuggestion(t *testing.T) {
	err := bwerrors.BufferNotFound(3)
	mcpErr := MapError(err)

	require.NotNil(t, mcpErr)
	assert.Contains(t, mcpErr.Message, "3")
}

func TestMapError_WrappedIndexError(t *testing.T) {
	inner := bwerrors.BufferNotFound(5)
	wrapped := errors.Join(errors.New("ingest failed"), inner)

	mcpErr := MapError(wrapped)
	require.NotNil(t, mcpErr)
	assert.Equal(t, ErrCodeBufferNotFound, mcpErr.Code)
}
