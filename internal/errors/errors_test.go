package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesCategoryAndSeverity(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		category Category
		severity Severity
	}{
		{"config", ErrCodeConfigInvalid, CategoryConfig, SeverityError},
		{"io", ErrCodeFileNotFound, CategoryIO, SeverityError},
		{"storage", ErrCodeStorageUnavailable, CategoryStorage, SeverityFatal},
		{"validation", ErrCodeInvalidInput, CategoryValidation, SeverityError},
		{"referential", ErrCodeBufferNotFound, CategoryReferential, SeverityError},
		{"internal", ErrCodeInternal, CategoryInternal, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, "boom", nil)
			assert.Equal(t, tt.category, err.Category)
			assert.Equal(t, tt.severity, err.Severity)
		})
	}
}

func TestError_FormatsCodeAndMessage(t *testing.T) {
	err := New(ErrCodeBufferNotFound, "buffer 7 is not open", nil)
	assert.Equal(t, "[ERR_501_BUFFER_NOT_FOUND] buffer 7 is not open", err.Error())
}

func TestIs_MatchesByCode(t *testing.T) {
	err := BufferNotFound(7)
	target := New(ErrCodeBufferNotFound, "", nil)

	assert.True(t, stderrors.Is(err, target))
	assert.False(t, stderrors.Is(err, New(ErrCodeStorageUnavailable, "", nil)))
}

func TestUnwrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := StorageError("index words", cause)

	assert.True(t, stderrors.Is(err, cause))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	require.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestBufferNotFound_CarriesDetailAndSuggestion(t *testing.T) {
	err := BufferNotFound(42)

	assert.Equal(t, "42", err.Details["buffer_id"])
	assert.NotEmpty(t, err.Suggestion)
	assert.True(t, IsReferential(err))
	assert.False(t, IsStorage(err))
}

func TestIsStorage_MatchesWrappedChain(t *testing.T) {
	inner := StorageError("lookup", fmt.Errorf("database is locked"))
	outer := fmt.Errorf("lookup_prefix: %w", inner)

	assert.True(t, IsStorage(outer))
	assert.False(t, IsReferential(outer))
}

func TestFormatForCLI_IncludesHintAndCode(t *testing.T) {
	out := FormatForCLI(BufferNotFound(3))

	assert.Contains(t, out, "Error: buffer 3 is not open")
	assert.Contains(t, out, "Hint:")
	assert.Contains(t, out, "ERR_501_BUFFER_NOT_FOUND")
}

func TestFormatForCLI_WrapsPlainErrors(t *testing.T) {
	out := FormatForCLI(fmt.Errorf("plain failure"))

	assert.Contains(t, out, "plain failure")
	assert.Contains(t, out, ErrCodeInternal)
}
