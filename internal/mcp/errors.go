// Package mcp exposes the word index over the Model Context Protocol so
// editor-side AI clients can query buffer words without linking bufwords.
package mcp

import (
	"context"
	"errors"
	"fmt"

	bwerrors "github.com/Aman-CERP/bufwords/internal/errors"
)

// Custom MCP error codes for bufwords.
const (
	// ErrCodeBufferNotFound indicates the referenced buffer is not open.
	ErrCodeBufferNotFound = -32001

	// ErrCodeStorageFailed indicates the index database rejected the operation.
	ErrCodeStorageFailed = -32002

	// ErrCodeTimeout indicates the request timed out or was cancelled.
	ErrCodeTimeout = -32003

	// Standard JSON-RPC error codes.
	ErrCodeInvalidParams = -32602
	ErrCodeInternalError = -32603
)

// MCPError represents an MCP protocol error with code and message.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// NewInvalidParamsError creates an error for invalid parameters.
func NewInvalidParamsError(msg string) *MCPError {
	return &MCPError{Code: ErrCodeInvalidParams, Message: msg}
}

// MapError converts internal errors to MCP errors.
func MapError(err error) *MCPError {
	if err == nil {
		return nil
	}

	var ie *bwerrors.IndexError
	if errors.As(err, &ie) {
		return mapIndexError(ie)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request timed out."}
	case errors.Is(err, context.Canceled):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request was canceled."}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: "Internal server error."}
	}
}

func mapIndexError(ie *bwerrors.IndexError) *MCPError {
	message := ie.Message
	if ie.Suggestion != "" {
		message = fmt.Sprintf("%s %s", ie.Message, ie.Suggestion)
	}

	switch ie.Category {
	case bwerrors.CategoryReferential:
		return &MCPError{Code: ErrCodeBufferNotFound, Message: message}
	case bwerrors.CategoryValidation:
		return &MCPError{Code: ErrCodeInvalidParams, Message: message}
	case bwerrors.CategoryStorage, bwerrors.CategoryIO:
		return &MCPError{Code: ErrCodeStorageFailed, Message: message}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: message}
	}
}
