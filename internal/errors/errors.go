package errors

import (
	stderrors "errors"
	"fmt"
)

// IndexError is the structured error type for bufwords.
// It provides context for error handling, logging, and user presentation.
type IndexError struct {
	// Code is the unique error code (e.g., "ERR_501_BUFFER_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Storage, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *IndexError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with IndexError.
func (e *IndexError) Is(target error) bool {
	if t, ok := target.(*IndexError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *IndexError) WithDetail(key, value string) *IndexError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *IndexError) WithSuggestion(suggestion string) *IndexError {
	e.Suggestion = suggestion
	return e
}

// New creates a new IndexError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *IndexError {
	return &IndexError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates an IndexError from an existing error.
// The error's message becomes the IndexError message.
func Wrap(code string, err error) *IndexError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// BufferNotFound creates a referential error for a write against a
// buffer that has not been opened.
func BufferNotFound(bufferID int64) *IndexError {
	return New(ErrCodeBufferNotFound,
		fmt.Sprintf("buffer %d is not open", bufferID), nil).
		WithDetail("buffer_id", fmt.Sprintf("%d", bufferID)).
		WithSuggestion("Open the buffer before indexing words into it")
}

// StorageError creates a storage-layer error wrapping the driver error.
func StorageError(op string, cause error) *IndexError {
	return New(ErrCodeStorageUnavailable,
		fmt.Sprintf("storage operation failed: %s", op), cause).
		WithDetail("operation", op)
}

// ValidationError creates an input validation error.
func ValidationError(message string) *IndexError {
	return New(ErrCodeInvalidInput, message, nil)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *IndexError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IsReferential reports whether err is a referential-integrity failure.
func IsReferential(err error) bool {
	if e, ok := asIndexError(err); ok {
		return e.Category == CategoryReferential
	}
	return false
}

// IsStorage reports whether err is a storage-layer failure.
func IsStorage(err error) bool {
	if e, ok := asIndexError(err); ok {
		return e.Category == CategoryStorage || e.Category == CategoryIO
	}
	return false
}

func asIndexError(err error) (*IndexError, bool) {
	var e *IndexError
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}
