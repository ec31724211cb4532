// Package errors provides structured error handling for bufwords.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (file, disk)
//   - 3XX: Storage errors (SQLite unavailable, constraint failures)
//   - 4XX: Validation errors
//   - 5XX: Referential errors (writes against unknown buffers)
//   - 6XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryStorage indicates SQLite storage-layer errors.
	CategoryStorage Category = "STORAGE"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryReferential indicates writes referencing a buffer that
	// does not exist in the registry.
	CategoryReferential Category = "REFERENTIAL"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeFileNotFound    = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFilePermission  = "ERR_202_FILE_PERMISSION"
	ErrCodeDatabaseCorrupt = "ERR_203_DATABASE_CORRUPT"

	// Storage errors (300-399)
	ErrCodeStorageUnavailable = "ERR_301_STORAGE_UNAVAILABLE"
	ErrCodeConstraintViolated = "ERR_302_CONSTRAINT_VIOLATED"
	ErrCodeTransactionFailed  = "ERR_303_TRANSACTION_FAILED"

	// Validation errors (400-499)
	ErrCodeInvalidInput    = "ERR_401_INVALID_INPUT"
	ErrCodeEmptyWord       = "ERR_402_EMPTY_WORD"
	ErrCodeInvalidBufferID = "ERR_403_INVALID_BUFFER_ID"
	ErrCodeTokenSyntax     = "ERR_404_TOKEN_SYNTAX"

	// Referential errors (500-599)
	ErrCodeBufferNotFound = "ERR_501_BUFFER_NOT_FOUND"

	// Internal errors (600-699)
	ErrCodeInternal = "ERR_601_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Numeric portion, e.g. "101" from "ERR_101_CONFIG_NOT_FOUND"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryStorage
	case '4':
		return CategoryValidation
	case '5':
		return CategoryReferential
	default:
		return CategoryInternal
	}
}

// severityFromCode derives severity from error code.
// Storage unavailability is fatal for a storage service; everything else
// fails the single operation and lets the caller continue.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeStorageUnavailable, ErrCodeDatabaseCorrupt:
		return SeverityFatal
	default:
		return SeverityError
	}
}
