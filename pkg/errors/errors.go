package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Linking errors
	ErrConflict      ErrorCode = "CONFLICT"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrBackupMove    ErrorCode = "BACKUP_MOVE"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"

	// External tool errors
	ErrToolMissing     ErrorCode = "TOOL_MISSING"
	ErrManifestMissing ErrorCode = "MANIFEST_MISSING"
	ErrManifestParse   ErrorCode = "MANIFEST_PARSE"
	ErrExternalTool    ErrorCode = "EXTERNAL_TOOL"

	// Update errors
	ErrGitDirty  ErrorCode = "GIT_DIRTY"
	ErrGitFetch  ErrorCode = "GIT_FETCH"
	ErrGitUpdate ErrorCode = "GIT_UPDATE"
)

// HomelinkError represents a structured error with code and details
type HomelinkError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *HomelinkError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *HomelinkError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *HomelinkError) Is(target error) bool {
	var targetErr *HomelinkError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new HomelinkError with the given code and message
func New(code ErrorCode, message string) *HomelinkError {
	return &HomelinkError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new HomelinkError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *HomelinkError {
	return &HomelinkError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a HomelinkError
func Wrap(err error, code ErrorCode, message string) *HomelinkError {
	if err == nil {
		return nil
	}
	return &HomelinkError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *HomelinkError {
	if err == nil {
		return nil
	}
	return &HomelinkError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *HomelinkError) WithDetail(key string, value interface{}) *HomelinkError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var herr *HomelinkError
	if errors.As(err, &herr) {
		return herr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a HomelinkError
func GetErrorCode(err error) ErrorCode {
	var herr *HomelinkError
	if errors.As(err, &herr) {
		return herr.Code
	}
	return ErrUnknown
}
