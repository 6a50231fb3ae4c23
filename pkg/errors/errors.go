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

	// Bootstrap errors
	ErrToolMissing   ErrorCode = "TOOL_MISSING"
	ErrRestartNeeded ErrorCode = "RESTART_NEEDED"
	ErrSetupNotDone  ErrorCode = "SETUP_NOT_DONE"

	// Sync errors
	ErrNetUnreachable ErrorCode = "NET_UNREACHABLE"
	ErrMergeConflict  ErrorCode = "MERGE_CONFLICT"
	ErrStagingLocked  ErrorCode = "STAGING_LOCKED"
	ErrPushRejected   ErrorCode = "PUSH_REJECTED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigFetch ErrorCode = "CONFIG_FETCH"

	// Game errors
	ErrGameNotFound ErrorCode = "GAME_NOT_FOUND"
	ErrExeNotFound  ErrorCode = "EXE_NOT_FOUND"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileCreate   ErrorCode = "FILE_CREATE"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrLinkCreate   ErrorCode = "LINK_CREATE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
	ErrBackupFailed ErrorCode = "BACKUP_FAILED"
)

// SavesyncError represents a structured error with code and details
type SavesyncError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SavesyncError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SavesyncError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *SavesyncError) Is(target error) bool {
	var targetErr *SavesyncError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SavesyncError with the given code and message
func New(code ErrorCode, message string) *SavesyncError {
	return &SavesyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SavesyncError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SavesyncError {
	return &SavesyncError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SavesyncError
func Wrap(err error, code ErrorCode, message string) *SavesyncError {
	if err == nil {
		return nil
	}
	return &SavesyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SavesyncError {
	if err == nil {
		return nil
	}
	return &SavesyncError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *SavesyncError) WithDetail(key string, value interface{}) *SavesyncError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var serr *SavesyncError
	if errors.As(err, &serr) {
		return serr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a SavesyncError
func GetErrorCode(err error) ErrorCode {
	var serr *SavesyncError
	if errors.As(err, &serr) {
		return serr.Code
	}
	return ErrUnknown
}
