package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for the different failure categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Rule errors
	ErrRuleDecode    ErrorCode = "RULE_DECODE"
	ErrRuleAmbiguous ErrorCode = "RULE_AMBIGUOUS"
	ErrRuleUnknown   ErrorCode = "RULE_UNKNOWN"

	// Icon library errors
	ErrLibraryScan  ErrorCode = "LIBRARY_SCAN"
	ErrIconNotFound ErrorCode = "ICON_NOT_FOUND"

	// Crawl and apply errors
	ErrCrawl       ErrorCode = "CRAWL"
	ErrMarkerWrite ErrorCode = "MARKER_WRITE"
	ErrMarkerOwned ErrorCode = "MARKER_NOT_OWNED"
	ErrAttrib      ErrorCode = "ATTRIB"
	ErrFileCopy    ErrorCode = "FILE_COPY"
	ErrFileDelete  ErrorCode = "FILE_DELETE"
	ErrDirCreate   ErrorCode = "DIR_CREATE"
)

// IconmanError represents a structured error with code and details
type IconmanError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *IconmanError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *IconmanError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *IconmanError) Is(target error) bool {
	var targetErr *IconmanError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new IconmanError with the given code and message
func New(code ErrorCode, message string) *IconmanError {
	return &IconmanError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new IconmanError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *IconmanError {
	return &IconmanError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an IconmanError
func Wrap(err error, code ErrorCode, message string) *IconmanError {
	if err == nil {
		return nil
	}
	return &IconmanError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *IconmanError {
	if err == nil {
		return nil
	}
	return &IconmanError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *IconmanError) WithDetail(key string, value interface{}) *IconmanError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var appErr *IconmanError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if
// the error is not an IconmanError
func GetErrorCode(err error) ErrorCode {
	var appErr *IconmanError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrUnknown
}
