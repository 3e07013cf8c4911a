package fields

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes validation failures of scalar values.
type ErrorCode string

const (
	// CodeInvalidIdentifier indicates a malformed ID.
	CodeInvalidIdentifier ErrorCode = "INVALID_IDENTIFIER"

	// CodeInvalidTimestamp indicates an unparseable timestamp.
	CodeInvalidTimestamp ErrorCode = "INVALID_TIMESTAMP"

	// CodeInvalidMimeType indicates a MIME type outside the accepted grammar.
	CodeInvalidMimeType ErrorCode = "INVALID_MIME_TYPE"

	// CodeInvalidCursorValue indicates a malformed or out-of-range sort key.
	CodeInvalidCursorValue ErrorCode = "INVALID_CURSOR_VALUE"

	// CodeInvalidCursor indicates a malformed cursor token.
	CodeInvalidCursor ErrorCode = "INVALID_CURSOR"

	// CodeInvalidImage indicates an encoded image that is not a decodable PNG.
	CodeInvalidImage ErrorCode = "INVALID_IMAGE"
)

// Sentinels for errors.Is. A *ValidationError matches the sentinel with the
// same Code regardless of its input and cause.
var (
	ErrInvalidIdentifier  = &ValidationError{Code: CodeInvalidIdentifier}
	ErrInvalidTimestamp   = &ValidationError{Code: CodeInvalidTimestamp}
	ErrInvalidMimeType    = &ValidationError{Code: CodeInvalidMimeType}
	ErrInvalidCursorValue = &ValidationError{Code: CodeInvalidCursorValue}
	ErrInvalidCursor      = &ValidationError{Code: CodeInvalidCursor}
	ErrInvalidImage       = &ValidationError{Code: CodeInvalidImage}
)

// ValidationError reports input that cannot be turned into a scalar value.
//
// Validation errors are never transient: retrying with the same input fails
// the same way.
type ValidationError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Input is the rejected value, truncated for display.
	Input string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %q: %v", e.Code, e.Input, e.Err)
	}
	if e.Input != "" {
		return fmt.Sprintf("%s: %q", e.Code, e.Input)
	}
	return string(e.Code)
}

// Unwrap returns the underlying cause.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *ValidationError with the same code.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// IsValidationError returns true if err (or anything it wraps) is a
// *ValidationError of any code.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

const maxInputLen = 64

func newValidationError(code ErrorCode, input string, cause error) *ValidationError {
	if len(input) > maxInputLen {
		input = input[:maxInputLen] + "..."
	}
	return &ValidationError{Code: code, Input: input, Err: cause}
}
