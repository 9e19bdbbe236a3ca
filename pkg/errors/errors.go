// Package errors provides structured error types shared across azops packages.
//
// Every error produced by the command runner, the retry loop and the chat clients
// carries an ErrorCode so callers can branch on the failure kind without string
// matching:
//
//	if errors.IsCode(err, errors.ErrCodeNonZeroExit) {
//	    // skip this work item
//	}
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode identifies a class of failure.
type ErrorCode string

const (
	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeSpawnFailed      ErrorCode = "SPAWN_FAILED"
	ErrCodeNonZeroExit      ErrorCode = "NON_ZERO_EXIT"
	ErrCodeMalformedOutput  ErrorCode = "MALFORMED_OUTPUT"
	ErrCodeTimeout          ErrorCode = "TIMEOUT"
	ErrCodeExhaustedRetries ErrorCode = "EXHAUSTED_RETRIES"
	ErrCodeEmptyCompletion  ErrorCode = "EMPTY_COMPLETION"
	ErrCodeInternal         ErrorCode = "INTERNAL"
)

// StructuredError is an error with a code, a message, an optional cause and
// optional key/value context used for logging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a StructuredError without a cause.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// Wrap creates a StructuredError around cause.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

// WithContext attaches a key/value pair and returns the receiver.
func (e *StructuredError) WithContext(key string, value any) *StructuredError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Coder is implemented by errors that expose an ErrorCode.
type Coder interface {
	ErrorCode() ErrorCode
}

// ErrorCode implements Coder.
func (e *StructuredError) ErrorCode() ErrorCode {
	return e.Code
}

// CodeOf returns the code of the first error in the chain that carries one,
// or ErrCodeInternal when none does.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var c Coder
	if stderrors.As(err, &c) {
		return c.ErrorCode()
	}
	return ErrCodeInternal
}

// IsCode reports whether any error in err's chain carries code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		if c, ok := err.(Coder); ok && c.ErrorCode() == code {
			return true
		}
		if j, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range j.Unwrap() {
				if IsCode(e, code) {
					return true
				}
			}
			return false
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// Retryable reports whether a failure with the given code is worth retrying.
func Retryable(code ErrorCode) bool {
	switch code {
	case ErrCodeTimeout, ErrCodeEmptyCompletion, ErrCodeInternal:
		return true
	default:
		return false
	}
}
