package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Internal message (for logs)
	Metadata map[string]string // Additional context for messages
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf is New with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// WithMetadata creates a domain error with metadata.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Sentinels usable with errors.Is.
var (
	ErrInvalidWager      = New(CodeInvalidWager, "invalid wager")
	ErrInsufficientFunds = New(CodeInsufficientFunds, "insufficient funds")
	ErrIllegalTransition = New(CodeIllegalTransition, "illegal transition")
	ErrExhaustedAttempt  = New(CodeExhaustedAttempt, "attempt exhausted")
	ErrNotFound          = New(CodeNotFound, "not found")
	ErrGameOver          = New(CodeGameOver, "game over")
	ErrRevealPending     = New(CodeRevealPending, "reveal pending")
	ErrRemoteAuthority   = New(CodeRemoteAuthorityFailure, "remote authority failure")
)

// CodeOf extracts the code from err, or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// Retryable reports whether err is worth retrying unchanged.
func Retryable(err error) bool {
	return err != nil && CodeOf(err).Retryable()
}

// UserMessage renders err as a short user-facing message. Metadata keys are
// appended in sorted order so the text is stable.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return userMessages[CodeUnknown]
	}
	msg := userMessages[e.Code]
	if msg == "" {
		msg = userMessages[CodeUnknown]
	}
	if reason, ok := e.Metadata["reason"]; ok {
		msg = msg + " " + reason
	}
	if len(e.Metadata) == 0 {
		return msg
	}
	keys := make([]string, 0, len(e.Metadata))
	for k := range e.Metadata {
		if k != "reason" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+e.Metadata[k])
	}
	if len(parts) > 0 {
		msg = msg + " (" + strings.Join(parts, ", ") + ")"
	}
	return msg
}
