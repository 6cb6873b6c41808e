// Package apperr carries typed error kinds end-to-end so callers can branch on
// the kind instead of matching message text.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindConflict
	KindNotFound
	KindFetchFailed
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindFetchFailed:
		return "fetch_failed"
	case KindStorage:
		return "storage_error"
	default:
		return "unknown"
	}
}

// Error wraps a cause with a kind and a caller-safe message.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func InvalidInput(message string) *Error { return New(KindInvalidInput, message) }
func Conflict(message string) *Error     { return New(KindConflict, message) }
func NotFound(message string) *Error     { return New(KindNotFound, message) }

func FetchFailed(message string, cause error) *Error {
	return Wrap(KindFetchFailed, message, cause)
}

func Storage(message string, cause error) *Error {
	return Wrap(KindStorage, message, cause)
}

// KindOf returns the kind of the first *Error in err's chain,
// or KindUnknown when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
