// Package rawerr defines the error kinds surfaced by the raw-decode and
// DNG-write core.
package rawerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an error surfaced from the core.
type Kind int

const (
	// DecoderFailed means a codec detected an invalid code, a truncated
	// stream, or an unsupported variant of a known codec.
	DecoderFailed Kind = iota
	// Unsupported means the (make, model, mode) tuple is not in the
	// camera registry, or a container feature has no decoder.
	Unsupported
	// IO means the underlying RawSource read failed.
	IO
	// General means a writer precondition was violated (missing required
	// tag, inconsistent shapes) or a decoder panicked.
	General
	// Overflow means a count or offset would not fit in the file's
	// offset width.
	Overflow
)

func (k Kind) String() string {
	switch k {
	case DecoderFailed:
		return "decoder failed"
	case Unsupported:
		return "unsupported"
	case IO:
		return "io"
	case General:
		return "general"
	case Overflow:
		return "overflow"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a typed error carrying one of the five kinds above.
type Error struct {
	Kind Kind
	msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

// Unwrap allows errors.As/errors.Is to see through to the wrapped cause.
func (e *Error) Unwrap() error { return e.Err }

// New creates a new Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, msg: msg}
}

// Newf creates a new Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a stack-carrying cause (via github.com/pkg/errors) to a
// new Error of the given kind.
func Wrap(kind Kind, err error, msg string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, msg: msg, Err: errors.WithStack(err)}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
