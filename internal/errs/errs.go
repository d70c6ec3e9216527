// Package errs provides the error type used across the service: an error
// kind plus a human-readable message, instead of exceptions carrying
// stack locations.
package errs

import "fmt"

type Kind string

const (
	KindConfig      Kind = "config"      // missing or unreadable configuration
	KindEnvironment Kind = "environment" // missing required environment variables
	KindProvider    Kind = "provider"    // an external API call failed
	KindInput       Kind = "input"       // unusable caller input
)

type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates a cause with a kind and message. Returns nil if err is nil.
func Wrap(err error, kind Kind, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}
