// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. The session layer uses the kinds to decide how a failed
// identity call affects the session (an immediate logout or a deferred one) without
// matching on error strings.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// so callers can still reach the cause with errors.Is and errors.As.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// KindRejected indicates the identity service answered with a non-2xx status.
	KindRejected Kind = "rejected"
	// KindTransport indicates the request never produced a response.
	KindTransport Kind = "transport"
	// KindDecode indicates a 2xx response whose body could not be decoded.
	KindDecode Kind = "decode"
	// KindStore indicates the token store failed to read or write.
	KindStore Kind = "store"
	// KindConfig indicates invalid or unreadable configuration.
	KindConfig Kind = "config"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	// Status carries the HTTP status code for KindRejected errors.
	Status int
	Err    error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Rejected builds a KindRejected error for the given HTTP status.
func Rejected(status int, msg string) *E {
	return &E{Kind: KindRejected, Message: msg, Status: status}
}

// KindOf returns the kind of the first *E in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
