package triage

import (
	"errors"
	"fmt"
)

// Kind tags a failure so callers can map it to a response without string
// matching.
type Kind string

const (
	// KindValidation means the caller supplied bad input. Not retryable.
	KindValidation Kind = "validation"

	// KindNotFound means a referenced patient or doctor does not exist.
	KindNotFound Kind = "not_found"

	// KindServiceUnavailable means the classifier was unreachable or timed
	// out. The caller may resubmit; the service itself never retries.
	KindServiceUnavailable Kind = "service_unavailable"

	// KindClassificationFailed means the classifier was reachable but
	// returned an error payload.
	KindClassificationFailed Kind = "classification_failed"

	// KindPersistence means a store operation failed. No partial patient
	// state is left visible.
	KindPersistence Kind = "persistence"
)

// Error carries a failure kind and human-readable detail.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a tagged error without a cause.
func E(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Ef builds a tagged error with a formatted message.
func Ef(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error with a kind and detail.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the Kind from an error chain. Untagged errors report an
// empty Kind.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}
