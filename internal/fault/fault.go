package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline error so that stage boundaries and callers can
// react without string matching.
type Kind string

const (
	// Validation marks malformed or missing required input. Caught at stage
	// entry, never retried.
	Validation Kind = "validation"
	// ModelUnavailable marks an embedding backend that failed to initialize.
	// Fatal for the run.
	ModelUnavailable Kind = "model_unavailable"
	// Embedding marks a text that could not be vectorized. Fatal for the run.
	Embedding Kind = "embedding"
	// DimensionMismatch marks a contract violation between the embedding
	// provider and the similarity scorer. Indicates a programming defect.
	DimensionMismatch Kind = "dimension_mismatch"
	// Notification marks a single recipient whose delivery failed. Recorded
	// per recipient, non-fatal to the run.
	Notification Kind = "notification"
	// Unknown is assigned to errors that carry no explicit kind.
	Unknown Kind = "unknown"
)

// Error is a classified pipeline error. Context names the stage or record
// the error belongs to.
type Error struct {
	Kind    Kind
	Context string
	msg     string
	wrapped error
}

func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s", e.Context, e.msg)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.wrapped }

// New creates a classified error.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, msg: msg}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an existing error, preserving it for errors.Is/As chains.
// Wrapping a nil error returns nil.
func Wrap(kind Kind, err error, msg string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, msg: fmt.Sprintf("%s: %v", msg, err), wrapped: err}
}

// WithContext returns a copy of the error labelled with the given context.
func (e *Error) WithContext(context string) *Error {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Context = context
	return &clone
}

// KindOf reports the kind of err, walking the wrap chain. Errors outside the
// taxonomy report Unknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}

// Is reports whether err belongs to the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
