// Package apperr defines the error taxonomy shared by the analysis
// pipeline and the HTTP layer. Errors carry a Kind so handlers can map
// them to status codes without string matching.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	// KindInput marks user-correctable request errors (missing file,
	// missing required field).
	KindInput Kind = iota + 1
	// KindExtraction marks a bad or corrupt PDF upload.
	KindExtraction
	// KindClassification marks an AI backend failure during type detection.
	KindClassification
	// KindAnalysisBackend marks an AI backend failure during analysis.
	KindAnalysisBackend
	// KindNotFound marks an absent record. Records owned by another user
	// report the same kind, never a forbidden variant.
	KindNotFound
	// KindPersistence marks a durable store failure.
	KindPersistence
	// KindInfra marks a transient infrastructure failure (cache outage).
	KindInfra
)

// Error is a kind-tagged error. It wraps an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a kind-tagged error with no cause.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap tags an underlying error with a kind and message.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or 0 if err carries no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
