// Package errors defines the error taxonomy shared by the network and match
// packages, plus the CLI. Failures of the kinds below are surfaced as a
// *MatchError carrying that kind; I/O failures such as an unreadable
// document file are returned as ordinary wrapped errors.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a MatchError. The set is closed and matches §7 of the
// specification exactly.
type Kind string

const (
	KindBadInputSchema Kind = "BadInputSchema"
	KindUnknownSection Kind = "UnknownSection"
	KindEmptySection   Kind = "EmptySection"
	KindNoCandidates   Kind = "NoCandidates"
	KindLatticeDeadEnd Kind = "LatticeDeadEnd"
	KindShortTrip      Kind = "ShortTrip"
	KindTimeout        Kind = "Timeout"
)

// MatchError is the concrete error type internal/network and internal/match
// return for the kinds above. It wraps an underlying cause (if any)
// and is comparable by Kind via errors.As.
type MatchError struct {
	kind    Kind
	message string
	cause   error
}

// New builds a MatchError with no wrapped cause.
func New(kind Kind, message string) *MatchError {
	return &MatchError{kind: kind, message: message}
}

// Wrap builds a MatchError wrapping cause, preserving its stack via
// github.com/pkg/errors.
func Wrap(kind Kind, cause error, message string) *MatchError {
	return &MatchError{kind: kind, message: message, cause: errors.WithStack(cause)}
}

// Error implements error.
func (e *MatchError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.message, e.cause)
	}

	return fmt.Sprintf("%s: %s", e.kind, e.message)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *MatchError) Unwrap() error {
	return e.cause
}

// Kind returns the error's classification.
func (e *MatchError) Kind() Kind {
	return e.kind
}

// Is reports whether target is a *MatchError of the same kind, letting
// callers write errors.Is(err, errors.New(KindNoCandidates, "")).
func (e *MatchError) Is(target error) bool {
	other, ok := target.(*MatchError)
	if !ok {
		return false
	}

	return other.kind == e.kind
}

// IsKind reports whether err is a *MatchError of the given kind.
func IsKind(err error, kind Kind) bool {
	var me *MatchError
	if !errors.As(err, &me) {
		return false
	}

	return me.kind == kind
}
