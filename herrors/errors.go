// Package herrors defines the error taxonomy shared by every package in
// this module: a small closed set of Kinds, each with a sentinel value
// so callers can classify failures with errors.Is without parsing
// strings, following the sentinel-error convention surveyed in
// katalvlaran-lvlath/core (ErrVertexNotFound, ErrEdgeNotFound, ...).
package herrors

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation failed.
type Kind int

const (
	// BadSpec: the textual DFA specification is malformed.
	BadSpec Kind = iota
	// BadLtl: an LTL formula failed to parse or translate to a DFA.
	BadLtl
	// BadKey: a key file is missing, truncated, or was generated under
	// different Parameters than the operation requires.
	BadKey
	// BadInput: an encrypted input stream is malformed or its declared
	// size does not match the stream actually present.
	BadInput
	// BadConfig: the CLI was invoked with an invalid combination of
	// flags (unknown strategy, d1 out of range, ...).
	BadConfig
	// Fatal: an unrecoverable internal failure (e.g. arithmetic that
	// violates this package's own invariants). Never used for
	// end-of-stream, which is not an error — see stream.ErrEndOfStream.
	Fatal
)

func (k Kind) String() string {
	switch k {
	case BadSpec:
		return "bad-spec"
	case BadLtl:
		return "bad-ltl"
	case BadKey:
		return "bad-key"
	case BadInput:
		return "bad-input"
	case BadConfig:
		return "bad-config"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind.
type Error struct {
	Kind Kind
	Op   string // short name of the failing operation, e.g. "graph.FromSpec"
	Err  error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the Kind sentinel for e.Kind, so that
// errors.Is(err, herrors.BadSpec) works directly against a Kind value.
func (e *Error) Is(target error) bool {
	if k, ok := target.(Kind); ok {
		return e.Kind == k
	}
	return false
}

// Error implements the error interface on Kind itself, so a bare Kind
// value can be used both as an errors.Is target and, rarely, as a
// standalone error.
func (k Kind) Error() string { return k.String() }

// New builds an *Error of the given kind wrapping msg.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Err: errors.New(msg)}
}

// Wrap builds an *Error of the given kind wrapping err. Returns nil if
// err is nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Wrapf is Wrap with fmt.Errorf-style formatting of the message.
func Wrapf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Is reports whether err carries Kind k, anywhere in its Unwrap chain.
func Is(err error, k Kind) bool {
	return errors.Is(err, k)
}
