// Package kverrors defines the static error taxonomy every kernel entry
// point reports through (spec §7). It mirrors the teacher's errors.go shape
// -- a small struct implementing error and Unwrap, carrying enough context
// to print a useful message -- generalized from table/key context to the
// code+message+wrapped-error triple the spec's taxonomy needs.
package kverrors

import (
	"errors"
	"fmt"
)

// Code identifies which failure bucket an Error belongs to. Codes are the
// Go-idiomatic stand-in for the spec's "static, null-terminated string" --
// comparable by value, switchable, and still carrying a human message.
type Code int

const (
	// OpenFailed means DB construction failed (bad config, unreadable
	// snapshot path, backend initialization error).
	OpenFailed Code = iota + 1
	// OOM means an allocation failed inside the kernel, or during commit's
	// capacity-reservation step.
	OOM
	// Stale means an in-txn read observed an entry overwritten after the
	// transaction's start_seq, or commit found a read-set entry whose seq
	// changed since it was read.
	Stale
	// Conflict means commit detected a concurrent mutation touching the
	// transaction's write-set.
	Conflict
	// Reentrant means the same transaction attempted to apply its writes
	// more than once.
	Reentrant
	// Unsupported means the requested control/scan variant isn't
	// implemented.
	Unsupported
	// BadArg means a required argument was nil, a count was negative, or a
	// collection handle wasn't owned by this DB.
	BadArg
)

func (c Code) String() string {
	switch c {
	case OpenFailed:
		return "OPEN_FAILED"
	case OOM:
		return "OOM"
	case Stale:
		return "STALE"
	case Conflict:
		return "CONFLICT"
	case Reentrant:
		return "REENTRANT"
	case Unsupported:
		return "UNSUPPORTED"
	case BadArg:
		return "BAD_ARG"
	default:
		return "UNKNOWN"
	}
}

// Error is the concrete error type returned by every kernel/kvstore/paths
// entry point that can fail. A nil *Error means success, matching the
// spec's "error == null on success" channel.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

// New builds an Error with no wrapped cause.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error that wraps an underlying cause, preserving it for
// errors.Is/errors.As.
func Wrap(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether err is a *Error with the given code, so callers can do
// kverrors.Is(err, kverrors.Conflict) instead of type-asserting by hand.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
