// Package fatal models the loader's two noreturn error reporters:
// internal_error (programmer-bug assertions) and boot_error (resource
// exhaustion the caller did not opt out of via CAN_FAIL).
//
// Neither reporter returns control to its caller. Go has no noreturn
// annotation, so both are expressed as panics carrying a *Error payload —
// a github.com/pkg/errors-wrapped error with a captured stack, which is
// the Go equivalent of the spec's "a backtrace, then halt." Callers of
// this package must not recover except at the loader's top-level shell
// drop / halt boundary (cmd/bootsim's main, or a test harness that wants
// to assert a fatal path was taken).
package fatal

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind distinguishes the two fatal classes spec §7 defines.
type Kind int

const (
	// Internal reports a programmer-bug assertion: unaligned addresses,
	// zero-size ranges, double free, bad memory type, and similar.
	Internal Kind = iota
	// Boot reports resource exhaustion not covered by CAN_FAIL: the PMM
	// found no satisfying range. A full heap is reported as Internal.
	Boot
)

func (k Kind) String() string {
	if k == Boot {
		return "boot_error"
	}
	return "internal_error"
}

// Error is the payload carried by a fatal panic. It satisfies the error
// interface so test harnesses can inspect a recovered panic with a type
// assertion instead of string matching.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.Message }

// Unwrap exposes the captured stack trace via pkg/errors.
func (e *Error) Unwrap() error { return e.cause }

// StackTrace returns the backtrace captured when the error was raised.
func (e *Error) StackTrace() errors.StackTrace {
	type stackTracer interface{ StackTrace() errors.StackTrace }
	if st, ok := e.cause.(stackTracer); ok {
		return st.StackTrace()
	}
	return nil
}

// Reporter is the loader's fatal-error hook. Internal and Boot panic with
// a *Error after logging it through the reporter's sink, if one is set.
type Reporter struct {
	// Sink receives the formatted message before the panic unwinds, e.g.
	// a bootlog.Console. Nil is valid: the message is simply not logged.
	Sink interface {
		Errorf(format string, args ...interface{})
	}
}

// Internal raises a programmer-bug fatal error. It never returns.
func (r Reporter) Internal(format string, args ...interface{}) {
	r.raise(Internal, format, args...)
}

// Boot raises a resource-exhaustion fatal error. It never returns. Callers
// that set CAN_FAIL must not call this; they should return a failure
// sentinel instead, per spec §4.2.2 and §7.
func (r Reporter) Boot(format string, args ...interface{}) {
	r.raise(Boot, format, args...)
}

func (r Reporter) raise(kind Kind, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if r.Sink != nil {
		r.Sink.Errorf("%s: %s", kind, msg)
	}
	err := &Error{Kind: kind, Message: msg, cause: errors.New(msg)}
	panic(err)
}

// Default is a Reporter with no sink, suitable for code that has no
// console to log through but still needs to fail fatally. It behaves the
// same as a zero-value Reporter.
var Default = Reporter{}
