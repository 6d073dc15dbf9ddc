package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates which binding operation the error occurred in
type Phase string

const (
	PhaseStartup   Phase = "startup"  // engine initialization
	PhaseConstruct Phase = "construct" // value boxing
	PhaseUnbox     Phase = "unbox"    // value inspection
	PhaseRelease   Phase = "release"  // handle release
	PhaseShutdown  Phase = "shutdown" // engine teardown
	PhaseLoad      Phase = "load"     // guest module loading
	PhaseCall      Phase = "call"     // guest export invocation
)

// Kind categorizes the error
type Kind string

const (
	KindNotRunning        Kind = "not_running"
	KindAlreadyStarted    Kind = "already_started"
	KindInvalidHandle     Kind = "invalid_handle"
	KindUseAfterRelease   Kind = "use_after_release"
	KindOutstandingValues Kind = "outstanding_values"
	KindTypeMismatch      Kind = "type_mismatch"
	KindOverflow          Kind = "overflow"
	KindAssertionFailed   Kind = "assertion_failed"
	KindEngineUnavailable Kind = "engine_unavailable"
	KindMissingExport     Kind = "missing_export"
	KindInvalidData       Kind = "invalid_data"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause     error
	Phase     Phase
	Kind      Kind
	ValueKind string
	Detail    string
	Handle    uint32
	HasHandle bool
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.HasHandle {
		fmt.Fprintf(&b, " handle=%d", e.Handle)
	}

	if e.ValueKind != "" {
		b.WriteString(" kind=")
		b.WriteString(e.ValueKind)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Handle sets the offending handle
func (b *Builder) Handle(h uint32) *Builder {
	b.err.Handle = h
	b.err.HasHandle = true
	return b
}

// ValueKind sets the cell kind involved
func (b *Builder) ValueKind(k string) *Builder {
	b.err.ValueKind = k
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NotRunning creates an error for an operation attempted outside the
// running state
func NotRunning(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotRunning,
		Detail: "engine is not running",
	}
}

// AlreadyStarted creates an error for a second Startup without an
// intervening shutdown
func AlreadyStarted() *Error {
	return &Error{
		Phase:  PhaseStartup,
		Kind:   KindAlreadyStarted,
		Detail: "another engine is already running in this process",
	}
}

// InvalidHandle creates an error for a handle the engine never issued
func InvalidHandle(phase Phase, handle uint32) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindInvalidHandle,
		Handle:    handle,
		HasHandle: true,
		Detail:    "handle is not a live value",
	}
}

// UseAfterRelease creates an error for a handle that was already released
func UseAfterRelease(phase Phase, handle uint32) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindUseAfterRelease,
		Handle:    handle,
		HasHandle: true,
		Detail:    "handle was already released",
	}
}

// OutstandingValues creates an error for shutdown with live values
func OutstandingValues(count int) *Error {
	return &Error{
		Phase:  PhaseShutdown,
		Kind:   KindOutstandingValues,
		Detail: fmt.Sprintf("%d value(s) still outstanding", count),
	}
}

// TypeMismatch creates an error for unboxing a cell of the wrong kind
func TypeMismatch(phase Phase, handle uint32, got, want string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindTypeMismatch,
		Handle:    handle,
		HasHandle: true,
		ValueKind: got,
		Detail:    fmt.Sprintf("cannot unbox %s as %s", got, want),
	}
}

// AssertionFailed creates the round-trip mismatch error
func AssertionFailed(got, want int64) *Error {
	return &Error{
		Phase:  PhaseUnbox,
		Kind:   KindAssertionFailed,
		Detail: fmt.Sprintf("round-trip mismatch: got %d, want %d", got, want),
	}
}

// EngineUnavailable creates a fatal initialization error
func EngineUnavailable(cause error) *Error {
	return &Error{
		Phase:  PhaseStartup,
		Kind:   KindEngineUnavailable,
		Detail: "engine failed to initialize",
		Cause:  cause,
	}
}

// MissingExport creates an error for a guest module lacking a required
// entry point
func MissingExport(name string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindMissingExport,
		Detail: fmt.Sprintf("guest does not export %q", name),
	}
}

// Load creates a guest loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Call wraps a failed guest export invocation
func Call(phase Phase, export string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindEngineUnavailable,
		Detail: fmt.Sprintf("call %s", export),
		Cause:  cause,
	}
}

// IsAssertion reports whether err is a round-trip assertion failure.
func IsAssertion(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == KindAssertionFailed
	}
	return false
}

// IsFatal reports whether err is a fatal engine error. Every error that is
// not an assertion failure is fatal; nothing in the protocol is retryable.
func IsFatal(err error) bool {
	return err != nil && !IsAssertion(err)
}
