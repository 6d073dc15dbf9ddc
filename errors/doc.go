// Package errors provides structured error types for the renc library.
//
// Errors are categorized by Phase (which binding operation failed) and Kind
// (error category). The Error type carries the offending handle, the cell
// kind involved, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseUnbox, errors.KindTypeMismatch).
//		Handle(h).
//		ValueKind("decimal").
//		Detail("cannot unbox decimal as integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotRunning(errors.PhaseConstruct)
//	err := errors.UseAfterRelease(errors.PhaseRelease, h)
//
// The harness failure taxonomy is two-valued: everything is fatal except a
// round-trip assertion mismatch. IsAssertion and IsFatal classify an error
// accordingly.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
