// Package harness drives a value engine through the minimal
// create -> inspect -> release -> shutdown cycle and verifies that the
// round-trip preserves the value.
//
// The harness is the correctness assertion surface for a binding: it
// passes only if unboxing returns exactly the integer that was boxed.
// Failures split into two categories: a fatal engine error (the engine
// could not be driven through the protocol) and an assertion failure (the
// round-trip came back wrong). errors.IsFatal and errors.IsAssertion
// distinguish them; ExitCode maps them to process exit codes for test
// runners.
package harness
