// Package renc provides an embeddable value runtime for Go.
//
// A value runtime ("engine") boxes native scalars into opaque handles and
// unboxes them back. The contract toward an engine is a flat five-operation
// protocol: startup, value construction, value inspection, value release,
// and shutdown.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	renc/          Root package with the Binding contract and lifecycle states
//	├── engine/    Native in-process value engine
//	├── guest/     wazero-backed engine driving a WebAssembly guest module
//	├── harness/   Lifecycle harness: create -> inspect -> release -> shutdown
//	├── value/     Boxed cell model and handle table
//	├── wasm/      Minimal core-module binary builder for guest synthesis
//	└── errors/    Structured error types for debugging
//
// # Quick Start
//
// Drive the native engine through one round-trip:
//
//	eng := engine.New(nil)
//	if err := harness.Run(ctx, eng, 1); err != nil {
//	    log.Fatal(err)
//	}
//
// # Lifecycle
//
// An engine moves through uninitialized -> running -> shutdown, linearly.
// Values are owned by the engine that created them: every handle must be
// released exactly once, before shutdown. Shutdown with outstanding values
// is rejected.
//
// # Thread Safety
//
// The binding protocol is single-threaded and synchronous. Exactly one
// engine may be running per process; a second Startup fails until the first
// engine has shut down.
package renc
