// Package engine provides the native in-process value engine.
//
// The engine owns every value it boxes. Its lifecycle is linear:
//
//	uninitialized -> running -> shutdown
//
// Startup must precede any value operation, and Shutdown is only accepted
// once every handle has been released. The engine is a process-wide
// singleton: a second engine cannot start until the running one has shut
// down.
//
// # Usage
//
//	eng := engine.New(nil)
//	if err := eng.Startup(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	h, _ := eng.Integer(ctx, 1)
//	n, _ := eng.UnboxInteger(ctx, h) // 1
//	_ = eng.Release(ctx, h)
//	_ = eng.Shutdown(ctx, 0)
//
// # Unboxing Strategy
//
// Integer unboxing has two entry paths: the direct cell read (default) and
// a legacy indexed table walk. The path is selected at build time with the
// legacy_unbox build tag, never at runtime.
//
// # Thread Safety
//
// The binding protocol is single-threaded. The engine still serializes its
// state transitions internally so that misuse from a second goroutine fails
// cleanly instead of corrupting the value table.
package engine
