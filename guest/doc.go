// Package guest provides a value engine backed by a WebAssembly guest
// module, driven through wazero.
//
// The guest must export the flat binding ABI as core functions:
//
//	renc_startup         () -> ()
//	renc_make_integer    (i64) -> i32
//	renc_unbox_integer   (i32) -> i64
//	renc_unbox_integer_0 (i32) -> i64   legacy indexed path
//	renc_release         (i32) -> ()
//	renc_shutdown        (i32) -> ()
//
// Which unbox export is called is fixed at build time (legacy_unbox build
// tag), mirroring the native engine's strategy selection.
//
// Handle ownership is enforced on the host side: the adapter tracks every
// handle the guest issues, so release-exactly-once and the no-outstanding-
// values shutdown precondition hold even for a guest that does not check.
//
// # Usage
//
//	eng, err := guest.NewEngine(ctx, guest.ReferenceModule(), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
//
//	_ = eng.Startup(ctx)
//	h, _ := eng.MakeInteger(ctx, 1)
//	n, _ := eng.UnboxInteger(ctx, h) // 1
//	_ = eng.Release(ctx, h)
//	_ = eng.Shutdown(ctx, 0)
package guest
