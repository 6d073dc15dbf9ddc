package guest

import (
	"github.com/rencdev/renc/wasm"
)

// ReferenceModule synthesizes a minimal guest engine that implements the
// flat binding ABI. Values live in linear memory at handle*8; the next
// handle and the started flag sit in mutable globals. Handles are not
// reused, which is fine for the reference engine's one-page budget.
//
// Tests and the smoke CLI use it so no opaque binary has to be checked in.
func ReferenceModule() []byte {
	m := wasm.NewModule()

	tVoid := m.AddType(wasm.FuncType{})
	tMake := m.AddType(wasm.FuncType{Params: []wasm.ValType{wasm.I64}, Results: []wasm.ValType{wasm.I32}})
	tUnbox := m.AddType(wasm.FuncType{Params: []wasm.ValType{wasm.I32}, Results: []wasm.ValType{wasm.I64}})
	tDrop := m.AddType(wasm.FuncType{Params: []wasm.ValType{wasm.I32}})

	m.AddMemory(1)
	gNext := m.AddGlobal(wasm.I32, true, wasm.ConstI32Expr(0))
	gStarted := m.AddGlobal(wasm.I32, true, wasm.ConstI32Expr(0))

	// startup: started = 1
	a := wasm.NewAsm()
	a.I32Const(1)
	a.GlobalSet(gStarted)
	a.End()
	startup := m.AddFunc(tVoid, nil, a.Bytes())

	// make_integer(v): handle = ++next; mem[handle*8] = v; return handle
	a = wasm.NewAsm()
	a.GlobalGet(gNext)
	a.I32Const(1)
	a.I32Add()
	a.LocalTee(1)
	a.GlobalSet(gNext)
	a.LocalGet(1)
	a.I32Const(3)
	a.I32Shl()
	a.LocalGet(0)
	a.I64Store(3, 0)
	a.LocalGet(1)
	a.End()
	makeInt := m.AddFunc(tMake, []wasm.ValType{wasm.I32}, a.Bytes())

	// unbox_integer(h): return mem[h*8]
	a = wasm.NewAsm()
	a.LocalGet(0)
	a.I32Const(3)
	a.I32Shl()
	a.I64Load(3, 0)
	a.End()
	unbox := m.AddFunc(tUnbox, nil, a.Bytes())

	// release(h): mem[h*8] = 0
	a = wasm.NewAsm()
	a.LocalGet(0)
	a.I32Const(3)
	a.I32Shl()
	a.I64Const(0)
	a.I64Store(3, 0)
	a.End()
	release := m.AddFunc(tDrop, nil, a.Bytes())

	// shutdown(code): started = 0
	a = wasm.NewAsm()
	a.I32Const(0)
	a.GlobalSet(gStarted)
	a.End()
	shutdown := m.AddFunc(tDrop, nil, a.Bytes())

	m.ExportFunc(ExportStartup, startup)
	m.ExportFunc(ExportMakeInteger, makeInt)
	m.ExportFunc(ExportUnboxInteger, unbox)
	// The legacy entry point resolves the same cells in the reference
	// engine; only the export name differs.
	m.ExportFunc(ExportUnboxIntegerLegacy, unbox)
	m.ExportFunc(ExportRelease, release)
	m.ExportFunc(ExportShutdown, shutdown)
	m.ExportMemory("memory", 0)

	return m.Encode()
}
