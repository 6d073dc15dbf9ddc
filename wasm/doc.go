// Package wasm provides a minimal WebAssembly core-module binary builder.
//
// It covers exactly what guest-engine synthesis needs: function types,
// function bodies, one linear memory, mutable globals, and exports. Modules
// are assembled programmatically and encoded to the binary format, so tests
// and demos can synthesize guest engines instead of checking in opaque
// binaries.
//
//	m := wasm.NewModule()
//	ft := m.AddType(wasm.FuncType{Params: []wasm.ValType{wasm.I64}, Results: []wasm.ValType{wasm.I32}})
//
//	a := wasm.NewAsm()
//	a.LocalGet(0)
//	a.End()
//	fn := m.AddFunc(ft, nil, a.Bytes())
//	m.ExportFunc("identity", fn)
//
//	bin := m.Encode()
//
// The builder performs no validation; feeding the output to a real runtime
// (wazero in this repo) is the validation step.
package wasm
