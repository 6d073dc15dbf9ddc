package wasm

// ValType is a WebAssembly value type.
type ValType byte

const (
	I32 ValType = 0x7f
	I64 ValType = 0x7e
	F32 ValType = 0x7d
	F64 ValType = 0x7c
)

// Instruction opcodes (the subset the builder emits).
const (
	opEnd       = 0x0b
	opLocalGet  = 0x20
	opLocalSet  = 0x21
	opLocalTee  = 0x22
	opGlobalGet = 0x23
	opGlobalSet = 0x24
	opI64Load   = 0x29
	opI64Store  = 0x37
	opI32Const  = 0x41
	opI64Const  = 0x42
	opI32Add    = 0x6a
	opI32Shl    = 0x74
)

// Asm accumulates a function body's instruction sequence. Parameters occupy
// the first local indices; extra locals declared on AddFunc follow.
type Asm struct {
	buf []byte
}

// NewAsm creates an empty instruction sequence.
func NewAsm() *Asm {
	return &Asm{buf: make([]byte, 0, 32)}
}

func (a *Asm) LocalGet(idx uint32) *Asm {
	a.buf = append(a.buf, opLocalGet)
	a.buf = AppendUleb(a.buf, uint64(idx))
	return a
}

func (a *Asm) LocalSet(idx uint32) *Asm {
	a.buf = append(a.buf, opLocalSet)
	a.buf = AppendUleb(a.buf, uint64(idx))
	return a
}

func (a *Asm) LocalTee(idx uint32) *Asm {
	a.buf = append(a.buf, opLocalTee)
	a.buf = AppendUleb(a.buf, uint64(idx))
	return a
}

func (a *Asm) GlobalGet(idx uint32) *Asm {
	a.buf = append(a.buf, opGlobalGet)
	a.buf = AppendUleb(a.buf, uint64(idx))
	return a
}

func (a *Asm) GlobalSet(idx uint32) *Asm {
	a.buf = append(a.buf, opGlobalSet)
	a.buf = AppendUleb(a.buf, uint64(idx))
	return a
}

func (a *Asm) I32Const(v int32) *Asm {
	a.buf = append(a.buf, opI32Const)
	a.buf = AppendSleb(a.buf, int64(v))
	return a
}

func (a *Asm) I64Const(v int64) *Asm {
	a.buf = append(a.buf, opI64Const)
	a.buf = AppendSleb(a.buf, v)
	return a
}

func (a *Asm) I32Add() *Asm {
	a.buf = append(a.buf, opI32Add)
	return a
}

func (a *Asm) I32Shl() *Asm {
	a.buf = append(a.buf, opI32Shl)
	return a
}

// I64Load emits an i64 load with the given alignment exponent and offset.
func (a *Asm) I64Load(align, offset uint32) *Asm {
	a.buf = append(a.buf, opI64Load)
	a.buf = AppendUleb(a.buf, uint64(align))
	a.buf = AppendUleb(a.buf, uint64(offset))
	return a
}

// I64Store emits an i64 store with the given alignment exponent and offset.
func (a *Asm) I64Store(align, offset uint32) *Asm {
	a.buf = append(a.buf, opI64Store)
	a.buf = AppendUleb(a.buf, uint64(align))
	a.buf = AppendUleb(a.buf, uint64(offset))
	return a
}

// End terminates the body. Every body must end with it.
func (a *Asm) End() *Asm {
	a.buf = append(a.buf, opEnd)
	return a
}

// Bytes returns the accumulated instruction sequence.
func (a *Asm) Bytes() []byte {
	return a.buf
}

// ConstI32Expr encodes an `i32.const v; end` initializer expression, as
// used for global initializers.
func ConstI32Expr(v int32) []byte {
	buf := []byte{opI32Const}
	buf = AppendSleb(buf, int64(v))
	return append(buf, opEnd)
}
