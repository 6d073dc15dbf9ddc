package wasm

// Binary format constants.
const (
	magic   = 0x6d736100 // "\0asm"
	version = 1

	sectionType     = 1
	sectionFunction = 3
	sectionMemory   = 5
	sectionGlobal   = 6
	sectionExport   = 7
	sectionCode     = 10

	funcTypeByte = 0x60

	kindFunc   = 0x00
	kindMemory = 0x02
	kindGlobal = 0x03
)

// FuncType is a function signature.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Module is a WebAssembly core module under construction.
type Module struct {
	types    []FuncType
	funcs    []funcDef
	memories []memoryDef
	globals  []globalDef
	exports  []exportDef
}

type funcDef struct {
	typeIdx uint32
	locals  []ValType
	body    []byte
}

type memoryDef struct {
	minPages uint32
}

type globalDef struct {
	valType ValType
	mutable bool
	init    []byte
}

type exportDef struct {
	name string
	kind byte
	idx  uint32
}

// NewModule creates an empty module.
func NewModule() *Module {
	return &Module{}
}

// AddType registers a function signature and returns its type index.
// Identical signatures are deduplicated.
func (m *Module) AddType(ft FuncType) uint32 {
	for i, t := range m.types {
		if typeEq(t, ft) {
			return uint32(i)
		}
	}
	m.types = append(m.types, ft)
	return uint32(len(m.types) - 1)
}

func typeEq(a, b FuncType) bool {
	if len(a.Params) != len(b.Params) || len(a.Results) != len(b.Results) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	for i := range a.Results {
		if a.Results[i] != b.Results[i] {
			return false
		}
	}
	return true
}

// AddFunc registers a function with extra locals and an instruction body
// (which must end with End). It returns the function index.
func (m *Module) AddFunc(typeIdx uint32, locals []ValType, body []byte) uint32 {
	m.funcs = append(m.funcs, funcDef{typeIdx: typeIdx, locals: locals, body: body})
	return uint32(len(m.funcs) - 1)
}

// AddMemory registers a linear memory with a minimum page count and returns
// its index.
func (m *Module) AddMemory(minPages uint32) uint32 {
	m.memories = append(m.memories, memoryDef{minPages: minPages})
	return uint32(len(m.memories) - 1)
}

// AddGlobal registers a global and returns its index. init must be a
// constant initializer expression ending with End.
func (m *Module) AddGlobal(vt ValType, mutable bool, init []byte) uint32 {
	m.globals = append(m.globals, globalDef{valType: vt, mutable: mutable, init: init})
	return uint32(len(m.globals) - 1)
}

// ExportFunc exports a function under name. The same function may be
// exported under several names.
func (m *Module) ExportFunc(name string, fnIdx uint32) {
	m.exports = append(m.exports, exportDef{name: name, kind: kindFunc, idx: fnIdx})
}

// ExportMemory exports a memory under name.
func (m *Module) ExportMemory(name string, memIdx uint32) {
	m.exports = append(m.exports, exportDef{name: name, kind: kindMemory, idx: memIdx})
}

// Encode encodes the module to the WebAssembly binary format.
func (m *Module) Encode() []byte {
	out := make([]byte, 0, 256)
	out = append(out,
		byte(magic&0xff), byte(magic>>8&0xff), byte(magic>>16&0xff), byte(magic>>24),
		byte(version), byte(version>>8), byte(version>>16), byte(version>>24))

	// Type section
	if len(m.types) > 0 {
		sec := AppendUleb(nil, uint64(len(m.types)))
		for _, ft := range m.types {
			sec = append(sec, funcTypeByte)
			sec = appendValTypes(sec, ft.Params)
			sec = appendValTypes(sec, ft.Results)
		}
		out = appendSection(out, sectionType, sec)
	}

	// Function section
	if len(m.funcs) > 0 {
		sec := AppendUleb(nil, uint64(len(m.funcs)))
		for _, f := range m.funcs {
			sec = AppendUleb(sec, uint64(f.typeIdx))
		}
		out = appendSection(out, sectionFunction, sec)
	}

	// Memory section
	if len(m.memories) > 0 {
		sec := AppendUleb(nil, uint64(len(m.memories)))
		for _, mem := range m.memories {
			sec = append(sec, 0x00) // min only
			sec = AppendUleb(sec, uint64(mem.minPages))
		}
		out = appendSection(out, sectionMemory, sec)
	}

	// Global section
	if len(m.globals) > 0 {
		sec := AppendUleb(nil, uint64(len(m.globals)))
		for _, g := range m.globals {
			sec = append(sec, byte(g.valType))
			if g.mutable {
				sec = append(sec, 0x01)
			} else {
				sec = append(sec, 0x00)
			}
			sec = append(sec, g.init...)
		}
		out = appendSection(out, sectionGlobal, sec)
	}

	// Export section
	if len(m.exports) > 0 {
		sec := AppendUleb(nil, uint64(len(m.exports)))
		for _, e := range m.exports {
			sec = AppendUleb(sec, uint64(len(e.name)))
			sec = append(sec, e.name...)
			sec = append(sec, e.kind)
			sec = AppendUleb(sec, uint64(e.idx))
		}
		out = appendSection(out, sectionExport, sec)
	}

	// Code section
	if len(m.funcs) > 0 {
		sec := AppendUleb(nil, uint64(len(m.funcs)))
		for _, f := range m.funcs {
			body := encodeLocals(f.locals)
			body = append(body, f.body...)
			sec = AppendUleb(sec, uint64(len(body)))
			sec = append(sec, body...)
		}
		out = appendSection(out, sectionCode, sec)
	}

	return out
}

func appendSection(out []byte, id byte, content []byte) []byte {
	out = append(out, id)
	out = AppendUleb(out, uint64(len(content)))
	return append(out, content...)
}

func appendValTypes(dst []byte, vts []ValType) []byte {
	dst = AppendUleb(dst, uint64(len(vts)))
	for _, vt := range vts {
		dst = append(dst, byte(vt))
	}
	return dst
}

// encodeLocals encodes the local declarations, grouping consecutive locals
// of the same type.
func encodeLocals(locals []ValType) []byte {
	type group struct {
		vt    ValType
		count uint32
	}
	var groups []group
	for _, vt := range locals {
		if len(groups) > 0 && groups[len(groups)-1].vt == vt {
			groups[len(groups)-1].count++
			continue
		}
		groups = append(groups, group{vt: vt, count: 1})
	}

	out := AppendUleb(nil, uint64(len(groups)))
	for _, g := range groups {
		out = AppendUleb(out, uint64(g.count))
		out = append(out, byte(g.vt))
	}
	return out
}
