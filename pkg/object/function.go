package object

import (
	"unsafe"

	"github.com/kristofer/lumen/pkg/chunk"
	"github.com/kristofer/lumen/pkg/value"
)

// Function is a compiled function body: its arity, its bytecode, and the
// count of upvalues its closures must capture. The top-level script itself
// compiles to a Function of arity 0 named "<script>" (§4.3).
type Function struct {
	value.Header
	Name        *String
	Arity       int
	UpvalCount  int
	Chunk       *chunk.Chunk
}

func init() {
	value.RegisterObjKind(value.ObjFunctionKind, func(p unsafe.Pointer) value.Obj {
		return (*Function)(p)
	})
}

// NewFunction allocates an empty function shell; the compiler fills in its
// Chunk as it compiles the body.
func NewFunction() *Function {
	return &Function{
		Header: value.NewHeader(value.ObjFunctionKind),
		Chunk:  chunk.New(),
	}
}

// UpvalueCount lets the disassembler read a closure's trailing upvalue
// descriptors without importing package compiler.
func (f *Function) UpvalueCount() int { return f.UpvalCount }

func (f *Function) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return "<fn " + f.Name.Chars + ">"
}

func (f *Function) Size() uintptr {
	return unsafe.Sizeof(*f) + uintptr(len(f.Chunk.Code))
}

// NativeFn is the Go function signature every native (built-in) callable
// must implement: it receives its already-evaluated arguments and returns a
// language-level Value or an error describing why the call failed (§6
// native-function calling contract — only the ABI is in scope, not any
// concrete native library).
type NativeFn func(args []value.Value) (value.Value, error)

// Native wraps a host-provided Go function so it can be stored in a Value
// and called like any other callable.
type Native struct {
	value.Header
	Name  string
	Arity int
	Fn    NativeFn
}

func init() {
	value.RegisterObjKind(value.ObjNativeKind, func(p unsafe.Pointer) value.Obj {
		return (*Native)(p)
	})
}

func NewNative(name string, arity int, fn NativeFn) *Native {
	return &Native{Header: value.NewHeader(value.ObjNativeKind), Name: name, Arity: arity, Fn: fn}
}

func (n *Native) String() string { return "<native fn " + n.Name + ">" }
func (n *Native) Size() uintptr  { return unsafe.Sizeof(*n) }
