// Package value defines the runtime Value representation shared by the
// compiler, the VM, and the garbage collector.
//
// A Value is a small tagged scalar: nil, a boolean, an IEEE-754 double, or a
// reference to a heap object. Two interchangeable encodings are provided,
// selected at build time:
//
//   - value_tagged.go (default): a tagged union, one field per variant.
//   - value_nanbox.go (build tag lumen_nanbox): a single uint64 with
//     non-number values packed into the quiet-NaN payload space.
//
// Both files expose the exact same exported API (Nil, Bool, Number, FromObj,
// and the Is*/As* predicates below), so the rest of the module never needs
// to know which encoding is active. Heap objects themselves (strings,
// functions, closures, ...) live in package object; this package only knows
// about them through the Obj interface, which is just the shared allocation
// header every heap object embeds.
package value

import "unsafe"

// ObjKind identifies the concrete type of a heap object.
type ObjKind uint8

const (
	ObjStringKind ObjKind = iota
	ObjFunctionKind
	ObjNativeKind
	ObjClosureKind
	ObjUpvalueKind
	ObjClassKind
	ObjInstanceKind
	ObjBoundMethodKind
)

func (k ObjKind) String() string {
	switch k {
	case ObjStringKind:
		return "string"
	case ObjFunctionKind:
		return "function"
	case ObjNativeKind:
		return "native"
	case ObjClosureKind:
		return "closure"
	case ObjUpvalueKind:
		return "upvalue"
	case ObjClassKind:
		return "class"
	case ObjInstanceKind:
		return "instance"
	case ObjBoundMethodKind:
		return "bound method"
	default:
		return "unknown"
	}
}

// Obj is satisfied by every heap object's embedded Header. It is the minimal
// surface the allocator and the tracing collector need: which kind of object
// this is, whether it has been marked this collection, and the next link in
// the intrusive allocation list rooted at the heap.
//
// It is implemented by *object.String, *object.Function, *object.Native,
// *object.Closure, *object.Upvalue, *object.Class, *object.Instance and
// *object.BoundMethod via their embedded value.Header; see package object.
type Obj interface {
	ObjKind() ObjKind
	Marked() bool
	SetMarked(bool)
	Next() Obj
	SetNext(Obj)
	// Size is an estimate, in bytes, of this object's contribution to
	// bytes_allocated; used by the heap growth policy. It does not need to
	// be exact, only monotonic with the object's real footprint.
	Size() uintptr
}

// Header is embedded (by value) in every heap object. It supplies the Obj
// interface via promoted methods, so a concrete object type need only
// embed Header to become a first-class heap object known to the collector.
type Header struct {
	kind   ObjKind
	marked bool
	next   Obj
}

// NewHeader initializes a Header for an object of the given kind. Concrete
// constructors in package object call this before handing the object to the
// allocator.
func NewHeader(kind ObjKind) Header { return Header{kind: kind} }

func (h *Header) ObjKind() ObjKind  { return h.kind }
func (h *Header) Marked() bool      { return h.marked }
func (h *Header) SetMarked(m bool)  { h.marked = m }
func (h *Header) Next() Obj         { return h.next }
func (h *Header) SetNext(o Obj)     { h.next = o }

// Kind reports which variant a Value holds.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindObj
)

// Truthy implements the language's truthiness rule: only nil and the boolean
// false are falsey; every other value, including 0 and the empty string, is
// truthy.
func Truthy(v Value) bool {
	if v.IsNil() {
		return false
	}
	if v.IsBool() {
		return v.AsBool()
	}
	return true
}

// Equal implements value equality (§4.5): same tag required, nil equals
// nil, numbers compare by IEEE-754 equality (so NaN != NaN), booleans by
// value, and objects by identity — which, because strings are interned,
// yields structural string equality for free.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNil:
		return true
	case KindBool:
		return a.AsBool() == b.AsBool()
	case KindNumber:
		return a.AsNumber() == b.AsNumber()
	case KindObj:
		return a.AsObj() == b.AsObj()
	default:
		return false
	}
}

// objReifiers maps an object kind back to a function that reconstructs the
// Obj interface from a raw pointer to its Header. Only the lumen_nanbox
// build actually calls into this (see value_nanbox.go: AsObj); the tagged
// representation stores the interface directly and never needs it. It
// lives here, rather than in value_nanbox.go, so package object can call
// RegisterObjKind unconditionally from a plain init func instead of needing
// its own build-tag split.
var objReifiers [8]func(unsafe.Pointer) Obj

// RegisterObjKind installs the reconstruction function for a concrete heap
// object kind. Package object calls this once per kind from an init func,
// since package value cannot import package object (object imports value).
func RegisterObjKind(kind ObjKind, reify func(unsafe.Pointer) Obj) {
	objReifiers[kind] = reify
}

// TypeName returns the language-level type name used in runtime error
// messages and the native `type` predicate.
func TypeName(v Value) string {
	switch v.Kind() {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindObj:
		return v.AsObj().ObjKind().String()
	default:
		return "unknown"
	}
}
