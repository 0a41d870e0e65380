package object

import (
	"unsafe"

	"github.com/kristofer/lumen/pkg/value"
)

// Closure pairs a compiled Function with the upvalues it captured at the
// point its enclosing function ran OP_CLOSURE. Every callable value in the
// VM is a Closure over a Function, even for functions that capture nothing
// (§4.3, §4.7 call protocol).
type Closure struct {
	value.Header
	Fn        *Function
	Upvalues  []*Upvalue
}

func init() {
	value.RegisterObjKind(value.ObjClosureKind, func(p unsafe.Pointer) value.Obj {
		return (*Closure)(p)
	})
}

func NewClosure(fn *Function) *Closure {
	return &Closure{
		Header:   value.NewHeader(value.ObjClosureKind),
		Fn:       fn,
		Upvalues: make([]*Upvalue, fn.UpvalCount),
	}
}

func (c *Closure) String() string { return c.Fn.String() }

func (c *Closure) Size() uintptr {
	return unsafe.Sizeof(*c) + uintptr(len(c.Upvalues))*unsafe.Sizeof((*Upvalue)(nil))
}

// Upvalue is a reference cell for a captured local. While its local is still
// on the VM's value stack, Location points directly into the stack slot
// ("open"); once the enclosing call frame returns, OP_CLOSE_UPVALUE copies
// the value into Closed and repoints Location at it ("closed"), so sibling
// closures that captured the same variable keep sharing one cell (§4.7
// upvalue management).
type Upvalue struct {
	value.Header
	Location *value.Value
	Closed   value.Value
	OpenSlot int      // the stack slot Location aliases while open; meaningless once closed
	NextOpen *Upvalue // open-upvalue list link, maintained by the VM, highest stack slot first
}

func init() {
	value.RegisterObjKind(value.ObjUpvalueKind, func(p unsafe.Pointer) value.Obj {
		return (*Upvalue)(p)
	})
}

func NewUpvalue(slot *value.Value, slotIndex int) *Upvalue {
	return &Upvalue{Header: value.NewHeader(value.ObjUpvalueKind), Location: slot, OpenSlot: slotIndex}
}

// Close copies the referenced value into the cell itself and repoints
// Location at it, detaching the upvalue from the VM's stack.
func (u *Upvalue) Close() {
	u.Closed = *u.Location
	u.Location = &u.Closed
}

func (u *Upvalue) String() string { return "<upvalue>" }
func (u *Upvalue) Size() uintptr  { return unsafe.Sizeof(*u) }
