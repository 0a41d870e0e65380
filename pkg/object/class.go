package object

import (
	"unsafe"

	"github.com/kristofer/lumen/pkg/value"
)

// Class is a runtime class object: a name and a method table. Single
// inheritance is modeled by copying the superclass's method table into the
// subclass's at OP_INHERIT time (rather than a live superclass pointer),
// matching the "methods resolved at class-creation time" semantics of §4.8.
type Class struct {
	value.Header
	Name    *String
	Methods map[*String]*Closure
}

func init() {
	value.RegisterObjKind(value.ObjClassKind, func(p unsafe.Pointer) value.Obj {
		return (*Class)(p)
	})
}

func NewClass(name *String) *Class {
	return &Class{Header: value.NewHeader(value.ObjClassKind), Name: name, Methods: map[*String]*Closure{}}
}

func (c *Class) String() string { return "<class " + c.Name.Chars + ">" }

func (c *Class) Size() uintptr {
	return unsafe.Sizeof(*c) + uintptr(len(c.Methods))*(unsafe.Sizeof((*String)(nil))+unsafe.Sizeof((*Closure)(nil)))
}

// Instance is a live object of some Class: its class pointer plus its own
// field table, populated lazily as fields are first assigned (§4.8).
type Instance struct {
	value.Header
	Class  *Class
	Fields map[*String]value.Value
}

func init() {
	value.RegisterObjKind(value.ObjInstanceKind, func(p unsafe.Pointer) value.Obj {
		return (*Instance)(p)
	})
}

func NewInstance(class *Class) *Instance {
	return &Instance{Header: value.NewHeader(value.ObjInstanceKind), Class: class, Fields: map[*String]value.Value{}}
}

func (i *Instance) String() string { return "<instance " + i.Class.Name.Chars + ">" }

func (i *Instance) Size() uintptr {
	var zero value.Value
	return unsafe.Sizeof(*i) + uintptr(len(i.Fields))*(unsafe.Sizeof((*String)(nil))+unsafe.Sizeof(zero))
}

// BoundMethod pairs a receiver instance with one of its class's closures, so
// that `instance.method` produces a first-class callable that still knows
// `this` when later invoked bare (§4.8).
type BoundMethod struct {
	value.Header
	Receiver value.Value
	Method   *Closure
}

func init() {
	value.RegisterObjKind(value.ObjBoundMethodKind, func(p unsafe.Pointer) value.Obj {
		return (*BoundMethod)(p)
	})
}

func NewBoundMethod(receiver value.Value, method *Closure) *BoundMethod {
	return &BoundMethod{Header: value.NewHeader(value.ObjBoundMethodKind), Receiver: receiver, Method: method}
}

func (b *BoundMethod) String() string { return b.Method.String() }
func (b *BoundMethod) Size() uintptr  { return unsafe.Sizeof(*b) }
