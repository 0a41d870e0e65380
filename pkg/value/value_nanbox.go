//go:build lumen_nanbox

package value

import (
	"math"
	"unsafe"
)

// Value is the NaN-boxed representation: every Value is a single uint64.
// Numbers are their own IEEE-754 bit pattern. Every other variant is
// encoded in the payload of a quiet NaN, which the IEEE-754 standard
// guarantees no legitimate arithmetic result will ever produce:
//
//	sign | 11111111111 1 | payload (51 bits)
//	      \_____________/
//	        quiet NaN exponent, quiet bit set
//
// The sign bit, when set together with the quiet-NaN exponent, marks an
// object reference; the low 48 bits of the payload then hold a pointer to
// the object's Header. Without the sign bit, the low 2 bits of the payload
// distinguish nil/false/true.
//
// Hiding a Go pointer inside a uint64 would normally be unsafe with a
// moving, precise collector: the runtime could not see or update the
// pointer. lumen's Go heap objects are never moved by the Go runtime (they
// are allocated once via `new` and referenced thereafter only via pointers,
// never copied), and every live object is additionally kept reachable from
// value.Obj's intrusive Next() list rooted at the gc.Heap regardless of
// whether any Value currently boxes it — so Go's own collector always sees
// a live, ordinary pointer to the object through that list, and boxing a
// second, opaque copy of the same address inside a Value's bit pattern
// cannot cause Go to collect it prematurely.
type Value uint64

const (
	qnan    uint64 = 0x7ffc000000000000
	signBit uint64 = 1 << 63

	tagNil   uint64 = 1
	tagFalse uint64 = 2
	tagTrue  uint64 = 3

	payloadMask uint64 = (1 << 48) - 1
)

// Nil is the singleton nil value.
var Nil = Value(qnan | tagNil)

var falseValue = Value(qnan | tagFalse)
var trueValue = Value(qnan | tagTrue)

// Bool constructs a boolean value.
func Bool(b bool) Value {
	if b {
		return trueValue
	}
	return falseValue
}

// Number constructs a numeric value from an IEEE-754 double.
func Number(f float64) Value { return Value(math.Float64bits(f)) }

// FromObj wraps a heap object reference as a Value.
func FromObj(o Obj) Value {
	ptr := objAddr(o)
	return Value(signBit | qnan | (uint64(ptr) & payloadMask))
}

func (v Value) Kind() Kind {
	switch {
	case uint64(v)&qnan != qnan:
		return KindNumber
	case uint64(v)&signBit != 0:
		return KindObj
	case uint64(v) == uint64(trueValue) || uint64(v) == uint64(falseValue):
		return KindBool
	default:
		return KindNil
	}
}

func (v Value) IsNil() bool    { return v == Nil }
func (v Value) IsBool() bool   { return v == trueValue || v == falseValue }
func (v Value) IsNumber() bool { return uint64(v)&qnan != qnan }
func (v Value) IsObj() bool    { return uint64(v)&(qnan|signBit) == (qnan | signBit) }

func (v Value) AsBool() bool      { return v == trueValue }
func (v Value) AsNumber() float64 { return math.Float64frombits(uint64(v)) }

func (v Value) AsObj() Obj {
	ptr := unsafe.Pointer(uintptr(uint64(v) & payloadMask))
	return reifyObj(ptr)
}

// objAddr and reifyObj bridge between a Go interface value (type + data
// word) and the single pointer-sized payload a NaN box can hold. Every
// concrete object type in package object embeds value.Header as its first
// field, so the address of the object equals the address of its Header;
// reifyObj reads the kind out of that Header to decide which concrete
// pointer type to reconstruct.
func objAddr(o Obj) uintptr {
	type iface struct {
		typ  unsafe.Pointer
		data unsafe.Pointer
	}
	return uintptr((*iface)(unsafe.Pointer(&o)).data)
}

func reifyObj(ptr unsafe.Pointer) Obj {
	h := (*Header)(ptr)
	reify := objReifiers[h.kind]
	if reify == nil {
		panic("value: no reifier registered for object kind " + h.kind.String())
	}
	return reify(ptr)
}
