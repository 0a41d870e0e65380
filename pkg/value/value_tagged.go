//go:build !lumen_nanbox

package value

// Value is the default tagged-union representation: one field per variant,
// selected by kind. This is the representation used unless the module is
// built with -tags lumen_nanbox (see value_nanbox.go).
type Value struct {
	kind Kind
	num  float64
	obj  Obj
}

// Nil is the singleton nil value.
var Nil = Value{kind: KindNil}

// Bool constructs a boolean value.
func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, num: 1}
	}
	return Value{kind: KindBool, num: 0}
}

// Number constructs a numeric value from an IEEE-754 double.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// FromObj wraps a heap object reference as a Value.
func FromObj(o Obj) Value { return Value{kind: KindObj, obj: o} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNil() bool    { return v.kind == KindNil }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsObj() bool    { return v.kind == KindObj }

func (v Value) AsBool() bool      { return v.num != 0 }
func (v Value) AsNumber() float64 { return v.num }
func (v Value) AsObj() Obj        { return v.obj }
