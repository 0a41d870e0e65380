package object_test

import (
	"testing"

	"github.com/kristofer/lumen/pkg/object"
	"github.com/kristofer/lumen/pkg/value"
	"github.com/stretchr/testify/require"
)

func TestFNV1aIsStableAndDiscriminating(t *testing.T) {
	require.Equal(t, object.FNV1a("hello"), object.FNV1a("hello"))
	require.NotEqual(t, object.FNV1a("hello"), object.FNV1a("world"))
}

func TestStringNotInternedByConstruction(t *testing.T) {
	a := object.NewString("hi")
	b := object.NewString("hi")
	require.NotSame(t, a, b, "NewString never interns; that's gc.Heap.InternString's job")
	require.Equal(t, a.Hash, b.Hash)
}

func TestClosureAllocatesOneUpvalueSlotPerCapture(t *testing.T) {
	fn := object.NewFunction()
	fn.UpvalCount = 2
	cl := object.NewClosure(fn)
	require.Len(t, cl.Upvalues, 2)
}

func TestUpvalueCloseDetachesFromStack(t *testing.T) {
	slot := value.Number(42)
	uv := object.NewUpvalue(&slot, 3)
	require.Equal(t, 42.0, uv.Location.AsNumber())

	slot = value.Number(43)
	require.Equal(t, 43.0, uv.Location.AsNumber(), "still aliasing the stack slot before Close")

	uv.Close()
	slot = value.Number(44)
	require.Equal(t, 43.0, uv.Location.AsNumber(), "Close must snapshot, not keep aliasing")
}

func TestInstanceFieldsStartEmpty(t *testing.T) {
	class := object.NewClass(object.NewString("Point"))
	inst := object.NewInstance(class)
	require.Empty(t, inst.Fields)
	require.Same(t, class, inst.Class)
}

func TestClassInheritanceCopiesMethodTable(t *testing.T) {
	base := object.NewClass(object.NewString("Base"))
	methodName := object.NewString("greet")
	base.Methods[methodName] = object.NewClosure(object.NewFunction())

	derived := object.NewClass(object.NewString("Derived"))
	for name, method := range base.Methods {
		derived.Methods[name] = method
	}

	_, ok := derived.Methods[methodName]
	require.True(t, ok)

	base.Methods[object.NewString("later")] = object.NewClosure(object.NewFunction())
	require.Len(t, derived.Methods, 1, "copy must be a snapshot, not a live view of the superclass")
}
