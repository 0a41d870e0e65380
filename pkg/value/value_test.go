package value_test

import (
	"testing"

	"github.com/kristofer/lumen/pkg/object"
	"github.com/kristofer/lumen/pkg/value"
	"github.com/stretchr/testify/require"
)

// These tests exercise only the exported Value API, so they hold under
// either build of package value (the default tagged union or -tags
// lumen_nanbox), matching how the rest of the module is written to never
// know which encoding is active.

func TestNilIsNilAndFalsey(t *testing.T) {
	require.True(t, value.Nil.IsNil())
	require.False(t, value.Truthy(value.Nil))
}

func TestBoolRoundTrips(t *testing.T) {
	require.True(t, value.Bool(true).AsBool())
	require.False(t, value.Bool(false).AsBool())
	require.False(t, value.Truthy(value.Bool(false)))
	require.True(t, value.Truthy(value.Bool(true)))
}

func TestNumberRoundTrips(t *testing.T) {
	v := value.Number(3.5)
	require.True(t, v.IsNumber())
	require.Equal(t, 3.5, v.AsNumber())
	require.True(t, value.Truthy(v), "0 and other numbers are truthy")
	require.True(t, value.Truthy(value.Number(0)))
}

func TestObjRoundTrips(t *testing.T) {
	s := object.NewString("hi")
	v := value.FromObj(s)
	require.True(t, v.IsObj())
	require.Equal(t, value.KindObj, v.Kind())
	require.Same(t, s, v.AsObj())
}

func TestEqualRequiresMatchingKind(t *testing.T) {
	require.True(t, value.Equal(value.Nil, value.Nil))
	require.False(t, value.Equal(value.Nil, value.Bool(false)))
	require.True(t, value.Equal(value.Number(1), value.Number(1)))
	require.False(t, value.Equal(value.Number(1), value.Number(2)))
}

func TestEqualComparesObjectsByIdentity(t *testing.T) {
	a := object.NewString("hi")
	b := object.NewString("hi") // deliberately not interned
	require.False(t, value.Equal(value.FromObj(a), value.FromObj(b)),
		"package value has no interning of its own; identity equality is only structural once gc.Heap interns")
	require.True(t, value.Equal(value.FromObj(a), value.FromObj(a)))
}

func TestTypeNameMatchesKind(t *testing.T) {
	require.Equal(t, "nil", value.TypeName(value.Nil))
	require.Equal(t, "bool", value.TypeName(value.Bool(true)))
	require.Equal(t, "number", value.TypeName(value.Number(1)))
	require.Equal(t, "string", value.TypeName(value.FromObj(object.NewString("hi"))))
}
