package table_test

import (
	"testing"

	"github.com/kristofer/lumen/pkg/object"
	"github.com/kristofer/lumen/pkg/table"
	"github.com/stretchr/testify/require"
)

func TestSetGetOverwrite(t *testing.T) {
	tb := table.New()
	a := object.NewString("alpha")
	isNew := tb.Set(a, 1)
	require.True(t, isNew)

	v, ok := tb.Get(a)
	require.True(t, ok)
	require.Equal(t, 1, v)

	isNew = tb.Set(a, 2)
	require.False(t, isNew)
	v, _ = tb.Get(a)
	require.Equal(t, 2, v)
}

func TestDeleteLeavesTombstoneReachable(t *testing.T) {
	tb := table.New()
	a := object.NewString("a")
	b := object.NewString("b")
	tb.Set(a, "A")
	tb.Set(b, "B")

	require.True(t, tb.Delete(a))
	_, ok := tb.Get(a)
	require.False(t, ok)

	v, ok := tb.Get(b)
	require.True(t, ok)
	require.Equal(t, "B", v)
}

func TestFindStringMatchesByContent(t *testing.T) {
	tb := table.New()
	s := object.NewString("hello")
	tb.Set(s, struct{}{})

	found := tb.FindString("hello", object.FNV1a("hello"))
	require.Same(t, s, found)

	require.Nil(t, tb.FindString("goodbye", object.FNV1a("goodbye")))
}

func TestGrowPreservesEntries(t *testing.T) {
	tb := table.New()
	keys := make([]*object.String, 0, 64)
	for i := 0; i < 64; i++ {
		s := object.NewString(string(rune('a' + i%26)) + string(rune(i)))
		keys = append(keys, s)
		tb.Set(s, i)
	}
	for i, k := range keys {
		v, ok := tb.Get(k)
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	require.Equal(t, 64, tb.Len())
}
