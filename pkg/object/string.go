package object

import (
	"unsafe"

	"github.com/kristofer/lumen/pkg/value"
)

// String is an interned, immutable string. The gc.Heap hands out exactly one
// *String per distinct byte sequence (via the intern table in package
// table), so value equality between two strings reduces to pointer equality
// (§4.5).
type String struct {
	value.Header
	Chars string
	Hash  uint32
}

func init() {
	value.RegisterObjKind(value.ObjStringKind, func(p unsafe.Pointer) value.Obj {
		return (*String)(p)
	})
}

// NewString constructs a String with its hash precomputed. It does not
// intern; callers go through gc.Heap.InternString for that.
func NewString(s string) *String {
	return &String{Header: value.NewHeader(value.ObjStringKind), Chars: s, Hash: FNV1a(s)}
}

func (s *String) String() string { return s.Chars }

// Size estimates the string's heap footprint: header overhead plus its
// bytes, used by the heap's growth policy.
func (s *String) Size() uintptr {
	return unsafe.Sizeof(*s) + uintptr(len(s.Chars))
}

// FNV1a is the hash function used both for string interning and for the
// open-addressing table in package table (§4.2 hash table design).
func FNV1a(s string) uint32 {
	var hash uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= 16777619
	}
	return hash
}
