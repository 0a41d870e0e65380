package vm

import (
	"github.com/kristofer/lumen/pkg/gc"
	"github.com/kristofer/lumen/pkg/object"
	"github.com/kristofer/lumen/pkg/value"
)

// MarkRoots marks everything the collector must treat as reachable from
// this VM: the live portion of the value stack, every active call frame's
// closure, the open-upvalue list, the globals table, and the cached
// "init" string (§3 invariant 1, §4.2 "Roots").
func (vm *VM) MarkRoots(h *gc.Heap) {
	for i := 0; i < vm.sp; i++ {
		h.MarkValue(vm.stack[i])
	}
	for i := range vm.frames {
		h.Mark(vm.frames[i].closure)
	}
	for uv := vm.openUpvalues; uv != nil; uv = uv.NextOpen {
		h.Mark(uv)
	}
	vm.globals.Each(func(key *object.String, v interface{}) {
		h.Mark(key)
		if val, ok := v.(value.Value); ok {
			h.MarkValue(val)
		}
	})
	if vm.initString != nil {
		h.Mark(vm.initString)
	}
}
