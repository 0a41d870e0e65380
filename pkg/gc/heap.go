// Package gc implements the heap: object allocation, string interning, and
// a tracing mark-sweep collector (§4.2).
//
// This generalizes the injectable-writer debugging pattern smog's
// pkg/vm/debugger.go uses for its VM debugger: here, collection logging is
// controlled by the lumen_gclog build tag (see log_on.go/log_off.go) and
// stress testing by lumen_stressgc (see stress_on.go/stress_off.go),
// mirroring the DEBUG_LOG_GC / DEBUG_STRESS_GC compile-time toggles a C
// build of this VM would use.
package gc

import (
	"io"

	"github.com/kristofer/lumen/pkg/object"
	"github.com/kristofer/lumen/pkg/table"
	"github.com/kristofer/lumen/pkg/value"
)

const growthFactor = 2
const initialNextGC = 1 << 20 // 1 MiB, matching the reference VM's starting threshold

// Root is implemented by anything holding Values or Objs the collector must
// not reclaim: the VM (its value stack, call frames, open upvalues, globals
// table) and the compiler (its in-progress function chain). Collect visits
// every registered Root before tracing.
type Root interface {
	MarkRoots(h *Heap)
}

// Heap owns every live object, the string-intern table, and the collector's
// bookkeeping. There is exactly one Heap per VM instance; nothing here is
// safe for concurrent use (§5: single-threaded, no concurrent GC).
type Heap struct {
	objects   value.Obj
	strings   *table.Table
	gray      []value.Obj
	roots     []Root

	bytesAllocated uintptr
	nextGC         uintptr

	Log io.Writer // under -tags lumen_gclog, a non-nil writer receives collection trace output
}

// New returns an empty heap ready to allocate into.
func New() *Heap {
	return &Heap{
		strings: table.New(),
		nextGC:  initialNextGC,
	}
}

// SetNextGC overrides the heap's initial collection threshold, letting an
// embedder (the CLI's LUMEN_INITIAL_HEAP override) start the growth policy
// from something other than initialNextGC.
func (h *Heap) SetNextGC(n uintptr) {
	h.nextGC = n
}

// AddRoot registers a root source. The VM registers itself once at
// construction; the compiler registers itself for the duration of a single
// Compile call, since "every Compiler currently on the compilation stack"
// must be a root only while it is actually building a function (§4.2).
func (h *Heap) AddRoot(r Root) {
	h.roots = append(h.roots, r)
}

// RemoveRoot unregisters a root previously added with AddRoot. Compile
// calls this once it returns, so a finished compiler's now-dead state
// doesn't keep pinning objects for the lifetime of the VM.
func (h *Heap) RemoveRoot(r Root) {
	for i, root := range h.roots {
		if root == r {
			h.roots = append(h.roots[:i], h.roots[i+1:]...)
			return
		}
	}
}

// Track adds a freshly allocated object to the intrusive object list and
// its size to the allocation total, running a collection first if the
// stress-GC build tag is active or the heap has grown past its threshold.
func (h *Heap) Track(o value.Obj) {
	if shouldCollect(h) {
		h.Collect()
	}
	o.SetNext(h.objects)
	h.objects = o
	h.bytesAllocated += o.Size()
	if h.bytesAllocated > h.nextGC {
		h.logf("-- next_gc %d -> %d\n", h.nextGC, h.bytesAllocated*growthFactor)
		h.nextGC = h.bytesAllocated * growthFactor
	}
}

// InternString returns the canonical *object.String for chars, allocating
// and tracking a new one only if this exact content hasn't been seen
// before. Interning is what makes value.Equal's object-identity comparison
// correct for strings (§4.2, §4.5).
func (h *Heap) InternString(chars string) *object.String {
	hash := object.FNV1a(chars)
	if existing := h.strings.FindString(chars, hash); existing != nil {
		return existing
	}
	s := object.NewString(chars)
	// Track before inserting into the intern table: if tracking triggers a
	// collection, the new string must already be reachable from the object
	// list, not only from a local variable the collector can't see.
	h.Track(s)
	h.strings.Set(s, true)
	return s
}

// Mark roots the given object, pushing it onto the gray worklist the first
// time it's seen this collection. Safe to call with a nil receiver's
// argument being nil (no-op), since many slots the VM marks are empty.
func (h *Heap) Mark(o value.Obj) {
	if o == nil || o.Marked() {
		return
	}
	o.SetMarked(true)
	h.gray = append(h.gray, o)
}

// MarkValue marks v's object payload, if it has one.
func (h *Heap) MarkValue(v value.Value) {
	if v.IsObj() {
		h.Mark(v.AsObj())
	}
}

// Collect runs one full mark-sweep cycle: mark every registered root, trace
// until the gray stack is empty, sweep unmarked objects, and clear marks on
// survivors for the next cycle.
func (h *Heap) Collect() {
	h.logf("-- gc begin\n")
	before := h.bytesAllocated

	for _, r := range h.roots {
		r.MarkRoots(h)
	}
	h.markInternedStringsSurvive()
	for len(h.gray) > 0 {
		o := h.gray[len(h.gray)-1]
		h.gray = h.gray[:len(h.gray)-1]
		h.blacken(o)
	}
	h.sweep()

	h.logf("-- gc end, collected %d bytes (%d -> %d)\n", before-h.bytesAllocated, before, h.bytesAllocated)
}

// markInternedStringsSurvive intentionally does nothing: the intern table
// holds weak references. An interned string that nothing else reaches is
// swept like any other unreached object, and sweep below removes its
// dangling intern-table entry too.
func (h *Heap) markInternedStringsSurvive() {}

func (h *Heap) blacken(o value.Obj) {
	switch v := o.(type) {
	case *object.String:
		// no outgoing references
	case *object.Upvalue:
		h.MarkValue(*v.Location)
	case *object.Function:
		if v.Name != nil {
			h.Mark(v.Name)
		}
		for _, c := range v.Chunk.Constants {
			h.MarkValue(c)
		}
	case *object.Native:
		// no outgoing references
	case *object.Closure:
		h.Mark(v.Fn)
		for _, uv := range v.Upvalues {
			h.Mark(uv)
		}
	case *object.Class:
		h.Mark(v.Name)
		for name, method := range v.Methods {
			h.Mark(name)
			h.Mark(method)
		}
	case *object.Instance:
		h.Mark(v.Class)
		for name, val := range v.Fields {
			h.Mark(name)
			h.MarkValue(val)
		}
	case *object.BoundMethod:
		h.MarkValue(v.Receiver)
		h.Mark(v.Method)
	}
}

// sweep walks the intrusive object list, freeing (by unlinking, letting
// Go's own GC reclaim the memory) everything that wasn't marked, and
// removing dangling intern-table entries for collected strings. Every
// survivor has its mark bit cleared for the next cycle.
func (h *Heap) sweep() {
	var prev value.Obj
	cur := h.objects
	for cur != nil {
		if cur.Marked() {
			cur.SetMarked(false)
			prev = cur
			cur = cur.Next()
			continue
		}
		unreached := cur
		cur = cur.Next()
		if prev != nil {
			prev.SetNext(cur)
		} else {
			h.objects = cur
		}
		h.bytesAllocated -= unreached.Size()
		if s, ok := unreached.(*object.String); ok {
			h.strings.Delete(s)
		}
	}
}

func (h *Heap) logf(format string, args ...interface{}) {
	logGC(h, format, args...)
}
