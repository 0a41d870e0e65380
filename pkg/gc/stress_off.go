//go:build !lumen_stressgc

package gc

// shouldCollect runs the normal growth-threshold policy: collect only once
// the heap has grown past nextGC.
func shouldCollect(h *Heap) bool { return h.bytesAllocated > h.nextGC }
