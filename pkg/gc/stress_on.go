//go:build lumen_stressgc

package gc

// shouldCollect forces a collection before every single allocation,
// matching the reference VM's DEBUG_STRESS_GC toggle. This is brutally
// slow; it exists only to shake out marking bugs (an object reachable only
// through a root the collector forgot to visit surfaces almost
// immediately).
func shouldCollect(h *Heap) bool { return true }
