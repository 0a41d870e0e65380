//go:build !lumen_gclog

package gc

// logGC is a no-op in default builds: collection tracing is compiled out
// entirely rather than merely silenced at runtime, matching a C build
// without DEBUG_LOG_GC defined.
func logGC(h *Heap, format string, args ...interface{}) {}
