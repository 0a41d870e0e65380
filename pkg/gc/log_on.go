//go:build lumen_gclog

package gc

import "fmt"

// logGC writes collection trace output to the Heap's Log writer when one is
// set. This file is only compiled with -tags lumen_gclog (without the tag,
// log_off.go's no-op is used), matching the reference VM's DEBUG_LOG_GC
// toggle.
func logGC(h *Heap, format string, args ...interface{}) {
	w := h.Log
	if w == nil {
		return
	}
	fmt.Fprintf(w, format, args...)
}
