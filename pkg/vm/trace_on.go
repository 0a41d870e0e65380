//go:build lumen_trace

package vm

import (
	"fmt"

	"github.com/kristofer/lumen/pkg/chunk"
)

// traceExecution prints the current value stack followed by a
// disassembly of the instruction about to run, matching the reference
// VM's DEBUG_TRACE_EXECUTION toggle (§4.5, §9). Compiled out entirely
// without -tags lumen_trace so release builds pay zero cost.
func traceExecution(vm *VM, frame *callFrame) {
	fmt.Fprint(vm.Stdout, "          ")
	for i := 0; i < vm.sp; i++ {
		fmt.Fprintf(vm.Stdout, "[ %s ]", formatValue(vm.stack[i]))
	}
	fmt.Fprintln(vm.Stdout)
	chunk.DisassembleInstruction(vm.Stdout, frame.closure.Fn.Chunk, frame.ip)
}
