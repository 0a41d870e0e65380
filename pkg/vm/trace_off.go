//go:build !lumen_trace

package vm

// traceExecution is a no-op without -tags lumen_trace: release builds
// never touch the disassembler on the hot dispatch path (§4.5).
func traceExecution(vm *VM, frame *callFrame) {}
