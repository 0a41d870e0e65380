package vm

import "fmt"

// runtimeError formats and records a fatal runtime fault (§7), building a
// stack trace from every currently active call frame before resetting the
// VM's stack. It is the error path for helpers (callValue, call, invoke,
// bindMethod, invokeFromClass) that only have a bool success return — the
// dispatch loop retrieves the recorded error via lastError once the bool
// propagates back up to it.
func (vm *VM) runtimeError(format string, args ...interface{}) {
	vm.lastErr = vm.captureRuntimeError(fmt.Sprintf(format, args...))
	vm.resetStack()
}

// runtimeErrorAt is runtimeError for call sites inside run's dispatch
// switch that can return the error directly instead of a bool.
func (vm *VM) runtimeErrorAt(frame *callFrame, format string, args ...interface{}) error {
	vm.runtimeError(format, args...)
	return vm.lastErr
}

// lastError returns the error most recently recorded by runtimeError. It
// exists so a bool-returning helper's failure can be turned back into the
// error run's switch statement needs to return.
func (vm *VM) lastError(frame *callFrame) error {
	return vm.lastErr
}

// captureRuntimeError builds the stack trace a RuntimeError carries,
// walking frames from the script (bottom) to the currently executing call
// (top) so RuntimeError.Error can print top-down as §4.5/§7 require.
func (vm *VM) captureRuntimeError(message string) *RuntimeError {
	trace := make([]StackFrame, 0, len(vm.frames))
	for i := 0; i < len(vm.frames); i++ {
		f := &vm.frames[i]
		line := f.closure.Fn.Chunk.LineAt(f.ip - 1)
		name := "script"
		if f.closure.Fn.Name != nil {
			name = f.closure.Fn.Name.Chars + "()"
		}
		trace = append(trace, StackFrame{Name: name, SourceLine: line})
	}
	return newRuntimeError(message, trace)
}
