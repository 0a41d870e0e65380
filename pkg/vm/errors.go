// Package vm implements the stack-based bytecode interpreter: the dispatch
// loop, call frames, upvalue management, and the class/instance runtime
// (§4.5, §4.6, §4.7, §4.8).
package vm

import (
	"fmt"
	"strings"
)

// StackFrame is one entry of a RuntimeError's captured call stack: enough
// to print a Lox-style traceback without holding a live reference to the
// call frame itself (which the VM may already have popped by the time the
// error propagates out of Interpret).
type StackFrame struct {
	Name       string
	SourceLine int
}

// RuntimeError reports a runtime fault: the message that would be printed
// to stderr, plus the call stack captured at the moment it was raised
// (§4.9, §7).
type RuntimeError struct {
	Message    string
	StackTrace []StackFrame
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for i := len(e.StackTrace) - 1; i >= 0; i-- {
		f := e.StackTrace[i]
		fmt.Fprintf(&b, "\n[line %d] in %s", f.SourceLine, f.Name)
	}
	return b.String()
}

func newRuntimeError(message string, stack []StackFrame) *RuntimeError {
	return &RuntimeError{Message: message, StackTrace: stack}
}
