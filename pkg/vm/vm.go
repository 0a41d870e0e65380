package vm

import (
	"io"

	"github.com/kristofer/lumen/pkg/compiler"
	"github.com/kristofer/lumen/pkg/gc"
	"github.com/kristofer/lumen/pkg/object"
	"github.com/kristofer/lumen/pkg/table"
	"github.com/kristofer/lumen/pkg/value"
)

const maxFrames = 256
const stackMax = maxFrames * 256

// callFrame is one activation record: the closure being executed, its
// instruction pointer, and the base index into the VM's value stack where
// its locals (including the receiver/callee slot 0) begin (§4.7).
type callFrame struct {
	closure *object.Closure
	ip      int
	base    int
}

// VM is the single-threaded stack machine that executes compiled chunks. A
// VM owns one gc.Heap and is not safe for concurrent use (§5).
//
// The value stack is a fixed-capacity array, not a growing slice: every
// open object.Upvalue holds a raw *value.Value pointing directly into it
// (§4.7), and a Go slice that outgrows its capacity gets copied to a new
// backing array by append, which would silently strand those pointers on
// the old array. Preallocating stackMax slots up front and erroring as a
// language-level stack overflow instead of ever growing keeps those
// pointers valid for the VM's whole lifetime, mirroring the reference
// VM's fixed STACK_MAX array.
type VM struct {
	heap    *gc.Heap
	frames  []callFrame
	stack   []value.Value
	sp      int
	globals *table.Table

	openUpvalues *object.Upvalue // linked list, highest stack slot first

	initString *object.String

	// lastErr holds the most recently raised runtime error. Helpers like
	// callValue/call/invoke/bindMethod only return a bool (they are called
	// from deep inside expression evaluation, not just the top of run's
	// switch), so they stash the error here and the caller retrieves it
	// with lastError once it has unwound back to the dispatch loop.
	lastErr error

	Stdout io.Writer
	Stderr io.Writer
}

// New returns a VM ready to Interpret source. stdout/stderr receive output
// from the `print` statement and runtime error reports respectively; the
// embedding API has no implicit I/O of its own (§6), so the caller always
// supplies both explicitly.
func New(stdout, stderr io.Writer) *VM {
	vm := &VM{
		heap:    gc.New(),
		stack:   make([]value.Value, stackMax),
		globals: table.New(),
		Stdout:  stdout,
		Stderr:  stderr,
	}
	vm.heap.AddRoot(vm)
	vm.initString = vm.heap.InternString("init")
	return vm
}

// Heap exposes the VM's heap so native functions and the CLI's
// configuration layer can intern strings or allocate objects on the VM's
// behalf.
func (vm *VM) Heap() *gc.Heap { return vm.heap }

// Define registers a native function as a global. This is the entire
// native-function ABI in scope here (§6): how a host-provided Go func
// becomes callable from script code, not any concrete native library.
func (vm *VM) Define(name string, arity int, fn object.NativeFn) {
	s := vm.heap.InternString(name)
	// s is tracked but not yet reachable from any root until globals.Set
	// below runs; push it onto the stack across the native's own
	// allocation so a collection triggered by that Track can't sweep it
	// out from under us (§4.2 "allocate_string" dance, generalized).
	vm.push(value.FromObj(s))
	n := object.NewNative(name, arity, fn)
	vm.heap.Track(n)
	vm.globals.Set(s, value.FromObj(n))
	vm.pop()
}

// Interpret compiles and runs source to completion, returning a
// *compiler.CompileError (or a plain error whose message lists several) for a compile
// failure, or a *RuntimeError for a runtime fault — the two cases the CLI
// maps to exit codes 65 and 70 respectively (§6).
func (vm *VM) Interpret(source string) error {
	fn, err := compiler.Compile(source, vm.heap)
	if err != nil {
		return err
	}

	vm.heap.Track(fn)
	closure := object.NewClosure(fn)
	vm.heap.Track(closure)

	vm.push(value.FromObj(closure))
	vm.callValue(value.FromObj(closure), 0)

	return vm.run()
}

// --- stack helpers -------------------------------------------------------

func (vm *VM) push(v value.Value) {
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() value.Value {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.sp-1-distance]
}

func (vm *VM) resetStack() {
	vm.sp = 0
	vm.frames = vm.frames[:0]
	vm.openUpvalues = nil
}

// --- call protocol --------------------------------------------------------

func (vm *VM) callValue(callee value.Value, argCount int) bool {
	if !callee.IsObj() {
		vm.runtimeError("can only call functions and classes")
		return false
	}
	switch o := callee.AsObj().(type) {
	case *object.Closure:
		return vm.call(o, argCount)
	case *object.Native:
		if argCount != o.Arity {
			vm.runtimeError("expected %d arguments but got %d", o.Arity, argCount)
			return false
		}
		args := vm.stack[vm.sp-argCount : vm.sp]
		result, err := o.Fn(args)
		if err != nil {
			vm.runtimeError("%s", err.Error())
			return false
		}
		vm.sp -= argCount + 1
		vm.push(result)
		return true
	case *object.Class:
		inst := object.NewInstance(o)
		vm.heap.Track(inst)
		vm.stack[vm.sp-argCount-1] = value.FromObj(inst)
		if init, ok := o.Methods[vm.initString]; ok {
			return vm.call(init, argCount)
		}
		if argCount != 0 {
			vm.runtimeError("expected 0 arguments but got %d", argCount)
			return false
		}
		return true
	case *object.BoundMethod:
		vm.stack[vm.sp-argCount-1] = o.Receiver
		return vm.call(o.Method, argCount)
	default:
		vm.runtimeError("can only call functions and classes")
		return false
	}
}

func (vm *VM) call(closure *object.Closure, argCount int) bool {
	if argCount != closure.Fn.Arity {
		vm.runtimeError("expected %d arguments but got %d", closure.Fn.Arity, argCount)
		return false
	}
	if len(vm.frames) >= maxFrames {
		vm.runtimeError("stack overflow")
		return false
	}
	vm.frames = append(vm.frames, callFrame{
		closure: closure,
		base:    vm.sp - argCount - 1,
	})
	return true
}

func (vm *VM) invoke(name *object.String, argCount int) bool {
	receiver := vm.peek(argCount)
	if !receiver.IsObj() {
		vm.runtimeError("only instances have methods")
		return false
	}
	inst, ok := receiver.AsObj().(*object.Instance)
	if !ok {
		vm.runtimeError("only instances have methods")
		return false
	}
	if field, ok := inst.Fields[name]; ok {
		vm.stack[vm.sp-argCount-1] = field
		return vm.callValue(field, argCount)
	}
	method, ok := inst.Class.Methods[name]
	if !ok {
		vm.runtimeError("undefined property '%s'", name.Chars)
		return false
	}
	return vm.call(method, argCount)
}

func (vm *VM) bindMethod(class *object.Class, name *object.String) bool {
	method, ok := class.Methods[name]
	if !ok {
		vm.runtimeError("undefined property '%s'", name.Chars)
		return false
	}
	bound := object.NewBoundMethod(vm.peek(0), method)
	vm.heap.Track(bound)
	vm.pop()
	vm.push(value.FromObj(bound))
	return true
}

// --- upvalue management ----------------------------------------------------

// captureUpvalue returns the open upvalue for the stack slot at index, or
// creates one, threading it into the VM's open-upvalue list kept sorted
// highest-slot-first so sibling closures capturing the same local find and
// share the existing upvalue instead of creating a duplicate cell (§4.7).
func (vm *VM) captureUpvalue(index int) *object.Upvalue {
	var prev *object.Upvalue
	cur := vm.openUpvalues
	for cur != nil && cur.OpenSlot > index {
		prev = cur
		cur = cur.NextOpen
	}
	if cur != nil && cur.OpenSlot == index {
		return cur
	}
	created := object.NewUpvalue(&vm.stack[index], index)
	vm.heap.Track(created)
	created.NextOpen = cur
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.NextOpen = created
	}
	return created
}

// closeUpvalues closes every open upvalue at or above stack slot last,
// copying each one's value out of the stack into its own cell before the
// frame that owns that slot is popped (§4.7).
func (vm *VM) closeUpvalues(last int) {
	for vm.openUpvalues != nil && vm.openUpvalues.OpenSlot >= last {
		uv := vm.openUpvalues
		uv.Close()
		vm.openUpvalues = uv.NextOpen
	}
}
