package vm

import (
	"fmt"

	"github.com/kristofer/lumen/pkg/chunk"
	"github.com/kristofer/lumen/pkg/object"
	"github.com/kristofer/lumen/pkg/value"
)

// run is the dispatch loop: fetch-decode-execute over the current call
// frame's chunk until either an OP_RETURN unwinds the last frame or a
// runtime error aborts the interpretation (§4.5, §4.6).
func (vm *VM) run() error {
	frame := &vm.frames[len(vm.frames)-1]

	for {
		traceExecution(vm, frame)

		op := chunk.OpCode(vm.readByte(frame))
		switch op {
		case chunk.OpConstant:
			vm.push(frame.closure.Fn.Chunk.Constants[vm.readByte(frame)])

		case chunk.OpConstantLong:
			idx := vm.readU24(frame)
			vm.push(frame.closure.Fn.Chunk.Constants[idx])

		case chunk.OpNil:
			vm.push(value.Nil)
		case chunk.OpTrue:
			vm.push(value.Bool(true))
		case chunk.OpFalse:
			vm.push(value.Bool(false))
		case chunk.OpPop:
			vm.pop()
		case chunk.OpDup:
			vm.push(vm.peek(0))

		case chunk.OpGetLocal:
			slot := vm.readByte(frame)
			vm.push(vm.stack[frame.base+int(slot)])
		case chunk.OpSetLocal:
			slot := vm.readByte(frame)
			vm.stack[frame.base+int(slot)] = vm.peek(0)

		case chunk.OpGetGlobal:
			name := vm.readString(frame)
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeErrorAt(frame, "undefined variable '%s'", name.Chars)
			}
			vm.push(v.(value.Value))
		case chunk.OpSetGlobal:
			name := vm.readString(frame)
			if _, ok := vm.globals.Get(name); !ok {
				return vm.runtimeErrorAt(frame, "undefined variable '%s'", name.Chars)
			}
			vm.globals.Set(name, vm.peek(0))
		case chunk.OpDefineGlobal:
			name := vm.readString(frame)
			vm.globals.Set(name, vm.peek(0))
			vm.pop()

		case chunk.OpGetUpvalue:
			slot := vm.readByte(frame)
			vm.push(*frame.closure.Upvalues[slot].Location)
		case chunk.OpSetUpvalue:
			slot := vm.readByte(frame)
			*frame.closure.Upvalues[slot].Location = vm.peek(0)
		case chunk.OpCloseUpvalue:
			vm.closeUpvalues(vm.sp - 1)
			vm.pop()

		case chunk.OpGetProperty:
			if !vm.peek(0).IsObj() {
				return vm.runtimeErrorAt(frame, "only instances have properties")
			}
			inst, ok := vm.peek(0).AsObj().(*object.Instance)
			if !ok {
				return vm.runtimeErrorAt(frame, "only instances have properties")
			}
			name := vm.readString(frame)
			if v, ok := inst.Fields[name]; ok {
				vm.pop()
				vm.push(v)
				break
			}
			if !vm.bindMethod(inst.Class, name) {
				return vm.lastError(frame)
			}
		case chunk.OpSetProperty:
			if !vm.peek(1).IsObj() {
				return vm.runtimeErrorAt(frame, "only instances have fields")
			}
			inst, ok := vm.peek(1).AsObj().(*object.Instance)
			if !ok {
				return vm.runtimeErrorAt(frame, "only instances have fields")
			}
			name := vm.readString(frame)
			inst.Fields[name] = vm.peek(0)
			v := vm.pop()
			vm.pop()
			vm.push(v)
		case chunk.OpGetSuper:
			name := vm.readString(frame)
			superclass := vm.pop().AsObj().(*object.Class)
			if !vm.bindMethod(superclass, name) {
				return vm.lastError(frame)
			}

		case chunk.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))
		case chunk.OpGreater:
			if err := vm.binaryNumeric(frame, func(a, b float64) value.Value { return value.Bool(a > b) }); err != nil {
				return err
			}
		case chunk.OpLess:
			if err := vm.binaryNumeric(frame, func(a, b float64) value.Value { return value.Bool(a < b) }); err != nil {
				return err
			}
		case chunk.OpAdd:
			if err := vm.add(frame); err != nil {
				return err
			}
		case chunk.OpSubtract:
			if err := vm.binaryNumeric(frame, func(a, b float64) value.Value { return value.Number(a - b) }); err != nil {
				return err
			}
		case chunk.OpMultiply:
			if err := vm.binaryNumeric(frame, func(a, b float64) value.Value { return value.Number(a * b) }); err != nil {
				return err
			}
		case chunk.OpDivide:
			if err := vm.binaryNumeric(frame, func(a, b float64) value.Value { return value.Number(a / b) }); err != nil {
				return err
			}
		case chunk.OpModulo:
			if err := vm.modulo(frame); err != nil {
				return err
			}
		case chunk.OpNot:
			vm.push(value.Bool(!value.Truthy(vm.pop())))
		case chunk.OpNegate:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeErrorAt(frame, "operand must be a number")
			}
			vm.push(value.Number(-vm.pop().AsNumber()))

		case chunk.OpPrint:
			fmt.Fprintln(vm.Stdout, formatValue(vm.pop()))

		case chunk.OpJump:
			offset := vm.readU16(frame)
			frame.ip += int(offset)
		case chunk.OpJumpIfFalse:
			offset := vm.readU16(frame)
			if !value.Truthy(vm.peek(0)) {
				frame.ip += int(offset)
			}
		case chunk.OpJumpIfTrue:
			offset := vm.readU16(frame)
			if value.Truthy(vm.peek(0)) {
				frame.ip += int(offset)
			}
		case chunk.OpLoop:
			offset := vm.readU16(frame)
			frame.ip -= int(offset)

		case chunk.OpCall:
			argCount := int(vm.readByte(frame))
			if !vm.callValue(vm.peek(argCount), argCount) {
				return vm.lastError(frame)
			}
			frame = &vm.frames[len(vm.frames)-1]

		case chunk.OpInvoke:
			name := vm.readString(frame)
			argCount := int(vm.readByte(frame))
			if !vm.invoke(name, argCount) {
				return vm.lastError(frame)
			}
			frame = &vm.frames[len(vm.frames)-1]

		case chunk.OpSuperInvoke:
			name := vm.readString(frame)
			argCount := int(vm.readByte(frame))
			superclass := vm.pop().AsObj().(*object.Class)
			if !vm.invokeFromClass(superclass, name, argCount) {
				return vm.lastError(frame)
			}
			frame = &vm.frames[len(vm.frames)-1]

		case chunk.OpClosure:
			fnVal := frame.closure.Fn.Chunk.Constants[vm.readByte(frame)]
			fn := fnVal.AsObj().(*object.Function)
			closure := object.NewClosure(fn)
			vm.heap.Track(closure)
			// Push before capturing upvalues: capturing can allocate (a
			// fresh open Upvalue), and closure isn't reachable from any
			// root yet, so it must already be on the stack before that
			// happens (§5 "temporary object values... MUST be pushed
			// before any operation that can allocate").
			vm.push(value.FromObj(closure))
			for i := 0; i < fn.UpvalCount; i++ {
				isLocal := vm.readByte(frame)
				index := vm.readByte(frame)
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(frame.base + int(index))
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}

		case chunk.OpClass:
			name := vm.readString(frame)
			cls := object.NewClass(name)
			vm.heap.Track(cls)
			vm.push(value.FromObj(cls))
		case chunk.OpInherit:
			superVal := vm.peek(1)
			if !superVal.IsObj() {
				return vm.runtimeErrorAt(frame, "superclass must be a class")
			}
			sc, isClass := superVal.AsObj().(*object.Class)
			if !isClass {
				return vm.runtimeErrorAt(frame, "superclass must be a class")
			}
			subclass := vm.peek(0).AsObj().(*object.Class)
			for name, method := range sc.Methods {
				subclass.Methods[name] = method
			}
			vm.pop() // drop the subclass; the superclass stays below it as the `super` local
		case chunk.OpMethod:
			name := vm.readString(frame)
			method := vm.peek(0).AsObj().(*object.Closure)
			class := vm.peek(1).AsObj().(*object.Class)
			class.Methods[name] = method
			vm.pop()

		case chunk.OpReturn:
			result := vm.pop()
			vm.closeUpvalues(frame.base)
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				vm.pop()
				return nil
			}
			vm.sp = frame.base
			vm.push(result)
			frame = &vm.frames[len(vm.frames)-1]

		default:
			return vm.runtimeErrorAt(frame, "unknown opcode %d", op)
		}
	}
}

// --- operand fetch helpers -----------------------------------------------

func (vm *VM) readByte(f *callFrame) byte {
	b := f.closure.Fn.Chunk.Code[f.ip]
	f.ip++
	return b
}

func (vm *VM) readU16(f *callFrame) uint16 {
	hi := vm.readByte(f)
	lo := vm.readByte(f)
	return uint16(hi)<<8 | uint16(lo)
}

func (vm *VM) readU24(f *callFrame) int {
	b0 := vm.readByte(f)
	b1 := vm.readByte(f)
	b2 := vm.readByte(f)
	return int(b0)<<16 | int(b1)<<8 | int(b2)
}

func (vm *VM) readString(f *callFrame) *object.String {
	idx := vm.readByte(f)
	return f.closure.Fn.Chunk.Constants[idx].AsObj().(*object.String)
}

// --- arithmetic ------------------------------------------------------------

func (vm *VM) binaryNumeric(frame *callFrame, op func(a, b float64) value.Value) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeErrorAt(frame, "operands must be numbers")
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	vm.push(op(a, b))
	return nil
}

// add implements `+`, overloaded for numeric addition and string
// concatenation (§4.5); mixing the two is a runtime type error rather than
// an implicit coercion.
func (vm *VM) add(frame *callFrame) error {
	bVal, aVal := vm.peek(0), vm.peek(1)
	switch {
	case aVal.IsNumber() && bVal.IsNumber():
		b := vm.pop().AsNumber()
		a := vm.pop().AsNumber()
		vm.push(value.Number(a + b))
	case isString(aVal) && isString(bVal):
		b := vm.pop().AsObj().(*object.String)
		a := vm.pop().AsObj().(*object.String)
		vm.push(value.FromObj(vm.heap.InternString(a.Chars + b.Chars)))
	default:
		return vm.runtimeErrorAt(frame, "operands must be two numbers or two strings")
	}
	return nil
}

// modulo implements `%` — §9: the reference VM truncates both operands to
// integers before taking the remainder, so faithful default semantics do
// the same; the fmod-style remainder (`5.5 % 2 == 1.5` instead of 1) is an
// explicit opt-in via the lumen_fmod build tag (see mod_*.go), not the
// default.
func (vm *VM) modulo(frame *callFrame) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeErrorAt(frame, "operands must be numbers")
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	if modDivisorIsZero(b) {
		return vm.runtimeErrorAt(frame, "modulo by zero")
	}
	vm.push(value.Number(modFloat(a, b)))
	return nil
}

func isString(v value.Value) bool {
	if !v.IsObj() {
		return false
	}
	_, ok := v.AsObj().(*object.String)
	return ok
}

func (vm *VM) invokeFromClass(class *object.Class, name *object.String, argCount int) bool {
	method, ok := class.Methods[name]
	if !ok {
		vm.runtimeError("undefined property '%s'", name.Chars)
		return false
	}
	return vm.call(method, argCount)
}
