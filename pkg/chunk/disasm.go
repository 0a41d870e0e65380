package chunk

import (
	"fmt"
	"io"

	"github.com/kristofer/lumen/pkg/value"
)

// Disassemble writes a human-readable listing of every instruction in c to
// w, labelled name. This exists purely for debugging (gated behind the
// lumen_printcode / lumen_trace build tags elsewhere); bytecode itself is
// never persisted or serialized (§5, §6 Non-goals), so unlike smog's
// pkg/bytecode/format.go this package has no binary encode/decode step, only
// this text form.
func Disassemble(w io.Writer, c *Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = DisassembleInstruction(w, c, offset)
	}
}

// DisassembleInstruction writes one instruction at offset and returns the
// offset of the next instruction.
func DisassembleInstruction(w io.Writer, c *Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	if offset > 0 && c.LineAt(offset) == c.LineAt(offset-1) {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", c.LineAt(offset))
	}

	op := OpCode(c.Code[offset])
	switch op {
	case OpConstant:
		return constantInstruction(w, op, c, offset)
	case OpConstantLong:
		return constantLongInstruction(w, op, c, offset)
	case OpGetLocal, OpSetLocal, OpGetUpvalue, OpSetUpvalue, OpCall:
		return byteInstruction(w, op, c, offset)
	case OpGetGlobal, OpSetGlobal, OpDefineGlobal, OpGetProperty, OpSetProperty,
		OpClass, OpMethod, OpGetSuper:
		return constantInstruction(w, op, c, offset)
	case OpInvoke, OpSuperInvoke:
		return invokeInstruction(w, op, c, offset)
	case OpJump, OpJumpIfFalse, OpJumpIfTrue:
		return jumpInstruction(w, op, c, offset, 1)
	case OpLoop:
		return jumpInstruction(w, op, c, offset, -1)
	case OpClosure:
		return closureInstruction(w, op, c, offset)
	default:
		return simpleInstruction(w, op, offset)
	}
}

func simpleInstruction(w io.Writer, op OpCode, offset int) int {
	fmt.Fprintf(w, "%s\n", op)
	return offset + 1
}

func byteInstruction(w io.Writer, op OpCode, c *Chunk, offset int) int {
	slot := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d\n", op, slot)
	return offset + 2
}

func constantInstruction(w io.Writer, op OpCode, c *Chunk, offset int) int {
	idx := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d '%s'\n", op, idx, formatValue(c.Constants[idx]))
	return offset + 2
}

func constantLongInstruction(w io.Writer, op OpCode, c *Chunk, offset int) int {
	idx := c.ReadU24(offset + 1)
	fmt.Fprintf(w, "%-16s %4d '%s'\n", op, idx, formatValue(c.Constants[idx]))
	return offset + 4
}

func invokeInstruction(w io.Writer, op OpCode, c *Chunk, offset int) int {
	idx := c.Code[offset+1]
	argc := c.Code[offset+2]
	fmt.Fprintf(w, "%-16s (%d args) %4d '%s'\n", op, argc, idx, formatValue(c.Constants[idx]))
	return offset + 3
}

func jumpInstruction(w io.Writer, op OpCode, c *Chunk, offset, sign int) int {
	jump := int(c.ReadU16(offset + 1))
	target := offset + 3 + sign*jump
	fmt.Fprintf(w, "%-16s %4d -> %d\n", op, offset, target)
	return offset + 3
}

func closureInstruction(w io.Writer, op OpCode, c *Chunk, offset int) int {
	offset++
	idx := c.Code[offset]
	offset++
	fmt.Fprintf(w, "%-16s %4d '%s'\n", op, idx, formatValue(c.Constants[idx]))

	fn, ok := c.Constants[idx].AsObj().(interface{ UpvalueCount() int })
	if !ok {
		return offset
	}
	for i := 0; i < fn.UpvalueCount(); i++ {
		isLocal := c.Code[offset]
		offset++
		index := c.Code[offset]
		offset++
		kind := "upvalue"
		if isLocal != 0 {
			kind = "local"
		}
		fmt.Fprintf(w, "%04d      |                     %s %d\n", offset-2, kind, index)
	}
	return offset
}

func formatValue(v value.Value) string {
	switch v.Kind() {
	case value.KindNil:
		return "nil"
	case value.KindBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case value.KindNumber:
		return fmt.Sprintf("%g", v.AsNumber())
	case value.KindObj:
		if s, ok := v.AsObj().(fmt.Stringer); ok {
			return s.String()
		}
		return v.AsObj().ObjKind().String()
	default:
		return "?"
	}
}
