package chunk

import "github.com/kristofer/lumen/pkg/value"

// lineRun is one entry of the run-length encoded source-line table: "the
// next `length` instruction bytes all belong to source line `line`".
type lineRun struct {
	line   int
	length int
}

// Chunk holds a compiled unit of bytecode: the instruction stream, the
// constant pool referenced by OP_CONSTANT/OP_CONSTANT_LONG, and enough
// information to map any instruction offset back to a source line for
// error reporting (§4.1).
type Chunk struct {
	Code      []byte
	Constants []value.Value
	lines     []lineRun
}

// New returns an empty chunk.
func New() *Chunk {
	return &Chunk{}
}

// WriteByte appends a raw byte to the code stream, recording that it
// belongs to the given source line. Consecutive bytes on the same line
// extend the last run instead of starting a new one, so a long line of
// straight-through bytecode costs one RLE entry, not one per byte.
func (c *Chunk) WriteByte(b byte, line int) {
	c.Code = append(c.Code, b)
	if n := len(c.lines); n > 0 && c.lines[n-1].line == line {
		c.lines[n-1].length++
		return
	}
	c.lines = append(c.lines, lineRun{line: line, length: 1})
}

// WriteOp appends an opcode byte.
func (c *Chunk) WriteOp(op OpCode, line int) {
	c.WriteByte(byte(op), line)
}

// AddConstant appends v to the constant pool and returns its index.
func (c *Chunk) AddConstant(v value.Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// WriteConstant emits OP_CONSTANT with an 8-bit operand when the constant's
// index fits in a byte, otherwise OP_CONSTANT_LONG with a big-endian 24-bit
// operand. This is the only opcode with two encodings, so that the common
// case (fewer than 256 constants) keeps the compact 2-byte form.
func (c *Chunk) WriteConstant(v value.Value, line int) {
	idx := c.AddConstant(v)
	if idx < 256 {
		c.WriteOp(OpConstant, line)
		c.WriteByte(byte(idx), line)
		return
	}
	c.WriteOp(OpConstantLong, line)
	c.WriteByte(byte(idx>>16), line)
	c.WriteByte(byte(idx>>8), line)
	c.WriteByte(byte(idx), line)
}

// LineAt returns the source line that produced the instruction byte at the
// given code offset. This walks the RLE table, O(number of line runs); that
// cost is only ever paid on error-reporting paths (§4.1).
func (c *Chunk) LineAt(offset int) int {
	remaining := offset
	for _, run := range c.lines {
		if remaining < run.length {
			return run.line
		}
		remaining -= run.length
	}
	if len(c.lines) > 0 {
		return c.lines[len(c.lines)-1].line
	}
	return 0
}

// ReadU16 reads a big-endian 16-bit operand starting at offset, as used by
// jump instructions.
func (c *Chunk) ReadU16(offset int) uint16 {
	return uint16(c.Code[offset])<<8 | uint16(c.Code[offset+1])
}

// PatchU16 overwrites the 16-bit operand at offset; used by the compiler's
// jump-patching to backfill a forward jump once its target is known.
func (c *Chunk) PatchU16(offset int, v uint16) {
	c.Code[offset] = byte(v >> 8)
	c.Code[offset+1] = byte(v)
}

// ReadU24 reads a big-endian 24-bit operand, used by OP_CONSTANT_LONG.
func (c *Chunk) ReadU24(offset int) int {
	return int(c.Code[offset])<<16 | int(c.Code[offset+1])<<8 | int(c.Code[offset+2])
}
