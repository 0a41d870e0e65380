// Package chunk defines the bytecode buffer that the compiler emits into and
// the VM executes: a flat byte stream, a constant pool, and a run-length
// encoded mapping from instruction offset back to source line (§4.1).
//
// This mirrors the role smog's pkg/bytecode plays for that language, but
// where smog keeps one flat []Instruction{Op, Operand} slice (fixed-width,
// Go-native), lumen's Chunk is a raw []byte stream with variable-length
// operands, as §4.1 requires (u8 operands for locals/globals, u16 jump
// offsets, u24 for OP_CONSTANT_LONG, variable-length CLOSURE trailers).
package chunk

// OpCode identifies a single bytecode instruction.
type OpCode byte

const (
	// Stack operations.
	OpConstant OpCode = iota
	OpConstantLong
	OpNil
	OpTrue
	OpFalse
	OpPop
	OpDup

	// Variable operations.
	OpGetLocal
	OpSetLocal
	OpGetGlobal
	OpSetGlobal
	OpDefineGlobal
	OpGetUpvalue
	OpSetUpvalue
	OpCloseUpvalue

	// Property and method operations.
	OpGetProperty
	OpSetProperty
	OpGetSuper
	OpInvoke
	OpSuperInvoke

	// Comparison and arithmetic.
	OpEqual
	OpGreater
	OpLess
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpNot
	OpNegate

	// Control flow.
	OpPrint
	OpJump
	OpJumpIfFalse
	OpJumpIfTrue
	OpLoop
	OpCall
	OpReturn
	OpClass
	OpInherit
	OpMethod
	OpClosure
)

var opNames = [...]string{
	OpConstant:      "CONSTANT",
	OpConstantLong:  "CONSTANT_LONG",
	OpNil:           "NIL",
	OpTrue:          "TRUE",
	OpFalse:         "FALSE",
	OpPop:           "POP",
	OpDup:           "DUP",
	OpGetLocal:      "GET_LOCAL",
	OpSetLocal:      "SET_LOCAL",
	OpGetGlobal:     "GET_GLOBAL",
	OpSetGlobal:     "SET_GLOBAL",
	OpDefineGlobal:  "DEFINE_GLOBAL",
	OpGetUpvalue:    "GET_UPVALUE",
	OpSetUpvalue:    "SET_UPVALUE",
	OpCloseUpvalue:  "CLOSE_UPVALUE",
	OpGetProperty:   "GET_PROPERTY",
	OpSetProperty:   "SET_PROPERTY",
	OpGetSuper:      "GET_SUPER",
	OpInvoke:        "INVOKE",
	OpSuperInvoke:   "SUPER_INVOKE",
	OpEqual:         "EQUAL",
	OpGreater:       "GREATER",
	OpLess:          "LESS",
	OpAdd:           "ADD",
	OpSubtract:      "SUBTRACT",
	OpMultiply:      "MULTIPLY",
	OpDivide:        "DIVIDE",
	OpModulo:        "MODULO",
	OpNot:           "NOT",
	OpNegate:        "NEGATE",
	OpPrint:         "PRINT",
	OpJump:          "JUMP",
	OpJumpIfFalse:   "JUMP_IF_FALSE",
	OpJumpIfTrue:    "JUMP_IF_TRUE",
	OpLoop:          "LOOP",
	OpCall:          "CALL",
	OpReturn:        "RETURN",
	OpClass:         "CLASS",
	OpInherit:       "INHERIT",
	OpMethod:        "METHOD",
	OpClosure:       "CLOSURE",
}

// String returns a human-readable opcode name, used by the disassembler.
func (op OpCode) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "UNKNOWN"
}
