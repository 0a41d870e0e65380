// Package compiler implements the single-pass Pratt parser/compiler: it
// scans and parses source in one pass, emitting bytecode directly into a
// chunk.Chunk as it goes, with no separate AST or resolver pass (§1
// Non-goals; §4.4).
package compiler

import (
	"fmt"

	"github.com/kristofer/lumen/pkg/chunk"
	"github.com/kristofer/lumen/pkg/gc"
	"github.com/kristofer/lumen/pkg/object"
	"github.com/kristofer/lumen/pkg/scanner"
	"github.com/kristofer/lumen/pkg/token"
	"github.com/kristofer/lumen/pkg/value"
)

// CompileError reports a single compile-time diagnostic: a message and the
// source line it was attached to. Compile collects every error it can
// before giving up (panic-mode recovery), rather than stopping at the
// first one.
type CompileError struct {
	Line    int
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Message)
}

// funcType distinguishes the kind of function body currently being
// compiled, since that changes what `this`/`super`/implicit-return
// semantics apply (§4.4, §4.8).
type funcType int

const (
	typeFunction funcType = iota
	typeScript
	typeMethod
	typeInitializer
)

type local struct {
	name       token.Token
	depth      int // -1 means declared but not yet defined
	isCaptured bool
}

type upvalueRef struct {
	index   byte
	isLocal bool
}

// state is one nested compiler frame: one per function body being compiled,
// chained through enclosing so inner functions can resolve locals captured
// from outer ones into upvalues (§4.4).
type state struct {
	enclosing *state

	fn   *object.Function
	kind funcType

	locals     []local
	upvalues   []upvalueRef
	scopeDepth int

	loop *loopState // innermost enclosing loop, for break/continue; nil outside a loop
}

// loopState tracks a loop's (or switch's) jump-patch bookkeeping so
// break/continue can target the right places even across nested loops and
// switches (§4.4, §9 jump lists). A switch pushes one of these too, since
// `break` inside a switch exits the switch the same way it exits a loop,
// but isLoop is false for it: `continue` must skip past any enclosing
// switches to reach the nearest real loop, since a switch has no
// "increment/condition" of its own to loop back to.
type loopState struct {
	enclosing  *loopState
	continueAt int   // code offset OP_LOOP should target
	breaks     []int // offsets of OP_JUMP placeholders needing patch to this loop's/switch's end
	depth      int   // scope depth at loop/switch entry, for computing how many locals to pop on break/continue
	isLoop     bool  // false for a switch's loopState; continue skips past these
}

type classState struct {
	enclosing     *classState
	hasSuperclass bool
}

// Parser drives the whole compile: token stream, error accumulation, and
// the current function-compiler chain.
type Parser struct {
	sc   *scanner.Scanner
	heap *gc.Heap

	current  token.Token
	previous token.Token

	hadError  bool
	panicMode bool
	errs      []*CompileError

	cur   *state
	class *classState
}

// Compile compiles source into a top-level Function (the implicit
// "<script>" function), ready to be wrapped in a Closure and called by the
// VM. It returns every CompileError it accumulated if compilation failed.
func Compile(source string, heap *gc.Heap) (*object.Function, error) {
	p := &Parser{sc: scanner.New(source), heap: heap}
	p.cur = p.newState(nil, typeScript)

	// The compiler is a GC root for exactly the duration of this call: the
	// function objects it builds live only in p.cur's chain until Compile
	// returns them, so an allocation-triggered collection mid-parse must
	// not reclaim them (§4.2, §5).
	heap.AddRoot(p)
	defer heap.RemoveRoot(p)

	p.advance()
	for !p.match(token.EOF) {
		p.declaration()
	}
	fn := p.endFunction()

	if p.hadError {
		return nil, p.compileError()
	}
	return fn, nil
}

// MarkRoots marks every function object under construction by this
// compiler or any of its enclosing (outer) function compilers, so nested
// function literals can't be collected while their enclosing function is
// still being compiled (§4.2).
func (p *Parser) MarkRoots(h *gc.Heap) {
	for s := p.cur; s != nil; s = s.enclosing {
		h.Mark(s.fn)
	}
}

func (p *Parser) compileError() error {
	if len(p.errs) == 1 {
		return p.errs[0]
	}
	msg := fmt.Sprintf("%d compile errors:", len(p.errs))
	for _, e := range p.errs {
		msg += "\n  " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}

func (p *Parser) newState(enclosing *state, kind funcType) *state {
	fn := object.NewFunction()
	s := &state{enclosing: enclosing, fn: fn, kind: kind}
	// Slot 0 is reserved: `this` for methods, the callee's own closure
	// otherwise. Neither is ever referenced by source-level name lookup in
	// the non-method case, but reserving the slot keeps stack arithmetic
	// uniform between methods and plain functions (§4.4, §4.7).
	name := ""
	if kind == typeMethod || kind == typeInitializer {
		name = "this"
	}
	s.locals = append(s.locals, local{name: token.Token{Lexeme: name}, depth: 0})
	return s
}

func (p *Parser) endFunction() *object.Function {
	p.emitReturn()
	fn := p.cur.fn
	fn.UpvalCount = len(p.cur.upvalues)
	name := "<script>"
	if fn.Name != nil {
		name = fn.Name.Chars
	}
	printChunk(name, fn.Chunk)
	if p.cur.enclosing != nil {
		p.cur = p.cur.enclosing
	}
	return fn
}

func (p *Parser) chunk() *chunk.Chunk { return p.cur.fn.Chunk }

// --- token stream -----------------------------------------------------

func (p *Parser) advance() {
	p.previous = p.current
	for {
		p.current = p.sc.Next()
		if p.current.Kind != token.Error {
			break
		}
		p.errorAtCurrent(p.current.Lexeme)
	}
}

func (p *Parser) check(k token.Kind) bool { return p.current.Kind == k }

func (p *Parser) match(k token.Kind) bool {
	if !p.check(k) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(k token.Kind, msg string) {
	if p.current.Kind == k {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

func (p *Parser) errorAtCurrent(msg string) { p.errorAt(p.current, msg) }
func (p *Parser) error(msg string)          { p.errorAt(p.previous, msg) }

func (p *Parser) errorAt(t token.Token, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true
	where := msg
	if t.Kind == token.EOF {
		where = "at end: " + msg
	} else if t.Kind != token.Error {
		where = "at '" + t.Lexeme + "': " + msg
	}
	p.errs = append(p.errs, &CompileError{Line: t.Line, Message: where})
}

// synchronize discards tokens until it reaches a plausible statement
// boundary, so one syntax error doesn't cascade into a wall of spurious
// follow-on errors (§4.4 panic-mode recovery).
func (p *Parser) synchronize() {
	p.panicMode = false
	for p.current.Kind != token.EOF {
		if p.previous.Kind == token.Semicolon {
			return
		}
		switch p.current.Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If,
			token.While, token.Print, token.Return, token.Switch:
			return
		}
		p.advance()
	}
}

// --- bytecode emission helpers -----------------------------------------

func (p *Parser) emitByte(b byte)        { p.chunk().WriteByte(b, p.previous.Line) }
func (p *Parser) emitOp(op chunk.OpCode) { p.chunk().WriteOp(op, p.previous.Line) }

func (p *Parser) emitConstant(v value.Value) { p.chunk().WriteConstant(v, p.previous.Line) }

func (p *Parser) emitReturn() {
	if p.cur.kind == typeInitializer {
		p.emitOp(chunk.OpGetLocal)
		p.emitByte(0)
	} else {
		p.emitOp(chunk.OpNil)
	}
	p.emitOp(chunk.OpReturn)
}

// emitJump writes a jump opcode with a placeholder 16-bit operand and
// returns the operand's offset, for patchJump to fill in once the target
// is known.
func (p *Parser) emitJump(op chunk.OpCode) int {
	p.emitOp(op)
	p.emitByte(0xff)
	p.emitByte(0xff)
	return len(p.chunk().Code) - 2
}

func (p *Parser) patchJump(offset int) {
	jump := len(p.chunk().Code) - offset - 2
	if jump > 0xffff {
		p.error("too much code to jump over")
	}
	p.chunk().PatchU16(offset, uint16(jump))
}

// emitLoop emits OP_LOOP targeting loopStart, a backward jump.
func (p *Parser) emitLoop(loopStart int) {
	p.emitOp(chunk.OpLoop)
	offset := len(p.chunk().Code) - loopStart + 2
	if offset > 0xffff {
		p.error("loop body too large")
	}
	p.emitByte(byte(offset >> 8))
	p.emitByte(byte(offset))
}

// makeConstant adds v to the current chunk's constant pool and returns its
// index. Every call site that follows this with byte(idx) (global/property/
// super/method names, OP_CLOSURE's function operand) needs the index to fit
// an 8-bit operand, unlike WriteConstant's OP_CONSTANT_LONG escape hatch for
// large literal pools — so overflow here is a compile error, not a silent
// truncation (§7 "too many constants... at compile time").
func (p *Parser) makeConstant(v value.Value) int {
	idx := p.chunk().AddConstant(v)
	if idx > 255 {
		p.error("too many constants in one chunk")
		return 0
	}
	return idx
}

func (p *Parser) identifierConstant(name token.Token) int {
	return p.makeConstant(value.FromObj(p.heap.InternString(name.Lexeme)))
}
