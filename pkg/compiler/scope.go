package compiler

import (
	"github.com/kristofer/lumen/pkg/chunk"
	"github.com/kristofer/lumen/pkg/token"
)

func (p *Parser) beginScope() { p.cur.scopeDepth++ }

// endScope pops every local declared in the scope being closed, emitting
// OP_CLOSE_UPVALUE instead of OP_POP for any local that an inner closure
// captured, so its cell survives detached from the stack (§4.7).
func (p *Parser) endScope() {
	p.cur.scopeDepth--
	locals := p.cur.locals
	for len(locals) > 0 && locals[len(locals)-1].depth > p.cur.scopeDepth {
		if locals[len(locals)-1].isCaptured {
			p.emitOp(chunk.OpCloseUpvalue)
		} else {
			p.emitOp(chunk.OpPop)
		}
		locals = locals[:len(locals)-1]
	}
	p.cur.locals = locals
}

func (p *Parser) declareVariable() {
	if p.cur.scopeDepth == 0 {
		return
	}
	name := p.previous
	for i := len(p.cur.locals) - 1; i >= 0; i-- {
		l := p.cur.locals[i]
		if l.depth != -1 && l.depth < p.cur.scopeDepth {
			break
		}
		if l.name.Lexeme == name.Lexeme {
			p.error("variable with this name already declared in this scope")
		}
	}
	p.addLocal(name)
}

func (p *Parser) addLocal(name token.Token) {
	if len(p.cur.locals) >= 256 {
		p.error("too many local variables in function")
		return
	}
	p.cur.locals = append(p.cur.locals, local{name: name, depth: -1})
}

func (p *Parser) markInitialized() {
	if p.cur.scopeDepth == 0 {
		return
	}
	p.cur.locals[len(p.cur.locals)-1].depth = p.cur.scopeDepth
}

// resolveLocal returns the stack-slot index of name in the given
// compiler's own locals, -1 if it's not declared there, or -2 if it is
// declared there but its initializer hasn't finished yet.
func resolveLocal(s *state, name string) int {
	for i := len(s.locals) - 1; i >= 0; i-- {
		if s.locals[i].name.Lexeme == name {
			if s.locals[i].depth == -1 {
				return -2 // sentinel: used before its own initializer finished
			}
			return i
		}
	}
	return -1
}

// resolveUpvalue finds name in an enclosing compiler's locals (recursively
// through further enclosing compilers for transitively captured
// variables), registering an upvalue slot in every compiler between here
// and the one that owns the local (§4.7).
func resolveUpvalue(s *state, name string) int {
	if s.enclosing == nil {
		return -1
	}
	if local := resolveLocal(s.enclosing, name); local >= 0 {
		s.enclosing.locals[local].isCaptured = true
		return addUpvalue(s, byte(local), true)
	}
	if up := resolveUpvalue(s.enclosing, name); up != -1 {
		return addUpvalue(s, byte(up), false)
	}
	return -1
}

func addUpvalue(s *state, index byte, isLocal bool) int {
	for i, uv := range s.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i
		}
	}
	if len(s.upvalues) >= 256 {
		return 0
	}
	s.upvalues = append(s.upvalues, upvalueRef{index: index, isLocal: isLocal})
	return len(s.upvalues) - 1
}
