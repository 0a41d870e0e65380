package compiler

import (
	"strconv"

	"github.com/kristofer/lumen/pkg/chunk"
	"github.com/kristofer/lumen/pkg/token"
	"github.com/kristofer/lumen/pkg/value"
)

func (p *Parser) grouping(canAssign bool) {
	p.expression()
	p.consume(token.RightParen, "expected ')' after expression")
}

func (p *Parser) number(canAssign bool) {
	f, err := strconv.ParseFloat(p.previous.Lexeme, 64)
	if err != nil {
		p.error("invalid number literal")
		return
	}
	p.emitConstant(value.Number(f))
}

func (p *Parser) stringLit(canAssign bool) {
	raw := p.previous.Lexeme
	s := raw[1 : len(raw)-1] // strip surrounding quotes; no escape processing (kept out of scope, matching scanner simplicity)
	p.emitConstant(value.FromObj(p.heap.InternString(s)))
}

func (p *Parser) literal(canAssign bool) {
	switch p.previous.Kind {
	case token.False:
		p.emitOp(chunk.OpFalse)
	case token.True:
		p.emitOp(chunk.OpTrue)
	case token.Nil:
		p.emitOp(chunk.OpNil)
	}
}

func (p *Parser) unary(canAssign bool) {
	op := p.previous.Kind
	p.parsePrecedence(precUnary)
	switch op {
	case token.Minus:
		p.emitOp(chunk.OpNegate)
	case token.Bang:
		p.emitOp(chunk.OpNot)
	}
}

func (p *Parser) binary(canAssign bool) {
	op := p.previous.Kind
	r := p.getRule(op)
	p.parsePrecedence(r.precedence + 1)

	switch op {
	case token.BangEqual:
		p.emitOp(chunk.OpEqual)
		p.emitOp(chunk.OpNot)
	case token.EqualEqual:
		p.emitOp(chunk.OpEqual)
	case token.Greater:
		p.emitOp(chunk.OpGreater)
	case token.GreaterEqual:
		p.emitOp(chunk.OpLess)
		p.emitOp(chunk.OpNot)
	case token.Less:
		p.emitOp(chunk.OpLess)
	case token.LessEqual:
		p.emitOp(chunk.OpGreater)
		p.emitOp(chunk.OpNot)
	case token.Plus:
		p.emitOp(chunk.OpAdd)
	case token.Minus:
		p.emitOp(chunk.OpSubtract)
	case token.Star:
		p.emitOp(chunk.OpMultiply)
	case token.Slash:
		p.emitOp(chunk.OpDivide)
	case token.Percent:
		p.emitOp(chunk.OpModulo)
	}
}

func (p *Parser) and(canAssign bool) {
	endJump := p.emitJump(chunk.OpJumpIfFalse)
	p.emitOp(chunk.OpPop)
	p.parsePrecedence(precAnd)
	p.patchJump(endJump)
}

// or peeks (rather than pops) the LHS via OP_JUMP_IF_TRUE, so a truthy LHS
// short-circuits leaving its own value as the expression result; the
// following OP_POP only runs when falling through to evaluate the RHS
// (§4.4 short-circuit encoding).
func (p *Parser) or(canAssign bool) {
	endJump := p.emitJump(chunk.OpJumpIfTrue)
	p.emitOp(chunk.OpPop)
	p.parsePrecedence(precOr)
	p.patchJump(endJump)
}

// ternary compiles `cond ? then : else` as a conditional jump over the then
// branch plus an unconditional jump over the else branch, the same
// shape an if/else statement compiles to, just in expression position.
func (p *Parser) ternary(canAssign bool) {
	thenJump := p.emitJump(chunk.OpJumpIfFalse)
	p.emitOp(chunk.OpPop)
	p.parsePrecedence(precAssignment)
	elseJump := p.emitJump(chunk.OpJump)
	p.consume(token.Colon, "expected ':' in ternary expression")
	p.patchJump(thenJump)
	p.emitOp(chunk.OpPop)
	p.parsePrecedence(precTernary)
	p.patchJump(elseJump)
}

func (p *Parser) variable(canAssign bool) {
	p.namedVariable(p.previous, canAssign)
}

func (p *Parser) this(canAssign bool) {
	if p.class == nil {
		p.error("'this' used outside of a class method")
		return
	}
	p.namedVariable(token.Token{Kind: token.Identifier, Lexeme: "this"}, false)
}

func (p *Parser) super(canAssign bool) {
	if p.class == nil {
		p.error("'super' used outside of a class")
	} else if !p.class.hasSuperclass {
		p.error("'super' used in a class with no superclass")
	}
	p.consume(token.Dot, "expected '.' after 'super'")
	p.consume(token.Identifier, "expected superclass method name")
	name := p.identifierConstant(p.previous)

	p.namedVariable(token.Token{Kind: token.Identifier, Lexeme: "this"}, false)
	if p.match(token.LeftParen) {
		argCount := p.argumentList()
		p.namedVariable(token.Token{Kind: token.Identifier, Lexeme: "super"}, false)
		p.emitOp(chunk.OpSuperInvoke)
		p.emitByte(byte(name))
		p.emitByte(byte(argCount))
		return
	}
	p.namedVariable(token.Token{Kind: token.Identifier, Lexeme: "super"}, false)
	p.emitOp(chunk.OpGetSuper)
	p.emitByte(byte(name))
}

// namedVariable resolves name to a local slot, an upvalue, or a global, and
// emits the matching get or (if canAssign and an '=' follows) set opcode.
func (p *Parser) namedVariable(name token.Token, canAssign bool) {
	var getOp, setOp chunk.OpCode
	arg := resolveLocal(p.cur, name.Lexeme)
	switch {
	case arg == -2:
		p.error("can't read local variable in its own initializer")
		arg = 0
		getOp, setOp = chunk.OpGetLocal, chunk.OpSetLocal
	case arg != -1:
		getOp, setOp = chunk.OpGetLocal, chunk.OpSetLocal
	default:
		if up := resolveUpvalue(p.cur, name.Lexeme); up != -1 {
			arg = up
			getOp, setOp = chunk.OpGetUpvalue, chunk.OpSetUpvalue
		} else {
			arg = p.identifierConstant(name)
			getOp, setOp = chunk.OpGetGlobal, chunk.OpSetGlobal
		}
	}

	if canAssign && p.match(token.Equal) {
		p.expression()
		p.emitOp(setOp)
		p.emitByte(byte(arg))
		return
	}
	p.emitOp(getOp)
	p.emitByte(byte(arg))
}

func (p *Parser) call(canAssign bool) {
	argCount := p.argumentList()
	p.emitOp(chunk.OpCall)
	p.emitByte(byte(argCount))
}

func (p *Parser) argumentList() int {
	count := 0
	if !p.check(token.RightParen) {
		for {
			p.expression()
			if count == 255 {
				p.error("can't have more than 255 arguments")
			}
			count++
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "expected ')' after arguments")
	return count
}

func (p *Parser) dot(canAssign bool) {
	p.consume(token.Identifier, "expected property name after '.'")
	name := p.identifierConstant(p.previous)

	switch {
	case canAssign && p.match(token.Equal):
		p.expression()
		p.emitOp(chunk.OpSetProperty)
		p.emitByte(byte(name))
	case p.match(token.LeftParen):
		argCount := p.argumentList()
		p.emitOp(chunk.OpInvoke)
		p.emitByte(byte(name))
		p.emitByte(byte(argCount))
	default:
		p.emitOp(chunk.OpGetProperty)
		p.emitByte(byte(name))
	}
}
