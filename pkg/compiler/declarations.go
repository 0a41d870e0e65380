package compiler

import (
	"github.com/kristofer/lumen/pkg/chunk"
	"github.com/kristofer/lumen/pkg/token"
	"github.com/kristofer/lumen/pkg/value"
)

// declaration is the top-level dispatch for anything that can appear at
// statement position: a var/fun/class declaration, or any plain statement.
// It resynchronizes after a syntax error so one bad statement doesn't take
// down the rest of the parse (§4.4).
func (p *Parser) declaration() {
	switch {
	case p.match(token.Class):
		p.classDeclaration()
	case p.match(token.Fun):
		p.funDeclaration()
	case p.match(token.Var):
		p.varDeclaration()
	default:
		p.statement()
	}
	if p.panicMode {
		p.synchronize()
	}
}

func (p *Parser) varDeclaration() {
	global := p.parseVariable("expected variable name")
	if p.match(token.Equal) {
		p.expression()
	} else {
		p.emitOp(chunk.OpNil)
	}
	p.consume(token.Semicolon, "expected ';' after variable declaration")
	p.defineVariable(global)
}

// parseVariable consumes the variable's name and, for a global, interns it
// as a constant; for a local it just declares the slot. It returns the
// constant-pool index defineVariable needs for OP_DEFINE_GLOBAL (ignored
// for locals).
func (p *Parser) parseVariable(errMsg string) int {
	p.consume(token.Identifier, errMsg)
	p.declareVariable()
	if p.cur.scopeDepth > 0 {
		return 0
	}
	return p.identifierConstant(p.previous)
}

func (p *Parser) defineVariable(global int) {
	if p.cur.scopeDepth > 0 {
		p.markInitialized()
		return
	}
	p.emitOp(chunk.OpDefineGlobal)
	p.emitByte(byte(global))
}

func (p *Parser) funDeclaration() {
	global := p.parseVariable("expected function name")
	p.markInitialized()
	p.function(typeFunction)
	p.defineVariable(global)
}

// function compiles one function body (shared by top-level `fun`
// declarations and class methods): a fresh nested compiler state, its
// parameter list, then its block body.
func (p *Parser) function(kind funcType) {
	enclosing := p.cur
	p.cur = p.newState(enclosing, kind)
	p.cur.fn.Name = p.heap.InternString(p.previous.Lexeme)

	p.beginScope()
	p.consume(token.LeftParen, "expected '(' after function name")
	if !p.check(token.RightParen) {
		for {
			p.cur.fn.Arity++
			if p.cur.fn.Arity > 255 {
				p.error("can't have more than 255 parameters")
			}
			constant := p.parseVariable("expected parameter name")
			p.defineVariable(constant)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "expected ')' after parameters")
	p.consume(token.LeftBrace, "expected '{' before function body")
	p.block()

	child := p.cur
	fn := p.endFunction()

	p.emitOp(chunk.OpClosure)
	p.emitByte(byte(p.makeConstant(value.FromObj(fn))))

	// One is-local/index pair per upvalue the callee captured, read back
	// from the child compiler state before it was discarded (§4.1, §4.7).
	for _, uv := range child.upvalues {
		if uv.isLocal {
			p.emitByte(1)
		} else {
			p.emitByte(0)
		}
		p.emitByte(uv.index)
	}
}

// classDeclaration compiles a class statement: `class Name [< Super] { ...
// methods ... }`. Inheritance is realized by OP_INHERIT, which copies the
// superclass's method table into the new class at the moment the class
// statement runs, so later reopening the superclass (if the language ever
// allowed that) would not retroactively affect already-declared subclasses
// (§4.8).
func (p *Parser) classDeclaration() {
	p.consume(token.Identifier, "expected class name")
	nameTok := p.previous
	nameConstant := p.identifierConstant(nameTok)
	p.declareVariable()

	p.emitOp(chunk.OpClass)
	p.emitByte(byte(nameConstant))
	p.defineVariable(nameConstant)

	cls := &classState{enclosing: p.class}
	p.class = cls

	if p.match(token.Less) {
		p.consume(token.Identifier, "expected superclass name")
		p.variable(false)
		if p.previous.Lexeme == nameTok.Lexeme {
			p.error("a class can't inherit from itself")
		}

		p.beginScope()
		p.addLocal(token.Token{Kind: token.Identifier, Lexeme: "super"})
		p.defineVariable(0)

		p.namedVariable(nameTok, false)
		p.emitOp(chunk.OpInherit)
		cls.hasSuperclass = true
	}

	p.namedVariable(nameTok, false)
	p.consume(token.LeftBrace, "expected '{' before class body")
	for !p.check(token.RightBrace) && !p.check(token.EOF) {
		p.method()
	}
	p.consume(token.RightBrace, "expected '}' after class body")
	p.emitOp(chunk.OpPop) // drop the class value pushed by namedVariable above

	if cls.hasSuperclass {
		p.endScope()
	}
	p.class = cls.enclosing
}

func (p *Parser) method() {
	p.consume(token.Identifier, "expected method name")
	name := p.previous
	constant := p.identifierConstant(name)

	kind := typeMethod
	if name.Lexeme == "init" {
		kind = typeInitializer
	}
	p.function(kind)
	p.emitOp(chunk.OpMethod)
	p.emitByte(byte(constant))
}
