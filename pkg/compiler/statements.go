package compiler

import (
	"github.com/kristofer/lumen/pkg/chunk"
	"github.com/kristofer/lumen/pkg/token"
)

func (p *Parser) statement() {
	switch {
	case p.match(token.Print):
		p.printStatement()
	case p.match(token.If):
		p.ifStatement()
	case p.match(token.Return):
		p.returnStatement()
	case p.match(token.While):
		p.whileStatement()
	case p.match(token.For):
		p.forStatement()
	case p.match(token.Switch):
		p.switchStatement()
	case p.match(token.Break):
		p.breakStatement()
	case p.match(token.Continue):
		p.continueStatement()
	case p.match(token.LeftBrace):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.expressionStatement()
	}
}

func (p *Parser) block() {
	for !p.check(token.RightBrace) && !p.check(token.EOF) {
		p.declaration()
	}
	p.consume(token.RightBrace, "expected '}' after block")
}

func (p *Parser) expressionStatement() {
	p.expression()
	p.consume(token.Semicolon, "expected ';' after expression")
	p.emitOp(chunk.OpPop)
}

func (p *Parser) printStatement() {
	p.expression()
	p.consume(token.Semicolon, "expected ';' after value")
	p.emitOp(chunk.OpPrint)
}

func (p *Parser) returnStatement() {
	if p.cur.kind == typeScript {
		p.error("can't return from top-level code")
	}
	if p.match(token.Semicolon) {
		p.emitReturn()
		return
	}
	if p.cur.kind == typeInitializer {
		p.error("can't return a value from an initializer")
	}
	p.expression()
	p.consume(token.Semicolon, "expected ';' after return value")
	p.emitOp(chunk.OpReturn)
}

// ifStatement compiles `if (cond) then-branch [elif (cond) branch ...]
// [else branch]` as a chain of conditional jumps; an elif is just sugar for
// `else { if ... }`, but compiled flat rather than nested so a long elif
// chain doesn't grow one scope level per arm (§9 supplemented feature).
func (p *Parser) ifStatement() {
	p.consume(token.LeftParen, "expected '(' after 'if'")
	p.expression()
	p.consume(token.RightParen, "expected ')' after condition")

	thenJump := p.emitJump(chunk.OpJumpIfFalse)
	p.emitOp(chunk.OpPop)
	p.statement()

	var endJumps []int
	endJumps = append(endJumps, p.emitJump(chunk.OpJump))
	p.patchJump(thenJump)
	p.emitOp(chunk.OpPop)

	for p.match(token.Elif) {
		p.consume(token.LeftParen, "expected '(' after 'elif'")
		p.expression()
		p.consume(token.RightParen, "expected ')' after condition")

		branchJump := p.emitJump(chunk.OpJumpIfFalse)
		p.emitOp(chunk.OpPop)
		p.statement()
		endJumps = append(endJumps, p.emitJump(chunk.OpJump))
		p.patchJump(branchJump)
		p.emitOp(chunk.OpPop)
	}

	if p.match(token.Else) {
		p.statement()
	}

	for _, j := range endJumps {
		p.patchJump(j)
	}
}

func (p *Parser) whileStatement() {
	loopStart := len(p.chunk().Code)
	p.pushLoop(loopStart)

	p.consume(token.LeftParen, "expected '(' after 'while'")
	p.expression()
	p.consume(token.RightParen, "expected ')' after condition")

	exitJump := p.emitJump(chunk.OpJumpIfFalse)
	p.emitOp(chunk.OpPop)
	p.statement()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitOp(chunk.OpPop)
	p.popLoop()
}

// forStatement desugars the C-style for loop into the same while-loop
// bytecode shape, matching the reference compiler's approach of reusing
// one loop primitive instead of a distinct OP_FOR (§4.4, §9).
func (p *Parser) forStatement() {
	p.beginScope()
	p.consume(token.LeftParen, "expected '(' after 'for'")

	switch {
	case p.match(token.Semicolon):
		// no initializer
	case p.match(token.Var):
		p.varDeclaration()
	default:
		p.expressionStatement()
	}

	loopStart := len(p.chunk().Code)
	p.pushLoop(loopStart)

	exitJump := -1
	if !p.match(token.Semicolon) {
		p.expression()
		p.consume(token.Semicolon, "expected ';' after loop condition")
		exitJump = p.emitJump(chunk.OpJumpIfFalse)
		p.emitOp(chunk.OpPop)
	}

	if !p.match(token.RightParen) {
		bodyJump := p.emitJump(chunk.OpJump)
		incrementStart := len(p.chunk().Code)
		p.expression()
		p.emitOp(chunk.OpPop)
		p.consume(token.RightParen, "expected ')' after for clauses")

		p.emitLoop(loopStart)
		loopStart = incrementStart
		p.cur.loop.continueAt = incrementStart
		p.patchJump(bodyJump)
	}

	p.statement()
	p.emitLoop(loopStart)

	if exitJump != -1 {
		p.patchJump(exitJump)
		p.emitOp(chunk.OpPop)
	}

	p.popLoop()
	p.endScope()
}

// switchStatement compiles `switch (expr) { case v: ...; default: ... }`.
// Each case body ends with an implicit jump to the end of the switch; only
// an explicit `fallthrough;` statement continues into the next case's body,
// without testing that case's value. A `break` inside a case also leaves the
// switch.
func (p *Parser) switchStatement() {
	p.consume(token.LeftParen, "expected '(' after 'switch'")
	p.expression()
	p.consume(token.RightParen, "expected ')' after switch expression")
	p.consume(token.LeftBrace, "expected '{' before switch body")

	p.pushSwitch(len(p.chunk().Code)) // break inside a switch targets its end, like a loop

	var caseEndJumps []int
	prevCaseSkip := -1
	fallthroughJump := -1

	for p.match(token.Case) {
		if prevCaseSkip != -1 {
			p.patchJump(prevCaseSkip)
			p.emitOp(chunk.OpPop)
		}

		p.emitOp(chunk.OpDup) // duplicate the switch subject so Equal leaves it intact underneath
		p.expression()
		p.consume(token.Colon, "expected ':' after case value")
		p.emitOp(chunk.OpEqual)
		prevCaseSkip = p.emitJump(chunk.OpJumpIfFalse)
		p.emitOp(chunk.OpPop)

		if fallthroughJump != -1 {
			p.patchJump(fallthroughJump)
			fallthroughJump = -1
		}

		fellThrough := false
		for !p.check(token.Case) && !p.check(token.Default) && !p.check(token.RightBrace) {
			if p.match(token.Fallthrough) {
				p.consume(token.Semicolon, "expected ';' after 'fallthrough'")
				fallthroughJump = p.emitJump(chunk.OpJump)
				fellThrough = true
				break
			}
			p.statement()
		}
		if !fellThrough {
			caseEndJumps = append(caseEndJumps, p.emitJump(chunk.OpJump))
		}
	}

	if prevCaseSkip != -1 {
		p.patchJump(prevCaseSkip)
		p.emitOp(chunk.OpPop)
	}
	if fallthroughJump != -1 {
		p.patchJump(fallthroughJump)
		fallthroughJump = -1
	}

	if p.match(token.Default) {
		p.consume(token.Colon, "expected ':' after 'default'")
		for !p.check(token.RightBrace) {
			p.statement()
		}
	}

	for _, j := range caseEndJumps {
		p.patchJump(j)
	}
	// A `break` also targets this point, so it lands before the subject pop
	// below rather than leaking the subject value on the stack.
	for _, j := range p.cur.loop.breaks {
		p.patchJump(j)
	}
	p.cur.loop.breaks = nil

	p.emitOp(chunk.OpPop) // the switch subject value, still on the stack from the last comparison chain
	p.consume(token.RightBrace, "expected '}' after switch body")

	p.popLoop()
}

// --- break / continue ---------------------------------------------------

func (p *Parser) pushLoop(continueAt int) {
	p.cur.loop = &loopState{enclosing: p.cur.loop, continueAt: continueAt, depth: p.cur.scopeDepth, isLoop: true}
}

// pushSwitch pushes a loopState for a switch body: break targets its end
// exactly like a loop's, but isLoop stays false so continueStatement skips
// past it to find the nearest real loop's continueAt/depth instead of
// looping back to this switch's own start (§4.4, §9).
func (p *Parser) pushSwitch(continueAt int) {
	p.cur.loop = &loopState{enclosing: p.cur.loop, continueAt: continueAt, depth: p.cur.scopeDepth, isLoop: false}
}

func (p *Parser) popLoop() {
	p.patchBreaks()
	p.cur.loop = p.cur.loop.enclosing
}

// enclosingLoop returns the nearest loopState with isLoop set, skipping any
// switch states continue must pass through to reach the loop it actually
// continues (§4.4, §9 supplemented feature 3).
func (p *Parser) enclosingLoop() *loopState {
	for l := p.cur.loop; l != nil; l = l.enclosing {
		if l.isLoop {
			return l
		}
	}
	return nil
}

func (p *Parser) patchBreaks() {
	for _, off := range p.cur.loop.breaks {
		p.patchJump(off)
	}
	p.cur.loop.breaks = nil
}

// discardLocalsTo pops (without adjusting compiler-tracked scope state, since
// control leaves the scope entirely) every local declared at or below the
// loop's own depth, so a break/continue doesn't leave stale slots behind
// when the VM later resumes after the loop's own endScope runs.
func (p *Parser) discardLocalsTo(depth int) {
	for i := len(p.cur.locals) - 1; i >= 0 && p.cur.locals[i].depth > depth; i-- {
		if p.cur.locals[i].isCaptured {
			p.emitOp(chunk.OpCloseUpvalue)
		} else {
			p.emitOp(chunk.OpPop)
		}
	}
}

// discardSwitchSubjectsTo pops the still-live subject value of every
// switch between p.cur.loop (inclusive) and target (exclusive): a
// `continue` that jumps out past one or more enclosing switches to reach
// target's loop header bypasses those switches' own trailing OP_POP of
// their subject, so it must pop each one here instead or the value would
// be stranded on the stack for the rest of the loop's run (§4.4, §9).
func (p *Parser) discardSwitchSubjectsTo(target *loopState) {
	for l := p.cur.loop; l != target; l = l.enclosing {
		if !l.isLoop {
			p.emitOp(chunk.OpPop)
		}
	}
}

func (p *Parser) breakStatement() {
	if p.cur.loop == nil {
		p.error("'break' used outside of a loop or switch")
		p.consume(token.Semicolon, "expected ';' after 'break'")
		return
	}
	p.discardLocalsTo(p.cur.loop.depth)
	jump := p.emitJump(chunk.OpJump)
	p.cur.loop.breaks = append(p.cur.loop.breaks, jump)
	p.consume(token.Semicolon, "expected ';' after 'break'")
}

func (p *Parser) continueStatement() {
	loop := p.enclosingLoop()
	if loop == nil {
		p.error("'continue' used outside of a loop")
		p.consume(token.Semicolon, "expected ';' after 'continue'")
		return
	}
	p.discardLocalsTo(loop.depth)
	p.discardSwitchSubjectsTo(loop)
	p.emitLoop(loop.continueAt)
	p.consume(token.Semicolon, "expected ';' after 'continue'")
}
