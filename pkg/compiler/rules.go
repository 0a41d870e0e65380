package compiler

import "github.com/kristofer/lumen/pkg/token"

// precedence orders binary operators from loosest to tightest binding, used
// by the Pratt parser's precedence-climbing loop (§4.4).
type precedence int

const (
	precNone       precedence = iota
	precAssignment            // =
	precTernary               // ?:
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * / %
	precUnary                 // ! -
	precCall                  // . () invoke
	precPrimary
)

type parseFn func(p *Parser, canAssign bool)

type rule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

var rules map[token.Kind]rule

func init() {
	rules = map[token.Kind]rule{
		token.LeftParen:  {prefix: (*Parser).grouping, infix: (*Parser).call, precedence: precCall},
		token.Dot:        {infix: (*Parser).dot, precedence: precCall},
		token.Minus:      {prefix: (*Parser).unary, infix: (*Parser).binary, precedence: precTerm},
		token.Plus:       {infix: (*Parser).binary, precedence: precTerm},
		token.Slash:      {infix: (*Parser).binary, precedence: precFactor},
		token.Star:       {infix: (*Parser).binary, precedence: precFactor},
		token.Percent:    {infix: (*Parser).binary, precedence: precFactor},
		token.Bang:       {prefix: (*Parser).unary},
		token.BangEqual:  {infix: (*Parser).binary, precedence: precEquality},
		token.EqualEqual: {infix: (*Parser).binary, precedence: precEquality},
		token.Greater:      {infix: (*Parser).binary, precedence: precComparison},
		token.GreaterEqual: {infix: (*Parser).binary, precedence: precComparison},
		token.Less:         {infix: (*Parser).binary, precedence: precComparison},
		token.LessEqual:    {infix: (*Parser).binary, precedence: precComparison},
		token.Identifier: {prefix: (*Parser).variable},
		token.String:     {prefix: (*Parser).stringLit},
		token.Number:     {prefix: (*Parser).number},
		token.And:        {infix: (*Parser).and, precedence: precAnd},
		token.Or:         {infix: (*Parser).or, precedence: precOr},
		token.False:      {prefix: (*Parser).literal},
		token.Nil:        {prefix: (*Parser).literal},
		token.True:       {prefix: (*Parser).literal},
		token.This:       {prefix: (*Parser).this},
		token.Super:      {prefix: (*Parser).super},
		token.Question:   {infix: (*Parser).ternary, precedence: precTernary},
	}
}

func (p *Parser) getRule(k token.Kind) rule { return rules[k] }

// parsePrecedence is the Pratt-parsing core: parse a prefix expression,
// then keep consuming infix operators whose precedence is at least prec
// (§4.4).
func (p *Parser) parsePrecedence(prec precedence) {
	p.advance()
	prefix := p.getRule(p.previous.Kind).prefix
	if prefix == nil {
		p.error("expected expression")
		return
	}
	canAssign := prec <= precAssignment
	prefix(p, canAssign)

	for prec <= p.getRule(p.current.Kind).precedence {
		p.advance()
		infix := p.getRule(p.previous.Kind).infix
		infix(p, canAssign)
	}

	if canAssign && p.match(token.Equal) {
		p.error("invalid assignment target")
	}
}

func (p *Parser) expression() { p.parsePrecedence(precAssignment) }
