package scanner_test

import (
	"testing"

	"github.com/kristofer/lumen/pkg/scanner"
	"github.com/kristofer/lumen/pkg/token"
	"github.com/stretchr/testify/require"
)

func scanAll(src string) []token.Token {
	s := scanner.New(src)
	var out []token.Token
	for {
		tok := s.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScansArithmeticExpression(t *testing.T) {
	toks := scanAll("1 + 2 * 3")
	require.Equal(t, []token.Kind{token.Number, token.Plus, token.Number, token.Star, token.Number, token.EOF}, kinds(toks))
}

func TestScansKeywordsNotIdentifiers(t *testing.T) {
	toks := scanAll("var x = fallthrough")
	require.Equal(t, token.Var, toks[0].Kind)
	require.Equal(t, token.Identifier, toks[1].Kind)
	require.Equal(t, token.Fallthrough, toks[3].Kind)
}

func TestScansTwoCharOperators(t *testing.T) {
	toks := scanAll("a == b != c <= d >= e")
	require.Equal(t, []token.Kind{
		token.Identifier, token.EqualEqual, token.Identifier, token.BangEqual,
		token.Identifier, token.LessEqual, token.Identifier, token.GreaterEqual,
		token.Identifier, token.EOF,
	}, kinds(toks))
}

func TestSkipsLineAndBlockComments(t *testing.T) {
	toks := scanAll("1 // comment\n/* block\nspanning */2")
	require.Equal(t, []token.Kind{token.Number, token.Number, token.EOF}, kinds(toks))
	require.Equal(t, 3, toks[1].Line)
}

func TestUnterminatedStringIsError(t *testing.T) {
	toks := scanAll(`"unterminated`)
	require.Equal(t, token.Error, toks[0].Kind)
}

func TestStringLiteralLexeme(t *testing.T) {
	toks := scanAll(`"hello world"`)
	require.Equal(t, token.String, toks[0].Kind)
	require.Equal(t, `"hello world"`, toks[0].Lexeme)
}
