// Package scanner implements the hand-written lexical scanner: a single
// forward-only pass over the source text that produces one token.Token at a
// time on demand (§4.4; DFA/table-driven internals are explicitly out of
// scope per §1 Non-goals — this is a direct-coded scanner, same style as
// smog's pkg/lexer).
package scanner

import (
	"github.com/kristofer/lumen/pkg/token"
)

// Scanner holds the cursor into a source string. It has no buffering, looks
// at most two bytes ahead (peek and peekNext), and is not safe for
// concurrent use.
type Scanner struct {
	source  string
	start   int
	current int
	line    int
}

// New returns a scanner positioned at the start of source.
func New(source string) *Scanner {
	return &Scanner{source: source, line: 1}
}

// Next scans and returns the next token, or an EOF token once the source is
// exhausted. Lexical errors (unterminated string, unexpected character)
// come back as a token.Error token whose Lexeme is the error message,
// matching how the reference scanner folds lexing failures into the token
// stream instead of a side-channel error.
func (s *Scanner) Next() token.Token {
	s.skipWhitespace()
	s.start = s.current

	if s.atEnd() {
		return s.make(token.EOF)
	}

	c := s.advance()
	if isAlpha(c) {
		return s.identifier()
	}
	if isDigit(c) {
		return s.number()
	}

	switch c {
	case '(':
		return s.make(token.LeftParen)
	case ')':
		return s.make(token.RightParen)
	case '{':
		return s.make(token.LeftBrace)
	case '}':
		return s.make(token.RightBrace)
	case ';':
		return s.make(token.Semicolon)
	case ',':
		return s.make(token.Comma)
	case '.':
		return s.make(token.Dot)
	case '-':
		return s.make(token.Minus)
	case '+':
		return s.make(token.Plus)
	case '/':
		return s.make(token.Slash)
	case '*':
		return s.make(token.Star)
	case '%':
		return s.make(token.Percent)
	case ':':
		return s.make(token.Colon)
	case '?':
		return s.make(token.Question)
	case '!':
		return s.makeIf(s.matchRune('='), token.BangEqual, token.Bang)
	case '=':
		return s.makeIf(s.matchRune('='), token.EqualEqual, token.Equal)
	case '<':
		return s.makeIf(s.matchRune('='), token.LessEqual, token.Less)
	case '>':
		return s.makeIf(s.matchRune('='), token.GreaterEqual, token.Greater)
	case '"':
		return s.string()
	}

	return s.errorToken("unexpected character")
}

func (s *Scanner) atEnd() bool { return s.current >= len(s.source) }

func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

func (s *Scanner) matchRune(expected byte) bool {
	if s.atEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) skipWhitespace() {
	for {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.advance()
		case '\n':
			s.line++
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				for s.peek() != '\n' && !s.atEnd() {
					s.advance()
				}
			} else if s.peekNext() == '*' {
				s.skipBlockComment()
			} else {
				return
			}
		default:
			return
		}
	}
}

// skipBlockComment consumes a /* ... */ comment, honoring nesting so a
// commented-out block containing its own block comment doesn't end early.
func (s *Scanner) skipBlockComment() {
	s.advance() // '/'
	s.advance() // '*'
	depth := 1
	for depth > 0 && !s.atEnd() {
		if s.peek() == '/' && s.peekNext() == '*' {
			s.advance()
			s.advance()
			depth++
		} else if s.peek() == '*' && s.peekNext() == '/' {
			s.advance()
			s.advance()
			depth--
		} else {
			if s.peek() == '\n' {
				s.line++
			}
			s.advance()
		}
	}
}

func (s *Scanner) string() token.Token {
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.atEnd() {
		return s.errorToken("unterminated string")
	}
	s.advance() // closing quote
	return s.make(token.String)
}

func (s *Scanner) number() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	return s.make(token.Number)
}

func (s *Scanner) identifier() token.Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}
	text := s.source[s.start:s.current]
	if kind, ok := token.Keywords[text]; ok {
		return s.make(kind)
	}
	return s.make(token.Identifier)
}

func (s *Scanner) make(kind token.Kind) token.Token {
	return token.Token{Kind: kind, Lexeme: s.source[s.start:s.current], Line: s.line}
}

func (s *Scanner) makeIf(cond bool, ifTrue, ifFalse token.Kind) token.Token {
	if cond {
		return s.make(ifTrue)
	}
	return s.make(ifFalse)
}

func (s *Scanner) errorToken(msg string) token.Token {
	return token.Token{Kind: token.Error, Lexeme: msg, Line: s.line}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
