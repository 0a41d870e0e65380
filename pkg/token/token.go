// Package token defines the lexical token kinds produced by the scanner
// and consumed by the compiler's Pratt parser (§4.4).
package token

// Kind identifies a token's lexical category.
type Kind int

const (
	EOF Kind = iota
	Error

	// Single-character tokens.
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star
	Percent
	Colon
	Question

	// One- or two-character tokens.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals.
	Identifier
	String
	Number

	// Keywords.
	And
	Class
	Else
	Elif
	False
	For
	Fun
	If
	Nil
	Or
	Print
	Return
	Super
	Then
	This
	True
	Var
	While
	Break
	Continue
	Switch
	Case
	Default
	Fallthrough
)

var names = [...]string{
	EOF: "EOF", Error: "ERROR",
	LeftParen: "(", RightParen: ")", LeftBrace: "{", RightBrace: "}",
	Comma: ",", Dot: ".", Minus: "-", Plus: "+", Semicolon: ";",
	Slash: "/", Star: "*", Percent: "%", Colon: ":", Question: "?",
	Bang: "!", BangEqual: "!=", Equal: "=", EqualEqual: "==",
	Greater: ">", GreaterEqual: ">=", Less: "<", LessEqual: "<=",
	Identifier: "IDENTIFIER", String: "STRING", Number: "NUMBER",
	And: "and", Class: "class", Else: "else", Elif: "elif", False: "false",
	For: "for", Fun: "fun", If: "if", Nil: "nil", Or: "or", Print: "print",
	Return: "return", Super: "super", Then: "then", This: "this", True: "true",
	Var: "var", While: "while", Break: "break", Continue: "continue",
	Switch: "switch", Case: "case", Default: "default", Fallthrough: "fallthrough",
}

func (k Kind) String() string {
	if int(k) < len(names) && names[k] != "" {
		return names[k]
	}
	return "UNKNOWN"
}

// Keywords maps reserved identifiers to their keyword kind; the scanner
// consults this after scanning an identifier's full extent (§4.4).
var Keywords = map[string]Kind{
	"and": And, "class": Class, "else": Else, "elif": Elif, "false": False,
	"for": For, "fun": Fun, "if": If, "nil": Nil, "or": Or, "print": Print,
	"return": Return, "super": Super, "then": Then, "this": This, "true": True,
	"var": Var, "while": While, "break": Break, "continue": Continue,
	"switch": Switch, "case": Case, "default": Default, "fallthrough": Fallthrough,
}

// Token is one lexeme produced by the scanner: its kind, its exact source
// text, and the line it started on (used for both compile-error and
// runtime-error reporting).
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
}
