// Package token defines the lexical token kinds of the JEX language and
// the keyword lookup table used by the lexer.
package token

import "strings"

// Kind identifies the category of a lexical token.
type Kind uint8

const (
	EOF Kind = iota
	Illegal

	// Literals
	Ident     // bare identifier (function/variable name body, without & prefix)
	Variable  // &name
	String    // "..." / escaped
	Number    // 123, 3.14
	Boolean   // true / false
	Null      // null

	// Punctuation
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semicolon
	Colon
	Dot
	Dollar // $ — parser assembles $.a.b[0] paths and $in/$out/$meta from this

	// Operators
	Plus
	Minus
	Star
	Slash
	Percent // modulo (bare %, not followed by a keyword)
	Bang
	BangEqual
	Equal
	EqualEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	AndAnd
	OrOr

	// Keywords (all begin with '%' in source)
	KwLet
	KwSet
	KwIf
	KwThen
	KwElse
	KwDo
	KwEnd
	KwForeach
	KwIn
	KwTo
	KwBreak
	KwContinue
	KwReturn
	KwFunc
	KwEndFunc
)

var names = map[Kind]string{
	EOF: "eof", Illegal: "illegal",
	Ident: "identifier", Variable: "variable", String: "string", Number: "number",
	Boolean: "boolean", Null: "null",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Comma: ",", Semicolon: ";", Colon: ":", Dot: ".", Dollar: "$",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Bang: "!", BangEqual: "!=", Equal: "=", EqualEqual: "==",
	Less: "<", LessEqual: "<=", Greater: ">", GreaterEqual: ">=",
	AndAnd: "&&", OrOr: "||",
	KwLet: "%let", KwSet: "%set", KwIf: "%if", KwThen: "%then", KwElse: "%else",
	KwDo: "%do", KwEnd: "%end", KwForeach: "%foreach", KwIn: "%in", KwTo: "%to",
	KwBreak: "%break", KwContinue: "%continue", KwReturn: "%return",
	KwFunc: "%func", KwEndFunc: "%endfunc",
}

// String renders a human-readable token kind name.
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown"
}

// keywords maps the lowercased keyword body (without the leading '%') to
// its token kind. Matching is case-insensitive per spec.
var keywords = map[string]Kind{
	"let": KwLet, "set": KwSet, "if": KwIf, "then": KwThen, "else": KwElse,
	"do": KwDo, "end": KwEnd, "foreach": KwForeach, "in": KwIn, "to": KwTo,
	"break": KwBreak, "continue": KwContinue, "return": KwReturn,
	"func": KwFunc, "endfunc": KwEndFunc,
}

// LookupKeyword resolves the alphanumeric run following '%' to a keyword
// Kind. ok is false if body is not one of the recognized keywords.
func LookupKeyword(body string) (Kind, bool) {
	k, ok := keywords[strings.ToLower(body)]
	return k, ok
}

// Token is a single lexical token with its source span.
type Token struct {
	Kind  Kind
	Value string // literal text (decoded for strings; raw otherwise)
	Start Position
	End   Position
}

// Position is a single point in source text.
type Position struct {
	Line, Col, Offset int
}
