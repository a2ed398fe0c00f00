// Package lexer tokenizes JEX source text into a stream of token.Token
// values, tracking source spans for diagnostics.
//
// The scanning technique (a cursor with start/current/width fields and
// accept/backup helpers) is modeled on the teacher's hand-rolled
// Pike-style scanner, retargeted at JEX's own disambiguation rules:
// '%' as keyword-prefix vs modulo, '&' as variable-ref vs '&&', and a
// lone '|' being illegal outside of '||'.
package lexer

import (
	"fmt"
	"unicode/utf8"

	"github.com/sandrolain/jex/pkg/jexerrors"
	"github.com/sandrolain/jex/pkg/token"
)

const eof = -1

// Lexer scans JEX source text into tokens on demand via Next.
type Lexer struct {
	input  string
	length int

	startPos token.Position
	curPos   token.Position
	prevPos  token.Position
	width    int

	err error
}

// New creates a Lexer over the given source text.
func New(input string) *Lexer {
	return &Lexer{input: input, length: len(input)}
}

// Err returns the first lexical error encountered, if any.
func (l *Lexer) Err() error { return l.err }

// Next scans and returns the next token. Once the input is exhausted,
// Next returns token.EOF on every subsequent call.
func (l *Lexer) Next() token.Token {
	l.skipWhitespaceAndComments()
	if l.err != nil {
		if l.curPos.Offset >= l.length {
			return l.newToken(token.EOF)
		}
		return l.errToken(l.err.Error())
	}

	ch := l.nextRune()
	if ch == eof {
		return l.newToken(token.EOF)
	}

	switch {
	case ch == '%':
		return l.scanPercent()
	case ch == '&':
		return l.scanAmpersand()
	case ch == '|':
		return l.scanPipe()
	case ch == '=':
		if l.acceptRune('=') {
			return l.newToken(token.EqualEqual)
		}
		return l.newToken(token.Equal)
	case ch == '!':
		if l.acceptRune('=') {
			return l.newToken(token.BangEqual)
		}
		return l.newToken(token.Bang)
	case ch == '<':
		if l.acceptRune('=') {
			return l.newToken(token.LessEqual)
		}
		return l.newToken(token.Less)
	case ch == '>':
		if l.acceptRune('=') {
			return l.newToken(token.GreaterEqual)
		}
		return l.newToken(token.Greater)
	case ch == '(':
		return l.newToken(token.LParen)
	case ch == ')':
		return l.newToken(token.RParen)
	case ch == '{':
		return l.newToken(token.LBrace)
	case ch == '}':
		return l.newToken(token.RBrace)
	case ch == '[':
		return l.newToken(token.LBracket)
	case ch == ']':
		return l.newToken(token.RBracket)
	case ch == ',':
		return l.newToken(token.Comma)
	case ch == ';':
		return l.newToken(token.Semicolon)
	case ch == ':':
		return l.newToken(token.Colon)
	case ch == '.':
		return l.newToken(token.Dot)
	case ch == '+':
		return l.newToken(token.Plus)
	case ch == '-':
		return l.newToken(token.Minus)
	case ch == '*':
		return l.newToken(token.Star)
	case ch == '/':
		return l.newToken(token.Slash)
	case ch == '$':
		return l.newToken(token.Dollar)
	case ch == '"':
		return l.scanString('"')
	case ch >= '0' && ch <= '9':
		l.backup()
		return l.scanNumber()
	case isIdentStart(ch):
		l.backup()
		return l.scanIdent()
	default:
		return l.errToken(fmt.Sprintf("unexpected character %q", ch))
	}
}

// scanPercent disambiguates a keyword-introducer from the modulo operator.
// A '%' followed by an alphabetic character starts a keyword: the lexer
// matches the longest alphanumeric run and requires it to equal one of the
// known keywords (case-insensitive). Any other following character makes
// '%' the modulo operator.
func (l *Lexer) scanPercent() token.Token {
	r := l.peekRune()
	if !isAlpha(r) {
		return l.newToken(token.Percent)
	}
	for isAlnum(l.peekRune()) {
		l.nextRune()
	}
	body := l.input[l.startPos.Offset+1 : l.curPos.Offset]
	kind, ok := token.LookupKeyword(body)
	if !ok {
		return l.errToken(fmt.Sprintf("unrecognized keyword %%%s", body))
	}
	return l.newToken(kind)
}

// scanAmpersand disambiguates '&&' (logical AND) from '&name' (variable
// reference). A lone '&' not followed by '&' or an identifier start is an
// error.
func (l *Lexer) scanAmpersand() token.Token {
	if l.acceptRune('&') {
		return l.newToken(token.AndAnd)
	}
	if isIdentStart(l.peekRune()) {
		l.nextRune()
		for isIdentPart(l.peekRune()) {
			l.nextRune()
		}
		t := l.newToken(token.Variable)
		t.Value = l.input[t.Start.Offset+1 : t.End.Offset]
		return t
	}
	return l.errToken("'&' must be followed by '&' or a variable name")
}

// scanPipe requires '|' to be followed by another '|'; a lone pipe is an
// error per spec.
func (l *Lexer) scanPipe() token.Token {
	if l.acceptRune('|') {
		return l.newToken(token.OrOr)
	}
	return l.errToken("'|' must be doubled ('||')")
}

// scanString reads a double-quoted string literal with escapes
// \n \r \t \\ \".
func (l *Lexer) scanString(quote rune) token.Token {
	l.ignore()
	var raw []rune
Loop:
	for {
		ch := l.nextRune()
		switch ch {
		case quote:
			break Loop
		case eof, '\n':
			return l.errToken("unterminated string literal")
		case '\\':
			esc := l.nextRune()
			switch esc {
			case 'n':
				raw = append(raw, '\n')
			case 'r':
				raw = append(raw, '\r')
			case 't':
				raw = append(raw, '\t')
			case '\\':
				raw = append(raw, '\\')
			case '"':
				raw = append(raw, '"')
			case eof:
				return l.errToken("unterminated string literal")
			default:
				return l.errToken(fmt.Sprintf("invalid escape sequence \\%c", esc))
			}
		default:
			raw = append(raw, ch)
		}
	}
	t := l.newToken(token.String)
	t.Value = string(raw)
	return t
}

// scanNumber reads an integer or decimal literal under the invariant
// locale, with an optional exponent: [0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?
func (l *Lexer) scanNumber() token.Token {
	l.acceptAll(isDigit)
	if l.peekRune() == '.' {
		save := l.curPos
		saveWidth := l.width
		l.nextRune()
		if isDigit(l.peekRune()) {
			l.acceptAll(isDigit)
		} else {
			l.curPos = save
			l.width = saveWidth
		}
	}
	if r := l.peekRune(); r == 'e' || r == 'E' {
		save := l.curPos
		saveWidth := l.width
		l.nextRune()
		if r2 := l.peekRune(); r2 == '+' || r2 == '-' {
			l.nextRune()
		}
		if isDigit(l.peekRune()) {
			l.acceptAll(isDigit)
		} else {
			l.curPos = save
			l.width = saveWidth
		}
	}
	return l.newToken(token.Number)
}

// scanIdent reads an identifier and classifies it as a keyword literal
// (true/false/null) or a plain identifier.
func (l *Lexer) scanIdent() token.Token {
	l.acceptAll(isIdentPart)
	t := l.newToken(token.Ident)
	switch t.Value {
	case "true", "false":
		t.Kind = token.Boolean
	case "null":
		t.Kind = token.Null
	}
	return t
}

// skipWhitespaceAndComments consumes runs of whitespace, "// " line
// comments, and non-nesting "/* */" block comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		l.acceptAll(isSpace)
		l.ignore()
		if l.peekRune() == '/' {
			save := l.curPos
			saveW := l.width
			l.nextRune()
			switch l.peekRune() {
			case '/':
				l.nextRune()
				for {
					r := l.nextRune()
					if r == eof || r == '\n' {
						break
					}
				}
				l.ignore()
				continue
			case '*':
				l.nextRune()
				closed := false
				for {
					r := l.nextRune()
					if r == eof {
						break
					}
					if r == '*' && l.peekRune() == '/' {
						l.nextRune()
						closed = true
						break
					}
				}
				if !closed {
					l.err = jexerrors.NewCompileError(spanOf(l.startPos, l.curPos), "unterminated block comment")
					return
				}
				l.ignore()
				continue
			default:
				l.curPos = save
				l.width = saveW
				return
			}
		}
		return
	}
}

func spanOf(start, end token.Position) jexerrors.Span {
	return jexerrors.Span{
		StartLine: start.Line, StartCol: start.Col, StartOffset: start.Offset,
		EndLine: end.Line, EndCol: end.Col, EndOffset: end.Offset,
	}
}

func (l *Lexer) nextRune() rune {
	l.prevPos = l.curPos
	if l.curPos.Offset >= l.length {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.curPos.Offset:])
	l.width = w
	if r == '\n' {
		l.curPos.Line++
		l.curPos.Col = 0
	} else {
		l.curPos.Col++
	}
	l.curPos.Offset += w
	return r
}

func (l *Lexer) peekRune() rune {
	save := l.curPos
	saveW := l.width
	savePrev := l.prevPos
	r := l.nextRune()
	l.curPos = save
	l.width = saveW
	l.prevPos = savePrev
	return r
}

func (l *Lexer) backup() {
	l.curPos = l.prevPos
	l.width = 0
}

func (l *Lexer) ignore() {
	l.startPos = l.curPos
}

func (l *Lexer) acceptRune(r rune) bool {
	if l.peekRune() == r {
		l.nextRune()
		return true
	}
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	matched := false
	for isValid(l.peekRune()) {
		l.nextRune()
		matched = true
	}
	return matched
}

func (l *Lexer) newToken(kind token.Kind) token.Token {
	t := token.Token{
		Kind:  kind,
		Value: l.input[l.startPos.Offset:l.curPos.Offset],
		Start: l.startPos,
		End:   l.curPos,
	}
	l.startPos = l.curPos
	return t
}

func (l *Lexer) errToken(msg string) token.Token {
	t := l.newToken(token.Illegal)
	if l.err == nil {
		l.err = jexerrors.NewCompileError(spanOf(t.Start, t.End), "%s", msg)
	}
	return t
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isAlnum(r rune) bool { return isAlpha(r) || isDigit(r) }

func isIdentStart(r rune) bool { return isAlpha(r) || r == '_' }

func isIdentPart(r rune) bool { return isAlnum(r) || r == '_' }
