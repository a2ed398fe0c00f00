// Package parser turns a token.Token stream into an ast.Program: top-down
// recursive descent for statements, precedence climbing for expressions.
//
// Grounded on the teacher's pkg/parser/parser.go (a Pratt-style expression
// parser driven by a current/peek token pair with an explicit precedence
// table), retargeted at JEX's own statement grammar (spec.md §4.2) since
// JSONata has no statement forms at all — only expressions.
package parser

import (
	"fmt"
	"strconv"

	"github.com/sandrolain/jex/pkg/ast"
	"github.com/sandrolain/jex/pkg/decimal"
	"github.com/sandrolain/jex/pkg/jexerrors"
	"github.com/sandrolain/jex/pkg/lexer"
	"github.com/sandrolain/jex/pkg/token"
)

// CompileOptions governs parser/compiler behavior per spec.md §6.
type CompileOptions struct {
	Strict             bool
	AllowUserFunctions bool
}

// DefaultCompileOptions returns the spec-documented defaults.
func DefaultCompileOptions() CompileOptions {
	return CompileOptions{Strict: false, AllowUserFunctions: true}
}

// precedence levels, lowest to highest, per spec.md §4.2.
const (
	precLowest = iota
	precOr     // ||
	precAnd    // &&
	precEquality
	precRelational
	precAdditive
	precMultiplicative
)

var binPrec = map[token.Kind]int{
	token.OrOr:         precOr,
	token.AndAnd:       precAnd,
	token.EqualEqual:   precEquality,
	token.BangEqual:    precEquality,
	token.Less:         precRelational,
	token.LessEqual:    precRelational,
	token.Greater:      precRelational,
	token.GreaterEqual: precRelational,
	token.Plus:         precAdditive,
	token.Minus:        precAdditive,
	token.Star:         precMultiplicative,
	token.Slash:        precMultiplicative,
	token.Percent:      precMultiplicative,
}

// Parser holds the token stream and lookahead.
type Parser struct {
	lex  *lexer.Lexer
	opts CompileOptions

	cur  token.Token
	peek token.Token
}

// New creates a Parser over source text.
func New(source string, opts CompileOptions) *Parser {
	p := &Parser{lex: lexer.New(source), opts: opts}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) curSpan() ast.Span { return spanOf(p.cur) }

func spanOf(t token.Token) ast.Span {
	return ast.Span{
		StartLine: t.Start.Line, StartCol: t.Start.Col, StartOffset: t.Start.Offset,
		EndLine: t.End.Line, EndCol: t.End.Col, EndOffset: t.End.Offset,
	}
}

func spanBetween(a, b ast.Span) ast.Span {
	return ast.Span{StartLine: a.StartLine, StartCol: a.StartCol, StartOffset: a.StartOffset,
		EndLine: b.EndLine, EndCol: b.EndCol, EndOffset: b.EndOffset}
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return jexerrors.NewCompileError(p.curSpan(), format, args...)
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.cur.Kind != k {
		return token.Token{}, p.errorf("expected %s, got %s %q", k, p.cur.Kind, p.cur.Value)
	}
	t := p.cur
	p.advance()
	return t, nil
}

// ParseProgram parses a full script into a Program.
func ParseProgram(source string, opts CompileOptions) (*ast.Program, error) {
	p := New(source, opts)
	return p.parseProgram()
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.cur.Kind != token.EOF {
		if p.cur.Kind == token.Semicolon {
			p.advance()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	if err := p.lex.Err(); err != nil {
		return nil, err
	}
	return prog, nil
}

// parseBlock parses statements until one of the given closing keywords is
// seen (not consumed) or EOF.
func (p *Parser) parseBlock(closers ...token.Kind) ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for {
		if p.cur.Kind == token.EOF {
			return nil, p.errorf("unexpected end of input inside block")
		}
		for _, c := range closers {
			if p.cur.Kind == c {
				return stmts, nil
			}
		}
		if p.cur.Kind == token.Semicolon {
			p.advance()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur.Kind {
	case token.KwLet:
		return p.parseLet()
	case token.KwSet:
		return p.parseSet()
	case token.KwIf:
		return p.parseIf()
	case token.KwForeach:
		return p.parseForeach()
	case token.KwDo:
		return p.parseDoLoop()
	case token.KwBreak:
		start := p.curSpan()
		p.advance()
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.Break{Base: ast.NewBase(start)}, nil
	case token.KwContinue:
		start := p.curSpan()
		p.advance()
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.Continue{Base: ast.NewBase(start)}, nil
	case token.KwReturn:
		return p.parseReturn()
	case token.KwFunc:
		return p.parseFunctionDecl()
	default:
		return p.parseExpressionStmt()
	}
}

func (p *Parser) parseLet() (ast.Stmt, error) {
	start := p.curSpan()
	p.advance() // %let
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Equal); err != nil {
		return nil, err
	}
	value, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	end := p.curSpan()
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.Let{Base: ast.NewBase(spanBetween(start, end)), Name: name.Value, Value: value}, nil
}

// parseSet disambiguates Form A ("%set <pathExpr> = expr ;") from Form B
// ("%set <targetExpr> , <pathExpr> , <valueExpr> ;") by checking whether a
// comma follows the first parsed expression.
func (p *Parser) parseSet() (ast.Stmt, error) {
	start := p.curSpan()
	p.advance() // %set
	first, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if p.cur.Kind == token.Comma {
		p.advance()
		pathExpr, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Comma); err != nil {
			return nil, err
		}
		valueExpr, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		end := p.curSpan()
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.Set{Base: ast.NewBase(spanBetween(start, end)), Target: first, Path: pathExpr, Value: valueExpr}, nil
	}
	if _, err := p.expect(token.Equal); err != nil {
		return nil, err
	}
	valueExpr, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	end := p.curSpan()
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.Set{Base: ast.NewBase(spanBetween(start, end)), Target: nil, Path: first, Value: valueExpr}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	start := p.curSpan()
	p.advance() // %if
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwThen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwDo); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	thenBlock, err := p.parseBlock(token.KwEnd, token.KwElse)
	if err != nil {
		return nil, err
	}
	var elseBlock []ast.Stmt
	if p.cur.Kind == token.KwElse {
		p.advance()
		if _, err := p.expect(token.KwDo); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		elseBlock, err = p.parseBlock(token.KwEnd)
		if err != nil {
			return nil, err
		}
	}
	end := p.curSpan()
	if _, err := p.expect(token.KwEnd); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.If{Base: ast.NewBase(spanBetween(start, end)), Cond: cond, Then: thenBlock, Else: elseBlock}, nil
}

func (p *Parser) parseForeach() (ast.Stmt, error) {
	start := p.curSpan()
	p.advance() // %foreach
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwIn); err != nil {
		return nil, err
	}
	coll, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwDo); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(token.KwEnd)
	if err != nil {
		return nil, err
	}
	end := p.curSpan()
	if _, err := p.expect(token.KwEnd); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.Foreach{Base: ast.NewBase(spanBetween(start, end)), Var: name.Value, Collection: coll, Body: body}, nil
}

func (p *Parser) parseDoLoop() (ast.Stmt, error) {
	start := p.curSpan()
	p.advance() // %do
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Equal); err != nil {
		return nil, err
	}
	from, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwTo); err != nil {
		return nil, err
	}
	to, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(token.KwEnd)
	if err != nil {
		return nil, err
	}
	end := p.curSpan()
	if _, err := p.expect(token.KwEnd); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.DoLoop{Base: ast.NewBase(spanBetween(start, end)), Var: name.Value, Start: from, End: to, Body: body}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	start := p.curSpan()
	p.advance() // %return
	if p.cur.Kind == token.Semicolon {
		end := p.curSpan()
		p.advance()
		return &ast.Return{Base: ast.NewBase(spanBetween(start, end)), Value: nil}, nil
	}
	value, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	end := p.curSpan()
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.Return{Base: ast.NewBase(spanBetween(start, end)), Value: value}, nil
}

func (p *Parser) parseFunctionDecl() (ast.Stmt, error) {
	if !p.opts.AllowUserFunctions {
		return nil, p.errorf("user-defined functions are not permitted by compile options")
	}
	start := p.curSpan()
	p.advance() // %func
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var params []string
	for p.cur.Kind != token.RParen {
		pn, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		params = append(params, pn.Value)
		if p.cur.Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(token.KwEndFunc)
	if err != nil {
		return nil, err
	}
	end := p.curSpan()
	if _, err := p.expect(token.KwEndFunc); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.FunctionDecl{Base: ast.NewBase(spanBetween(start, end)), Name: name.Value, Params: params, Body: body}, nil
}

func (p *Parser) parseExpressionStmt() (ast.Stmt, error) {
	start := p.curSpan()
	expr, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	end := p.curSpan()
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{Base: ast.NewBase(spanBetween(start, end)), X: expr}, nil
}

// --- Expressions: precedence climbing ---

func (p *Parser) parseExpr(minPrec int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		prec, ok := binPrec[p.cur.Kind]
		if !ok || prec < minPrec {
			return left, nil
		}
		opTok := p.cur
		p.advance()
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{
			Base: ast.NewBase(spanBetween(left.ExprSpan(), right.ExprSpan())),
			Op: opTok.Kind.String(), L: left, R: right,
		}
	}
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.cur.Kind == token.Bang || p.cur.Kind == token.Minus {
		opTok := p.cur
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Base: ast.NewBase(spanBetween(spanOf(opTok), x.ExprSpan())), Op: opTok.Kind.String(), X: x}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Kind {
		case token.Dot:
			p.advance()
			name, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			expr = &ast.PropertyAccess{Base: ast.NewBase(spanBetween(expr.ExprSpan(), spanOf(name))), Target: expr, Name: name.Value}
		case token.LBracket:
			p.advance()
			idx, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			end := p.curSpan()
			if _, err := p.expect(token.RBracket); err != nil {
				return nil, err
			}
			expr = &ast.IndexAccess{Base: ast.NewBase(spanBetween(expr.ExprSpan(), end)), Target: expr, Index: idx}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	start := p.curSpan()
	switch p.cur.Kind {
	case token.Null:
		p.advance()
		return &ast.NullLit{Base: ast.NewBase(start)}, nil
	case token.Boolean:
		v := p.cur.Value == "true"
		p.advance()
		return &ast.BoolLit{Base: ast.NewBase(start), Value: v}, nil
	case token.Number:
		raw := p.cur.Value
		p.advance()
		d, ok := decimal.Parse(raw)
		if !ok {
			return nil, jexerrors.NewCompileError(start, "invalid number literal %q", raw)
		}
		return &ast.NumberLit{Base: ast.NewBase(start), Value: d}, nil
	case token.String:
		v := p.cur.Value
		p.advance()
		return &ast.StringLit{Base: ast.NewBase(start), Value: v}, nil
	case token.Variable:
		v := p.cur.Value
		p.advance()
		return &ast.VarRef{Base: ast.NewBase(start), Name: v}, nil
	case token.Dollar:
		return p.parseDollar()
	case token.Ident:
		name := p.cur.Value
		p.advance()
		if p.cur.Kind == token.LParen {
			return p.parseCall(start, name)
		}
		return &ast.VarRef{Base: ast.NewBase(start), Name: name}, nil
	case token.LParen:
		p.advance()
		inner, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return inner, nil
	case token.LBrace:
		return p.parseObjectLit(start)
	case token.LBracket:
		return p.parseArrayLit(start)
	default:
		return nil, p.errorf("unexpected token %s %q in expression", p.cur.Kind, p.cur.Value)
	}
}

func (p *Parser) parseCall(start ast.Span, name string) (ast.Expr, error) {
	p.advance() // (
	var args []ast.Expr
	for p.cur.Kind != token.RParen {
		arg, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur.Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	end := p.curSpan()
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return &ast.Call{Base: ast.NewBase(spanBetween(start, end)), Name: name, Args: args}, nil
}

// parseDollar handles both "$.a.b[0]" (JsonPathLit) and "$in"/"$out"/"$meta"
// (BuiltInVar), per spec.md §4.2's "JSONPath literal from source syntax".
func (p *Parser) parseDollar() (ast.Expr, error) {
	start := p.curSpan()
	p.advance() // $
	if p.cur.Kind == token.Dot {
		return p.parseJSONPathLit(start)
	}
	if p.cur.Kind == token.Ident {
		name := p.cur.Value
		end := p.curSpan()
		p.advance()
		return &ast.BuiltInVar{Base: ast.NewBase(spanBetween(start, end)), Name: name}, nil
	}
	return nil, p.errorf("expected '.' or identifier after '$'")
}

func (p *Parser) parseJSONPathLit(start ast.Span) (ast.Expr, error) {
	var b pathBuilder
	for {
		switch p.cur.Kind {
		case token.Dot:
			p.advance()
			name, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			b.name(name.Value)
		case token.LBracket:
			p.advance()
			switch p.cur.Kind {
			case token.Number:
				n := p.cur.Value
				p.advance()
				idx, err := strconv.Atoi(n)
				if err != nil {
					return nil, jexerrors.NewCompileError(start, "invalid array index %q in path literal", n)
				}
				b.index(idx)
			case token.String:
				s := p.cur.Value
				p.advance()
				b.quotedName(s)
			case token.Star:
				p.advance()
				b.wildcard()
			default:
				return nil, p.errorf("expected integer, string, or '*' inside '[]' of a path literal")
			}
			if _, err := p.expect(token.RBracket); err != nil {
				return nil, err
			}
		default:
			end := p.curSpan()
			return &ast.JSONPathLit{Base: ast.NewBase(spanBetween(start, end)), Path: b.String()}, nil
		}
	}
}

// pathBuilder reassembles a canonical "$.a.b[0]" path string while the
// parser consumes a chain of path segments.
type pathBuilder struct{ s string }

func (b *pathBuilder) name(n string)       { b.s += "." + n }
func (b *pathBuilder) quotedName(n string) { b.s += fmt.Sprintf("[%q]", n) }
func (b *pathBuilder) index(i int)         { b.s += fmt.Sprintf("[%d]", i) }
func (b *pathBuilder) wildcard()           { b.s += "[*]" }
func (b *pathBuilder) String() string      { return "$" + b.s }

func (p *Parser) parseObjectLit(start ast.Span) (ast.Expr, error) {
	p.advance() // {
	var keys []string
	var values []ast.Expr
	for p.cur.Kind != token.RBrace {
		var key string
		switch p.cur.Kind {
		case token.String:
			key = p.cur.Value
			p.advance()
		case token.Ident:
			key = p.cur.Value
			p.advance()
		default:
			return nil, p.errorf("expected object key (string or identifier)")
		}
		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		val, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		values = append(values, val)
		if p.cur.Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	end := p.curSpan()
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return &ast.ObjectLit{Base: ast.NewBase(spanBetween(start, end)), Keys: keys, Values: values}, nil
}

func (p *Parser) parseArrayLit(start ast.Span) (ast.Expr, error) {
	p.advance() // [
	var elems []ast.Expr
	for p.cur.Kind != token.RBracket {
		el, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
		if p.cur.Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	end := p.curSpan()
	if _, err := p.expect(token.RBracket); err != nil {
		return nil, err
	}
	return &ast.ArrayLit{Base: ast.NewBase(spanBetween(start, end)), Elements: elems}, nil
}
