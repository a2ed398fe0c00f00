// Package ast defines the JEX abstract syntax tree: expression and
// statement node kinds, spans, and the top-level Program.
//
// Modeled on the teacher's single-tagged-node ASTNode (pkg/types/ast.go),
// but split into one concrete Go type per expression/statement kind
// (Expr/Stmt interfaces) since JEX's statement grammar (Let/Set/If/
// Foreach/DoLoop/...) carries materially different fields per kind, unlike
// JSONata's flatter expression-only AST.
package ast

import (
	"github.com/sandrolain/jex/pkg/decimal"
	"github.com/sandrolain/jex/pkg/jexerrors"
)

// Span is re-exported from jexerrors so AST node methods can return it
// without every caller importing jexerrors directly.
type Span = jexerrors.Span

// Expr is any JEX expression node.
type Expr interface {
	exprNode()
	ExprSpan() Span
}

// Stmt is any JEX statement node.
type Stmt interface {
	stmtNode()
	StmtSpan() Span
}

// Base carries the source span shared by every node; embedded (and
// exported, so other packages can build node literals directly) in every
// concrete Expr/Stmt type below.
type Base struct{ Sp Span }

func (b Base) ExprSpan() Span { return b.Sp }
func (b Base) StmtSpan() Span { return b.Sp }

// NewBase wraps a span as a Base for use in node literals.
func NewBase(sp Span) Base { return Base{Sp: sp} }

// --- Expressions ---

type NullLit struct{ Base }

func (*NullLit) exprNode() {}

type BoolLit struct {
	Base
	Value bool
}

func (*BoolLit) exprNode() {}

type NumberLit struct {
	Base
	Value decimal.Decimal
}

func (*NumberLit) exprNode() {}

// StringLit holds the raw (already escape-decoded) string text. Macro
// expansion of "&ident" references happens at evaluation time, not here.
type StringLit struct {
	Base
	Value string
}

func (*StringLit) exprNode() {}

// VarRef is a "&name" reference.
type VarRef struct {
	Base
	Name string
}

func (*VarRef) exprNode() {}

// BuiltInVar is "$in", "$out", or "$meta" (or any other "$name" form,
// which fails at evaluation time per spec.md §4.2).
type BuiltInVar struct {
	Base
	Name string
}

func (*BuiltInVar) exprNode() {}

// JSONPathLit is the reassembled canonical path text produced when the
// parser reads a "$.a.b[0]" style chain.
type JSONPathLit struct {
	Base
	Path string
}

func (*JSONPathLit) exprNode() {}

// Unary is "!x" or "-x".
type Unary struct {
	Base
	Op string
	X  Expr
}

func (*Unary) exprNode() {}

// Binary is any of || && == != < <= > >= + - * / %.
type Binary struct {
	Base
	Op   string
	L, R Expr
}

func (*Binary) exprNode() {}

// Call is a function invocation resolved at evaluation time against
// script functions, libraries, then the engine registry.
type Call struct {
	Base
	Name string
	Args []Expr
}

func (*Call) exprNode() {}

// ObjectLit is "{ key: expr, ... }"; keys are captured as plain strings
// (from a string literal or a bare identifier).
type ObjectLit struct {
	Base
	Keys   []string
	Values []Expr
}

func (*ObjectLit) exprNode() {}

// ArrayLit is "[ expr, ... ]".
type ArrayLit struct {
	Base
	Elements []Expr
}

func (*ArrayLit) exprNode() {}

// PropertyAccess is "base.name".
type PropertyAccess struct {
	Base
	Target Expr
	Name   string
}

func (*PropertyAccess) exprNode() {}

// IndexAccess is "base[index]".
type IndexAccess struct {
	Base
	Target Expr
	Index  Expr
}

func (*IndexAccess) exprNode() {}

// --- Statements ---

type Let struct {
	Base
	Name  string
	Value Expr
}

func (*Let) stmtNode() {}

// Set covers both grammar forms of spec.md §4.2. Form A (Target == nil)
// sets Path inside $out; Form B evaluates Target as the container.
type Set struct {
	Base
	Target Expr // nil for Form A
	Path   Expr
	Value  Expr
}

func (*Set) stmtNode() {}

type If struct {
	Base
	Cond Expr
	Then []Stmt
	Else []Stmt // nil if no %else clause
}

func (*If) stmtNode() {}

type Foreach struct {
	Base
	Var        string
	Collection Expr
	Body       []Stmt
}

func (*Foreach) stmtNode() {}

type DoLoop struct {
	Base
	Var        string
	Start, End Expr
	Body       []Stmt
}

func (*DoLoop) stmtNode() {}

type Break struct{ Base }

func (*Break) stmtNode() {}

type Continue struct{ Base }

func (*Continue) stmtNode() {}

// Return holds an optional expression (nil means a bare "%return;").
type Return struct {
	Base
	Value Expr
}

func (*Return) stmtNode() {}

type ExpressionStmt struct {
	Base
	X Expr
}

func (*ExpressionStmt) stmtNode() {}

// FunctionDecl is "%func NAME(params) ; <body> %endfunc ;".
type FunctionDecl struct {
	Base
	Name   string
	Params []string
	Body   []Stmt
}

func (*FunctionDecl) stmtNode() {}

// Program is an ordered sequence of top-level statements (which may
// include interleaved FunctionDecl statements).
type Program struct {
	Stmts []Stmt
}
