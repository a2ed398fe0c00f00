package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/jex/pkg/ast"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := ParseProgram(src, DefaultCompileOptions())
	require.NoError(t, err)
	require.NotNil(t, prog)
	return prog
}

func TestParseLet(t *testing.T) {
	prog := parseOK(t, `%let total = 1 + 2;`)
	require.Len(t, prog.Stmts, 1)
	let, ok := prog.Stmts[0].(*ast.Let)
	require.True(t, ok)
	assert.Equal(t, "total", let.Name)

	bin, ok := let.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
}

func TestParseSetFormA(t *testing.T) {
	prog := parseOK(t, `%set $.a.b = 42;`)
	set, ok := prog.Stmts[0].(*ast.Set)
	require.True(t, ok)
	assert.Nil(t, set.Target)

	path, ok := set.Path.(*ast.JSONPathLit)
	require.True(t, ok)
	assert.Equal(t, "$.a.b", path.Path)
}

func TestParseSetFormB(t *testing.T) {
	prog := parseOK(t, `%set &obj, $.a, 42;`)
	set, ok := prog.Stmts[0].(*ast.Set)
	require.True(t, ok)
	require.NotNil(t, set.Target)

	v, ok := set.Target.(*ast.VarRef)
	require.True(t, ok)
	assert.Equal(t, "obj", v.Name)

	path, ok := set.Path.(*ast.JSONPathLit)
	require.True(t, ok)
	assert.Equal(t, "$.a", path.Path)
}

func TestParseSetBuiltInRootPropertyAccess(t *testing.T) {
	prog := parseOK(t, `%set $in.x = 1;`)
	set := prog.Stmts[0].(*ast.Set)

	pa, ok := set.Path.(*ast.PropertyAccess)
	require.True(t, ok)
	assert.Equal(t, "x", pa.Name)

	builtin, ok := pa.Target.(*ast.BuiltInVar)
	require.True(t, ok)
	assert.Equal(t, "in", builtin.Name)
}

func TestParseIfElse(t *testing.T) {
	prog := parseOK(t, `
%if (&x > 0) %then %do;
  %let y = 1;
%else %do;
  %let y = 2;
%end;
`)
	ifStmt, ok := prog.Stmts[0].(*ast.If)
	require.True(t, ok)
	require.Len(t, ifStmt.Then, 1)
	require.Len(t, ifStmt.Else, 1)

	cond, ok := ifStmt.Cond.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ">", cond.Op)
}

func TestParseForeach(t *testing.T) {
	prog := parseOK(t, `
%foreach item %in $.items %do;
  %let x = &item;
%end;
`)
	fe, ok := prog.Stmts[0].(*ast.Foreach)
	require.True(t, ok)
	assert.Equal(t, "item", fe.Var)
	require.Len(t, fe.Body, 1)
}

func TestParseDoLoop(t *testing.T) {
	prog := parseOK(t, `
%do i = 1 %to 10;
  %let x = &i;
%end;
`)
	d, ok := prog.Stmts[0].(*ast.DoLoop)
	require.True(t, ok)
	assert.Equal(t, "i", d.Var)
	require.Len(t, d.Body, 1)
}

func TestParseBreakContinue(t *testing.T) {
	prog := parseOK(t, `%break; %continue;`)
	require.Len(t, prog.Stmts, 2)
	_, isBreak := prog.Stmts[0].(*ast.Break)
	_, isContinue := prog.Stmts[1].(*ast.Continue)
	assert.True(t, isBreak)
	assert.True(t, isContinue)
}

func TestParseReturnBareAndWithValue(t *testing.T) {
	prog := parseOK(t, `%return; %return 5;`)
	require.Len(t, prog.Stmts, 2)

	r1 := prog.Stmts[0].(*ast.Return)
	assert.Nil(t, r1.Value)

	r2 := prog.Stmts[1].(*ast.Return)
	require.NotNil(t, r2.Value)
	num, ok := r2.Value.(*ast.NumberLit)
	require.True(t, ok)
	assert.Equal(t, "5", num.Value.String())
}

func TestParseFunctionDecl(t *testing.T) {
	prog := parseOK(t, `
%func add(a, b);
  %return a + b;
%endfunc;
`)
	fn, ok := prog.Stmts[0].(*ast.FunctionDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, []string{"a", "b"}, fn.Params)
	require.Len(t, fn.Body, 1)
}

func TestParseFunctionDeclRejectedWhenDisallowed(t *testing.T) {
	_, err := ParseProgram(`%func f(); %return 1; %endfunc;`, CompileOptions{AllowUserFunctions: false})
	assert.Error(t, err)
}

func TestOperatorPrecedence(t *testing.T) {
	prog := parseOK(t, `%let x = 1 + 2 * 3;`)
	let := prog.Stmts[0].(*ast.Let)
	bin := let.Value.(*ast.Binary)
	assert.Equal(t, "+", bin.Op)

	rhs, ok := bin.R.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "*", rhs.Op)
}

func TestLogicalPrecedenceLowerThanEquality(t *testing.T) {
	prog := parseOK(t, `%let x = 1 == 1 && 2 == 2;`)
	let := prog.Stmts[0].(*ast.Let)
	bin := let.Value.(*ast.Binary)
	assert.Equal(t, "&&", bin.Op)
}

func TestUnaryNegationAndNot(t *testing.T) {
	prog := parseOK(t, `%let x = -5; %let y = !&flag;`)
	neg := prog.Stmts[0].(*ast.Let).Value.(*ast.Unary)
	assert.Equal(t, "-", neg.Op)

	not := prog.Stmts[1].(*ast.Let).Value.(*ast.Unary)
	assert.Equal(t, "!", not.Op)
}

func TestCallExpression(t *testing.T) {
	prog := parseOK(t, `%let x = concat(&a, &b, "c");`)
	call := prog.Stmts[0].(*ast.Let).Value.(*ast.Call)
	assert.Equal(t, "concat", call.Name)
	require.Len(t, call.Args, 3)
}

func TestBareIdentifierWithoutParensIsVarRef(t *testing.T) {
	prog := parseOK(t, `%let x = total;`)
	v, ok := prog.Stmts[0].(*ast.Let).Value.(*ast.VarRef)
	require.True(t, ok)
	assert.Equal(t, "total", v.Name)
}

func TestObjectAndArrayLiterals(t *testing.T) {
	prog := parseOK(t, `%let x = {"a": 1, b: [1, 2, &c]};`)
	obj := prog.Stmts[0].(*ast.Let).Value.(*ast.ObjectLit)
	assert.Equal(t, []string{"a", "b"}, obj.Keys)

	arr, ok := obj.Values[1].(*ast.ArrayLit)
	require.True(t, ok)
	require.Len(t, arr.Elements, 3)
}

func TestPropertyAndIndexAccessChain(t *testing.T) {
	prog := parseOK(t, `%let x = &obj.items[0].name;`)
	pa := prog.Stmts[0].(*ast.Let).Value.(*ast.PropertyAccess)
	assert.Equal(t, "name", pa.Name)

	idx, ok := pa.Target.(*ast.IndexAccess)
	require.True(t, ok)

	inner, ok := idx.Target.(*ast.PropertyAccess)
	require.True(t, ok)
	assert.Equal(t, "items", inner.Name)
}

func TestJSONPathLiteralWithWildcardAndQuotedKey(t *testing.T) {
	prog := parseOK(t, `%let x = $.items[*]["weird key"];`)
	lit, ok := prog.Stmts[0].(*ast.Let).Value.(*ast.JSONPathLit)
	require.True(t, ok)
	assert.Equal(t, `$.items[*]["weird key"]`, lit.Path)
}

func TestBuiltInVarsInOutMeta(t *testing.T) {
	prog := parseOK(t, `%let a = $in; %let b = $out; %let c = $meta;`)
	for i, want := range []string{"in", "out", "meta"} {
		bv, ok := prog.Stmts[i].(*ast.Let).Value.(*ast.BuiltInVar)
		require.True(t, ok)
		assert.Equal(t, want, bv.Name)
	}
}

func TestParenthesizedExpression(t *testing.T) {
	prog := parseOK(t, `%let x = (1 + 2) * 3;`)
	bin := prog.Stmts[0].(*ast.Let).Value.(*ast.Binary)
	assert.Equal(t, "*", bin.Op)
	_, ok := bin.L.(*ast.Binary)
	assert.True(t, ok)
}

func TestUnterminatedBlockProducesError(t *testing.T) {
	_, err := ParseProgram(`%if (&x) %then %do; %let y = 1;`, DefaultCompileOptions())
	assert.Error(t, err)
}
