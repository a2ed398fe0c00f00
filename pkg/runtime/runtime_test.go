package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/jex/pkg/ast"
	"github.com/sandrolain/jex/pkg/jexerrors"
	"github.com/sandrolain/jex/pkg/library"
	"github.com/sandrolain/jex/pkg/parser"
	"github.com/sandrolain/jex/pkg/stdlib"
	"github.com/sandrolain/jex/pkg/value"
)

// compileForTest parses source and collects its top-level function
// declarations, mirroring engine.compileUncached without importing the
// engine package (which would create an import cycle through runtime).
func compileForTest(t *testing.T, source string) (*ast.Program, map[string]*ast.FunctionDecl) {
	t.Helper()
	prog, err := parser.ParseProgram(source, parser.DefaultCompileOptions())
	require.NoError(t, err)

	funcs := make(map[string]*ast.FunctionDecl)
	for _, stmt := range prog.Stmts {
		if fn, ok := stmt.(*ast.FunctionDecl); ok {
			funcs[fn.Name] = fn
		}
	}
	return prog, funcs
}

func runScript(t *testing.T, source string, input value.Node, opts ExecOptions) (value.Node, error) {
	t.Helper()
	prog, funcs := compileForTest(t, source)
	ctx := NewContext(input, nil, funcs, library.NewManager(), stdlib.NewRegistry(), opts)
	return ctx.Execute(prog)
}

func TestSetFormAWritesOut(t *testing.T) {
	out, err := runScript(t, `%set $.total = 42;`, nil, DefaultExecOptions())
	require.NoError(t, err)
	obj := out.(*value.Object)
	v, ok := obj.Get("total")
	require.True(t, ok)
	assert.Equal(t, "42", value.FromNode(v).ToString())
}

func TestSetFormARejectsInRoot(t *testing.T) {
	input := value.NewObject()
	input.Set("x", 1.0)
	_, err := runScript(t, `%set $in.x = 1;`, input, DefaultExecOptions())
	assert.Error(t, err)
}

func TestSetFormARedirectsToMeta(t *testing.T) {
	prog, funcs := compileForTest(t, `%set $meta.seen = true;`)
	ctx := NewContext(nil, value.NewObject(), funcs, library.NewManager(), stdlib.NewRegistry(), DefaultExecOptions())
	_, err := ctx.Execute(prog)
	require.NoError(t, err)

	meta := ctx.Meta.(*value.Object)
	v, ok := meta.Get("seen")
	require.True(t, ok)
	assert.Equal(t, true, v)
}

func TestSetFormBWritesIntoVariable(t *testing.T) {
	out, err := runScript(t, `
%let obj = {};
%set &obj, $.a, 1;
%set $.result = &obj;
`, nil, DefaultExecOptions())
	require.NoError(t, err)
	obj := out.(*value.Object)
	result, ok := obj.Get("result")
	require.True(t, ok)
	resultObj := result.(*value.Object)
	a, ok := resultObj.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", value.FromNode(a).ToString())
}

func TestIfDoesNotPushScope(t *testing.T) {
	out, err := runScript(t, `
%let x = 1;
%if (true) %then %do;
  %let x = 2;
%end;
%set $.x = &x;
`, nil, DefaultExecOptions())
	require.NoError(t, err)
	obj := out.(*value.Object)
	v, ok := obj.Get("x")
	require.True(t, ok)
	assert.Equal(t, "2", value.FromNode(v).ToString(), "%let inside %if updates the outer binding, no scope push")
}

func TestForeachPushesScopePerIteration(t *testing.T) {
	input, err := value.ParseJSON(`{"items": [1, 2, 3]}`)
	require.NoError(t, err)
	out, err := runScript(t, `
%let sum = 0;
%foreach item %in $.items %do;
  %let sum = &sum + &item;
%end;
%set $.sum = &sum;
`, input, DefaultExecOptions())
	require.NoError(t, err)
	obj := out.(*value.Object)
	v, _ := obj.Get("sum")
	assert.Equal(t, "6", value.FromNode(v).ToString())
}

func TestBreakStopsLoop(t *testing.T) {
	out, err := runScript(t, `
%let count = 0;
%do i = 1 %to 10;
  %if (&i > 3) %then %do;
    %break;
  %end;
  %let count = &count + 1;
%end;
%set $.count = &count;
`, nil, DefaultExecOptions())
	require.NoError(t, err)
	obj := out.(*value.Object)
	v, _ := obj.Get("count")
	assert.Equal(t, "3", value.FromNode(v).ToString())
}

func TestContinueSkipsRestOfBody(t *testing.T) {
	out, err := runScript(t, `
%let sum = 0;
%do i = 1 %to 5;
  %if (&i % 2 == 0) %then %do;
    %continue;
  %end;
  %let sum = &sum + &i;
%end;
%set $.sum = &sum;
`, nil, DefaultExecOptions())
	require.NoError(t, err)
	obj := out.(*value.Object)
	v, _ := obj.Get("sum")
	assert.Equal(t, "9", value.FromNode(v).ToString(), "1+3+5 = 9")
}

func TestRecursiveFunctionCall(t *testing.T) {
	out, err := runScript(t, `
%func fact(n);
  %if (&n <= 1) %then %do;
    %return 1;
  %end;
  %return &n * fact(&n - 1);
%endfunc;

%set $.result = fact(5);
`, nil, DefaultExecOptions())
	require.NoError(t, err)
	obj := out.(*value.Object)
	v, _ := obj.Get("result")
	assert.Equal(t, "120", value.FromNode(v).ToString())
}

func TestLoopIterationLimitExceeded(t *testing.T) {
	opts := DefaultExecOptions()
	opts.MaxLoopIterations = 100
	_, err := runScript(t, `
%do i = 1 %to 100000;
  %let x = &i;
%end;
`, nil, opts)
	require.Error(t, err)
	limitErr, ok := err.(*jexerrors.LimitExceeded)
	require.True(t, ok)
	assert.Equal(t, jexerrors.LimitLoopIterations, limitErr.Name)
	assert.Equal(t, 100, limitErr.Value)
}

func TestRecursionDepthLimitExceeded(t *testing.T) {
	opts := DefaultExecOptions()
	opts.MaxRecursionDepth = 5
	_, err := runScript(t, `
%func loop(n);
  %return loop(&n + 1);
%endfunc;
%set $.x = loop(0);
`, nil, opts)
	require.Error(t, err)
	limitErr, ok := err.(*jexerrors.LimitExceeded)
	require.True(t, ok)
	assert.Equal(t, jexerrors.LimitRecursionDepth, limitErr.Name)
}

func TestCallResolutionOrderPrefersScriptFunction(t *testing.T) {
	out, err := runScript(t, `
%func double(x);
  %return x * 100;
%endfunc;
%set $.r = double(2);
`, nil, DefaultExecOptions())
	require.NoError(t, err)
	obj := out.(*value.Object)
	v, _ := obj.Get("r")
	assert.Equal(t, "200", value.FromNode(v).ToString(), "script function shadows any stdlib name")
}

func TestCallResolutionFallsBackToLibraryThenRegistry(t *testing.T) {
	libs := library.NewManager()
	_, err := libs.Load("mathx", `%func square(x); %return x * x; %endfunc;`)
	require.NoError(t, err)

	prog, funcs := compileForTest(t, `%set $.sq = square(4); %set $.up = upper("hi");`)
	ctx := NewContext(nil, nil, funcs, libs, stdlib.NewRegistry(), DefaultExecOptions())
	out, err := ctx.Execute(prog)
	require.NoError(t, err)

	obj := out.(*value.Object)
	sq, _ := obj.Get("sq")
	assert.Equal(t, "16", value.FromNode(sq).ToString(), "falls back to the library function")

	up, _ := obj.Get("up")
	assert.Equal(t, "HI", value.FromNode(up).ToString(), "falls back to the registry builtin")
}

func TestUnknownFunctionIsRuntimeError(t *testing.T) {
	_, err := runScript(t, `%set $.x = nope(1);`, nil, DefaultExecOptions())
	require.Error(t, err)
	_, ok := err.(*jexerrors.RuntimeError)
	assert.True(t, ok)
}

func TestPushMutatesArg0Variable(t *testing.T) {
	out, err := runScript(t, `
%let arr = [1, 2];
push(&arr, 3);
%set $.arr = &arr;
`, nil, DefaultExecOptions())
	require.NoError(t, err)
	obj := out.(*value.Object)
	arr, _ := obj.Get("arr")
	assert.Len(t, arr.([]value.Node), 3)
}

func TestStrictModeErrorsOnUndefinedVariable(t *testing.T) {
	opts := DefaultExecOptions()
	opts.Strict = true
	_, err := runScript(t, `%set $.x = &undefined;`, nil, opts)
	assert.Error(t, err)
}

func TestNonStrictModeCoercesUndefinedVariableToNull(t *testing.T) {
	out, err := runScript(t, `%set $.x = &undefined;`, nil, DefaultExecOptions())
	require.NoError(t, err)
	obj := out.(*value.Object)
	v, ok := obj.Get("x")
	require.True(t, ok)
	assert.Nil(t, v)
}
