package runtime

import (
	"fmt"

	"github.com/sandrolain/jex/pkg/ast"
	"github.com/sandrolain/jex/pkg/jexerrors"
	"github.com/sandrolain/jex/pkg/stdlib"
	"github.com/sandrolain/jex/pkg/value"
)

// evalCall resolves and invokes a function, in the order spec.md §4.4
// mandates: script-declared function, then library function (insertion
// order), then the engine's standard-library/host registry.
func (c *Context) evalCall(call *ast.Call) (value.Value, error) {
	args := make([]value.Value, len(call.Args))
	for i, a := range call.Args {
		v, err := c.evalExpr(a)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}

	if fn, ok := c.Funcs[call.Name]; ok {
		return c.callUserFunction(fn, args)
	}
	if c.Libraries != nil {
		if fn, ok := c.Libraries.Lookup(call.Name); ok {
			return c.callUserFunction(fn, args)
		}
	}
	if c.Registry != nil {
		if entry, ok := c.Registry.Lookup(call.Name); ok {
			return c.callRegistryFunction(entry, args, call)
		}
	}
	return value.Value{}, jexerrors.NewRuntimeError("unknown function %q", call.Name).WithFunction(call.Name).WithSpan(call.ExprSpan())
}

// callUserFunction invokes a script- or library-declared function: a
// fresh scope frame, parameters bound left-to-right (missing args bind
// Null), the return-flag consumed at the call boundary.
func (c *Context) callUserFunction(fn *ast.FunctionDecl, args []value.Value) (value.Value, error) {
	release, err := c.enterCall()
	defer release()
	if err != nil {
		return value.Value{}, err
	}

	c.Scope.Push()
	defer c.Scope.Pop()
	for i, p := range fn.Params {
		var v value.Value
		if i < len(args) {
			v = args[i]
		} else {
			v = value.Null()
		}
		c.Scope.Define(p, v)
	}

	if err := c.execStmts(fn.Body); err != nil {
		return value.Value{}, err
	}
	ret := c.returnValue
	c.shouldReturn = false
	c.returnValue = value.Value{}
	return ret, nil
}

// callRegistryFunction invokes a standard-library/host-registered
// builtin, enforcing arity and wrapping host errors with the function
// name, then writing the result back into the lvalue that produced
// args[0] when the entry is marked MutatesArg0 (push, setPath).
func (c *Context) callRegistryFunction(entry stdlib.Entry, args []value.Value, call *ast.Call) (value.Value, error) {
	if !entry.CheckArity(len(args)) {
		return value.Value{}, jexerrors.NewRuntimeError("%s: expected between %d and %d arguments, got %d", entry.Name, entry.MinArgs, entry.MaxArgs, len(args)).WithFunction(entry.Name).WithSpan(call.ExprSpan())
	}
	result, err := entry.Fn(c, args)
	if err != nil {
		return value.Value{}, wrapHostError(err, entry.Name)
	}
	if entry.MutatesArg0 && len(call.Args) > 0 {
		if err := c.assignContainer(call.Args[0], result.ToNode()); err != nil {
			return value.Value{}, err
		}
	}
	if entry.Void {
		return value.Null(), nil
	}
	return result, nil
}

func wrapHostError(err error, fnName string) error {
	if err == nil {
		return nil
	}
	switch err.(type) {
	case *jexerrors.RuntimeError, *jexerrors.LimitExceeded:
		return err
	default:
		return jexerrors.NewRuntimeError("%s", err).WithFunction(fnName)
	}
}

// pathFromExpr implements spec.md §4.4's "path construction from an
// expression": it assembles the full canonical path text (including any
// $in/$out/$meta root word) that jsonpath.Parse expects, by walking the
// expression's shape.
func (c *Context) pathFromExpr(e ast.Expr) (string, error) {
	switch x := e.(type) {
	case *ast.BuiltInVar:
		switch x.Name {
		case "in", "out", "meta":
			return "$" + x.Name, nil
		default:
			return "", jexerrors.NewRuntimeError("unknown built-in variable $%s", x.Name).WithSpan(x.ExprSpan())
		}
	case *ast.JSONPathLit:
		return x.Path, nil
	case *ast.PropertyAccess:
		base, err := c.pathFromExpr(x.Target)
		if err != nil {
			return "", err
		}
		return base + "." + x.Name, nil
	case *ast.IndexAccess:
		base, err := c.pathFromExpr(x.Target)
		if err != nil {
			return "", err
		}
		idxVal, err := c.evalExpr(x.Index)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%d]", base, idxVal.ToNumber().Int64()), nil
	case *ast.StringLit:
		v, err := c.evalExpr(x)
		if err != nil {
			return "", err
		}
		return v.ToString(), nil
	case *ast.VarRef:
		return "&" + x.Name, nil
	default:
		return "", jexerrors.NewRuntimeError("expression is not a valid path").WithSpan(e.ExprSpan())
	}
}

// assignContainer writes newNode back into whatever lvalue expression e
// denotes. *value.Object mutates in place (no propagation needed);
// arrays and scalars require writing the new value into the parent,
// recursing upward until a variable or $out/$meta root is reached.
func (c *Context) assignContainer(e ast.Expr, newNode value.Node) error {
	switch x := e.(type) {
	case *ast.VarRef:
		c.Scope.Let(x.Name, value.FromNode(newNode))
		return nil
	case *ast.BuiltInVar:
		switch x.Name {
		case "out":
			c.Output = newNode
			return nil
		case "meta":
			c.Meta = newNode
			return nil
		case "in":
			return jexerrors.NewRuntimeError("cannot write to $in").WithSpan(x.ExprSpan())
		default:
			return jexerrors.NewRuntimeError("unknown built-in variable $%s", x.Name).WithSpan(x.ExprSpan())
		}
	case *ast.PropertyAccess:
		parentNode, err := c.evalExprNode(x.Target)
		if err != nil {
			return err
		}
		if obj, ok := parentNode.(*value.Object); ok {
			obj.Set(x.Name, newNode)
			return nil
		}
		return jexerrors.NewRuntimeError("cannot assign field %q into non-object target", x.Name).WithSpan(x.ExprSpan())
	case *ast.IndexAccess:
		parentNode, err := c.evalExprNode(x.Target)
		if err != nil {
			return err
		}
		idxVal, err := c.evalExpr(x.Index)
		if err != nil {
			return err
		}
		idx := int(idxVal.ToNumber().Int64())
		if arr, ok := parentNode.([]value.Node); ok {
			if idx < 0 {
				return jexerrors.NewRuntimeError("negative array index %d", idx).WithSpan(x.ExprSpan())
			}
			if idx < len(arr) {
				arr[idx] = newNode
				return nil
			}
			grown := make([]value.Node, idx+1)
			copy(grown, arr)
			grown[idx] = newNode
			return c.assignContainer(x.Target, grown)
		}
		return jexerrors.NewRuntimeError("cannot assign index %d into non-array target", idx).WithSpan(x.ExprSpan())
	default:
		return jexerrors.NewRuntimeError("expression is not a valid assignment target").WithSpan(e.ExprSpan())
	}
}
