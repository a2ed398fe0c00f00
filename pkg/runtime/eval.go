package runtime

import (
	"strings"

	"github.com/sandrolain/jex/pkg/ast"
	"github.com/sandrolain/jex/pkg/decimal"
	"github.com/sandrolain/jex/pkg/jexerrors"
	"github.com/sandrolain/jex/pkg/jsonpath"
	"github.com/sandrolain/jex/pkg/value"
)

// evalExpr evaluates e against c, implementing spec.md §4.4's expression
// semantics.
func (c *Context) evalExpr(e ast.Expr) (value.Value, error) {
	switch x := e.(type) {
	case *ast.NullLit:
		return value.Null(), nil
	case *ast.BoolLit:
		return value.Bool(x.Value), nil
	case *ast.NumberLit:
		return value.Number(x.Value), nil
	case *ast.StringLit:
		s, err := c.expandMacros(x.Value)
		if err != nil {
			return value.Value{}, err
		}
		return value.Str(s), nil
	case *ast.VarRef:
		v, ok := c.Scope.Get(x.Name)
		if !ok {
			if c.opts.Strict {
				return value.Value{}, jexerrors.NewRuntimeError("undefined variable &%s", x.Name).WithSpan(x.ExprSpan())
			}
			return value.Null(), nil
		}
		return v, nil
	case *ast.BuiltInVar:
		switch x.Name {
		case "in":
			return value.JSON(c.Input), nil
		case "out":
			return value.JSON(c.Output), nil
		case "meta":
			return value.JSON(c.Meta), nil
		default:
			return value.Value{}, jexerrors.NewRuntimeError("unknown built-in variable $%s", x.Name).WithSpan(x.ExprSpan())
		}
	case *ast.JSONPathLit:
		return c.evalJSONPathLit(x)
	case *ast.Unary:
		return c.evalUnary(x)
	case *ast.Binary:
		return c.evalBinary(x)
	case *ast.Call:
		return c.evalCall(x)
	case *ast.ObjectLit:
		return c.evalObjectLit(x)
	case *ast.ArrayLit:
		return c.evalArrayLit(x)
	case *ast.PropertyAccess:
		return c.evalPropertyAccess(x)
	case *ast.IndexAccess:
		return c.evalIndexAccess(x)
	default:
		return value.Value{}, jexerrors.NewRuntimeError("unsupported expression node %T", e).WithSpan(e.ExprSpan())
	}
}

// evalExprNode is a convenience wrapper returning the JSON-node form of an
// expression's value.
func (c *Context) evalExprNode(e ast.Expr) (value.Node, error) {
	v, err := c.evalExpr(e)
	if err != nil {
		return nil, err
	}
	return v.ToNode(), nil
}

// expandMacros implements spec.md §4.4's string-literal macro expansion:
// every "&ident" run is replaced by the string coercion of the named
// variable; a lone '&' not followed by an identifier start is left
// intact.
func (c *Context) expandMacros(s string) (string, error) {
	if !strings.ContainsRune(s, '&') {
		return s, nil
	}
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '&' {
			b.WriteRune(r)
			continue
		}
		j := i + 1
		if j >= len(runes) || !isIdentStart(runes[j]) {
			b.WriteRune(r)
			continue
		}
		start := j
		for j < len(runes) && isIdentPart(runes[j]) {
			j++
		}
		name := string(runes[start:j])
		v, ok := c.Scope.Get(name)
		if !ok {
			if c.opts.Strict {
				return "", jexerrors.NewRuntimeError("undefined variable &%s in string literal", name)
			}
			v = value.Null()
		}
		b.WriteString(v.ToString())
		i = j - 1
	}
	return b.String(), nil
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func (c *Context) evalUnary(x *ast.Unary) (value.Value, error) {
	v, err := c.evalExpr(x.X)
	if err != nil {
		return value.Value{}, err
	}
	switch x.Op {
	case "!":
		return value.Bool(!v.ToBool()), nil
	case "-":
		return value.Number(v.ToNumber().Neg()), nil
	default:
		return value.Value{}, jexerrors.NewRuntimeError("unknown unary operator %q", x.Op).WithSpan(x.ExprSpan())
	}
}

func (c *Context) evalBinary(x *ast.Binary) (value.Value, error) {
	switch x.Op {
	case "&&":
		l, err := c.evalExpr(x.L)
		if err != nil {
			return value.Value{}, err
		}
		if !l.ToBool() {
			return value.Bool(false), nil
		}
		r, err := c.evalExpr(x.R)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(r.ToBool()), nil
	case "||":
		l, err := c.evalExpr(x.L)
		if err != nil {
			return value.Value{}, err
		}
		if l.ToBool() {
			return value.Bool(true), nil
		}
		r, err := c.evalExpr(x.R)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(r.ToBool()), nil
	}

	l, err := c.evalExpr(x.L)
	if err != nil {
		return value.Value{}, err
	}
	r, err := c.evalExpr(x.R)
	if err != nil {
		return value.Value{}, err
	}

	switch x.Op {
	case "+":
		if l.Kind() == value.KindString || r.Kind() == value.KindString {
			return value.Str(l.ToString() + r.ToString()), nil
		}
		return value.Number(l.ToNumber().Add(r.ToNumber())), nil
	case "-":
		return value.Number(l.ToNumber().Sub(r.ToNumber())), nil
	case "*":
		return value.Number(l.ToNumber().Mul(r.ToNumber())), nil
	case "/":
		rn := r.ToNumber()
		if rn.IsZero() {
			return value.Number(decimal.Zero()), nil
		}
		return value.Number(l.ToNumber().Div(rn)), nil
	case "%":
		rn := r.ToNumber()
		if rn.IsZero() {
			return value.Number(decimal.Zero()), nil
		}
		return value.Number(l.ToNumber().Mod(rn)), nil
	case "<":
		return value.Bool(l.ToNumber().Cmp(r.ToNumber()) < 0), nil
	case "<=":
		return value.Bool(l.ToNumber().Cmp(r.ToNumber()) <= 0), nil
	case ">":
		return value.Bool(l.ToNumber().Cmp(r.ToNumber()) > 0), nil
	case ">=":
		return value.Bool(l.ToNumber().Cmp(r.ToNumber()) >= 0), nil
	case "==":
		return value.Bool(value.Equal(l, r)), nil
	case "!=":
		return value.Bool(!value.Equal(l, r)), nil
	default:
		return value.Value{}, jexerrors.NewRuntimeError("unknown binary operator %q", x.Op).WithSpan(x.ExprSpan())
	}
}

func (c *Context) evalObjectLit(x *ast.ObjectLit) (value.Value, error) {
	obj := value.NewObject()
	for i, k := range x.Keys {
		v, err := c.evalExpr(x.Values[i])
		if err != nil {
			return value.Value{}, err
		}
		obj.Set(k, v.ToNode())
	}
	return value.JSON(obj), nil
}

func (c *Context) evalArrayLit(x *ast.ArrayLit) (value.Value, error) {
	out := make([]value.Node, len(x.Elements))
	for i, el := range x.Elements {
		v, err := c.evalExpr(el)
		if err != nil {
			return value.Value{}, err
		}
		out[i] = v.ToNode()
	}
	return value.JSON(out), nil
}

func (c *Context) evalPropertyAccess(x *ast.PropertyAccess) (value.Value, error) {
	targetNode, err := c.evalExprNode(x.Target)
	if err != nil {
		return value.Value{}, err
	}
	obj, ok := targetNode.(*value.Object)
	if !ok {
		if c.opts.Strict {
			return value.Value{}, jexerrors.NewRuntimeError("cannot access property %q of non-object value", x.Name).WithSpan(x.ExprSpan())
		}
		return value.Null(), nil
	}
	v, ok := obj.Get(x.Name)
	if !ok {
		if c.opts.Strict {
			return value.Value{}, jexerrors.NewRuntimeError("missing property %q", x.Name).WithSpan(x.ExprSpan())
		}
		return value.Null(), nil
	}
	return value.FromNode(v), nil
}

func (c *Context) evalIndexAccess(x *ast.IndexAccess) (value.Value, error) {
	targetNode, err := c.evalExprNode(x.Target)
	if err != nil {
		return value.Value{}, err
	}
	idxVal, err := c.evalExpr(x.Index)
	if err != nil {
		return value.Value{}, err
	}
	switch t := targetNode.(type) {
	case []value.Node:
		idx := int(idxVal.ToNumber().Int64())
		if idx < 0 {
			idx += len(t)
		}
		if idx < 0 || idx >= len(t) {
			if c.opts.Strict {
				return value.Value{}, jexerrors.NewRuntimeError("array index %d out of range", idx).WithSpan(x.ExprSpan())
			}
			return value.Null(), nil
		}
		return value.FromNode(t[idx]), nil
	case *value.Object:
		key := idxVal.ToString()
		v, ok := t.Get(key)
		if !ok {
			if c.opts.Strict {
				return value.Value{}, jexerrors.NewRuntimeError("missing property %q", key).WithSpan(x.ExprSpan())
			}
			return value.Null(), nil
		}
		return value.FromNode(v), nil
	default:
		if c.opts.Strict {
			return value.Value{}, jexerrors.NewRuntimeError("cannot index into non-array/object value").WithSpan(x.ExprSpan())
		}
		return value.Null(), nil
	}
}

// evalJSONPathLit evaluates a bare "$.a.b[0]" literal as an expression by
// querying $in: JsonPathLit carries no explicit root (the parser only
// produces it for the dot-chain form; $in/$out/$meta prefixes arrive as
// BuiltInVar/PropertyAccess chains instead), and a path read in
// expression position with no surrounding Set statement is, by
// convention, a read from the input document.
func (c *Context) evalJSONPathLit(x *ast.JSONPathLit) (value.Value, error) {
	path, err := jsonpath.Parse(x.Path)
	if err != nil {
		return value.Value{}, jexerrors.NewRuntimeError("%s", err).WithSpan(x.ExprSpan())
	}
	root := c.Input
	switch path.Root {
	case jsonpath.RootOut:
		root = c.Output
	case jsonpath.RootMeta:
		root = c.Meta
	}
	node, existed := jsonpath.First(root, path)
	if !existed {
		if c.opts.Strict {
			return value.Value{}, jexerrors.NewRuntimeError("path %s does not exist", x.Path).WithSpan(x.ExprSpan())
		}
		return value.Null(), nil
	}
	return value.FromNode(node), nil
}
