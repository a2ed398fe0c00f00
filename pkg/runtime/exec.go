package runtime

import (
	"github.com/sandrolain/jex/pkg/ast"
	"github.com/sandrolain/jex/pkg/jexerrors"
	"github.com/sandrolain/jex/pkg/jsonpath"
	"github.com/sandrolain/jex/pkg/value"
)

// execStmts runs a statement block, short-circuiting as soon as any
// control flag (break/continue/return) is set, per spec.md §4.4's state
// machine.
func (c *Context) execStmts(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := c.execStmt(s); err != nil {
			return err
		}
		if c.controlFlagSet() {
			return nil
		}
	}
	return nil
}

func (c *Context) execStmt(s ast.Stmt) error {
	switch x := s.(type) {
	case *ast.Let:
		v, err := c.evalExpr(x.Value)
		if err != nil {
			return err
		}
		c.Scope.Let(x.Name, v)
		return nil
	case *ast.Set:
		return c.execSet(x)
	case *ast.If:
		cond, err := c.evalExpr(x.Cond)
		if err != nil {
			return err
		}
		if cond.ToBool() {
			return c.execStmts(x.Then)
		}
		if x.Else != nil {
			return c.execStmts(x.Else)
		}
		return nil
	case *ast.Foreach:
		return c.execForeach(x)
	case *ast.DoLoop:
		return c.execDoLoop(x)
	case *ast.Break:
		c.shouldBreak = true
		return nil
	case *ast.Continue:
		c.shouldContinue = true
		return nil
	case *ast.Return:
		if x.Value != nil {
			v, err := c.evalExpr(x.Value)
			if err != nil {
				return err
			}
			c.returnValue = v
		} else {
			c.returnValue = value.Null()
		}
		c.shouldReturn = true
		return nil
	case *ast.ExpressionStmt:
		_, err := c.evalExpr(x.X)
		return err
	case *ast.FunctionDecl:
		// Already captured into the compiled program's function table;
		// encountering the declaration again at exec time is a no-op.
		return nil
	default:
		return jexerrors.NewRuntimeError("unsupported statement node %T", s).WithSpan(s.StmtSpan())
	}
}

// execSet implements both grammar forms of %set, per spec.md §4.4.
func (c *Context) execSet(s *ast.Set) error {
	if s.Target == nil {
		return c.execSetFormA(s)
	}
	return c.execSetFormB(s)
}

// execSetFormA sets a path inside $out (or $meta, if the path expression
// itself resolves to a $meta-rooted chain); writing to a path rooted at
// $in is rejected, per spec.md §9 design note 4.
func (c *Context) execSetFormA(s *ast.Set) error {
	pathStr, err := c.pathFromExpr(s.Path)
	if err != nil {
		return err
	}
	path, err := jsonpath.Parse(pathStr)
	if err != nil {
		return jexerrors.NewRuntimeError("%s", err).WithSpan(s.StmtSpan())
	}
	val, err := c.evalExpr(s.Value)
	if err != nil {
		return err
	}

	var container value.Node
	switch path.Root {
	case jsonpath.RootIn:
		return jexerrors.NewRuntimeError("cannot write to $in").WithSpan(s.StmtSpan())
	case jsonpath.RootMeta:
		container = c.Meta
	default:
		container = c.Output
	}

	newRoot, err := jsonpath.Set(container, path, val.ToNode())
	if err != nil {
		return err
	}
	if path.Root == jsonpath.RootMeta {
		c.Meta = newRoot
	} else {
		c.Output = newRoot
	}
	return nil
}

// execSetFormB evaluates the target expression as the container and
// writes the path inside it, propagating any array-growth write-back up
// to whatever lvalue produced the target.
func (c *Context) execSetFormB(s *ast.Set) error {
	targetVal, err := c.evalExpr(s.Target)
	if err != nil {
		return err
	}
	pathStr, err := c.pathFromExpr(s.Path)
	if err != nil {
		return err
	}
	path, err := jsonpath.Parse(pathStr)
	if err != nil {
		return jexerrors.NewRuntimeError("%s", err).WithSpan(s.StmtSpan())
	}
	val, err := c.evalExpr(s.Value)
	if err != nil {
		return err
	}
	newRoot, err := jsonpath.Set(targetVal.ToNode(), path, val.ToNode())
	if err != nil {
		return err
	}
	return c.assignContainer(s.Target, newRoot)
}

// execForeach implements spec.md §4.4's Foreach semantics: array
// iteration in order, no iterations over null, a single non-array,
// non-null value treated as a one-element sequence.
func (c *Context) execForeach(f *ast.Foreach) error {
	collVal, err := c.evalExpr(f.Collection)
	if err != nil {
		return err
	}
	node := collVal.ToNode()

	var items []value.Value
	if arr, ok := node.([]value.Node); ok {
		items = make([]value.Value, len(arr))
		for i, e := range arr {
			items[i] = value.FromNode(e)
		}
	} else if node == nil {
		items = nil
	} else {
		items = []value.Value{collVal}
	}

	for _, item := range items {
		if err := c.bumpLoopIteration(); err != nil {
			return err
		}
		c.Scope.Push()
		c.Scope.Define(f.Var, item)
		err := c.execStmts(f.Body)
		c.Scope.Pop()
		if err != nil {
			return err
		}
		if c.shouldBreak {
			c.shouldBreak = false
			break
		}
		if c.shouldContinue {
			c.shouldContinue = false
			continue
		}
		if c.shouldReturn {
			return nil
		}
	}
	return nil
}

// execDoLoop implements spec.md §4.4's DoLoop semantics: integer-
// truncated start/end, step +1, inclusive of end.
func (c *Context) execDoLoop(d *ast.DoLoop) error {
	startVal, err := c.evalExpr(d.Start)
	if err != nil {
		return err
	}
	endVal, err := c.evalExpr(d.End)
	if err != nil {
		return err
	}
	start := startVal.ToNumber().Int64()
	end := endVal.ToNumber().Int64()

	for i := start; i <= end; i++ {
		if err := c.bumpLoopIteration(); err != nil {
			return err
		}
		c.Scope.Push()
		c.Scope.Define(d.Var, value.NumberFromInt(i))
		err := c.execStmts(d.Body)
		c.Scope.Pop()
		if err != nil {
			return err
		}
		if c.shouldBreak {
			c.shouldBreak = false
			break
		}
		if c.shouldContinue {
			c.shouldContinue = false
			continue
		}
		if c.shouldReturn {
			return nil
		}
	}
	return nil
}
