// Package runtime implements the JEX tree-walking evaluator: the
// per-execution Context (spec.md §3's runtime context), expression and
// statement evaluation (§4.4), and the scope-stack variable discipline
// (§9).
//
// Grounded on the teacher's pkg/evaluator (its single-pass recursive
// walk over JSONata's ASTNode), generalized from an expression-only
// walk into one that also carries JEX's statement grammar and explicit
// control-flow flags.
package runtime

import (
	"github.com/sandrolain/jex/pkg/ast"
	"github.com/sandrolain/jex/pkg/jexerrors"
	"github.com/sandrolain/jex/pkg/library"
	"github.com/sandrolain/jex/pkg/stdlib"
	"github.com/sandrolain/jex/pkg/value"
)

// Limits bounds the resources a single execution may consume, per
// spec.md §5.
type Limits struct {
	MaxLoopIterations int
	MaxRecursionDepth int
	RegexTimeoutMs    int
}

// DefaultLimits matches spec.md §6's execution-option defaults.
func DefaultLimits() Limits {
	return Limits{
		MaxLoopIterations: 100_000,
		MaxRecursionDepth: 100,
		RegexTimeoutMs:    1_000,
	}
}

// ExecOptions configures a single execute call, per spec.md §6.
type ExecOptions struct {
	Strict            bool
	MaxLoopIterations int
	MaxRecursionDepth int
	RegexTimeoutMs    int
	MaxOutputSizeBytes int
}

// DefaultExecOptions returns spec.md §6's defaults.
func DefaultExecOptions() ExecOptions {
	l := DefaultLimits()
	return ExecOptions{
		Strict:            false,
		MaxLoopIterations: l.MaxLoopIterations,
		MaxRecursionDepth: l.MaxRecursionDepth,
		RegexTimeoutMs:    l.RegexTimeoutMs,
	}
}

// Context is the per-execution runtime state: spec.md §3 "each execution
// owns its own runtime context; no cross-execution mutable state."
type Context struct {
	Input value.Node
	Output value.Node
	Meta  value.Node

	Funcs     map[string]*ast.FunctionDecl
	Libraries *library.Manager
	Registry  *stdlib.Registry

	Scope *Scope

	opts ExecOptions

	loopIterations int
	recursionDepth int

	shouldBreak    bool
	shouldContinue bool
	shouldReturn   bool
	returnValue    value.Value
}

// NewContext builds a fresh runtime context for one execution.
func NewContext(input, meta value.Node, funcs map[string]*ast.FunctionDecl, libs *library.Manager, registry *stdlib.Registry, opts ExecOptions) *Context {
	return &Context{
		Input:     input,
		Output:    value.NewObject(),
		Meta:      meta,
		Funcs:     funcs,
		Libraries: libs,
		Registry:  registry,
		Scope:     NewScope(),
		opts:      opts,
	}
}

// RegexTimeoutMs implements stdlib.CallContext.
func (c *Context) RegexTimeoutMs() int { return c.opts.RegexTimeoutMs }

// Strict implements stdlib.CallContext.
func (c *Context) Strict() bool { return c.opts.Strict }

// bumpLoopIteration increments the execution-wide loop counter, raising
// LimitExceeded when MaxLoopIterations is exceeded.
func (c *Context) bumpLoopIteration() error {
	c.loopIterations++
	if c.loopIterations > c.opts.MaxLoopIterations {
		return jexerrors.NewLimitExceeded(jexerrors.LimitLoopIterations, c.opts.MaxLoopIterations)
	}
	return nil
}

// enterCall increments the recursion-depth counter for a user/library
// function call; the returned func must be deferred to decrement it.
func (c *Context) enterCall() (func(), error) {
	c.recursionDepth++
	if c.recursionDepth > c.opts.MaxRecursionDepth {
		c.recursionDepth--
		return func() {}, jexerrors.NewLimitExceeded(jexerrors.LimitRecursionDepth, c.opts.MaxRecursionDepth)
	}
	return func() { c.recursionDepth-- }, nil
}

// controlFlagSet reports whether any of break/continue/return is active,
// used by statement execution to short-circuit per spec.md §4.4's state
// machine.
func (c *Context) controlFlagSet() bool {
	return c.shouldBreak || c.shouldContinue || c.shouldReturn
}

// Execute runs program's top-level statements against this context and
// returns the final $out node.
func (c *Context) Execute(program *ast.Program) (value.Node, error) {
	if err := c.execStmts(program.Stmts); err != nil {
		return nil, err
	}
	c.shouldReturn = false
	return c.Output, nil
}
