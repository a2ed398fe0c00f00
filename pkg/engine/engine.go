// Package engine implements the embedding surface of spec.md §6: an
// Engine bundling a standard-library registry, a library manager, and
// an optional compiled-program cache, plus Compile/Execute entry points.
//
// Grounded on the teacher's top-level gosonata.go (constructor +
// functional options wiring an evaluator and an optional cache), adapted
// to JEX's compile/execute split and three-stage call resolution.
package engine

import (
	"log/slog"

	"github.com/sandrolain/jex/pkg/ast"
	"github.com/sandrolain/jex/pkg/cache"
	"github.com/sandrolain/jex/pkg/jexerrors"
	"github.com/sandrolain/jex/pkg/library"
	"github.com/sandrolain/jex/pkg/parser"
	"github.com/sandrolain/jex/pkg/runtime"
	"github.com/sandrolain/jex/pkg/stdlib"
	"github.com/sandrolain/jex/pkg/value"
)

// Engine holds the standard-library registry and library manager shared
// by every compile/execute call, per spec.md §5's "the function registry
// is populated at engine construction and is read-only during
// execution."
type Engine struct {
	registry  *stdlib.Registry
	libraries *library.Manager
	cache     *cache.Cache
	logger    *slog.Logger
	debug     bool
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithCache enables a compiled-program LRU cache of the given capacity,
// keyed by script source text.
func WithCache(capacity int) Option {
	return func(e *Engine) { e.cache = cache.New(capacity) }
}

// WithLogger sets a custom structured logger for compile/execute
// diagnostics. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithDebug enables per-compile/per-execute debug log lines.
func WithDebug(debug bool) Option {
	return func(e *Engine) { e.debug = debug }
}

// New creates an engine with the standard library pre-registered.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry:  stdlib.NewRegistry(),
		libraries: library.NewManager(),
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// RegisterFunction registers a value-returning host function under
// name, per spec.md §6.
func (e *Engine) RegisterFunction(name string, minArgs, maxArgs int, fn stdlib.Func) {
	e.registry.Register(stdlib.Entry{Name: name, MinArgs: minArgs, MaxArgs: maxArgs, Fn: fn})
}

// RegisterVoidFunction registers a void-returning host function under
// name; its return value is discarded and Null substituted, matching
// the standard library's push/setPath convention.
func (e *Engine) RegisterVoidFunction(name string, minArgs, maxArgs int, fn stdlib.Func) {
	e.registry.Register(stdlib.Entry{Name: name, MinArgs: minArgs, MaxArgs: maxArgs, Fn: fn, Void: true})
}

// LoadLibrary compiles source and registers it under name, returning a
// handle describing its declared functions.
func (e *Engine) LoadLibrary(name, source string) (*library.Library, error) {
	return e.libraries.Load(name, source)
}

// CompiledProgram is the immutable artifact of Compile: the AST plus the
// script-function table, safe to share and execute concurrently, per
// spec.md §3's lifecycle invariants.
type CompiledProgram struct {
	engine *Engine
	ast    *ast.Program
	funcs  map[string]*ast.FunctionDecl
}

// Compile parses source and collects its top-level function declarations
// into a function table, per spec.md §4.3.
func (e *Engine) Compile(source string, opts parser.CompileOptions) (*CompiledProgram, error) {
	if e.cache != nil {
		hit := false
		if _, ok := e.cache.Get(source); ok {
			hit = true
		}
		v, err := e.cache.GetOrCompile(source, func() (interface{}, error) {
			return e.compileUncached(source, opts)
		})
		if e.debug {
			e.logger.Debug("compile", "cacheHit", hit, "sourceLen", len(source))
		}
		if err != nil {
			return nil, err
		}
		return v.(*CompiledProgram), nil
	}
	return e.compileUncached(source, opts)
}

func (e *Engine) compileUncached(source string, opts parser.CompileOptions) (*CompiledProgram, error) {
	prog, err := parser.ParseProgram(source, opts)
	if err != nil {
		return nil, err
	}

	funcs := make(map[string]*ast.FunctionDecl)
	for _, stmt := range prog.Stmts {
		fn, ok := stmt.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		if !opts.AllowUserFunctions {
			return nil, jexerrors.NewCompileError(fn.StmtSpan(), "user-defined functions are not allowed")
		}
		if _, dup := funcs[fn.Name]; dup {
			return nil, jexerrors.NewCompileError(fn.StmtSpan(), "duplicate function %q", fn.Name)
		}
		funcs[fn.Name] = fn
	}

	return &CompiledProgram{engine: e, ast: prog, funcs: funcs}, nil
}

// ExecOption configures a single Execute call.
type ExecOption func(*runtime.ExecOptions)

// WithStrict toggles strict evaluation (missing variables/paths/
// properties raise errors instead of evaluating to Null).
func WithStrict(strict bool) ExecOption {
	return func(o *runtime.ExecOptions) { o.Strict = strict }
}

// WithMaxLoopIterations overrides the loop-iteration limit.
func WithMaxLoopIterations(n int) ExecOption {
	return func(o *runtime.ExecOptions) { o.MaxLoopIterations = n }
}

// WithMaxRecursionDepth overrides the recursion-depth limit.
func WithMaxRecursionDepth(n int) ExecOption {
	return func(o *runtime.ExecOptions) { o.MaxRecursionDepth = n }
}

// WithRegexTimeoutMs overrides the per-call regex timeout.
func WithRegexTimeoutMs(ms int) ExecOption {
	return func(o *runtime.ExecOptions) { o.RegexTimeoutMs = ms }
}

// WithMaxOutputSizeBytes bounds the serialized size of $out; 0 means
// unlimited.
func WithMaxOutputSizeBytes(n int) ExecOption {
	return func(o *runtime.ExecOptions) { o.MaxOutputSizeBytes = n }
}

func resolveExecOptions(opts []ExecOption) runtime.ExecOptions {
	o := runtime.DefaultExecOptions()
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// Execute runs the compiled program against input (and optional meta),
// returning the final $out JSON node.
func (p *CompiledProgram) Execute(input, meta value.Node, opts ...ExecOption) (value.Node, error) {
	execOpts := resolveExecOptions(opts)
	if p.engine.debug {
		p.engine.logger.Debug("execute", "strict", execOpts.Strict, "maxLoopIterations", execOpts.MaxLoopIterations)
	}
	ctx := runtime.NewContext(input, meta, p.funcs, p.engine.libraries, p.engine.registry, execOpts)
	out, err := ctx.Execute(p.ast)
	if err != nil {
		if p.engine.debug {
			p.engine.logger.Debug("execute failed", "error", err)
		}
		return nil, err
	}
	if execOpts.MaxOutputSizeBytes > 0 {
		text, merr := value.MarshalNode(out)
		if merr == nil && len(text) > execOpts.MaxOutputSizeBytes {
			return nil, jexerrors.NewRuntimeError("output size %d exceeds MaxOutputSizeBytes %d", len(text), execOpts.MaxOutputSizeBytes)
		}
	}
	return out, nil
}

// Execute is the engine-level convenience call: compile source with
// default compile options, then execute it once against input.
func (e *Engine) Execute(source string, input, meta value.Node, opts ...ExecOption) (value.Node, error) {
	prog, err := e.Compile(source, parser.DefaultCompileOptions())
	if err != nil {
		return nil, err
	}
	return prog.Execute(input, meta, opts...)
}
