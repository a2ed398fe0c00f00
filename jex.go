// Package jex implements the JEX transformation language: a compact,
// "%keyword"-prefixed, "&variable"-referenced DSL for deterministic
// JSON-to-JSON transformation with compile-once/execute-many semantics.
//
// See pkg/engine for the embedding surface, pkg/parser/pkg/runtime for
// the compiler and evaluator, and pkg/normalizer for the standalone
// JSON-in-string preprocessor.
package jex

import (
	"github.com/sandrolain/jex/pkg/engine"
	"github.com/sandrolain/jex/pkg/parser"
	"github.com/sandrolain/jex/pkg/value"
)

// CompileOptions re-exports parser.CompileOptions for callers that don't
// need to import the parser package directly.
type CompileOptions = parser.CompileOptions

// ExecOption re-exports engine.ExecOption.
type ExecOption = engine.ExecOption

// Re-export the functional exec options, plus the engine option WithCache,
// so callers can write jex.WithStrict(true) without importing pkg/engine.
var (
	WithStrict             = engine.WithStrict
	WithMaxLoopIterations  = engine.WithMaxLoopIterations
	WithMaxRecursionDepth  = engine.WithMaxRecursionDepth
	WithRegexTimeoutMs     = engine.WithRegexTimeoutMs
	WithMaxOutputSizeBytes = engine.WithMaxOutputSizeBytes
	WithCache              = engine.WithCache
)

// WithLogger and WithDebug configure the engine's diagnostic logging.
var (
	WithLogger = engine.WithLogger
	WithDebug  = engine.WithDebug
)

// Engine is the embedding surface described in spec.md §6.
type Engine = engine.Engine

// CompiledProgram is an immutable, concurrency-safe compiled script.
type CompiledProgram = engine.CompiledProgram

// NewEngine creates an engine with the standard library pre-registered.
func NewEngine(opts ...engine.Option) *Engine {
	return engine.New(opts...)
}

// Compile compiles script against a fresh default engine. Prefer
// NewEngine+Engine.Compile when registering host functions or loading
// libraries is needed.
func Compile(script string, opts CompileOptions) (*CompiledProgram, error) {
	return NewEngine().Compile(script, opts)
}

// Execute compiles and runs script once against input, using default
// compile options and the given execution options.
func Execute(script string, input value.Node, opts ...ExecOption) (value.Node, error) {
	return NewEngine().Execute(script, input, nil, opts...)
}
