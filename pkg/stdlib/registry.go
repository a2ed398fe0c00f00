// Package stdlib implements the JEX standard library described in
// spec.md §4.5: a name-keyed, arity-checked registry of built-in
// functions over the Value domain, populated at engine construction and
// read-only thereafter during execution.
//
// Grounded on the teacher's builtin function-table pattern
// (pkg/evaluator's funcTable map[string]BuiltinFunc with arity metadata),
// generalized to JEX's (minArgs,maxArgs) bounds and Void/MutatesArg0 flags
// (needed for push/setPath's in-place-mutation contract).
package stdlib

import (
	"strings"

	"github.com/sandrolain/jex/pkg/value"
)

// Value is re-exported so built-in signatures read naturally within this
// package without every file importing pkg/value directly.
type Value = value.Value

// CallContext is the minimal view of the execution context a built-in
// needs: the configured regex timeout and whether strict mode is active.
// Kept intentionally small (rather than importing pkg/runtime, which
// would create an import cycle since runtime.Context holds a *Registry).
type CallContext interface {
	RegexTimeoutMs() int
	Strict() bool
}

// Func is the signature every built-in implements.
type Func func(ctx CallContext, args []Value) (Value, error)

// Entry describes one registered built-in.
type Entry struct {
	Name string
	// MinArgs/MaxArgs bound arity; MaxArgs<0 means unbounded.
	MinArgs, MaxArgs int
	Fn               Func
	// Void marks functions the spec describes as "void" (push, setPath):
	// their Go return value is discarded by callers using them as
	// statements, but is still used internally for MutatesArg0 write-back.
	Void bool
	// MutatesArg0 tells the evaluator to write the function's return value
	// back into whatever lvalue produced Args[0] (variable, property,
	// index, or $out/$in/$meta), since JEX arrays have value semantics in
	// Go and cannot be mutated through a plain argument the way the spec's
	// "mutates in place" wording implies.
	MutatesArg0 bool
}

// Registry is a read-only-during-execution, name-keyed function table.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry builds a registry preloaded with the full standard library.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]Entry)}
	registerJSONPath(r)
	registerStrings(r)
	registerMath(r)
	registerDates(r)
	registerTypes(r)
	registerArrays(r)
	registerJSONString(r)
	return r
}

// Register adds or replaces an entry (used by host bindings to add
// custom functions to the engine's registry at construction time).
func (r *Registry) Register(e Entry) {
	r.entries[strings.ToLower(e.Name)] = e
}

// Lookup resolves a built-in by name, ignoring case.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[strings.ToLower(name)]
	return e, ok
}

// CheckArity validates argc against an entry's bounds.
func (e Entry) CheckArity(argc int) bool {
	if argc < e.MinArgs {
		return false
	}
	if e.MaxArgs >= 0 && argc > e.MaxArgs {
		return false
	}
	return true
}
