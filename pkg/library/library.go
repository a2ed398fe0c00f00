// Package library implements the insertion-ordered library manager of
// spec.md §4.6: a library is a source text compiled to a function-only
// program and registered under a name; call resolution searches loaded
// libraries in insertion order, after script functions and before the
// engine's standard-library registry.
//
// Grounded on the teacher's pkg/lib loader (a name-keyed registry of
// compiled templates), generalized to JEX's function-table shape and
// insertion-ordered linear lookup (spec.md §9: "library ordering:
// preserve insertion order; library lookup is linear across libraries").
package library

import (
	"fmt"

	"github.com/sandrolain/jex/pkg/ast"
	"github.com/sandrolain/jex/pkg/jexerrors"
	"github.com/sandrolain/jex/pkg/parser"
)

// Library is one compiled, function-only source unit.
type Library struct {
	Name          string
	Functions     map[string]*ast.FunctionDecl
	FunctionNames []string
}

// Manager holds the insertion-ordered collection of loaded libraries.
type Manager struct {
	libs []*Library
}

// NewManager creates an empty library manager.
func NewManager() *Manager {
	return &Manager{}
}

// Load compiles source as a library: every top-level statement must be a
// FunctionDecl, and at least one must be declared, per spec.md §4.3/§4.6.
// Re-loading an existing name replaces it in place, preserving its
// original position in the insertion order.
func (m *Manager) Load(name, source string) (*Library, error) {
	prog, err := parser.ParseProgram(source, parser.CompileOptions{Strict: false, AllowUserFunctions: true})
	if err != nil {
		return nil, err
	}

	lib := &Library{Name: name, Functions: make(map[string]*ast.FunctionDecl)}
	for _, stmt := range prog.Stmts {
		fn, ok := stmt.(*ast.FunctionDecl)
		if !ok {
			return nil, jexerrors.NewCompileError(stmt.StmtSpan(), "library %q may only contain function declarations", name)
		}
		if _, dup := lib.Functions[fn.Name]; dup {
			return nil, jexerrors.NewCompileError(fn.StmtSpan(), "library %q: duplicate function %q", name, fn.Name)
		}
		lib.Functions[fn.Name] = fn
		lib.FunctionNames = append(lib.FunctionNames, fn.Name)
	}
	if len(lib.FunctionNames) == 0 {
		return nil, jexerrors.NewCompileError(ast.Span{}, "library %q declares no functions", name)
	}

	for i, existing := range m.libs {
		if existing.Name == name {
			m.libs[i] = lib
			return lib, nil
		}
	}
	m.libs = append(m.libs, lib)
	return lib, nil
}

// Lookup searches loaded libraries in insertion order for a function
// named name.
func (m *Manager) Lookup(name string) (*ast.FunctionDecl, bool) {
	for _, lib := range m.libs {
		if fn, ok := lib.Functions[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// Libraries returns the loaded libraries in insertion order (for host
// introspection per spec.md §6's "load a library ... returns a handle").
func (m *Manager) Libraries() []*Library {
	out := make([]*Library, len(m.libs))
	copy(out, m.libs)
	return out
}

// String renders a Library for diagnostics.
func (l *Library) String() string {
	return fmt.Sprintf("library(%s, funcs=%v)", l.Name, l.FunctionNames)
}
