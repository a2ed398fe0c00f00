package runtime

import "github.com/sandrolain/jex/pkg/value"

// Scope is the variable-binding stack described in spec.md §9: a stack of
// key→Value maps with a persistent global map at index 0. Lookup walks the
// stack top-to-bottom; assignment updates the nearest existing binding, or
// creates a new one in the innermost frame.
//
// Grounded on the teacher's pkg/evaluator scope-map handling, generalized
// from JSONata's single-frame-per-call model to JEX's explicit
// push/pop-per-construct stack (spec.md §3 "Variable binding").
type Scope struct {
	frames []map[string]value.Value
}

// NewScope creates a scope stack with an empty global frame at its base.
func NewScope() *Scope {
	return &Scope{frames: []map[string]value.Value{make(map[string]value.Value)}}
}

// Push adds a fresh frame on top of the stack (function call, loop entry).
func (s *Scope) Push() {
	s.frames = append(s.frames, make(map[string]value.Value))
}

// Pop removes the top frame (function return, loop exit).
func (s *Scope) Pop() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Depth returns the current stack depth (for diagnostics/tests).
func (s *Scope) Depth() int { return len(s.frames) }

// Get resolves name by walking frames from top to global.
func (s *Scope) Get(name string) (value.Value, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i][name]; ok {
			return v, true
		}
	}
	return value.Value{}, false
}

// SetExisting updates name in the nearest frame that already defines it.
// Reports whether an existing binding was found.
func (s *Scope) SetExisting(name string, v value.Value) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if _, ok := s.frames[i][name]; ok {
			s.frames[i][name] = v
			return true
		}
	}
	return false
}

// Define binds name in the innermost (current) frame, shadowing any outer
// binding. Used for %let when no existing binding is found, and for
// function parameter binding (always a fresh local).
func (s *Scope) Define(name string, v value.Value) {
	s.frames[len(s.frames)-1][name] = v
}

// Let implements spec.md §3's variable-binding rule: update the nearest
// existing binding, else define one in the innermost frame.
func (s *Scope) Let(name string, v value.Value) {
	if !s.SetExisting(name, v) {
		s.Define(name, v)
	}
}
