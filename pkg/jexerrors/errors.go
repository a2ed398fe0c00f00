// Package jexerrors defines the error taxonomy shared by every compilation
// and execution stage: CompileError, RuntimeError, and LimitExceeded.
package jexerrors

import "fmt"

// Span locates a range in source text.
type Span struct {
	StartLine, StartCol int
	EndLine, EndCol     int
	StartOffset         int
	EndOffset           int
}

// String renders a span as "line:col".
func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.StartLine, s.StartCol)
}

// CompileError is raised by the lexer, parser, or compiler.
type CompileError struct {
	Message string
	Span    Span
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error at %s: %s", e.Span, e.Message)
}

func (e *CompileError) Unwrap() error { return e.Err }

// NewCompileError builds a CompileError at the given span.
func NewCompileError(span Span, format string, args ...interface{}) *CompileError {
	return &CompileError{Message: fmt.Sprintf(format, args...), Span: span}
}

// RuntimeError is raised during evaluation.
type RuntimeError struct {
	Message      string
	Span         Span
	HasSpan      bool
	FunctionName string
	Path         string
	Err          error
}

func (e *RuntimeError) Error() string {
	msg := e.Message
	if e.FunctionName != "" {
		msg = fmt.Sprintf("%s (in %s)", msg, e.FunctionName)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s [path %s]", msg, e.Path)
	}
	if e.HasSpan {
		return fmt.Sprintf("runtime error at %s: %s", e.Span, msg)
	}
	return fmt.Sprintf("runtime error: %s", msg)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// NewRuntimeError builds a bare RuntimeError.
func NewRuntimeError(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}

// WithSpan attaches a source span.
func (e *RuntimeError) WithSpan(span Span) *RuntimeError {
	e.Span = span
	e.HasSpan = true
	return e
}

// WithFunction attaches the originating function name.
func (e *RuntimeError) WithFunction(name string) *RuntimeError {
	e.FunctionName = name
	return e
}

// WithPath attaches a JSON path.
func (e *RuntimeError) WithPath(path string) *RuntimeError {
	e.Path = path
	return e
}

// WithCause wraps an underlying host/callback error.
func (e *RuntimeError) WithCause(err error) *RuntimeError {
	e.Err = err
	return e
}

// LimitName identifies which bounded resource was exceeded.
type LimitName string

const (
	LimitLoopIterations  LimitName = "MaxLoopIterations"
	LimitRecursionDepth  LimitName = "MaxRecursionDepth"
	LimitNodesVisited    LimitName = "MaxNodesVisited"
	LimitTotalReplace    LimitName = "MaxTotalReplacements"
	LimitRegexTimeout    LimitName = "RegexTimeoutMs"
	LimitStringExpandMax LimitName = "MaxDepthPerString"
)

// LimitExceeded is raised when a bounded resource (loop iterations,
// recursion depth, normalizer node/replacement budget, regex timeout) is
// exceeded.
type LimitExceeded struct {
	Name  LimitName
	Value int
}

func (e *LimitExceeded) Error() string {
	return fmt.Sprintf("limit exceeded: %s (limit=%d)", e.Name, e.Value)
}

// NewLimitExceeded builds a LimitExceeded error.
func NewLimitExceeded(name LimitName, value int) *LimitExceeded {
	return &LimitExceeded{Name: name, Value: value}
}
