package stdlib

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/sandrolain/jex/pkg/decimal"
	"github.com/sandrolain/jex/pkg/jexerrors"
	"github.com/sandrolain/jex/pkg/value"
)

func registerStrings(r *Registry) {
	r.Register(Entry{Name: "trim", MinArgs: 1, MaxArgs: 1, Fn: fnTrim})
	r.Register(Entry{Name: "lower", MinArgs: 1, MaxArgs: 1, Fn: fnLower})
	r.Register(Entry{Name: "upper", MinArgs: 1, MaxArgs: 1, Fn: fnUpper})
	r.Register(Entry{Name: "substr", MinArgs: 2, MaxArgs: 3, Fn: fnSubstr})
	r.Register(Entry{Name: "left", MinArgs: 2, MaxArgs: 2, Fn: fnLeft})
	r.Register(Entry{Name: "right", MinArgs: 2, MaxArgs: 2, Fn: fnRight})
	r.Register(Entry{Name: "split", MinArgs: 2, MaxArgs: 2, Fn: fnSplit})
	r.Register(Entry{Name: "join", MinArgs: 2, MaxArgs: 2, Fn: fnJoin})
	r.Register(Entry{Name: "replace", MinArgs: 3, MaxArgs: 3, Fn: fnReplace})
	r.Register(Entry{Name: "regexMatch", MinArgs: 2, MaxArgs: 2, Fn: fnRegexMatch})
	r.Register(Entry{Name: "regexReplace", MinArgs: 3, MaxArgs: 3, Fn: fnRegexReplace})
	r.Register(Entry{Name: "concat", MinArgs: 0, MaxArgs: -1, Fn: fnConcat})
	r.Register(Entry{Name: "length", MinArgs: 1, MaxArgs: 1, Fn: fnLength})
}

func fnTrim(_ CallContext, args []Value) (Value, error) {
	return value.Str(strings.TrimSpace(args[0].ToString())), nil
}

func fnLower(_ CallContext, args []Value) (Value, error) {
	return value.Str(strings.ToLower(args[0].ToString())), nil
}

func fnUpper(_ CallContext, args []Value) (Value, error) {
	return value.Str(strings.ToUpper(args[0].ToString())), nil
}

// fnSubstr implements substr(s,start[,len]): start clamped to [0,len(s)];
// negative len yields an empty result.
func fnSubstr(_ CallContext, args []Value) (Value, error) {
	s := []rune(args[0].ToString())
	start := int(args[1].ToNumber().Int64())
	if start < 0 {
		start = 0
	}
	if start > len(s) {
		start = len(s)
	}
	if len(args) == 2 {
		return value.Str(string(s[start:])), nil
	}
	n := int(args[2].ToNumber().Int64())
	if n < 0 {
		return value.Str(""), nil
	}
	end := start + n
	if end > len(s) {
		end = len(s)
	}
	return value.Str(string(s[start:end])), nil
}

func fnLeft(_ CallContext, args []Value) (Value, error) {
	s := []rune(args[0].ToString())
	n := int(args[1].ToNumber().Int64())
	if n < 0 {
		n = 0
	}
	if n > len(s) {
		n = len(s)
	}
	return value.Str(string(s[:n])), nil
}

func fnRight(_ CallContext, args []Value) (Value, error) {
	s := []rune(args[0].ToString())
	n := int(args[1].ToNumber().Int64())
	if n < 0 {
		n = 0
	}
	if n > len(s) {
		n = len(s)
	}
	return value.Str(string(s[len(s)-n:])), nil
}

func fnSplit(_ CallContext, args []Value) (Value, error) {
	parts := strings.Split(args[0].ToString(), args[1].ToString())
	out := make([]value.Node, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return value.JSON(out), nil
}

func fnJoin(_ CallContext, args []Value) (Value, error) {
	node := args[0].ToNode()
	arr, ok := node.([]value.Node)
	if !ok {
		return Value{}, jexerrors.NewRuntimeError("join: first argument must be an array").WithFunction("join")
	}
	delim := args[1].ToString()
	parts := make([]string, len(arr))
	for i, n := range arr {
		parts[i] = value.FromNode(n).ToString()
	}
	return value.Str(strings.Join(parts, delim)), nil
}

func fnReplace(_ CallContext, args []Value) (Value, error) {
	s := args[0].ToString()
	find := args[1].ToString()
	repl := args[2].ToString()
	return value.Str(strings.ReplaceAll(s, find, repl)), nil
}

// withRegexTimeout runs work (pattern compilation plus matching or
// substitution) in a goroutine and reports a LimitExceeded if it does not
// finish within the configured per-call budget (one second when the
// budget is not positive), per spec.md §4.5's "regex operations must
// enforce a per-call timeout."
func withRegexTimeout(ctx CallContext, fn string, work func() (Value, error)) (Value, error) {
	timeout := time.Duration(ctx.RegexTimeoutMs()) * time.Millisecond
	if timeout <= 0 {
		timeout = time.Second
	}
	done := make(chan struct{})
	var result Value
	var err error
	go func() {
		defer close(done)
		result, err = work()
	}()
	c, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	select {
	case <-done:
		return result, err
	case <-c.Done():
		return Value{}, jexerrors.NewLimitExceeded(jexerrors.LimitRegexTimeout, ctx.RegexTimeoutMs())
	}
}

func fnRegexMatch(ctx CallContext, args []Value) (Value, error) {
	return withRegexTimeout(ctx, "regexMatch", func() (Value, error) {
		re, err := regexp.Compile(args[1].ToString())
		if err != nil {
			return Value{}, jexerrors.NewRuntimeError("regexMatch: invalid pattern: %s", err).WithFunction("regexMatch")
		}
		return value.Bool(re.MatchString(args[0].ToString())), nil
	})
}

func fnRegexReplace(ctx CallContext, args []Value) (Value, error) {
	return withRegexTimeout(ctx, "regexReplace", func() (Value, error) {
		re, err := regexp.Compile(args[1].ToString())
		if err != nil {
			return Value{}, jexerrors.NewRuntimeError("regexReplace: invalid pattern: %s", err).WithFunction("regexReplace")
		}
		return value.Str(re.ReplaceAllString(args[0].ToString(), args[2].ToString())), nil
	})
}

func fnConcat(_ CallContext, args []Value) (Value, error) {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(a.ToString())
	}
	return value.Str(b.String()), nil
}

// fnLength implements length(x): character count for strings, element
// count for arrays, entry count for objects, else 0.
func fnLength(_ CallContext, args []Value) (Value, error) {
	switch args[0].Kind() {
	case value.KindString:
		return value.Number(decimal.FromInt64(int64(len([]rune(args[0].AsString()))))), nil
	case value.KindJSON:
		switch n := args[0].AsJSON().(type) {
		case []value.Node:
			return value.Number(decimal.FromInt64(int64(len(n)))), nil
		case *value.Object:
			return value.Number(decimal.FromInt64(int64(n.Len()))), nil
		}
	}
	return value.Number(decimal.Zero()), nil
}
