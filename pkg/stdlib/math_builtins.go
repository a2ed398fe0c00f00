package stdlib

import "github.com/sandrolain/jex/pkg/value"

func registerMath(r *Registry) {
	r.Register(Entry{Name: "abs", MinArgs: 1, MaxArgs: 1, Fn: fnAbs})
	r.Register(Entry{Name: "min", MinArgs: 2, MaxArgs: 2, Fn: fnMin})
	r.Register(Entry{Name: "max", MinArgs: 2, MaxArgs: 2, Fn: fnMax})
	r.Register(Entry{Name: "round", MinArgs: 1, MaxArgs: 2, Fn: fnRound})
	r.Register(Entry{Name: "floor", MinArgs: 1, MaxArgs: 1, Fn: fnFloor})
	r.Register(Entry{Name: "ceil", MinArgs: 1, MaxArgs: 1, Fn: fnCeil})
}

func fnAbs(_ CallContext, args []Value) (Value, error) {
	return value.Number(args[0].ToNumber().Abs()), nil
}

func fnMin(_ CallContext, args []Value) (Value, error) {
	a, b := args[0].ToNumber(), args[1].ToNumber()
	if a.Cmp(b) <= 0 {
		return value.Number(a), nil
	}
	return value.Number(b), nil
}

func fnMax(_ CallContext, args []Value) (Value, error) {
	a, b := args[0].ToNumber(), args[1].ToNumber()
	if a.Cmp(b) >= 0 {
		return value.Number(a), nil
	}
	return value.Number(b), nil
}

func fnRound(_ CallContext, args []Value) (Value, error) {
	digits := 0
	if len(args) == 2 {
		digits = int(args[1].ToNumber().Int64())
	}
	return value.Number(args[0].ToNumber().Round(digits)), nil
}

func fnFloor(_ CallContext, args []Value) (Value, error) {
	return value.Number(args[0].ToNumber().Floor()), nil
}

func fnCeil(_ CallContext, args []Value) (Value, error) {
	return value.Number(args[0].ToNumber().Ceil()), nil
}
