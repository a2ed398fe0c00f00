package stdlib

import "github.com/sandrolain/jex/pkg/value"

func registerTypes(r *Registry) {
	r.Register(Entry{Name: "toString", MinArgs: 1, MaxArgs: 1, Fn: fnToString})
	r.Register(Entry{Name: "toNumber", MinArgs: 1, MaxArgs: 1, Fn: fnToNumber})
	r.Register(Entry{Name: "toBool", MinArgs: 1, MaxArgs: 1, Fn: fnToBool})
	r.Register(Entry{Name: "toDate", MinArgs: 1, MaxArgs: 1, Fn: fnToDate})
	r.Register(Entry{Name: "isNull", MinArgs: 1, MaxArgs: 1, Fn: fnIsNull})
	r.Register(Entry{Name: "isEmpty", MinArgs: 1, MaxArgs: 1, Fn: fnIsEmpty})
	r.Register(Entry{Name: "typeOf", MinArgs: 1, MaxArgs: 1, Fn: fnTypeOf})
}

func fnToString(_ CallContext, args []Value) (Value, error) {
	return value.Str(args[0].ToString()), nil
}

func fnToNumber(_ CallContext, args []Value) (Value, error) {
	return value.Number(args[0].ToNumber()), nil
}

func fnToBool(_ CallContext, args []Value) (Value, error) {
	return value.Bool(args[0].ToBool()), nil
}

// fnToDate parses a string value as an RFC3339 datetime, or passes an
// existing DateTime value through unchanged.
func fnToDate(_ CallContext, args []Value) (Value, error) {
	if args[0].Kind() == value.KindDateTime {
		return args[0], nil
	}
	return fnParseDate(nil, []Value{args[0]})
}

func fnIsNull(_ CallContext, args []Value) (Value, error) {
	return value.Bool(args[0].Kind() == value.KindNull), nil
}

// fnIsEmpty reports Null, empty string, empty array, or empty object.
func fnIsEmpty(_ CallContext, args []Value) (Value, error) {
	v := args[0]
	switch v.Kind() {
	case value.KindNull:
		return value.Bool(true), nil
	case value.KindString:
		return value.Bool(v.AsString() == ""), nil
	case value.KindJSON:
		switch n := v.AsJSON().(type) {
		case []value.Node:
			return value.Bool(len(n) == 0), nil
		case *value.Object:
			return value.Bool(n.Len() == 0), nil
		case nil:
			return value.Bool(true), nil
		}
	}
	return value.Bool(false), nil
}

func fnTypeOf(_ CallContext, args []Value) (Value, error) {
	v := args[0]
	switch v.Kind() {
	case value.KindNull:
		return value.Str("null"), nil
	case value.KindBoolean:
		return value.Str("boolean"), nil
	case value.KindNumber:
		return value.Str("number"), nil
	case value.KindString:
		return value.Str("string"), nil
	case value.KindDateTime:
		return value.Str("datetime"), nil
	case value.KindJSON:
		switch v.AsJSON().(type) {
		case []value.Node:
			return value.Str("array"), nil
		case *value.Object:
			return value.Str("object"), nil
		default:
			return value.Str("json"), nil
		}
	}
	return value.Str("unknown"), nil
}
