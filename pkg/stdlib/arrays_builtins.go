package stdlib

import (
	"github.com/sandrolain/jex/pkg/decimal"
	"github.com/sandrolain/jex/pkg/jexerrors"
	"github.com/sandrolain/jex/pkg/jsonpath"
	"github.com/sandrolain/jex/pkg/value"
)

func registerArrays(r *Registry) {
	r.Register(Entry{Name: "arr", MinArgs: 0, MaxArgs: -1, Fn: fnArr})
	r.Register(Entry{Name: "obj", MinArgs: 0, MaxArgs: -1, Fn: fnObj})
	r.Register(Entry{Name: "push", MinArgs: 2, MaxArgs: 2, Fn: fnPush, Void: true, MutatesArg0: true})
	r.Register(Entry{Name: "first", MinArgs: 1, MaxArgs: 1, Fn: fnFirst})
	r.Register(Entry{Name: "last", MinArgs: 1, MaxArgs: 1, Fn: fnLast})
	r.Register(Entry{Name: "count", MinArgs: 1, MaxArgs: 1, Fn: fnCount})
	r.Register(Entry{Name: "indexBy", MinArgs: 2, MaxArgs: 2, Fn: fnIndexBy})
	r.Register(Entry{Name: "lookup", MinArgs: 2, MaxArgs: 2, Fn: fnLookup})
	r.Register(Entry{Name: "setPath", MinArgs: 3, MaxArgs: 3, Fn: fnSetPath, Void: true, MutatesArg0: true})
}

func fnArr(_ CallContext, args []Value) (Value, error) {
	out := make([]value.Node, len(args))
	for i, a := range args {
		out[i] = a.ToNode()
	}
	return value.JSON(out), nil
}

// fnObj implements obj(k1,v1,...); an odd trailing key with no value is
// dropped.
func fnObj(_ CallContext, args []Value) (Value, error) {
	o := value.NewObject()
	for i := 0; i+1 < len(args); i += 2 {
		o.Set(args[i].ToString(), args[i+1].ToNode())
	}
	return value.JSON(o), nil
}

func asArray(v Value) ([]value.Node, bool) {
	arr, ok := v.ToNode().([]value.Node)
	return arr, ok
}

// fnPush returns the array with val appended; the evaluator writes this
// back into whatever lvalue produced args[0] (see Entry.MutatesArg0).
func fnPush(_ CallContext, args []Value) (Value, error) {
	arr, ok := asArray(args[0])
	if !ok {
		return Value{}, jexerrors.NewRuntimeError("push: first argument must be an array").WithFunction("push")
	}
	out := make([]value.Node, len(arr)+1)
	copy(out, arr)
	out[len(arr)] = args[1].ToNode()
	return value.JSON(out), nil
}

func fnFirst(_ CallContext, args []Value) (Value, error) {
	arr, ok := asArray(args[0])
	if !ok || len(arr) == 0 {
		return value.Null(), nil
	}
	return value.FromNode(arr[0]), nil
}

func fnLast(_ CallContext, args []Value) (Value, error) {
	arr, ok := asArray(args[0])
	if !ok || len(arr) == 0 {
		return value.Null(), nil
	}
	return value.FromNode(arr[len(arr)-1]), nil
}

func fnCount(_ CallContext, args []Value) (Value, error) {
	arr, ok := asArray(args[0])
	if !ok {
		return value.Number(decimal.Zero()), nil
	}
	return value.Number(decimal.FromInt64(int64(len(arr)))), nil
}

// fnIndexBy builds an object keyed by the result of a JSONPath lookup into
// each array element; later duplicates win.
func fnIndexBy(_ CallContext, args []Value) (Value, error) {
	arr, ok := asArray(args[0])
	if !ok {
		return Value{}, jexerrors.NewRuntimeError("indexBy: first argument must be an array").WithFunction("indexBy")
	}
	path, err := jsonpath.Parse(args[1].ToString())
	if err != nil {
		return Value{}, jexerrors.NewRuntimeError("indexBy: %s", err).WithFunction("indexBy")
	}
	out := value.NewObject()
	for _, el := range arr {
		keyNode, existed := jsonpath.First(el, path)
		if !existed {
			continue
		}
		out.Set(value.FromNode(keyNode).ToString(), el)
	}
	return value.JSON(out), nil
}

func fnLookup(_ CallContext, args []Value) (Value, error) {
	obj, ok := args[0].ToNode().(*value.Object)
	if !ok {
		return value.Null(), nil
	}
	v, ok := obj.Get(args[1].ToString())
	if !ok {
		return value.Null(), nil
	}
	return value.FromNode(v), nil
}

// fnSetPath implements setPath(target,pathStr,value); the evaluator
// writes the returned root back into whatever lvalue produced args[0].
func fnSetPath(_ CallContext, args []Value) (Value, error) {
	path, err := jsonpath.Parse(args[1].ToString())
	if err != nil {
		return Value{}, jexerrors.NewRuntimeError("setPath: %s", err).WithFunction("setPath")
	}
	newRoot, err := jsonpath.Set(args[0].ToNode(), path, args[2].ToNode())
	if err != nil {
		return Value{}, err
	}
	return value.JSON(newRoot), nil
}
