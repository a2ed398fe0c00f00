package stdlib

import (
	"github.com/sandrolain/jex/pkg/jexerrors"
	"github.com/sandrolain/jex/pkg/jsonpath"
	"github.com/sandrolain/jex/pkg/value"
)

func registerJSONPath(r *Registry) {
	r.Register(Entry{Name: "jp1", MinArgs: 2, MaxArgs: 2, Fn: jp1})
	r.Register(Entry{Name: "jpAll", MinArgs: 2, MaxArgs: 2, Fn: jpAll})
	r.Register(Entry{Name: "coalescePath", MinArgs: 2, MaxArgs: -1, Fn: coalescePath})
	r.Register(Entry{Name: "existsPath", MinArgs: 2, MaxArgs: 2, Fn: existsPath})
}

func jp1(_ CallContext, args []Value) (Value, error) {
	json := args[0].ToNode()
	path, err := jsonpath.Parse(args[1].ToString())
	if err != nil {
		return Value{}, jexerrors.NewRuntimeError("jp1: %s", err).WithFunction("jp1")
	}
	node, existed := jsonpath.First(json, path)
	if !existed {
		return value.Null(), nil
	}
	return value.FromNode(node), nil
}

func jpAll(_ CallContext, args []Value) (Value, error) {
	json := args[0].ToNode()
	path, err := jsonpath.Parse(args[1].ToString())
	if err != nil {
		return Value{}, jexerrors.NewRuntimeError("jpAll: %s", err).WithFunction("jpAll")
	}
	matches, _ := jsonpath.QueryAll(json, path)
	out := make([]value.Node, len(matches))
	copy(out, matches)
	return value.JSON(out), nil
}

func coalescePath(_ CallContext, args []Value) (Value, error) {
	json := args[0].ToNode()
	for _, p := range args[1:] {
		path, err := jsonpath.Parse(p.ToString())
		if err != nil {
			return Value{}, jexerrors.NewRuntimeError("coalescePath: %s", err).WithFunction("coalescePath")
		}
		node, existed := jsonpath.First(json, path)
		if existed && !value.IsNull(node) {
			return value.FromNode(node), nil
		}
	}
	return value.Null(), nil
}

func existsPath(_ CallContext, args []Value) (Value, error) {
	json := args[0].ToNode()
	path, err := jsonpath.Parse(args[1].ToString())
	if err != nil {
		return Value{}, jexerrors.NewRuntimeError("existsPath: %s", err).WithFunction("existsPath")
	}
	_, existed := jsonpath.First(json, path)
	return value.Bool(existed), nil
}
