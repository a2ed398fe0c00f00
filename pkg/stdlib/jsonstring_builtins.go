package stdlib

import (
	"strings"

	"github.com/sandrolain/jex/pkg/jexerrors"
	"github.com/sandrolain/jex/pkg/jsonpath"
	"github.com/sandrolain/jex/pkg/value"
)

func registerJSONString(r *Registry) {
	r.Register(Entry{Name: "expandJson", MinArgs: 2, MaxArgs: 3, Fn: fnExpandJson})
	r.Register(Entry{Name: "expandJsonAll", MinArgs: 1, MaxArgs: 2, Fn: fnExpandJsonAll})
}

const defaultExpandMaxDepth = 10

// fnExpandJson implements expandJson(json, pathStr[, maxDepth=10]): clone
// json, parse the string value found at pathStr, and recursively expand
// any string children of the result that look like JSON, per spec.md
// §4.5.
func fnExpandJson(_ CallContext, args []Value) (Value, error) {
	maxDepth := defaultExpandMaxDepth
	if len(args) == 3 {
		maxDepth = int(args[2].ToNumber().Int64())
	}
	clone := value.CloneNode(args[0].ToNode())
	path, err := jsonpath.Parse(args[1].ToString())
	if err != nil {
		return Value{}, jexerrors.NewRuntimeError("expandJson: %s", err).WithFunction("expandJson")
	}
	target, existed := jsonpath.First(clone, path)
	if !existed {
		return value.JSON(clone), nil
	}
	s, ok := target.(string)
	if !ok {
		return value.JSON(clone), nil
	}
	parsed, ok := tryParseJSONString(s)
	if !ok {
		return value.JSON(clone), nil
	}
	expanded := expandStringsRecursive(parsed, maxDepth)
	newRoot, err := jsonpath.Set(clone, path, expanded)
	if err != nil {
		return Value{}, err
	}
	return value.JSON(newRoot), nil
}

// fnExpandJsonAll implements expandJsonAll(json[, maxDepth=10]): clone
// json, walk it recursively, and replace every string that parses as JSON
// with its parsed form (recursing into the replacement), up to maxDepth
// nested parses.
func fnExpandJsonAll(_ CallContext, args []Value) (Value, error) {
	maxDepth := defaultExpandMaxDepth
	if len(args) == 2 {
		maxDepth = int(args[1].ToNumber().Int64())
	}
	clone := value.CloneNode(args[0].ToNode())
	return value.JSON(expandStringsRecursive(clone, maxDepth)), nil
}

// tryParseJSONString attempts to parse s as JSON; trims whitespace first.
// Like the normalizer it requires a trimmed length >= 2 and a matching
// object or array bracket pair, but it also accepts text that starts with
// a double quote (a JSON string literal).
func tryParseJSONString(s string) (value.Node, bool) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < 2 {
		return nil, false
	}
	first, last := trimmed[0], trimmed[len(trimmed)-1]
	looksLikeJSON := (first == '{' && last == '}') || (first == '[' && last == ']') || first == '"'
	if !looksLikeJSON {
		return nil, false
	}
	n, err := value.ParseJSON(trimmed)
	if err != nil {
		return nil, false
	}
	return n, true
}

// expandStringsRecursive walks n, replacing string leaves that parse as
// JSON with the parsed node and recursing into the replacement, up to
// depth nested parses.
func expandStringsRecursive(n value.Node, depth int) value.Node {
	if depth <= 0 {
		return n
	}
	switch v := n.(type) {
	case string:
		parsed, ok := tryParseJSONString(v)
		if !ok {
			return v
		}
		return expandStringsRecursive(parsed, depth-1)
	case []value.Node:
		out := make([]value.Node, len(v))
		for i, e := range v {
			out[i] = expandStringsRecursive(e, depth)
		}
		return out
	case *value.Object:
		out := value.NewObject()
		for _, k := range v.Keys() {
			el, _ := v.Get(k)
			out.Set(k, expandStringsRecursive(el, depth))
		}
		return out
	default:
		return n
	}
}
