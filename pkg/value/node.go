// Package value implements the JSON node tree and the runtime Value
// tagged union described in spec.md §3, including the deterministic
// coercion rules of §4.5.
//
// A Node is represented as a plain interface{} whose dynamic type is one
// of: nil (JSON null), bool, decimal.Decimal, string, []interface{}
// (array of Node), or *Object (ordered object) — mirroring the teacher's
// interface{}-based JSON representation (pkg/evaluator's use of
// map[string]interface{}/[]interface{}) generalized with an explicit
// ordered-map type so object key order survives round-trips, per spec.md
// §9's "preserve object insertion order because script outputs rely on
// it."
package value

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sandrolain/jex/pkg/decimal"
)

// Node is a JSON value: nil, bool, decimal.Decimal, string, []interface{},
// or *Object.
type Node = interface{}

// Object is an ordered string-keyed JSON object.
type Object struct {
	keys   []string
	values map[string]Node
}

// NewObject creates an empty ordered object.
func NewObject() *Object {
	return &Object{values: make(map[string]Node)}
}

// Set inserts or updates key, preserving first-insertion order.
func (o *Object) Set(key string, v Node) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value at key and whether it was present.
func (o *Object) Get(key string) (Node, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Delete removes key if present.
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of entries.
func (o *Object) Len() int { return len(o.keys) }

// Clone returns a deep copy of the object.
func (o *Object) Clone() *Object {
	n := NewObject()
	for _, k := range o.keys {
		n.Set(k, CloneNode(o.values[k]))
	}
	return n
}

// MarshalJSON implements json.Marshaler, preserving key order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.Write(kb)
		b.WriteByte(':')
		vb, err := json.Marshal(toJSONCompatible(o.values[k]))
		if err != nil {
			return nil, err
		}
		b.Write(vb)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// CloneNode returns a deep copy of a Node.
func CloneNode(n Node) Node {
	switch v := n.(type) {
	case *Object:
		return v.Clone()
	case []Node:
		out := make([]Node, len(v))
		for i, e := range v {
			out[i] = CloneNode(e)
		}
		return out
	default:
		return v
	}
}

// toJSONCompatible converts internal Node representations (decimal.Decimal)
// into types encoding/json knows how to marshal.
func toJSONCompatible(n Node) interface{} {
	switch v := n.(type) {
	case decimal.Decimal:
		return json.Number(v.String())
	case []Node:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = toJSONCompatible(e)
		}
		return out
	case *Object:
		return v
	default:
		return v
	}
}

// MarshalNode serializes a Node to canonical JSON text (object keys in
// insertion order, numbers in invariant-decimal form).
func MarshalNode(n Node) (string, error) {
	b, err := json.Marshal(toJSONCompatible(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FromGo converts a decoded encoding/json value (map[string]interface{},
// []interface{}, json.Number/float64, string, bool, nil) into a Node tree
// with ordered objects and decimal numbers. Object key order is taken from
// a second pass using json.Decoder with UseNumber when the caller needs
// exact order preservation; FromGo itself sorts plain map keys
// lexicographically as a best-effort fallback when the source order is
// already lost (see ParseJSON for the order-preserving path).
func FromGo(v interface{}) Node {
	switch x := v.(type) {
	case nil:
		return nil
	case bool:
		return x
	case string:
		return x
	case float64:
		return decimal.FromFloat64(x)
	case json.Number:
		d, _ := decimal.Parse(x.String())
		return d
	case []interface{}:
		out := make([]Node, len(x))
		for i, e := range x {
			out[i] = FromGo(e)
		}
		return out
	case map[string]interface{}:
		o := NewObject()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			o.Set(k, FromGo(x[k]))
		}
		return o
	default:
		return fmt.Sprintf("%v", x)
	}
}

// ParseJSON parses JSON text into a Node tree, preserving object key
// order exactly as it appears in the source (unlike FromGo's
// lexicographic fallback), by decoding token-by-token with
// json.Decoder.Token.
func ParseJSON(text string) (Node, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	n, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func decodeValue(dec *json.Decoder) (Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Node, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			o := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := keyTok.(string)
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				o.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return o, nil
		case '[':
			var arr []Node
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			if arr == nil {
				arr = []Node{}
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		d, _ := decimal.Parse(t.String())
		return d, nil
	case string, bool, nil:
		return t, nil
	default:
		return nil, fmt.Errorf("unsupported JSON token %v", t)
	}
}

// IsNull reports whether n represents JSON null.
func IsNull(n Node) bool { return n == nil }

// TypeName returns the JEX typeOf() name for a Node.
func TypeName(n Node) string {
	switch n.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case decimal.Decimal:
		return "number"
	case string:
		return "string"
	case []Node:
		return "array"
	case *Object:
		return "object"
	default:
		return "unknown"
	}
}
