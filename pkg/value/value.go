package value

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandrolain/jex/pkg/decimal"
)

// Kind tags the payload carried by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindDateTime
	KindJSON
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindDateTime:
		return "datetime"
	case KindJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Value is the runtime scalar manipulated by the evaluator: null, boolean,
// arbitrary-precision number, string, datetime (with offset), or a JSON
// node. It is distinct from Node — a Value is only written into the JSON
// tree once explicitly assigned via %set/setPath.
type Value struct {
	kind Kind
	b    bool
	n    decimal.Decimal
	s    string
	t    time.Time
	j    Node
}

// Null is the JEX null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Number wraps a decimal number.
func Number(d decimal.Decimal) Value { return Value{kind: KindNumber, n: d} }

// NumberFromInt wraps an integer as a decimal number.
func NumberFromInt(i int64) Value { return Number(decimal.FromInt64(i)) }

// Str wraps a string.
func Str(s string) Value { return Value{kind: KindString, s: s} }

// DateTime wraps a time.Time, preserving its offset.
func DateTime(t time.Time) Value { return Value{kind: KindDateTime, t: t} }

// JSON wraps a JSON node.
func JSON(n Node) Value { return Value{kind: KindJSON, j: n} }

// Kind returns the Value's kind tag.
func (v Value) Kind() Kind { return v.kind }

// AsBool returns the raw boolean payload (only valid when Kind()==KindBoolean).
func (v Value) AsBool() bool { return v.b }

// AsNumber returns the raw decimal payload (only valid when Kind()==KindNumber).
func (v Value) AsNumber() decimal.Decimal { return v.n }

// AsString returns the raw string payload (only valid when Kind()==KindString).
func (v Value) AsString() string { return v.s }

// AsTime returns the raw time payload (only valid when Kind()==KindDateTime).
func (v Value) AsTime() time.Time { return v.t }

// AsJSON returns the raw JSON node payload (only valid when Kind()==KindJSON).
func (v Value) AsJSON() Node { return v.j }

// FromNode lifts a JSON node into the Value domain, classifying JSON
// scalars (null/bool/number/string) directly and wrapping arrays/objects
// as JsonNode, per spec.md §3's Value kind table.
func FromNode(n Node) Value {
	switch x := n.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(x)
	case decimal.Decimal:
		return Number(x)
	case string:
		return Str(x)
	default:
		return JSON(n)
	}
}

// ToNode lowers a Value back into the JSON domain for storage in $out.
func (v Value) ToNode() Node {
	switch v.kind {
	case KindNull:
		return nil
	case KindBoolean:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindDateTime:
		return v.t.Format(time.RFC3339Nano)
	case KindJSON:
		return v.j
	default:
		return nil
	}
}

// ToBool coerces per spec.md §3: Null→false; Number→n≠0; String→non-empty;
// JsonNode→non-null; Boolean passes through.
func (v Value) ToBool() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBoolean:
		return v.b
	case KindNumber:
		return !v.n.IsZero()
	case KindString:
		return v.s != ""
	case KindDateTime:
		return true
	case KindJSON:
		return v.j != nil
	default:
		return false
	}
}

// ToNumber coerces per spec.md §3's number coercion table.
func (v Value) ToNumber() decimal.Decimal {
	switch v.kind {
	case KindNull:
		return decimal.Zero()
	case KindBoolean:
		if v.b {
			return decimal.FromInt64(1)
		}
		return decimal.Zero()
	case KindNumber:
		return v.n
	case KindString:
		if d, ok := decimal.Parse(v.s); ok {
			return d
		}
		return decimal.Zero()
	case KindDateTime:
		return decimal.FromInt64(v.t.UnixMilli())
	case KindJSON:
		return jsonToNumber(v.j)
	default:
		return decimal.Zero()
	}
}

func jsonToNumber(n Node) decimal.Decimal {
	switch x := n.(type) {
	case decimal.Decimal:
		return x
	case string:
		if d, ok := decimal.Parse(x); ok {
			return d
		}
		return decimal.Zero()
	case bool:
		if x {
			return decimal.FromInt64(1)
		}
		return decimal.Zero()
	default:
		return decimal.Zero()
	}
}

// ToString coerces per spec.md §3's string coercion table.
func (v Value) ToString() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBoolean:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return v.n.String()
	case KindString:
		return v.s
	case KindDateTime:
		return v.t.Format(time.RFC3339Nano)
	case KindJSON:
		s, err := MarshalNode(v.j)
		if err != nil {
			return ""
		}
		return s
	default:
		return ""
	}
}

// StructuralEqual compares two same-kind values deeply; JSON nodes compare
// by recursive structural equality.
func StructuralEqual(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBoolean:
		return a.b == b.b
	case KindNumber:
		return a.n.Equal(b.n)
	case KindString:
		return a.s == b.s
	case KindDateTime:
		return a.t.Equal(b.t)
	case KindJSON:
		return nodeEqual(a.j, b.j)
	default:
		return false
	}
}

func nodeEqual(a, b Node) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case decimal.Decimal:
		bv, ok := b.(decimal.Decimal)
		return ok && av.Equal(bv)
	case []Node:
		bv, ok := b.([]Node)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !nodeEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.Keys() {
			bval, ok := bv.Get(k)
			if !ok {
				return false
			}
			aval, _ := av.Get(k)
			if !nodeEqual(aval, bval) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Equal implements spec.md §4.4's equality rule: same-kind values compare
// structurally; mismatched kinds compare via string coercion.
func Equal(a, b Value) bool {
	if a.kind == b.kind {
		return StructuralEqual(a, b)
	}
	return a.ToString() == b.ToString()
}

// FormatInvariantNumber renders f using the invariant locale (no grouping,
// '.' separator), used by string coercions that start from a host float.
func FormatInvariantNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// String implements fmt.Stringer for debugging.
func (v Value) String() string {
	return fmt.Sprintf("Value(%s:%s)", v.kind, v.ToString())
}
