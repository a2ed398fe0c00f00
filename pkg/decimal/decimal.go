// Package decimal implements the arbitrary-precision decimal arithmetic
// spec.md §3/§9 requires for Value's Number kind. No decimal library
// appears anywhere in the retrieved example corpus, so this wraps
// math/big.Rat (the standard library's exact-rational type) behind a
// fixed-point-flavored API that formats under the invariant locale (plain
// decimal, no grouping separators, trailing zeros trimmed) — see
// DESIGN.md for the stdlib-justification entry.
package decimal

import (
	"math/big"
	"strings"
)

// Decimal is an arbitrary-precision signed decimal number.
type Decimal struct {
	r *big.Rat
}

// Zero is the additive identity.
func Zero() Decimal { return Decimal{r: new(big.Rat)} }

// FromInt64 builds a Decimal from an integer.
func FromInt64(n int64) Decimal {
	return Decimal{r: new(big.Rat).SetInt64(n)}
}

// FromFloat64 builds a Decimal from a float64 (used for host-supplied
// JSON numbers decoded by encoding/json).
func FromFloat64(f float64) Decimal {
	r := new(big.Rat)
	r.SetFloat64(f)
	if r == nil {
		return Zero()
	}
	return Decimal{r: r}
}

// Parse parses a number under the invariant locale: a decimal literal
// ([+-]?[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?) or any other form that
// big.Rat.SetString accepts, such as the fraction "1/3". Returns
// (Zero, false) on failure, matching spec.md §3's "else 0"
// string-to-number coercion.
//
// Parses directly into a big.Rat via SetString, which natively understands
// decimal-point and exponent notation as an exact rational — routing
// through strconv.ParseFloat/SetFloat64 first would store the binary
// float64 approximation of s instead of s itself, corrupting ordinary
// two-decimal monetary values like "19.99".
func Parse(s string) (Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero(), false
	}
	r := new(big.Rat)
	if _, ok := r.SetString(s); !ok {
		return Zero(), false
	}
	return Decimal{r: r}, true
}

func (d Decimal) rat() *big.Rat {
	if d.r == nil {
		return new(big.Rat)
	}
	return d.r
}

// Add returns d + o.
func (d Decimal) Add(o Decimal) Decimal { return Decimal{r: new(big.Rat).Add(d.rat(), o.rat())} }

// Sub returns d - o.
func (d Decimal) Sub(o Decimal) Decimal { return Decimal{r: new(big.Rat).Sub(d.rat(), o.rat())} }

// Mul returns d * o.
func (d Decimal) Mul(o Decimal) Decimal { return Decimal{r: new(big.Rat).Mul(d.rat(), o.rat())} }

// Div returns d / o. Division by zero yields Zero per spec.md §9 note 1.
func (d Decimal) Div(o Decimal) Decimal {
	if o.IsZero() {
		return Zero()
	}
	return Decimal{r: new(big.Rat).Quo(d.rat(), o.rat())}
}

// Mod returns the floating-point-style remainder of d / o: d - o*trunc(d/o),
// computed in exact rational arithmetic so it doesn't lose precision on
// non-dyadic operands. Modulo by zero yields Zero per spec.md §9 note 1.
func (d Decimal) Mod(o Decimal) Decimal {
	if o.IsZero() {
		return Zero()
	}
	q := new(big.Rat).Quo(d.rat(), o.rat())
	qTrunc := new(big.Int).Quo(q.Num(), q.Denom())
	qTruncRat := new(big.Rat).SetInt(qTrunc)
	rem := new(big.Rat).Sub(d.rat(), new(big.Rat).Mul(qTruncRat, o.rat()))
	return Decimal{r: rem}
}

// Neg returns -d.
func (d Decimal) Neg() Decimal { return Decimal{r: new(big.Rat).Neg(d.rat())} }

// Abs returns the absolute value of d.
func (d Decimal) Abs() Decimal {
	if d.Sign() < 0 {
		return d.Neg()
	}
	return d
}

// Sign returns -1, 0, or 1.
func (d Decimal) Sign() int { return d.rat().Sign() }

// IsZero reports whether d equals zero.
func (d Decimal) IsZero() bool { return d.rat().Sign() == 0 }

// Cmp compares d to o: -1, 0, or 1.
func (d Decimal) Cmp(o Decimal) int { return d.rat().Cmp(o.rat()) }

// Equal reports structural/numeric equality.
func (d Decimal) Equal(o Decimal) bool { return d.Cmp(o) == 0 }

// Float64 converts to a float64 (used by Int64, Floor and Ceil; Round
// stays in exact arithmetic).
func (d Decimal) Float64() float64 {
	f, _ := d.rat().Float64()
	return f
}

// Int64 truncates toward zero and returns an int64 (used for loop bounds
// and array indices).
func (d Decimal) Int64() int64 {
	f := d.Float64()
	return int64(f)
}

// Floor rounds toward negative infinity.
func (d Decimal) Floor() Decimal {
	f := d.Float64()
	i := int64(f)
	if f < 0 && float64(i) != f {
		i--
	}
	return FromInt64(i)
}

// Ceil rounds toward positive infinity.
func (d Decimal) Ceil() Decimal {
	f := d.Float64()
	i := int64(f)
	if f > 0 && float64(i) != f {
		i++
	}
	return FromInt64(i)
}

// Round rounds to the given number of fractional digits (half away from
// zero), matching the invariant decimal display used throughout spec.md's
// worked examples (e.g. 15.50). Works entirely in big.Int/big.Rat exact
// arithmetic; never routes through float64, so it doesn't reintroduce the
// binary-approximation errors Parse avoids.
func (d Decimal) Round(digits int) Decimal {
	if digits < 0 {
		digits = 0
	}
	scaleInt := pow10Int(digits)
	scaleRat := new(big.Rat).SetInt(scaleInt)
	scaled := new(big.Rat).Mul(d.rat(), scaleRat)

	num := scaled.Num()
	den := scaled.Denom()
	quotient, remainder := new(big.Int).QuoRem(num, den, new(big.Int))

	absRem2 := new(big.Int).Lsh(new(big.Int).Abs(remainder), 1)
	if absRem2.Cmp(den) >= 0 {
		if num.Sign() < 0 {
			quotient.Sub(quotient, big.NewInt(1))
		} else {
			quotient.Add(quotient, big.NewInt(1))
		}
	}

	result := new(big.Rat).SetFrac(quotient, scaleInt)
	return Decimal{r: result}
}

func pow10Int(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// String renders the decimal under the invariant locale: plain digits, a
// '.' decimal separator, no grouping, trailing fractional zeros trimmed,
// and integers rendered without a trailing ".0".
func (d Decimal) String() string {
	r := d.rat()
	if r.IsInt() {
		return r.Num().String()
	}
	// FloatString with generous precision, then trim trailing zeros/dot.
	s := r.FloatString(20)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}
