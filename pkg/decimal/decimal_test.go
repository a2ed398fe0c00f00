package decimal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"integer", "42", "42", true},
		{"decimal", "15.50", "15.5", true},
		{"negative", "-3.25", "-3.25", true},
		{"exponent", "1e2", "100", true},
		{"empty", "", "0", false},
		{"garbage", "abc", "0", false},
		// Non-dyadic two-decimal monetary values: not exactly representable
		// as a binary fraction, so these catch any regression back to a
		// float64 intermediate (which would yield "19.98999999999999843681").
		{"non-dyadic monetary", "19.99", "19.99", true},
		{"non-dyadic monetary, three digits", "154.97", "154.97", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Parse(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestArithmetic(t *testing.T) {
	a := FromInt64(10)
	b := FromInt64(3)

	assert.Equal(t, "13", a.Add(b).String())
	assert.Equal(t, "7", a.Sub(b).String())
	assert.Equal(t, "30", a.Mul(b).String())
	assert.Equal(t, "-10", a.Neg().String())
}

func TestDivByZeroYieldsZero(t *testing.T) {
	a := FromInt64(10)
	zero := Zero()

	assert.True(t, a.Div(zero).IsZero(), "division by zero must yield Zero per design note 1")
	assert.True(t, a.Mod(zero).IsZero(), "modulo by zero must yield Zero per design note 1")
}

func TestCmpAndEqual(t *testing.T) {
	a, _ := Parse("1.50")
	b, _ := Parse("1.5")

	assert.Equal(t, 0, a.Cmp(b))
	assert.True(t, a.Equal(b))

	c := FromInt64(2)
	assert.Equal(t, -1, a.Cmp(c))
	assert.Equal(t, 1, c.Cmp(a))
}

func TestRound(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		digits int
		want   string
	}{
		{"round half up", "1.25", 1, "1.3"},
		{"already exact", "15.50", 2, "15.5"},
		{"zero digits", "2.5", 0, "3"},
		{"negative half away from zero", "-1.5", 0, "-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Parse(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, d.Round(tt.digits).String())
		})
	}
}

func TestRoundNonDyadicProductMatchesWorkedExample(t *testing.T) {
	// 154.97 * 0.1 = 15.497, rounded half-away-from-zero to 2 digits = 15.50
	// (displayed as "15.5" under the invariant format's trailing-zero trim).
	// This is the exact computation spec.md §8 Scenario A's discount relies
	// on; it would silently misround under a float64-backed Mul/Round.
	subtotal, ok := Parse("154.97")
	require.True(t, ok)
	tenPercent, ok := Parse("0.1")
	require.True(t, ok)

	discount := subtotal.Mul(tenPercent).Round(2)
	assert.Equal(t, "15.5", discount.String())
}

func TestModNonDyadicOperands(t *testing.T) {
	a, ok := Parse("19.99")
	require.True(t, ok)
	b, ok := Parse("5")
	require.True(t, ok)

	// 19.99 = 3*5 + 4.99
	assert.Equal(t, "4.99", a.Mod(b).String())
}

func TestFloorCeil(t *testing.T) {
	pos, _ := Parse("2.3")
	neg, _ := Parse("-2.3")

	assert.Equal(t, "2", pos.Floor().String())
	assert.Equal(t, "3", pos.Ceil().String())
	assert.Equal(t, "-3", neg.Floor().String())
	assert.Equal(t, "-2", neg.Ceil().String())
}

func TestInt64Truncation(t *testing.T) {
	d, _ := Parse("7.9")
	assert.Equal(t, int64(7), d.Int64())

	neg, _ := Parse("-7.9")
	assert.Equal(t, int64(-7), neg.Int64())
}

func TestStringIntegerHasNoTrailingDot(t *testing.T) {
	d := FromInt64(100)
	assert.Equal(t, "100", d.String())
}
