package stdlib

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/jex/pkg/value"
)

func TestNowReturnsUTCDateTime(t *testing.T) {
	v, err := fnNow(newCtx(), nil)
	require.NoError(t, err)
	require.Equal(t, value.KindDateTime, v.Kind())
	assert.Equal(t, time.UTC, v.AsTime().Location())
}

func TestParseDateDefaultLayout(t *testing.T) {
	v, err := fnParseDate(newCtx(), []Value{value.Str("2026-01-01T12:00:00Z")})
	require.NoError(t, err)
	require.Equal(t, value.KindDateTime, v.Kind())
	assert.Equal(t, 2026, v.AsTime().Year())
}

func TestParseDateNamedLayout(t *testing.T) {
	v, err := fnParseDate(newCtx(), []Value{value.Str("2026-01-01"), value.Str("date")})
	require.NoError(t, err)
	require.Equal(t, value.KindDateTime, v.Kind())
	assert.Equal(t, time.January, v.AsTime().Month())
}

func TestParseDateUnparseableYieldsNull(t *testing.T) {
	v, err := fnParseDate(newCtx(), []Value{value.Str("not a date")})
	require.NoError(t, err)
	assert.Equal(t, value.KindNull, v.Kind())
}

func TestFormatDate(t *testing.T) {
	dt := value.DateTime(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	v, err := fnFormatDate(newCtx(), []Value{dt, value.Str("date")})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", v.ToString())
}

func TestFormatDateRejectsNonDateTime(t *testing.T) {
	_, err := fnFormatDate(newCtx(), []Value{value.Str("not a date"), value.Str("date")})
	assert.Error(t, err)
}

func TestDateAddUnits(t *testing.T) {
	base := value.DateTime(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	v, err := fnDateAdd(newCtx(), []Value{base, value.Str("days"), value.NumberFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, 11, v.AsTime().Day())

	v, err = fnDateAdd(newCtx(), []Value{base, value.Str("months"), value.NumberFromInt(1)})
	require.NoError(t, err)
	assert.Equal(t, time.February, v.AsTime().Month())

	v, err = fnDateAdd(newCtx(), []Value{base, value.Str("years"), value.NumberFromInt(1)})
	require.NoError(t, err)
	assert.Equal(t, 2027, v.AsTime().Year())
}

func TestDateAddUnknownUnit(t *testing.T) {
	base := value.DateTime(time.Now())
	_, err := fnDateAdd(newCtx(), []Value{base, value.Str("fortnights"), value.NumberFromInt(1)})
	assert.Error(t, err)
}

func TestDateDiffDays(t *testing.T) {
	a := value.DateTime(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	b := value.DateTime(time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC))
	v, err := fnDateDiff(newCtx(), []Value{a, b, value.Str("days")})
	require.NoError(t, err)
	assert.Equal(t, "2", v.ToString())
}

func TestDateDiffUnknownUnit(t *testing.T) {
	a := value.DateTime(time.Now())
	b := value.DateTime(time.Now())
	_, err := fnDateDiff(newCtx(), []Value{a, b, value.Str("fortnights")})
	assert.Error(t, err)
}
