package stdlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/jex/pkg/value"
)

func TestAbs(t *testing.T) {
	v, err := fnAbs(newCtx(), []Value{value.NumberFromInt(-5)})
	require.NoError(t, err)
	assert.Equal(t, "5", v.ToString())
}

func TestMinMax(t *testing.T) {
	v, err := fnMin(newCtx(), []Value{value.NumberFromInt(3), value.NumberFromInt(7)})
	require.NoError(t, err)
	assert.Equal(t, "3", v.ToString())

	v, err = fnMax(newCtx(), []Value{value.NumberFromInt(3), value.NumberFromInt(7)})
	require.NoError(t, err)
	assert.Equal(t, "7", v.ToString())
}

func TestRoundDefaultDigits(t *testing.T) {
	v, err := fnRound(newCtx(), []Value{value.Number(mustParse(t, "2.5"))})
	require.NoError(t, err)
	assert.Equal(t, "3", v.ToString())
}

func TestRoundWithDigits(t *testing.T) {
	v, err := fnRound(newCtx(), []Value{value.Number(mustParse(t, "1.25")), value.NumberFromInt(1)})
	require.NoError(t, err)
	assert.Equal(t, "1.3", v.ToString())
}

func TestFloorCeil(t *testing.T) {
	v, err := fnFloor(newCtx(), []Value{value.Number(mustParse(t, "2.9"))})
	require.NoError(t, err)
	assert.Equal(t, "2", v.ToString())

	v, err = fnCeil(newCtx(), []Value{value.Number(mustParse(t, "2.1"))})
	require.NoError(t, err)
	assert.Equal(t, "3", v.ToString())
}
