package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSetRoundTrip(t *testing.T) {
	c := New(4)
	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestNewWithNonPositiveCapacityUsesDefault(t *testing.T) {
	c := New(0)
	assert.Equal(t, 256, c.Capacity())
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3) // evicts "a" since it's least recently used

	_, ok := c.Get("a")
	assert.False(t, ok)

	_, ok = c.Get("b")
	assert.True(t, ok)

	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestGetPromotesToMostRecentlyUsed(t *testing.T) {
	c := New(2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // touch "a" so it's no longer the LRU entry
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted instead of a")

	_, ok = c.Get("a")
	assert.True(t, ok)
}

func TestGetOrCompileCallsComputeOnceThenCaches(t *testing.T) {
	c := New(4)
	calls := 0
	compile := func() (interface{}, error) {
		calls++
		return "compiled", nil
	}

	v, err := c.GetOrCompile("key", compile)
	require.NoError(t, err)
	assert.Equal(t, "compiled", v)

	v, err = c.GetOrCompile("key", compile)
	require.NoError(t, err)
	assert.Equal(t, "compiled", v)
	assert.Equal(t, 1, calls, "compile must only run once per key")
}

func TestGetOrCompileDoesNotCacheErrors(t *testing.T) {
	c := New(4)
	wantErr := errors.New("boom")
	calls := 0
	_, err := c.GetOrCompile("key", func() (interface{}, error) {
		calls++
		return nil, wantErr
	})
	assert.Equal(t, wantErr, err)

	_, err = c.GetOrCompile("key", func() (interface{}, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "a failed compile is not cached, so the next call retries")
}

func TestInvalidateAndClear(t *testing.T) {
	c := New(4)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}
