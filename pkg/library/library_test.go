package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndLookup(t *testing.T) {
	m := NewManager()
	_, err := m.Load("mathx", `%func square(x); %return x * x; %endfunc;`)
	require.NoError(t, err)

	fn, ok := m.Lookup("square")
	require.True(t, ok)
	assert.Equal(t, "square", fn.Name)

	_, ok = m.Lookup("missing")
	assert.False(t, ok)
}

func TestLoadRejectsNonFunctionStatement(t *testing.T) {
	m := NewManager()
	_, err := m.Load("bad", `%let x = 1;`)
	assert.Error(t, err)
}

func TestLoadRejectsEmptyLibrary(t *testing.T) {
	m := NewManager()
	_, err := m.Load("empty", ``)
	assert.Error(t, err)
}

func TestLoadRejectsDuplicateFunctionNameWithinSource(t *testing.T) {
	m := NewManager()
	_, err := m.Load("dup", `
%func f(x); %return x; %endfunc;
%func f(x); %return x * 2; %endfunc;
`)
	assert.Error(t, err)
}

func TestReloadReplacesInPlacePreservingOrder(t *testing.T) {
	m := NewManager()
	_, err := m.Load("first", `%func a(); %return 1; %endfunc;`)
	require.NoError(t, err)
	_, err = m.Load("second", `%func b(); %return 2; %endfunc;`)
	require.NoError(t, err)

	_, err = m.Load("first", `%func a(); %return 99; %endfunc;`)
	require.NoError(t, err)

	libs := m.Libraries()
	require.Len(t, libs, 2)
	assert.Equal(t, "first", libs[0].Name, "reloading must not move the library's position")
	assert.Equal(t, "second", libs[1].Name)

	fn, ok := m.Lookup("a")
	require.True(t, ok)
	require.Len(t, fn.Body, 1)
}

func TestLookupRespectsInsertionOrderAcrossLibraries(t *testing.T) {
	m := NewManager()
	_, err := m.Load("libA", `%func shared(); %return 1; %endfunc;`)
	require.NoError(t, err)
	_, err = m.Load("libB", `%func shared(); %return 2; %endfunc;`)
	require.NoError(t, err)

	fn, ok := m.Lookup("shared")
	require.True(t, ok)
	require.NotNil(t, fn)

	libs := m.Libraries()
	first := libs[0]
	_, inFirst := first.Functions["shared"]
	assert.True(t, inFirst, "the first-loaded library's function wins on name collision")
}
