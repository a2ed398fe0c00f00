package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupKeywordCaseInsensitive(t *testing.T) {
	tests := []struct {
		body string
		want Kind
	}{
		{"let", KwLet},
		{"LET", KwLet},
		{"Foreach", KwForeach},
		{"endfunc", KwEndFunc},
	}
	for _, tt := range tests {
		got, ok := LookupKeyword(tt.body)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got)
	}
}

func TestLookupKeywordUnknown(t *testing.T) {
	_, ok := LookupKeyword("notakeyword")
	assert.False(t, ok)
}

func TestKindStringOperators(t *testing.T) {
	assert.Equal(t, "+", Plus.String())
	assert.Equal(t, "!=", BangEqual.String())
	assert.Equal(t, "&&", AndAnd.String())
	assert.Equal(t, "%let", KwLet.String())
}
