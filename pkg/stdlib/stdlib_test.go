package stdlib

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sandrolain/jex/pkg/decimal"
)

func mustParse(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, ok := decimal.Parse(s)
	require.True(t, ok)
	return d
}

// fakeCallContext is a minimal CallContext for exercising built-ins in
// isolation, grounded on the same interface runtime.Context implements.
type fakeCallContext struct {
	regexTimeoutMs int
	strict         bool
}

func (f fakeCallContext) RegexTimeoutMs() int { return f.regexTimeoutMs }
func (f fakeCallContext) Strict() bool        { return f.strict }

func newCtx() CallContext {
	return fakeCallContext{regexTimeoutMs: 1000}
}
