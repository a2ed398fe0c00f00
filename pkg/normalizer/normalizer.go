// Package normalizer implements the standalone JSON-in-string
// preprocessor of spec.md §4.7: a pure transformation over a JSON node,
// independent of script execution, that recursively parses string
// leaves which look like embedded JSON and replaces them in place.
//
// Grounded on pkg/stdlib's expandJson/expandJsonAll (same "does this
// string look like JSON, try to parse it, recurse into the result"
// shape), generalized with the bounded node/replacement/depth counters
// and the "unescape one layer and retry" fallback this component adds
// on top of the simpler stdlib builtins.
package normalizer

import (
	"strconv"
	"strings"

	"github.com/sandrolain/jex/pkg/jexerrors"
	"github.com/sandrolain/jex/pkg/value"
)

// Options configures a Normalize pass, per spec.md §4.7.
type Options struct {
	MaxDepthPerString    int
	MaxNodesVisited      int
	MaxTotalReplacements int
	MaxStringLength      int
	Strict               bool
}

// DefaultOptions returns the spec-documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxDepthPerString:    5,
		MaxNodesVisited:      250_000,
		MaxTotalReplacements: 50_000,
		MaxStringLength:      256_000,
		Strict:               false,
	}
}

type state struct {
	opts         Options
	nodesVisited int
	replacements int
}

// Normalize returns a transformed deep clone of n; n itself is never
// mutated (spec.md §8's testable property 3: "the normalizer never
// mutates its argument").
func Normalize(n value.Node, opts Options) (value.Node, error) {
	st := &state{opts: opts}
	clone := value.CloneNode(n)
	return st.walk(clone)
}

func (st *state) bumpNode() error {
	st.nodesVisited++
	if st.nodesVisited > st.opts.MaxNodesVisited {
		return jexerrors.NewLimitExceeded(jexerrors.LimitNodesVisited, st.opts.MaxNodesVisited)
	}
	return nil
}

func (st *state) bumpReplacement() error {
	st.replacements++
	if st.replacements > st.opts.MaxTotalReplacements {
		return jexerrors.NewLimitExceeded(jexerrors.LimitTotalReplace, st.opts.MaxTotalReplacements)
	}
	return nil
}

// walk visits n, replacing string leaves that parse as JSON (after up to
// MaxDepthPerString rounds of quote-unescaping) with their parsed form,
// and recursing into the replacement as a freshly visited node.
func (st *state) walk(n value.Node) (value.Node, error) {
	if err := st.bumpNode(); err != nil {
		return nil, err
	}
	switch v := n.(type) {
	case string:
		return st.walkString(v)
	case []value.Node:
		out := make([]value.Node, len(v))
		for i, e := range v {
			r, err := st.walk(e)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	case *value.Object:
		for _, k := range v.Keys() {
			el, _ := v.Get(k)
			r, err := st.walk(el)
			if err != nil {
				return nil, err
			}
			v.Set(k, r)
		}
		return v, nil
	default:
		return n, nil
	}
}

// walkString attempts to parse s as JSON; on failure it tries unescaping
// one layer (interpreting s as a JSON string literal) and retrying, up
// to MaxDepthPerString layers.
func (st *state) walkString(s string) (value.Node, error) {
	if len(s) > st.opts.MaxStringLength {
		return s, nil
	}
	if !looksLikeJSON(s) {
		return s, nil
	}

	candidate := s
	for depth := 0; depth < st.opts.MaxDepthPerString; depth++ {
		parsed, err := value.ParseJSON(candidate)
		if err == nil {
			if err := st.bumpReplacement(); err != nil {
				return nil, err
			}
			return st.walk(parsed)
		}
		unescaped, ok := unescapeLayer(candidate)
		if !ok {
			break
		}
		candidate = unescaped
	}

	if st.opts.Strict {
		return nil, jexerrors.NewRuntimeError("normalizer: string does not parse as JSON after %d layers", st.opts.MaxDepthPerString)
	}
	return s, nil
}

// looksLikeJSON reports whether s is a plausible JSON-in-string
// candidate: trimmed length at least 2, first/last characters forming a
// matching object or array bracket pair.
func looksLikeJSON(s string) bool {
	t := strings.TrimSpace(s)
	if len(t) < 2 {
		return false
	}
	first, last := t[0], t[len(t)-1]
	return (first == '{' && last == '}') || (first == '[' && last == ']')
}

// unescapeLayer peels one layer of backslash-escaping by treating s as
// the body of a string literal (adding the surrounding quotes when s is
// not already quoted) and unquoting it. It reports false when unquoting
// fails or leaves s unchanged.
func unescapeLayer(s string) (string, bool) {
	t := strings.TrimSpace(s)
	if !(len(t) >= 2 && t[0] == '"' && t[len(t)-1] == '"') {
		t = `"` + t + `"`
	}
	unquoted, err := strconv.Unquote(t)
	if err != nil || unquoted == s {
		return "", false
	}
	return unquoted, true
}
