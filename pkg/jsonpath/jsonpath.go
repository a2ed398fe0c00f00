// Package jsonpath implements the literal-path subset of JSONPath that
// spec.md §4.2/§4.4 defines: a chain of ".name", "[integer]",
// "['string']"/"[\"string\"]", or "[*]" segments, used both by the
// "$.a.b[0]" JsonPathLit literal syntax and by the jp1/jpAll/coalescePath/
// existsPath/setPath standard-library builtins.
//
// Grounded on other_examples/njchilds90-go-jsonpath__jsonpath.go's
// segment-walking design (Result{Path,Value}, functional construction),
// trimmed to the literal-path grammar JEX's own parser produces — no
// recursive descent ("..") or filter expressions, since JEX's grammar
// never emits those.
package jsonpath

import (
	"strconv"
	"strings"

	"github.com/sandrolain/jex/pkg/jexerrors"
	"github.com/sandrolain/jex/pkg/value"
)

// SegmentKind distinguishes path segment forms.
type SegmentKind uint8

const (
	SegName SegmentKind = iota
	SegIndex
	SegWildcard
)

// Segment is one step of a compiled path.
type Segment struct {
	Kind  SegmentKind
	Name  string
	Index int
}

// Root identifies which of $in/$out/$meta (if any) a path was anchored to.
type Root string

const (
	RootNone Root = ""
	RootIn   Root = "in"
	RootOut  Root = "out"
	RootMeta Root = "meta"
)

// Path is a compiled path: an optional root marker plus a segment chain.
type Path struct {
	Root     Root
	Segments []Segment
}

// Parse compiles a path string such as "$.a.b[0].c", "$.a['k'].b",
// "$.a[*]", "$in.x", "a.b[0]", or "a.b[0]" (no leading '$') into a Path.
//
// Per spec.md §4.4: strip the leading '$' and any of the in/out/meta root
// markers, then split the remainder into name/index/wildcard segments.
func Parse(path string) (*Path, error) {
	s := path
	if strings.HasPrefix(s, "$") {
		s = s[1:]
	}

	p := &Path{}
	if strings.HasPrefix(s, ".") {
		s = s[1:]
	} else if s != "" && s[0] != '[' {
		// Possible root marker: consume the bareword up to '.' or '['.
		end := len(s)
		for i, r := range s {
			if r == '.' || r == '[' {
				end = i
				break
			}
		}
		word := s[:end]
		switch word {
		case "in", "out", "meta":
			p.Root = Root(word)
			s = s[end:]
			if strings.HasPrefix(s, ".") {
				s = s[1:]
			}
		default:
			// Not a recognized root marker: treat the whole bareword as
			// the first name segment.
		}
	}

	for len(s) > 0 {
		if s[0] == '[' {
			close := strings.IndexByte(s, ']')
			if close < 0 {
				return nil, jexerrors.NewRuntimeError("unterminated '[' in path %q", path)
			}
			inner := s[1:close]
			s = s[close+1:]
			switch {
			case inner == "*":
				p.Segments = append(p.Segments, Segment{Kind: SegWildcard})
			case len(inner) >= 2 && (inner[0] == '\'' || inner[0] == '"') && inner[len(inner)-1] == inner[0]:
				p.Segments = append(p.Segments, Segment{Kind: SegName, Name: inner[1 : len(inner)-1]})
			default:
				idx, err := strconv.Atoi(inner)
				if err != nil {
					return nil, jexerrors.NewRuntimeError("invalid index %q in path %q", inner, path)
				}
				p.Segments = append(p.Segments, Segment{Kind: SegIndex, Index: idx})
			}
			if strings.HasPrefix(s, ".") {
				s = s[1:]
			}
			continue
		}
		end := len(s)
		for i := 0; i < len(s); i++ {
			if s[i] == '.' || s[i] == '[' {
				end = i
				break
			}
		}
		name := s[:end]
		p.Segments = append(p.Segments, Segment{Kind: SegName, Name: name})
		s = s[end:]
		if strings.HasPrefix(s, ".") {
			s = s[1:]
		}
	}
	return p, nil
}

// String reassembles the canonical path text (used by the parser to
// materialize a JsonPathLit payload from `$.a.b[0]` source syntax).
func (p *Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	if p.Root != RootNone {
		b.WriteString(string(p.Root))
	}
	for _, seg := range p.Segments {
		switch seg.Kind {
		case SegName:
			b.WriteByte('.')
			b.WriteString(seg.Name)
		case SegIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
		case SegWildcard:
			b.WriteString("[*]")
		}
	}
	return b.String()
}

// QueryAll walks root and returns every node matching the path, plus
// whether the path's final element was structurally present (used by
// existsPath, which must return true for a present-but-null node).
func QueryAll(root value.Node, p *Path) (matches []value.Node, existed bool) {
	nodes := []value.Node{root}
	present := true
	for _, seg := range p.Segments {
		var next []value.Node
		present = false
		for _, n := range nodes {
			switch seg.Kind {
			case SegName:
				if obj, ok := n.(*value.Object); ok {
					if v, ok := obj.Get(seg.Name); ok {
						next = append(next, v)
						present = true
					}
				}
			case SegIndex:
				if arr, ok := n.([]value.Node); ok {
					idx := seg.Index
					if idx < 0 {
						idx += len(arr)
					}
					if idx >= 0 && idx < len(arr) {
						next = append(next, arr[idx])
						present = true
					}
				}
			case SegWildcard:
				if arr, ok := n.([]value.Node); ok {
					for _, e := range arr {
						next = append(next, e)
						present = true
					}
				}
			}
		}
		nodes = next
	}
	return nodes, present
}

// First returns the first match for the path, or (nil, false) if none.
func First(root value.Node, p *Path) (value.Node, bool) {
	matches, existed := QueryAll(root, p)
	if len(matches) == 0 {
		return nil, existed
	}
	return matches[0], true
}

// Set writes val at the path inside root, creating intermediate
// objects/arrays as needed and extending arrays with nulls to reach a
// requested index, per spec.md §4.4. Returns the (possibly new) root node
// — callers must store the result back, since extending an array may
// require replacing the slice header.
func Set(root value.Node, p *Path, val value.Node) (value.Node, error) {
	return setAt(root, p.Segments, val)
}

func setAt(node value.Node, segs []Segment, val value.Node) (value.Node, error) {
	if len(segs) == 0 {
		return val, nil
	}
	seg := segs[0]
	rest := segs[1:]

	switch seg.Kind {
	case SegIndex, SegWildcard:
		idx := seg.Index
		arr, ok := node.([]value.Node)
		if !ok {
			if node != nil {
				return nil, jexerrors.NewRuntimeError("cannot assign array index into non-array value")
			}
			arr = []value.Node{}
		}
		if idx < 0 {
			return nil, jexerrors.NewRuntimeError("negative array index %d", idx)
		}
		for len(arr) <= idx {
			arr = append(arr, nil)
		}
		newChild, err := setAt(arr[idx], rest, val)
		if err != nil {
			return nil, err
		}
		arr[idx] = newChild
		return arr, nil
	default: // SegName
		obj, ok := node.(*value.Object)
		if !ok {
			if node != nil {
				return nil, jexerrors.NewRuntimeError("cannot assign field %q into non-object value", seg.Name)
			}
			obj = value.NewObject()
		}
		child, _ := obj.Get(seg.Name)
		newChild, err := setAt(child, rest, val)
		if err != nil {
			return nil, err
		}
		obj.Set(seg.Name, newChild)
		return obj, nil
	}
}
