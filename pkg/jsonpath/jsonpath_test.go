package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/jex/pkg/value"
)

func TestParseSegments(t *testing.T) {
	tests := []struct {
		name string
		path string
		want Path
	}{
		{"dot path", "$.a.b", Path{Segments: []Segment{{Kind: SegName, Name: "a"}, {Kind: SegName, Name: "b"}}}},
		{"index", "$.items[0]", Path{Segments: []Segment{{Kind: SegName, Name: "items"}, {Kind: SegIndex, Index: 0}}}},
		{"bracket string", "$.a['k']", Path{Segments: []Segment{{Kind: SegName, Name: "a"}, {Kind: SegName, Name: "k"}}}},
		{"wildcard", "$.items[*]", Path{Segments: []Segment{{Kind: SegName, Name: "items"}, {Kind: SegWildcard}}}},
		{"in root", "$in.x", Path{Root: RootIn, Segments: []Segment{{Kind: SegName, Name: "x"}}}},
		{"out root", "$out.y", Path{Root: RootOut, Segments: []Segment{{Kind: SegName, Name: "y"}}}},
		{"meta root", "$meta.z", Path{Root: RootMeta, Segments: []Segment{{Kind: SegName, Name: "z"}}}},
		{"bare no dollar", "a.b", Path{Segments: []Segment{{Kind: SegName, Name: "a"}, {Kind: SegName, Name: "b"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Root, got.Root)
			assert.Equal(t, tt.want.Segments, got.Segments)
		})
	}
}

func TestParseUnterminatedBracket(t *testing.T) {
	_, err := Parse("$.a[0")
	assert.Error(t, err)
}

func TestParseInvalidIndex(t *testing.T) {
	_, err := Parse("$.a[x]")
	assert.Error(t, err)
}

func TestQueryAllAndFirst(t *testing.T) {
	obj := value.NewObject()
	items := []value.Node{}
	for i := 0; i < 3; i++ {
		item := value.NewObject()
		item.Set("id", float64(i))
		items = append(items, item)
	}
	obj.Set("items", items)

	p, err := Parse("$.items[1].id")
	require.NoError(t, err)

	v, ok := First(obj, p)
	require.True(t, ok)
	assert.Equal(t, float64(1), v)
}

func TestQueryAllWildcard(t *testing.T) {
	obj := value.NewObject()
	var items []value.Node
	for i := 0; i < 3; i++ {
		item := value.NewObject()
		item.Set("n", float64(i*10))
		items = append(items, item)
	}
	obj.Set("items", items)

	p, err := Parse("$.items[*].n")
	require.NoError(t, err)

	matches, existed := QueryAll(obj, p)
	require.True(t, existed)
	require.Len(t, matches, 3)
	assert.Equal(t, float64(0), matches[0])
	assert.Equal(t, float64(10), matches[1])
	assert.Equal(t, float64(20), matches[2])
}

func TestFirstMissingPathReturnsNotFound(t *testing.T) {
	obj := value.NewObject()
	p, err := Parse("$.missing.deep")
	require.NoError(t, err)

	_, ok := First(obj, p)
	assert.False(t, ok)
}

func TestSetCreatesIntermediateObjects(t *testing.T) {
	p, err := Parse("$.a.b.c")
	require.NoError(t, err)

	root, err := Set(nil, p, "leaf")
	require.NoError(t, err)

	obj, ok := root.(*value.Object)
	require.True(t, ok)

	v, ok := First(obj, p)
	require.True(t, ok)
	assert.Equal(t, "leaf", v)
}

func TestSetExtendsArrayWithNulls(t *testing.T) {
	p, err := Parse("$.items[2]")
	require.NoError(t, err)

	root, err := Set(nil, p, "end")
	require.NoError(t, err)

	obj := root.(*value.Object)
	items, ok := obj.Get("items")
	require.True(t, ok)

	arr := items.([]value.Node)
	require.Len(t, arr, 3)
	assert.Nil(t, arr[0])
	assert.Nil(t, arr[1])
	assert.Equal(t, "end", arr[2])
}

func TestSetRejectsFieldIntoArray(t *testing.T) {
	arr := []value.Node{"x"}
	p, err := Parse("$.name")
	require.NoError(t, err)

	_, err = Set(arr, p, "y")
	assert.Error(t, err)
}

func TestSetRejectsNegativeIndex(t *testing.T) {
	p, err := Parse("$.items[-1]")
	require.NoError(t, err)

	_, err = Set(nil, p, "x")
	assert.Error(t, err)
}

func TestPathStringRoundTrip(t *testing.T) {
	inputs := []string{"$.a.b[0]", "$in.x", "$out.y[*]", "$meta.z"}
	for _, in := range inputs {
		p, err := Parse(in)
		require.NoError(t, err)
		assert.Equal(t, in, p.String())
	}
}
